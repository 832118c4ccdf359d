package ir

import "fmt"

// ResolveBinary returns the result type of lhs op rhs, or an error when the
// operands are not valid for the operator.
//
//nolint:gocyclo,cyclop // one case per operator family
func ResolveBinary(op BinaryOperator, lhs, rhs NumType) (NumType, error) {
	switch op {
	case BinaryAdd, BinarySubtract, BinaryMultiply, BinaryDivide, BinaryModulo:
		return ResolveArithmetic(op, lhs, rhs)
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual:
		return ResolveComparison(op, lhs, rhs)
	case BinaryAnd, BinaryExclusiveOr, BinaryInclusiveOr:
		return ResolveBitwise(lhs, rhs)
	case BinaryShiftLeft, BinaryShiftRight:
		return ResolveShift(lhs, rhs)
	case BinaryMin, BinaryMax, BinaryPow:
		if err := validateArithmeticOperand(lhs); err != nil {
			return NumType{}, err
		}
		if lhs.IsMatrix() || rhs.IsMatrix() {
			return NumType{}, fmt.Errorf("%s does not accept matrices", op)
		}
		if op == BinaryPow {
			if err := validateFloatOperand(lhs); err != nil {
				return NumType{}, err
			}
		}
		if err := ValidateBroadcast(lhs, rhs); err != nil {
			return NumType{}, err
		}
		return widest(lhs, rhs), nil
	case BinaryDot:
		return ResolveDot(lhs, rhs)
	case BinaryCross:
		return ResolveCross(lhs, rhs)
	case BinaryMatMul:
		return ResolveMatMul(lhs, rhs)
	default:
		return NumType{}, fmt.Errorf("unknown binary operator %d", op)
	}
}

// ResolveArithmetic handles + - * / %. A scalar operand broadcasts to the
// other operand's width.
func ResolveArithmetic(op BinaryOperator, lhs, rhs NumType) (NumType, error) {
	if err := validateArithmeticOperand(lhs); err != nil {
		return NumType{}, err
	}
	if err := validateArithmeticOperand(rhs); err != nil {
		return NumType{}, err
	}

	if lhs.IsMatrix() || rhs.IsMatrix() {
		switch op {
		case BinaryAdd, BinarySubtract:
			if lhs != rhs {
				return NumType{}, fmt.Errorf("cannot %s %s and %s", op, lhs, rhs)
			}
			return lhs, nil
		case BinaryMultiply:
			if lhs.IsMatrix() && rhs.IsScalar() && rhs.Base == Float32 {
				return lhs, nil
			}
			if rhs.IsMatrix() && lhs.IsScalar() && lhs.Base == Float32 {
				return rhs, nil
			}
			return ResolveMatMul(lhs, rhs)
		default:
			return NumType{}, fmt.Errorf("%s does not accept matrices", op)
		}
	}

	if err := ValidateBroadcast(lhs, rhs); err != nil {
		return NumType{}, err
	}
	return widest(lhs, rhs), nil
}

// ResolveComparison requires identical operand types and produces a bool of
// the same width.
func ResolveComparison(op BinaryOperator, lhs, rhs NumType) (NumType, error) {
	if err := ValidateSameType(lhs, rhs); err != nil {
		return NumType{}, err
	}
	if lhs.IsMatrix() {
		return NumType{}, fmt.Errorf("cannot compare matrices")
	}
	if lhs.Base == Bool && op != BinaryEqual && op != BinaryNotEqual {
		return NumType{}, fmt.Errorf("%s is not defined for %s", op, lhs)
	}
	return Vector(Bool, lhs.Components), nil
}

// ResolveBitwise handles & ^ | on integers.
func ResolveBitwise(lhs, rhs NumType) (NumType, error) {
	if !lhs.IsInteger() || lhs.IsMatrix() {
		return NumType{}, fmt.Errorf("bitwise operators require integers, got %s", lhs)
	}
	if err := ValidateBroadcast(lhs, rhs); err != nil {
		return NumType{}, err
	}
	return widest(lhs, rhs), nil
}

// ResolveShift handles << and >>. The shift amount may be any integer kind;
// it is converted to u32 when emitted.
func ResolveShift(lhs, rhs NumType) (NumType, error) {
	if !lhs.IsInteger() || lhs.IsMatrix() {
		return NumType{}, fmt.Errorf("shift requires an integer value, got %s", lhs)
	}
	if !rhs.IsInteger() || rhs.IsMatrix() {
		return NumType{}, fmt.Errorf("shift amount must be an integer, got %s", rhs)
	}
	if rhs.Components != 1 && rhs.Components != lhs.Components {
		return NumType{}, fmt.Errorf("cannot shift %d components by %d components", lhs.Components, rhs.Components)
	}
	return lhs, nil
}

// ResolveDot requires two identical float vectors and produces a scalar.
func ResolveDot(lhs, rhs NumType) (NumType, error) {
	if err := ValidateFloatVector(lhs); err != nil {
		return NumType{}, err
	}
	if err := ValidateSameType(lhs, rhs); err != nil {
		return NumType{}, err
	}
	return lhs.Element(), nil
}

// ResolveCross requires two identical 3-component float vectors.
func ResolveCross(lhs, rhs NumType) (NumType, error) {
	if err := ValidateFloatVector(lhs); err != nil {
		return NumType{}, err
	}
	if err := ValidateSameType(lhs, rhs); err != nil {
		return NumType{}, err
	}
	if lhs.Components != 3 {
		return NumType{}, fmt.Errorf("cross requires 3 components, got %d", lhs.Components)
	}
	return lhs, nil
}

// ResolveMatMul validates square-matrix × (vector|matrix) and returns the
// right operand's type.
func ResolveMatMul(lhs, rhs NumType) (NumType, error) {
	if err := validateMatMul(lhs, rhs); err != nil {
		return NumType{}, err
	}
	return rhs, nil
}

// ResolveUnary returns the result type of op applied to t.
//
//nolint:gocyclo,cyclop // one case per operator family
func ResolveUnary(op UnaryOperator, t NumType) (NumType, error) {
	if t.Atomic {
		return NumType{}, fmt.Errorf("%s on atomic %s requires an atomic builtin", op, t)
	}
	switch op {
	case UnaryNegate:
		if t.Base == Bool || !t.Base.IsSigned() {
			return NumType{}, fmt.Errorf("cannot negate %s", t)
		}
		return t, nil
	case UnaryLogicalNot:
		if t.Base != Bool {
			return NumType{}, fmt.Errorf("logical not requires a bool, got %s", t)
		}
		return t, nil
	case UnaryBitwiseNot:
		if !t.IsInteger() || t.IsMatrix() {
			return NumType{}, fmt.Errorf("bitwise not requires an integer, got %s", t)
		}
		return t, nil
	case UnaryAbs:
		if t.Base == Bool || t.IsMatrix() {
			return NumType{}, fmt.Errorf("abs requires a numeric scalar or vector, got %s", t)
		}
		return t, nil
	case UnarySign:
		if t.Base == Bool || t.IsMatrix() || !t.Base.IsSigned() {
			return NumType{}, fmt.Errorf("sign requires a signed scalar or vector, got %s", t)
		}
		return t, nil
	case UnaryNormalize:
		if err := ValidateFloatVector(t); err != nil {
			return NumType{}, err
		}
		return t, nil
	case UnaryLength:
		if err := validateFloatOperand(t); err != nil {
			return NumType{}, err
		}
		return t.Element(), nil
	default:
		if op > UnaryLength {
			return NumType{}, fmt.Errorf("unknown unary operator %d", op)
		}
		if err := validateFloatOperand(t); err != nil {
			return NumType{}, fmt.Errorf("%s: %w", op, err)
		}
		return t, nil
	}
}

// widest returns whichever operand has more components.
func widest(a, b NumType) NumType {
	if b.Components > a.Components {
		return b
	}
	return a
}

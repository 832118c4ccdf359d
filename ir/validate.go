package ir

import "fmt"

// ValidateBroadcast checks that two numeric operands can be combined
// element-wise: their base types must match and either one of them is a
// single component (broadcast to the other's width) or both have the same
// width.
func ValidateBroadcast(a, b NumType) error {
	if a.Base != b.Base {
		return fmt.Errorf("base types differ: %s and %s", a.Base, b.Base)
	}
	if a.Components == 1 || b.Components == 1 || a.Components == b.Components {
		return nil
	}
	return fmt.Errorf("cannot combine %d and %d components", a.Components, b.Components)
}

// ValidateSameType checks that two numeric operands have identical types.
func ValidateSameType(a, b NumType) error {
	if a != b {
		return fmt.Errorf("operand types differ: %s and %s", a, b)
	}
	return nil
}

// ValidateFloatVector checks that t is a float vector.
func ValidateFloatVector(t NumType) error {
	if !t.IsVector() || !t.IsFloat() {
		return fmt.Errorf("expected a float vector, got %s", t)
	}
	return nil
}

func validateArithmeticOperand(t NumType) error {
	if t.Base == Bool {
		return fmt.Errorf("arithmetic on %s is not supported", t)
	}
	if t.Atomic {
		return fmt.Errorf("arithmetic on atomic %s requires an atomic builtin", t)
	}
	return nil
}

func validateFloatOperand(t NumType) error {
	if !t.IsFloat() {
		return fmt.Errorf("expected a float type, got %s", t)
	}
	if t.IsMatrix() {
		return fmt.Errorf("expected a float scalar or vector, got %s", t)
	}
	return nil
}

// validateMatMul checks square-matrix × (vector|matrix) dimensions.
func validateMatMul(lhs, rhs NumType) error {
	if !lhs.IsSquareMatrix() {
		return fmt.Errorf("left operand must be a square matrix, got %s", lhs)
	}
	if rhs.Base != Float32 {
		return fmt.Errorf("right operand must be Float32, got %s", rhs)
	}
	dim := lhs.MatrixDimension
	switch {
	case rhs.IsMatrix():
		if !rhs.IsSquareMatrix() || rhs.MatrixDimension != dim {
			return fmt.Errorf("cannot multiply %s by %s", lhs, rhs)
		}
	case rhs.IsVector():
		if rhs.Components != dim {
			return fmt.Errorf("cannot multiply %s by %d-component vector", lhs, rhs.Components)
		}
	default:
		return fmt.Errorf("right operand must be a vector or matrix, got %s", rhs)
	}
	return nil
}

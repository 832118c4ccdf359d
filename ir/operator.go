package ir

// BinaryOperator represents two-operand operations.
type BinaryOperator uint8

const (
	// Arithmetic
	BinaryAdd      BinaryOperator = iota // Addition
	BinarySubtract                       // Subtraction
	BinaryMultiply                       // Multiplication
	BinaryDivide                         // Division
	BinaryModulo                         // Modulo (remainder)

	// Comparison
	BinaryEqual        // Equal (==)
	BinaryNotEqual     // Not equal (!=)
	BinaryLess         // Less than (<)
	BinaryLessEqual    // Less than or equal (<=)
	BinaryGreater      // Greater than (>)
	BinaryGreaterEqual // Greater than or equal (>=)

	// Bitwise
	BinaryAnd         // Bitwise AND
	BinaryExclusiveOr // Bitwise XOR
	BinaryInclusiveOr // Bitwise OR

	// Shift
	BinaryShiftLeft  // Left shift (<<)
	BinaryShiftRight // Right shift (>>)

	// Call forms
	BinaryMin    // min(a, b)
	BinaryMax    // max(a, b)
	BinaryPow    // pow(a, b)
	BinaryDot    // dot(a, b)
	BinaryCross  // cross(a, b)
	BinaryMatMul // a * b with matrix operands
)

var binaryNames = [...]string{
	BinaryAdd:          "Add",
	BinarySubtract:     "Subtract",
	BinaryMultiply:     "Multiply",
	BinaryDivide:       "Divide",
	BinaryModulo:       "Mod",
	BinaryEqual:        "Is",
	BinaryNotEqual:     "IsNot",
	BinaryLess:         "IsLess",
	BinaryLessEqual:    "IsLessEqual",
	BinaryGreater:      "IsMore",
	BinaryGreaterEqual: "IsMoreEqual",
	BinaryAnd:          "BitAnd",
	BinaryExclusiveOr:  "Xor",
	BinaryInclusiveOr:  "BitOr",
	BinaryShiftLeft:    "LShift",
	BinaryShiftRight:   "RShift",
	BinaryMin:          "Min",
	BinaryMax:          "Max",
	BinaryPow:          "Pow",
	BinaryDot:          "Dot",
	BinaryCross:        "Cross",
	BinaryMatMul:       "MatMul",
}

// String returns the host-facing opcode name of the operator.
func (op BinaryOperator) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "Binary?"
}

// ParseBinaryOperator maps a host-facing name back to an operator.
func ParseBinaryOperator(name string) (BinaryOperator, bool) {
	for i, n := range binaryNames {
		if n == name {
			return BinaryOperator(i), true
		}
	}
	return 0, false
}

// Symbol returns the infix WGSL operator, or "" for call forms.
func (op BinaryOperator) Symbol() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySubtract:
		return "-"
	case BinaryMultiply, BinaryMatMul:
		return "*"
	case BinaryDivide:
		return "/"
	case BinaryModulo:
		return "%"
	case BinaryEqual:
		return "=="
	case BinaryNotEqual:
		return "!="
	case BinaryLess:
		return "<"
	case BinaryLessEqual:
		return "<="
	case BinaryGreater:
		return ">"
	case BinaryGreaterEqual:
		return ">="
	case BinaryAnd:
		return "&"
	case BinaryExclusiveOr:
		return "^"
	case BinaryInclusiveOr:
		return "|"
	case BinaryShiftLeft:
		return "<<"
	case BinaryShiftRight:
		return ">>"
	default:
		return ""
	}
}

// CallName returns the WGSL builtin for call-form operators.
func (op BinaryOperator) CallName() string {
	switch op {
	case BinaryMin:
		return "min"
	case BinaryMax:
		return "max"
	case BinaryPow:
		return "pow"
	case BinaryDot:
		return "dot"
	case BinaryCross:
		return "cross"
	default:
		return ""
	}
}

// IsComparison reports whether op produces a boolean.
func (op BinaryOperator) IsComparison() bool {
	return op >= BinaryEqual && op <= BinaryGreaterEqual
}

// UnaryOperator represents single-operand operations.
type UnaryOperator uint8

const (
	UnaryNegate UnaryOperator = iota // -x
	UnaryLogicalNot                  // !x
	UnaryBitwiseNot                  // ~x
	UnaryAbs
	UnarySign
	UnarySin
	UnaryCos
	UnaryTan
	UnaryAsin
	UnaryAcos
	UnaryAtan
	UnarySinh
	UnaryCosh
	UnaryTanh
	UnaryExp
	UnaryExp2
	UnaryLog
	UnaryLog2
	UnarySqrt
	UnaryInverseSqrt
	UnaryFloor
	UnaryCeil
	UnaryRound
	UnaryFract
	UnaryNormalize
	UnaryLength
)

var unaryNames = [...]string{
	UnaryNegate:      "Negate",
	UnaryLogicalNot:  "Not",
	UnaryBitwiseNot:  "BitNot",
	UnaryAbs:         "Abs",
	UnarySign:        "Sign",
	UnarySin:         "Sin",
	UnaryCos:         "Cos",
	UnaryTan:         "Tan",
	UnaryAsin:        "Asin",
	UnaryAcos:        "Acos",
	UnaryAtan:        "Atan",
	UnarySinh:        "Sinh",
	UnaryCosh:        "Cosh",
	UnaryTanh:        "Tanh",
	UnaryExp:         "Exp",
	UnaryExp2:        "Exp2",
	UnaryLog:         "Log",
	UnaryLog2:        "Log2",
	UnarySqrt:        "Sqrt",
	UnaryInverseSqrt: "InverseSqrt",
	UnaryFloor:       "Floor",
	UnaryCeil:        "Ceil",
	UnaryRound:       "Round",
	UnaryFract:       "Fract",
	UnaryNormalize:   "Normalize",
	UnaryLength:      "Length",
}

// String returns the host-facing opcode name of the operator.
func (op UnaryOperator) String() string {
	if int(op) < len(unaryNames) {
		return unaryNames[op]
	}
	return "Unary?"
}

// ParseUnaryOperator maps a host-facing name back to an operator.
func ParseUnaryOperator(name string) (UnaryOperator, bool) {
	for i, n := range unaryNames {
		if n == name {
			return UnaryOperator(i), true
		}
	}
	return 0, false
}

// Prefix returns the prefix WGSL operator, or "" for call forms.
func (op UnaryOperator) Prefix() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryLogicalNot:
		return "!"
	case UnaryBitwiseNot:
		return "~"
	default:
		return ""
	}
}

// CallName returns the WGSL builtin for call-form operators.
func (op UnaryOperator) CallName() string {
	switch op {
	case UnaryAbs:
		return "abs"
	case UnarySign:
		return "sign"
	case UnarySin:
		return "sin"
	case UnaryCos:
		return "cos"
	case UnaryTan:
		return "tan"
	case UnaryAsin:
		return "asin"
	case UnaryAcos:
		return "acos"
	case UnaryAtan:
		return "atan"
	case UnarySinh:
		return "sinh"
	case UnaryCosh:
		return "cosh"
	case UnaryTanh:
		return "tanh"
	case UnaryExp:
		return "exp"
	case UnaryExp2:
		return "exp2"
	case UnaryLog:
		return "log"
	case UnaryLog2:
		return "log2"
	case UnarySqrt:
		return "sqrt"
	case UnaryInverseSqrt:
		return "inverseSqrt"
	case UnaryFloor:
		return "floor"
	case UnaryCeil:
		return "ceil"
	case UnaryRound:
		return "round"
	case UnaryFract:
		return "fract"
	case UnaryNormalize:
		return "normalize"
	case UnaryLength:
		return "length"
	default:
		return ""
	}
}

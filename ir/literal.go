package ir

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders a float literal. The result always contains a decimal
// point and never an exponent, so WGSL infers a float type for it.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "bitcast<f32>(0x7fc00000u)"
	case math.IsInf(v, 1):
		return "bitcast<f32>(0x7f800000u)"
	case math.IsInf(v, -1):
		return "bitcast<f32>(0xff800000u)"
	}
	s := strconv.FormatFloat(float64(float32(v)), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}

// FormatInt renders an integer literal as bare digits.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatBool renders a bool literal.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ZeroLiteral returns the zero component literal for a base type.
func ZeroLiteral(base BaseType) string {
	switch {
	case base.IsFloat():
		return "0."
	case base == Bool:
		return "false"
	default:
		return "0"
	}
}

// ScalarLiteral wraps a rendered component so that the literal has exactly
// type t. i32, f32 and bool literals stand alone; other scalar kinds are
// wrapped in a constructor since WGSL would otherwise infer i32 or f32.
func ScalarLiteral(t NumType, component string) string {
	switch t.Base {
	case Int8, Int16, Int32, Float32, Bool:
		return component
	default:
		return t.Base.ScalarName() + "(" + component + ")"
	}
}

// CompositeLiteral renders a vector or matrix constructor from rendered
// components, e.g. vec3<f32>(1.,2.,3.).
func CompositeLiteral(t NumType, components []string) string {
	if t.IsScalar() && len(components) == 1 {
		return ScalarLiteral(t, components[0])
	}
	return t.TypeName() + "(" + strings.Join(components, ",") + ")"
}

// Swizzle letters for component indices 0..3.
const swizzleLetters = "xyzw"

// SwizzleLetter returns the component letter for index i, or 0 if i is out
// of range.
func SwizzleLetter(i int) byte {
	if i < 0 || i >= len(swizzleLetters) {
		return 0
	}
	return swizzleLetters[i]
}

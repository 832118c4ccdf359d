// Package graph describes the host dataflow graph consumed by the WGSL
// translator: a closed set of opcodes, compose-time constant values, callable
// sub-graphs (wires) and the capture analysis that tells the translator which
// variables a nested sequence reads from its enclosing scope.
package graph

import (
	"fmt"
	"strings"

	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// Value is a literal or compose-time constant. Floats holds the components
// of float values, Ints those of integer values, Bools those of boolean
// values; exactly one is populated, matching Type.Base.
type Value struct {
	Type   ir.NumType
	Floats []float64
	Ints   []int64
	Bools  []bool
}

// Float returns a Float32 scalar or vector with the given components.
func Float(components ...float64) Value {
	return Value{Type: ir.Vector(ir.Float32, uint8(len(components))), Floats: components}
}

// Int returns an Int32 scalar or vector with the given components.
func Int(components ...int64) Value {
	return Value{Type: ir.Vector(ir.Int32, uint8(len(components))), Ints: components}
}

// UInt returns a UInt32 scalar or vector with the given components.
func UInt(components ...int64) Value {
	return Value{Type: ir.Vector(ir.UInt32, uint8(len(components))), Ints: components}
}

// Bool returns a boolean scalar or vector with the given components.
func Bool(components ...bool) Value {
	return Value{Type: ir.Vector(ir.Bool, uint8(len(components))), Bools: components}
}

// MatrixValue returns a Float32 square or rectangular matrix from its
// columns, each given as a slice of rows.
func MatrixValue(columns ...[]float64) Value {
	if len(columns) == 0 {
		return Value{}
	}
	rows := len(columns[0])
	flat := make([]float64, 0, rows*len(columns))
	for _, col := range columns {
		flat = append(flat, col...)
	}
	return Value{
		Type:   ir.NumType{Base: ir.Float32, Components: uint8(rows), MatrixDimension: uint8(len(columns))},
		Floats: flat,
	}
}

// Len returns the number of stored components.
func (v Value) Len() int {
	switch {
	case v.Type.Base.IsFloat():
		return len(v.Floats)
	case v.Type.Base == ir.Bool:
		return len(v.Bools)
	default:
		return len(v.Ints)
	}
}

// Validate checks that the component count matches the type.
func (v Value) Validate() error {
	t := v.Type
	if t.Components < 1 || t.Components > 4 || t.MatrixDimension < 1 || t.MatrixDimension > 4 {
		return fmt.Errorf("value type %s out of range", t)
	}
	if t.IsMatrix() && t.Base != ir.Float32 {
		return fmt.Errorf("matrix values must be Float32, got %s", t.Base)
	}
	if t.IsMatrix() && !t.IsSquareMatrix() {
		return fmt.Errorf("matrix values must be square, got %s", t)
	}
	want := int(t.Components) * int(t.MatrixDimension)
	if v.Len() != want {
		return fmt.Errorf("value of type %s has %d components, want %d", t, v.Len(), want)
	}
	return nil
}

// Components renders each component as a WGSL literal.
func (v Value) Components() []string {
	out := make([]string, 0, v.Len())
	switch {
	case v.Type.Base.IsFloat():
		for _, f := range v.Floats {
			out = append(out, ir.FormatFloat(f))
		}
	case v.Type.Base == ir.Bool:
		for _, b := range v.Bools {
			out = append(out, ir.FormatBool(b))
		}
	default:
		for _, i := range v.Ints {
			out = append(out, ir.FormatInt(i))
		}
	}
	return out
}

// Literal renders the value as a WGSL expression of exactly its type.
func (v Value) Literal() string {
	comps := v.Components()
	if v.Type.IsMatrix() {
		rows := int(v.Type.Components)
		column := ir.Vector(v.Type.Base, v.Type.Components)
		cols := make([]string, 0, v.Type.MatrixDimension)
		for c := 0; c < int(v.Type.MatrixDimension); c++ {
			cols = append(cols, ir.CompositeLiteral(column, comps[c*rows:(c+1)*rows]))
		}
		return v.Type.TypeName() + "(" + strings.Join(cols, ",") + ")"
	}
	return ir.CompositeLiteral(v.Type, comps)
}

// String returns a host-facing description of the value.
func (v Value) String() string {
	return v.Type.String() + "(" + strings.Join(v.Components(), ", ") + ")"
}

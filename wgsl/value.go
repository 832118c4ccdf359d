package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// Value is a translated expression held in the top register or bound to a
// name.
type Value interface {
	// Type returns the WGSL type of the expression.
	Type() ir.Type

	// Render returns the expression as an AST fragment.
	Render() ir.Block
}

// LiteralValue is an expression whose source text is already known: a
// literal or a reference to a bound identifier. It is cheap to repeat.
type LiteralValue struct {
	typ    ir.Type
	source string
}

// NewLiteralValue returns a value rendering as source.
func NewLiteralValue(t ir.Type, source string) *LiteralValue {
	return &LiteralValue{typ: t, source: source}
}

// Type implements Value.
func (v *LiteralValue) Type() ir.Type { return v.typ }

// Render implements Value.
func (v *LiteralValue) Render() ir.Block { return &ir.Direct{Text: v.source} }

// Source returns the rendered text.
func (v *LiteralValue) Source() string { return v.source }

// BlockValue is an expression built from AST nodes, such as an operator
// application, a function call or an IO read. Repeating it repeats its
// evaluation.
type BlockValue struct {
	typ   ir.Type
	block ir.Block
}

// NewBlockValue returns a value rendering as block.
func NewBlockValue(t ir.Type, block ir.Block) *BlockValue {
	return &BlockValue{typ: t, block: block}
}

// Type implements Value.
func (v *BlockValue) Type() ir.Type { return v.typ }

// Render implements Value.
func (v *BlockValue) Render() ir.Block { return v.block }

// numType returns the numeric type of v, if it has one.
func numType(v Value) (ir.NumType, bool) {
	if v == nil {
		return ir.NumType{}, false
	}
	nt, ok := v.Type().(ir.NumType)
	return nt, ok
}

// typeOf returns the type of v, or nil for an empty register.
func typeOf(v Value) ir.Type {
	if v == nil {
		return nil
	}
	return v.Type()
}

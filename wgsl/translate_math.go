package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

func translateBinary(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Binary)
	lhs, lt, err := consumeNum(op, top)
	if err != nil {
		return nil, err
	}
	rhs, err := c.resolveOperand(op, o.Operand)
	if err != nil {
		return nil, err
	}
	rt, ok := numType(rhs)
	if !ok {
		return nil, newError(ErrTypeMismatch, op, "%s needs a numeric operand, got %s", o.Op, ir.TypeString(rhs.Type()))
	}

	result, err := ir.ResolveBinary(o.Op, lt, rt)
	if err != nil {
		return nil, typeError(op, err, "%s of %s and %s", o.Op, lt, rt)
	}
	return NewBlockValue(result, renderBinary(o.Op, lhs, lt, rhs, rt)), nil
}

func renderBinary(bop ir.BinaryOperator, lhs Value, lt ir.NumType, rhs Value, rt ir.NumType) ir.Block {
	switch bop {
	case ir.BinaryShiftLeft, ir.BinaryShiftRight:
		// The shift amount must be u32 of the same width as the value.
		return ir.Join("(", lhs.Render(), " "+bop.Symbol()+" ", unsignedAmount(lt, rt, rhs.Render()), ")")
	case ir.BinaryAnd, ir.BinaryExclusiveOr, ir.BinaryInclusiveOr:
		return ir.Join("(", splat(lt, rt, lhs.Render()), " "+bop.Symbol()+" ", splat(rt, lt, rhs.Render()), ")")
	case ir.BinaryMin, ir.BinaryMax, ir.BinaryPow:
		return ir.Join(bop.CallName()+"(", splat(lt, rt, lhs.Render()), ", ", splat(rt, lt, rhs.Render()), ")")
	case ir.BinaryDot, ir.BinaryCross:
		return ir.Join(bop.CallName()+"(", lhs.Render(), ", ", rhs.Render(), ")")
	default:
		return ir.Join("(", lhs.Render(), " "+bop.Symbol()+" ", rhs.Render(), ")")
	}
}

// splat widens a scalar operand to the width of a vector partner.
func splat(t, other ir.NumType, b ir.Block) ir.Block {
	if !t.IsScalar() || !other.IsVector() {
		return b
	}
	return ir.Join(t.WithComponents(other.Components).TypeName()+"(", b, ")")
}

func unsignedAmount(value, amount ir.NumType, b ir.Block) ir.Block {
	if amount.IsVector() {
		return ir.Join(ir.Vector(ir.UInt32, amount.Components).TypeName()+"(", b, ")")
	}
	scalar := b
	if amount.Base.ScalarName() != "u32" {
		scalar = ir.Join("u32(", b, ")")
	}
	if value.IsVector() {
		return ir.Join(ir.Vector(ir.UInt32, value.Components).TypeName()+"(", scalar, ")")
	}
	return scalar
}

func translateUnary(_ *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Unary)
	v, t, err := consumeNum(op, top)
	if err != nil {
		return nil, err
	}
	result, err := ir.ResolveUnary(o.Op, t)
	if err != nil {
		return nil, typeError(op, err, "%s of %s", o.Op, t)
	}
	if prefix := o.Op.Prefix(); prefix != "" {
		return NewBlockValue(result, ir.Join(prefix+"(", v.Render(), ")")), nil
	}
	return NewBlockValue(result, ir.Join(o.Op.CallName()+"(", v.Render(), ")")), nil
}

func translateCast(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Cast)
	v, _, err := consumeNum(op, top)
	if err != nil {
		return nil, err
	}
	return c.construct(op, o.To, []Value{v})
}

func translateMake(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Make)
	if len(o.Sources) == 0 {
		v, _, err := consumeNum(op, top)
		if err != nil {
			return nil, err
		}
		return c.construct(op, o.To, []Value{v})
	}
	sources := make([]Value, 0, len(o.Sources))
	for _, src := range o.Sources {
		v, err := c.resolveOperand(op, src)
		if err != nil {
			return nil, err
		}
		sources = append(sources, v)
	}
	return c.construct(op, o.To, sources)
}

// construct builds a value of type to from the components of sources, in
// order. A single scalar source broadcasts; missing trailing components are
// zero and extra ones are dropped.
func (c *TranslationContext) construct(op graph.Op, to ir.NumType, sources []Value) (Value, error) {
	if to.IsMatrix() || to.Atomic {
		return nil, newError(ErrTypeMismatch, op, "cannot construct %s from components", to)
	}
	types := make([]ir.NumType, len(sources))
	for i, src := range sources {
		t, ok := numType(src)
		if !ok || t.IsMatrix() {
			return nil, newError(ErrTypeMismatch, op, "cannot take components of %s", ir.TypeString(src.Type()))
		}
		types[i] = t
	}

	if len(sources) == 1 && types[0].IsScalar() {
		elem := convertComponent(to.Base, types[0].Base, sources[0].Render())
		if to.IsScalar() {
			return NewBlockValue(to, elem), nil
		}
		return NewBlockValue(to, ir.Join(to.TypeName()+"(", elem, ")")), nil
	}

	want := int(to.Components)
	parts := make([]ir.Block, 0, want)
	for i, src := range sources {
		if len(parts) == want {
			break
		}
		t := types[i]
		if t.IsScalar() {
			parts = append(parts, convertComponent(to.Base, t.Base, src.Render()))
			continue
		}
		stable := c.stabilize(src)
		for j := 0; j < int(t.Components) && len(parts) < want; j++ {
			comp := ir.Join(stable.Render(), "."+string(ir.SwizzleLetter(j)))
			parts = append(parts, convertComponent(to.Base, t.Base, comp))
		}
	}
	for len(parts) < want {
		parts = append(parts, &ir.Direct{Text: ir.ZeroLiteral(to.Base)})
	}

	if to.IsScalar() {
		return NewBlockValue(to, parts[0]), nil
	}
	items := make([]any, 0, 2*want+1)
	items = append(items, to.TypeName()+"(")
	for i, p := range parts {
		if i > 0 {
			items = append(items, ",")
		}
		items = append(items, p)
	}
	items = append(items, ")")
	return NewBlockValue(to, ir.Join(items...)), nil
}

func convertComponent(to, from ir.BaseType, b ir.Block) ir.Block {
	if to.ScalarName() == from.ScalarName() {
		return b
	}
	return ir.Join(to.ScalarName()+"(", b, ")")
}

func translateLerp(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Lerp)
	t, tt, err := consumeNum(op, top)
	if err != nil {
		return nil, err
	}
	a, err := c.resolveOperand(op, o.First)
	if err != nil {
		return nil, err
	}
	b, err := c.resolveOperand(op, o.Second)
	if err != nil {
		return nil, err
	}
	at, aok := numType(a)
	bt, bok := numType(b)
	if !aok || !bok || !at.IsFloat() || at.IsMatrix() {
		return nil, newError(ErrTypeMismatch, op, "Lerp needs float scalars or vectors, got %s and %s",
			ir.TypeString(a.Type()), ir.TypeString(b.Type()))
	}
	if at != bt {
		return nil, newError(ErrTypeMismatch, op, "Lerp endpoints differ: %s and %s", at, bt)
	}
	if tt.Base != at.Base || tt.IsMatrix() || (tt.Components != 1 && tt.Components != at.Components) {
		return nil, newError(ErrTypeMismatch, op, "Lerp factor %s does not fit %s", tt, at)
	}
	return NewBlockValue(at, ir.Join("mix(", a.Render(), ", ", b.Render(), ", ", t.Render(), ")")), nil
}

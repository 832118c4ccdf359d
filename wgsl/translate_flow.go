package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// branch translates seq in a new child block with input on the top
// register. Declarations hoisted out of the block go to preamble. finish,
// if set, receives the value seq leaves behind and may emit trailing
// statements into the same block.
func (c *TranslationContext) branch(seq graph.Sequence, input Value, preamble *ir.Compound, finish func(out Value) error) error {
	depth := len(c.scopes)
	defer func() { c.scopes = c.scopes[:depth] }()

	if err := c.EnterNew(&ir.Compound{}); err != nil {
		return err
	}
	c.current().preamble = preamble
	out, err := c.processNested(seq, input)
	if err != nil {
		return err
	}
	if finish != nil {
		return finish(out)
	}
	return nil
}

// stabilizeTop binds a pending expression that a region will read more than
// once.
func (c *TranslationContext) stabilizeTop(top Value) Value {
	if top == nil {
		return nil
	}
	return c.stabilize(top)
}

func translateSub(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Sub)
	input := c.stabilizeTop(top)

	depth := len(c.scopes)
	c.pushScope(c.current().block)
	_, err := c.processNested(o.Body, input)
	c.scopes = c.scopes[:depth]
	if err != nil {
		return nil, withPath(err, op.Label())
	}
	return input, nil
}

//nolint:funlen // both branches share the result variable bookkeeping
func translateIf(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.If)
	input := c.stabilizeTop(top)

	cond, err := c.processCondition(o.Condition, typeOf(input))
	if err != nil {
		return nil, withPath(err, "If condition")
	}
	call, err := c.CallFunction(cond, input)
	if err != nil {
		return nil, err
	}
	preamble := c.openRegion()

	var (
		decl       *ir.Direct
		resultName string
		resultType ir.Type
	)
	if !o.Passthrough {
		decl = &ir.Direct{}
		c.AddNew(decl)
		resultName = c.names.call("result")
	}
	assign := func(out Value) error {
		if o.Passthrough || out == nil {
			return nil
		}
		if ir.IsOpaque(out.Type()) {
			return newError(ErrTypeMismatch, op, "If cannot produce %s", ir.TypeString(out.Type()))
		}
		if resultType == nil {
			resultType = out.Type()
		} else if !ir.TypesEqual(resultType, out.Type()) {
			return newError(ErrTypeMismatch, op, "If branches produce %s and %s",
				ir.TypeString(resultType), ir.TypeString(out.Type()))
		}
		c.AddNew(ir.Join(resultName, " = ", out.Render(), ";\n"))
		return nil
	}

	var thenOut, elseOut Value
	c.AddNew(ir.Join("if (", call.Render(), ") {\n"))
	err = c.branch(o.Then, input, preamble, func(out Value) error {
		thenOut = out
		return assign(out)
	})
	if err != nil {
		return nil, withPath(err, "If then")
	}
	if len(o.Else) > 0 || !o.Passthrough {
		c.AddNew(&ir.Direct{Text: "} else {\n"})
		err = c.branch(o.Else, input, preamble, func(out Value) error {
			elseOut = out
			return assign(out)
		})
		if err != nil {
			return nil, withPath(err, "If else")
		}
	}
	c.AddNew(&ir.Direct{Text: "}\n"})

	if o.Passthrough {
		return input, nil
	}
	if (thenOut == nil) != (elseOut == nil) {
		return nil, newError(ErrTypeMismatch, op, "only one If branch produces a value")
	}
	if thenOut == nil {
		return nil, nil
	}
	decl.Text = "var " + resultName + ": " + resultType.TypeName() + ";\n"
	return NewLiteralValue(resultType, resultName), nil
}

func translateWhen(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.When)
	input := c.stabilizeTop(top)

	cond, err := c.processCondition(o.Condition, typeOf(input))
	if err != nil {
		return nil, withPath(err, op.Label()+" condition")
	}
	call, err := c.CallFunction(cond, input)
	if err != nil {
		return nil, err
	}
	preamble := c.openRegion()

	if o.Not {
		c.AddNew(ir.Join("if (!(", call.Render(), ")) {\n"))
	} else {
		c.AddNew(ir.Join("if (", call.Render(), ") {\n"))
	}
	err = c.branch(o.Action, input, preamble, func(out Value) error {
		if out == nil {
			return nil
		}
		if input == nil || !ir.TypesEqual(out.Type(), input.Type()) {
			return newError(ErrNonPassthroughUnsupported, op, "%s action turns %s into %s",
				op.Label(), ir.TypeString(typeOf(input)), ir.TypeString(out.Type()))
		}
		return nil
	})
	if err != nil {
		return nil, withPath(err, op.Label()+" action")
	}
	c.AddNew(&ir.Direct{Text: "}\n"})
	return input, nil
}

func translateForRange(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.ForRange)
	saved := c.stabilizeTop(top)
	preamble := c.openRegion()

	idx := c.names.call("i")
	c.AddNew(ir.Join("for (var ", idx, ": i32 = ", ir.FormatInt(o.From), "; ",
		idx, " <= ", ir.FormatInt(o.To), "; ", idx, "++) {\n"))
	if err := c.branch(o.Body, NewLiteralValue(ir.TypeInt, idx), preamble, nil); err != nil {
		return nil, withPath(err, op.Label())
	}
	c.AddNew(&ir.Direct{Text: "}\n"})
	return saved, nil
}

// translateShortCircuit lowers Or and And inside a condition function to
// an early return. Only the top level of the condition body qualifies;
// nested regions have their own input.
func translateShortCircuit(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	frame := c.currentFunction()
	if frame == nil || !frame.condition {
		return nil, newError(ErrMisplacedOpcode, op, "%s is only valid inside a condition", op.Label())
	}
	if len(c.scopes) != 1 {
		return nil, newError(ErrMisplacedOpcode, op, "%s is only valid at the top level of a condition", op.Label())
	}
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	if t, ok := numType(v); !ok || t != ir.TypeBool {
		return nil, newError(ErrTypeMismatch, op, "%s needs a Bool, got %s", op.Label(), ir.TypeString(v.Type()))
	}
	if op.Kind() == graph.KindOr {
		c.AddNew(ir.Join("if (", v.Render(), ") { return true; }\n"))
	} else {
		c.AddNew(ir.Join("if (!(", v.Render(), ")) { return false; }\n"))
	}
	return frame.input, nil
}

func translateCall(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Call)
	if o.Wire == nil {
		return nil, newError(ErrUndefinedVariable, op, "call without a target")
	}
	fn, err := c.ProcessWire(o.Wire, typeOf(top))
	if err != nil {
		return nil, err
	}
	v, err := c.CallFunction(fn, top)
	if err != nil {
		return nil, withPath(err, op.Label())
	}
	return v, nil
}

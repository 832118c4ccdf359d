package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

func translateConst(_ *TranslationContext, op graph.Op, _ Value) (Value, error) {
	return constValue(op, op.(graph.Const).Value)
}

func translateGet(c *TranslationContext, op graph.Op, _ Value) (Value, error) {
	o := op.(graph.Get)
	if o.Key != "" {
		table, ok := c.findTable(o.Name)
		if !ok {
			return nil, nameError(ErrUndefinedVariable, op, o.Name, "table %q is not defined", o.Name)
		}
		v, ok := table[o.Key]
		if !ok {
			return nil, nameError(ErrUndefinedVariable, op, o.Name, "table %q has no entry %q", o.Name, o.Key)
		}
		return v, nil
	}
	if o.Global {
		return c.referenceGlobal(o.Name)
	}
	if v, ok := c.env.Constants[o.Name]; ok {
		return constValue(op, v)
	}
	return c.Reference(o.Name)
}

func translateSet(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Set)
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	if o.Key != "" {
		c.setTableEntry(o.Name, o.Key, v)
		return nil, nil
	}
	if ir.IsOpaque(v.Type()) {
		return nil, c.AssignAlias(o.Name, o.Global, v)
	}
	return nil, c.AssignVariable(o.Name, o.Global, false, true, v)
}

func translateRef(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Ref)
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	if ir.IsOpaque(v.Type()) {
		return nil, c.AssignAlias(o.Name, o.Global, v)
	}
	return nil, c.AssignVariable(o.Name, o.Global, false, false, v)
}

func translateUpdate(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Update)
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	global := o.Global
	if !global {
		if info, _, _ := c.findVariable(o.Name); info == nil {
			if _, ok := c.findAlias(o.Name); ok {
				return nil, nameError(ErrDuplicateBinding, op, o.Name, "%q is bound to a resource and cannot be updated", o.Name)
			}
			global = true
		}
	}
	if global {
		if _, _, ok := c.globals.Lookup(o.Name); !ok {
			return nil, nameError(ErrUndefinedVariable, op, o.Name, "cannot update undefined variable %q", o.Name)
		}
	}
	return nil, c.AssignVariable(o.Name, global, true, true, v)
}

func translateTake(_ *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Take)
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	nt, ok := numType(v)
	if !ok || !nt.IsVector() {
		return nil, newError(ErrInvalidSwizzle, op, "Take needs a vector, got %s", ir.TypeString(v.Type()))
	}
	if len(o.Indices) == 0 || len(o.Indices) > 4 {
		return nil, newError(ErrInvalidSwizzle, op, "Take needs 1 to 4 indices, got %d", len(o.Indices))
	}

	letters := make([]byte, 0, len(o.Indices))
	for _, idx := range o.Indices {
		if idx < 0 || idx >= int(nt.Components) {
			return nil, newError(ErrInvalidSwizzle, op, "index %d out of range for %s", idx, nt)
		}
		letters = append(letters, ir.SwizzleLetter(idx))
	}

	result := nt.Element()
	if len(o.Indices) > 1 {
		result = nt.WithComponents(uint8(len(o.Indices)))
	}
	return NewBlockValue(result, ir.Join("(", v.Render(), ")."+string(letters))), nil
}

func translatePush(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.Push)
	v, nt, err := consumeNum(op, top)
	if err != nil {
		return nil, err
	}
	v, have, ok := c.pushSequence(o.Name, nt, v)
	if !ok {
		return nil, nameError(ErrTypeMismatch, op, o.Name, "sequence %q holds %s, cannot push %s", o.Name, have, nt)
	}
	return v, nil
}

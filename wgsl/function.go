package wgsl

import (
	"go.uber.org/zap"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// ProcessShards extracts seq into a new WGSL function.
//
// When inputType is set it becomes the first parameter and seeds the top
// register of the body. Every name in freeVars that resolves in the
// enclosing scopes becomes an extra parameter, bound read-only inside the
// body. The body is translated on its own scope stack and the finished
// function is hoisted ahead of the entry point.
func (c *TranslationContext) ProcessShards(seq graph.Sequence, freeVars []string, inputType ir.Type, hint string) (*ir.TranslatedFunction, error) {
	return c.processShards(nil, seq, freeVars, inputType, hint, false)
}

//nolint:funlen // body translation and signature assembly share state
func (c *TranslationContext) processShards(key any, seq graph.Sequence, freeVars []string, inputType ir.Type, hint string, condition bool) (*ir.TranslatedFunction, error) {
	if inputType != nil && ir.IsOpaque(inputType) {
		return nil, newError(ErrTypeMismatch, nil, "%s cannot be passed as the input of %s", ir.TypeString(inputType), hint)
	}

	fn := &ir.TranslatedFunction{Name: c.names.call(hint), InputType: inputType}
	frame := &functionFrame{fn: fn, hint: hint, condition: condition, prologue: &ir.Compound{}}
	body := &ir.Compound{}
	body.Append(frame.prologue)
	fnScope := &scope{block: body, storage: NewVariableStorage(), frame: frame}

	var top Value
	if inputType != nil {
		arg := c.names.call("input")
		fn.Arguments = append(fn.Arguments, ir.FunctionArgument{Type: inputType, Name: arg})
		top = NewLiteralValue(inputType, arg)
		frame.input = top
	}
	if err := c.bindCaptures(fn, fnScope.storage, freeVars); err != nil {
		return nil, err
	}

	savedScopes, savedTop := c.scopes, c.top
	c.scopes, c.top = []*scope{fnScope}, top
	err := c.ProcessSequence(seq)
	out, depth := c.top, len(c.scopes)
	c.scopes, c.top = savedScopes, savedTop
	if err != nil {
		return nil, err
	}
	if depth != 1 {
		return nil, newError(ErrInvalidBlock, nil, "%s left %d scopes open", hint, depth-1)
	}

	if out != nil {
		if ir.IsOpaque(out.Type()) {
			return nil, newError(ErrTypeMismatch, nil, "%s cannot return %s", hint, ir.TypeString(out.Type()))
		}
		fn.OutputType = out.Type()
		body.Append(ir.Join("return ", out.Render(), ";\n"))
	}
	if condition && !ir.TypesEqual(fn.OutputType, ir.TypeBool) {
		return nil, newError(ErrTypeMismatch, nil, "condition must produce Bool, got %s", ir.TypeString(fn.OutputType))
	}

	c.headers.add(ir.Join(fn.Signature(), " {\n", body, "}\n"))
	c.functions.Add(key, fn)
	c.log.Debug("extracted function",
		zap.String("hint", hint),
		zap.String("signature", fn.Signature()),
		zap.Int("captures", len(fn.Captures())))
	return fn, nil
}

// bindCaptures adds a parameter per captured name. Compose-time constants
// and globals are visible everywhere and are not captured; a virtual table
// contributes one parameter per entry.
func (c *TranslationContext) bindCaptures(fn *ir.TranslatedFunction, storage *VariableStorage, freeVars []string) error {
	for _, name := range freeVars {
		if _, ok := c.env.Constants[name]; ok {
			continue
		}
		if table, ok := c.findTable(name); ok {
			inner := make(map[string]Value, len(table))
			for _, k := range sortedKeys(table) {
				v := table[k]
				param := c.names.call(name + "_" + k)
				fn.Arguments = append(fn.Arguments, ir.FunctionArgument{
					Type: v.Type(), Name: param, HostName: name, Key: k,
				})
				inner[k] = NewLiteralValue(v.Type(), param)
			}
			storage.copyTable(name, inner)
			continue
		}
		if err := c.TryExpandIntoVariable(name); err != nil {
			return err
		}
		v, ok := c.lookupLocal(name)
		if !ok {
			continue
		}
		param := c.names.call(name)
		fn.Arguments = append(fn.Arguments, ir.FunctionArgument{Type: v.Type(), Name: param, HostName: name})
		if ir.IsOpaque(v.Type()) {
			storage.defineAlias(name, &AliasInfo{Type: v.Type(), Block: &ir.Direct{Text: param}})
		} else {
			storage.define(name, param, &VariableInfo{Type: v.Type(), ReadOnly: true})
		}
	}
	return nil
}

// ProcessWire returns the function compiled from w, compiling it on first
// use. The cache is keyed by the identity of w, so a second call with a
// different input type is a TypeMismatch.
func (c *TranslationContext) ProcessWire(w *graph.Wire, inputType ir.Type) (*ir.TranslatedFunction, error) {
	if fn, ok := c.functions.Lookup(w); ok {
		if !sameType(fn.InputType, inputType) {
			return nil, newError(ErrTypeMismatch, nil, "wire %q takes %s, called with %s",
				w.Name, ir.TypeString(fn.InputType), ir.TypeString(inputType))
		}
		c.log.Debug("function cache hit", zap.String("wire", w.Name))
		return fn, nil
	}
	if _, busy := c.compiling[w]; busy {
		return nil, newError(ErrMisplacedOpcode, nil, "wire %q calls itself; WGSL has no recursion", w.Name)
	}
	c.compiling[w] = struct{}{}
	defer delete(c.compiling, w)

	free := c.captures.FreeVariables(w.Body)
	fn, err := c.processShards(w, w.Body, free, inputType, w.Name, false)
	if err != nil {
		return nil, withPath(err, "Do "+w.Name)
	}
	return fn, nil
}

// processCondition compiles a condition sequence into a bool function.
func (c *TranslationContext) processCondition(seq graph.Sequence, inputType ir.Type) (*ir.TranslatedFunction, error) {
	free := c.captures.FreeVariables(seq)
	return c.processShards(nil, seq, free, inputType, "condition", true)
}

// CallFunction renders a call of fn with input followed by the captured
// arguments, each resolved again at the call site. Functions without an
// output are emitted as a statement and yield nil.
func (c *TranslationContext) CallFunction(fn *ir.TranslatedFunction, input Value) (Value, error) {
	parts := []any{fn.Name + "("}
	sep := ""
	if fn.InputType != nil {
		if input == nil {
			return nil, newError(ErrNoValueToConsume, nil, "call needs an input of type %s", ir.TypeString(fn.InputType))
		}
		parts = append(parts, input.Render())
		sep = ", "
	}
	for _, arg := range fn.Captures() {
		v, err := c.captureArgument(arg)
		if err != nil {
			return nil, err
		}
		if !ir.TypesEqual(v.Type(), arg.Type) {
			return nil, nameError(ErrTypeMismatch, nil, arg.HostName, "captured %q has type %s here, function expects %s",
				arg.HostName, ir.TypeString(v.Type()), ir.TypeString(arg.Type))
		}
		parts = append(parts, sep, v.Render())
		sep = ", "
	}
	parts = append(parts, ")")
	call := ir.Join(parts...)

	if fn.OutputType == nil {
		c.AddNew(ir.Join(call, ";\n"))
		return nil, nil
	}
	return NewBlockValue(fn.OutputType, call), nil
}

func (c *TranslationContext) captureArgument(arg ir.FunctionArgument) (Value, error) {
	if arg.Key == "" {
		return c.Reference(arg.HostName)
	}
	if table, ok := c.findTable(arg.HostName); ok {
		if v, ok := table[arg.Key]; ok {
			return v, nil
		}
	}
	return nil, nameError(ErrUndefinedVariable, nil, arg.HostName, "table %q has no entry %q", arg.HostName, arg.Key)
}

func sameType(a, b ir.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return ir.TypesEqual(a, b)
}

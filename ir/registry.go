package ir

import "strings"

// FunctionArgument is a parameter of an extracted function.
// Name is the parameter identifier inside the function; HostName is the
// logical variable name it was captured from (empty for the input argument).
// Key is set when the argument carries one entry of a captured virtual table.
type FunctionArgument struct {
	Type     Type
	Name     string
	HostName string
	Key      string
}

// TranslatedFunction is the signature of a sub-graph extracted into a WGSL
// function. InputType and OutputType are nil when the sub-graph takes no
// input or produces no value.
type TranslatedFunction struct {
	Name       string
	InputType  Type
	OutputType Type
	Arguments  []FunctionArgument
}

// Signature renders the WGSL function header without the body, e.g.
// "fn cond_3(arg: f32, x_1: f32) -> bool".
func (f *TranslatedFunction) Signature() string {
	var b strings.Builder
	b.WriteString("fn ")
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, arg := range f.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		b.WriteString(arg.Type.TypeName())
	}
	b.WriteByte(')')
	if f.OutputType != nil {
		b.WriteString(" -> ")
		b.WriteString(f.OutputType.TypeName())
	}
	return b.String()
}

// Captures returns the arguments bound to captured variables, in
// declaration order.
func (f *TranslatedFunction) Captures() []FunctionArgument {
	if f.InputType != nil && len(f.Arguments) > 0 {
		return f.Arguments[1:]
	}
	return f.Arguments
}

// FunctionRegistry ensures each sub-graph is translated at most once.
// Functions are keyed by the identity of the sub-graph that produced them
// and kept in creation order.
type FunctionRegistry struct {
	functions []*TranslatedFunction
	byKey     map[any]int
}

// NewFunctionRegistry creates an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make([]*TranslatedFunction, 0, 8),
		byKey:     make(map[any]int, 8),
	}
}

// Lookup returns the function registered for key.
func (r *FunctionRegistry) Lookup(key any) (*TranslatedFunction, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.functions[idx], true
}

// Add registers fn under key. A nil key registers an anonymous function
// (condition bodies) that is never looked up. Adding a key twice keeps the
// first registration and returns it.
func (r *FunctionRegistry) Add(key any, fn *TranslatedFunction) *TranslatedFunction {
	if key != nil {
		if idx, exists := r.byKey[key]; exists {
			return r.functions[idx]
		}
		r.byKey[key] = len(r.functions)
	}
	r.functions = append(r.functions, fn)
	return fn
}

// Functions returns all registered functions in creation order.
func (r *FunctionRegistry) Functions() []*TranslatedFunction {
	return r.functions
}

// Count returns the number of registered functions.
func (r *FunctionRegistry) Count() int {
	return len(r.functions)
}

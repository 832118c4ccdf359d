package wgsl

import (
	"sort"

	"go.uber.org/zap"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// Handler translates one opcode. top is the pending value of the top
// register (nil when empty); the returned value replaces it. A handler that
// consumes top without producing a value returns nil.
type Handler func(c *TranslationContext, op graph.Op, top Value) (Value, error)

// appendStrategy selects how a scope attaches new blocks to its target.
type appendStrategy uint8

const (
	appendChild  appendStrategy = iota // append as the next child
	appendHeader                       // wrap in a Header, hoisted by the emitter
)

// scope is one level of the scope stack.
type scope struct {
	block    *ir.Compound
	strategy appendStrategy
	storage  *VariableStorage
	frame    *functionFrame

	// preamble sits in the enclosing block ahead of the header of the
	// region that opened this scope. Declarations that must outlive the
	// region are hoisted here. Nil for scopes sharing their parent's block
	// and for blocks entered through EnterNew.
	preamble *ir.Compound
}

func (s *scope) add(b ir.Block) {
	if s.strategy == appendHeader {
		b = &ir.Header{Block: b}
	}
	s.block.Append(b)
}

// functionFrame tracks the function whose body is being translated.
type functionFrame struct {
	fn        *ir.TranslatedFunction
	hint      string
	input     Value
	condition bool

	// prologue is the first child of the body; unlocked captured
	// parameters are copied into locals here.
	prologue *ir.Compound
}

// Result is the output of one translation.
type Result struct {
	// Root holds the entry point body. Extracted functions are Header
	// children of Root.
	Root *ir.Compound

	// Functions lists every extracted function in creation order.
	Functions []*ir.TranslatedFunction

	// Globals maps global variable names to their types.
	Globals map[string]ir.Type

	// Outputs maps every stage output written to its type.
	Outputs map[string]ir.Type
}

// TranslationContext holds the state of one translation. It is created per
// compile and must not be shared between goroutines.
type TranslationContext struct {
	env       Environment
	log       *zap.Logger
	handlers  map[graph.OpKind]Handler
	captures  graph.CaptureAnalyzer
	root      *ir.Compound
	headers   *scope
	scopes    []*scope
	globals   *VariableStorage
	functions *ir.FunctionRegistry
	compiling map[*graph.Wire]struct{}
	names     *namer
	outputs   map[string]ir.Type
	top       Value

	// hoisted maps each value hoisted out of a region to the preamble that
	// declares it.
	hoisted map[*LiteralValue]*ir.Compound
}

// NewTranslationContext creates a context with all built-in handlers
// registered.
func NewTranslationContext(env Environment) *TranslationContext {
	root := &ir.Compound{}
	c := &TranslationContext{
		env:       env,
		log:       env.Logger,
		handlers:  make(map[graph.OpKind]Handler, len(builtinHandlers)),
		captures:  env.Captures,
		root:      root,
		headers:   &scope{block: root, strategy: appendHeader},
		globals:   NewVariableStorage(),
		functions: ir.NewFunctionRegistry(),
		compiling: make(map[*graph.Wire]struct{}),
		names:     newNamer(env.ReservedNames...),
		outputs:   make(map[string]ir.Type),
		hoisted:   make(map[*LiteralValue]*ir.Compound),
	}
	if c.log == nil {
		c.log = Logger()
	}
	if c.captures == nil {
		c.captures = graph.DefaultCaptures
	}
	for kind, h := range builtinHandlers {
		c.handlers[kind] = h
	}
	c.scopes = []*scope{{block: root, storage: NewVariableStorage()}}
	return c
}

// Register installs h for kind, replacing any existing handler.
func (c *TranslationContext) Register(kind graph.OpKind, h Handler) {
	c.handlers[kind] = h
}

// Top returns the pending top value, or nil.
func (c *TranslationContext) Top() Value { return c.top }

// Functions returns the functions extracted so far.
func (c *TranslationContext) Functions() []*ir.TranslatedFunction {
	return c.functions.Functions()
}

// ProcessOperation dispatches op to its handler.
func (c *TranslationContext) ProcessOperation(op graph.Op) error {
	h, ok := c.handlers[op.Kind()]
	if !ok {
		return newError(ErrUnknownOpcode, op, "no translator registered for opcode kind %s", op.Kind())
	}
	c.log.Debug("translate opcode",
		zap.Stringer("kind", op.Kind()),
		zap.String("op", op.Label()),
		zap.Int("depth", len(c.scopes)))
	out, err := h(c, op, c.top)
	if err != nil {
		return attachOp(err, op)
	}
	c.top = out
	return nil
}

// ProcessSequence processes ops in order, stopping at the first error.
func (c *TranslationContext) ProcessSequence(seq graph.Sequence) error {
	for _, op := range seq {
		if err := c.ProcessOperation(op); err != nil {
			return err
		}
	}
	return nil
}

// processNested runs seq with top as its input and returns the value it
// leaves behind. The caller's register is restored afterwards.
func (c *TranslationContext) processNested(seq graph.Sequence, top Value) (Value, error) {
	saved := c.top
	c.top = top
	err := c.ProcessSequence(seq)
	out := c.top
	c.top = saved
	return out, err
}

func (c *TranslationContext) current() *scope {
	return c.scopes[len(c.scopes)-1]
}

// currentFunction returns the frame of the function being translated, or
// nil at entry point level.
func (c *TranslationContext) currentFunction() *functionFrame {
	return c.current().frame
}

// AddNew attaches block to the current scope.
func (c *TranslationContext) AddNew(block ir.Block) {
	c.current().add(block)
}

// EnterNew attaches block to the current scope and makes it the current
// scope, with its own symbol table. Only compound blocks accept children.
// Such a block has no preamble, so pushes and table writes inside it that
// target an enclosing block work on local copies instead.
func (c *TranslationContext) EnterNew(block ir.Block) error {
	compound, ok := block.(*ir.Compound)
	if !ok {
		return newError(ErrInvalidBlock, nil, "cannot enter a %T block; only compound blocks accept children", block)
	}
	c.AddNew(compound)
	c.pushScope(compound)
	return nil
}

// pushScope opens a scope over an existing block.
func (c *TranslationContext) pushScope(block *ir.Compound) {
	c.scopes = append(c.scopes, &scope{
		block:   block,
		storage: NewVariableStorage(),
		frame:   c.current().frame,
	})
}

// openRegion reserves room in the current block for declarations hoisted
// out of a region whose header is emitted next.
func (c *TranslationContext) openRegion() *ir.Compound {
	preamble := &ir.Compound{}
	c.AddNew(preamble)
	return preamble
}

// regionOf returns the outermost scope entered since the block of scope
// owner, or nil when the current scope still writes into that block.
func (c *TranslationContext) regionOf(owner int) *scope {
	for j := owner + 1; j < len(c.scopes); j++ {
		if c.scopes[j].block != c.scopes[owner].block {
			return c.scopes[j]
		}
	}
	return nil
}

// hoist declares a var at preamble and assigns v to it at the current
// position. The var starts out as init when init has the same type.
func (c *TranslationContext) hoist(preamble *ir.Compound, hint string, init, v Value) Value {
	t := v.Type()
	name := c.names.call(hint)
	if init != nil && ir.TypesEqual(init.Type(), t) {
		preamble.Append(ir.Join("var ", name, " = ", init.Render(), ";\n"))
	} else {
		preamble.Append(&ir.Direct{Text: "var " + name + ": " + t.TypeName() + ";\n"})
	}
	c.AddNew(ir.Join(name, " = ", v.Render(), ";\n"))
	out := NewLiteralValue(t, name)
	c.hoisted[out] = preamble
	c.log.Debug("hoisted value out of region", zap.String("name", name))
	return out
}

// Leave closes the current scope.
func (c *TranslationContext) Leave() error {
	if len(c.scopes) <= 1 {
		return newError(ErrInvalidBlock, nil, "scope stack underflow")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

// GetUniqueVariableName returns a fresh identifier prefixed with a
// sanitized hint.
func (c *TranslationContext) GetUniqueVariableName(hint string) string {
	return c.names.call(hint)
}

// Finalize closes the translation. A value left on the top register is
// bound to a fresh local so that a trailing expression is still evaluated.
func (c *TranslationContext) Finalize() (*Result, error) {
	if len(c.scopes) != 1 {
		return nil, newError(ErrInvalidBlock, nil, "%d scopes left open", len(c.scopes)-1)
	}
	if v := c.top; v != nil {
		c.top = nil
		if !ir.IsOpaque(v.Type()) {
			name := c.names.call("discard")
			c.AddNew(ir.Join("let ", name, " = ", v.Render(), ";\n"))
			c.log.Debug("discarded trailing value", zap.String("type", ir.TypeString(v.Type())))
		}
	}

	globals := make(map[string]ir.Type, len(c.globals.variables))
	for name, info := range c.globals.variables {
		globals[name] = info.Type
	}
	outputs := make(map[string]ir.Type, len(c.outputs))
	for name, t := range c.outputs {
		outputs[name] = t
	}
	return &Result{
		Root:      c.root,
		Functions: c.functions.Functions(),
		Globals:   globals,
		Outputs:   outputs,
	}, nil
}

// findVariable returns the innermost binding of name and the scope that
// owns it.
func (c *TranslationContext) findVariable(name string) (*VariableInfo, string, *scope) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if info, mangled, ok := c.scopes[i].storage.Lookup(name); ok {
			return info, mangled, c.scopes[i]
		}
	}
	return nil, "", nil
}

// findAlias returns the innermost alias bound to name.
func (c *TranslationContext) findAlias(name string) (*AliasInfo, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if a, ok := c.scopes[i].storage.Alias(name); ok {
			return a, true
		}
	}
	return nil, false
}

// findTable returns the innermost virtual table called name.
func (c *TranslationContext) findTable(name string) (map[string]Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i].storage.Table(name); ok {
			return t, true
		}
	}
	return nil, false
}

// lookupLocal resolves name in the scope stack without consulting globals.
func (c *TranslationContext) lookupLocal(name string) (Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i].storage
		if info, mangled, ok := s.Lookup(name); ok {
			return NewLiteralValue(info.Type, mangled), true
		}
		if a, ok := s.Alias(name); ok {
			return NewBlockValue(a.Type, a.Block), true
		}
	}
	return nil, false
}

// Reference resolves name innermost scope outward, then among globals.
// A pending virtual sequence under name is materialized first.
func (c *TranslationContext) Reference(name string) (Value, error) {
	if err := c.TryExpandIntoVariable(name); err != nil {
		return nil, err
	}
	if v, ok := c.lookupLocal(name); ok {
		return v, nil
	}
	return c.referenceGlobal(name)
}

func (c *TranslationContext) referenceGlobal(name string) (Value, error) {
	if info, _, ok := c.globals.Lookup(name); ok {
		return NewBlockValue(info.Type, &ir.ReadGlobal{Name: name, Type: info.Type}), nil
	}
	if a, ok := c.globals.Alias(name); ok {
		return NewBlockValue(a.Type, a.Block), nil
	}
	return nil, nameError(ErrUndefinedVariable, nil, name, "variable %q is not defined", name)
}

// TryExpandIntoVariable materializes the virtual sequence name, if one is
// pending, into a matrix (or, for a single element, a plain value). The
// result is bound to name in the scope owning the accumulator, which is
// emptied so that the next push starts a fresh one. A binding of name in a
// nearer scope hides accumulators further out.
//
// When the owner writes into an enclosing block, the declaration goes to
// the preamble of the current region. If rows were pushed inside that
// region the preamble only declares a var, assigned here.
func (c *TranslationContext) TryExpandIntoVariable(name string) error {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		owner := c.scopes[i]
		seq := owner.storage.pending(name)
		if seq == nil {
			if owner.storage.Has(name) {
				return nil
			}
			continue
		}

		value, err := materialize(name, seq)
		if err != nil {
			return err
		}
		owner.storage.clearSequence(name)

		region := c.regionOf(i)
		switch {
		case region == nil:
			c.bindLocal(owner, c.current().block, name, value, false)
		case region.preamble == nil:
			c.bindLocal(c.current(), c.current().block, name, value, false)
		case seq.region != region.preamble:
			c.bindLocal(owner, region.preamble, name, value, false)
		default:
			mangled := c.names.call(name)
			region.preamble.Append(&ir.Direct{Text: "var " + mangled + ": " + value.Type().TypeName() + ";\n"})
			c.AddNew(ir.Join(mangled, " = ", value.Render(), ";\n"))
			owner.storage.define(name, mangled, &VariableInfo{Type: value.Type()})
		}
		c.log.Debug("materialized virtual sequence",
			zap.String("name", name),
			zap.Int("count", len(seq.values)),
			zap.String("type", ir.TypeString(value.Type())))
		return nil
	}
	return nil
}

// materialize builds the value of a pending sequence. Rows must be Float32
// vectors and form a square matrix.
func materialize(name string, seq *virtualSequence) (Value, error) {
	k := len(seq.values)
	if k == 1 {
		return seq.values[0], nil
	}
	el := seq.element
	if !el.IsVector() || el.Base != ir.Float32 || k != int(el.Components) {
		return nil, nameError(ErrTypeMismatch, nil, name,
			"cannot build a square matrix from %d values of type %s", k, el)
	}
	mt := ir.Matrix(el, uint8(k))
	parts := make([]any, 0, 2*k+1)
	parts = append(parts, mt.TypeName()+"(")
	for i, v := range seq.values {
		if i > 0 {
			parts = append(parts, ", ")
		}
		parts = append(parts, v.Render())
	}
	parts = append(parts, ")")
	return NewBlockValue(mt, ir.Join(parts...)), nil
}

// declareLocal emits a declaration of name in the current scope and binds
// it there.
func (c *TranslationContext) declareLocal(name string, v Value, mutable bool) string {
	cur := c.current()
	return c.bindLocal(cur, cur.block, name, v, mutable)
}

// bindLocal appends a let declaration of name to block and binds it in s.
func (c *TranslationContext) bindLocal(s *scope, block *ir.Compound, name string, v Value, mutable bool) string {
	mangled := c.names.call(name)
	kw := &ir.Direct{Text: "let "}
	decl := ir.Join(kw, mangled, " = ", v.Render(), ";\n")
	if block == s.block {
		s.add(decl)
	} else {
		block.Append(decl)
	}
	s.storage.define(name, mangled, &VariableInfo{
		Type:    v.Type(),
		Mutable: mutable,
		keyword: kw,
	})
	return mangled
}

// stabilize binds an expression that would be evaluated more than once to
// a temporary. Literals, identifiers and opaque values are returned as is.
func (c *TranslationContext) stabilize(v Value) Value {
	bv, ok := v.(*BlockValue)
	if !ok || ir.IsOpaque(bv.Type()) {
		return v
	}
	name := c.names.call("tmp")
	c.AddNew(ir.Join("let ", name, " = ", bv.Render(), ";\n"))
	return NewLiteralValue(bv.Type(), name)
}

// AssignVariable binds v to name.
//
// Globals are registered in the shared type table on first assignment and
// written through WriteGlobal; their type cannot change afterwards. A new
// local is declared with let and becomes var on its first update when
// mutable. With allowUpdate an existing mutable binding is reassigned after
// a type check; without it an existing binding is a DuplicateBinding. A
// captured function parameter is copied into a local on its first write.
func (c *TranslationContext) AssignVariable(name string, global, allowUpdate, mutable bool, v Value) error {
	if v == nil {
		return nameError(ErrNoValueToConsume, nil, name, "nothing to assign to %q", name)
	}
	if ir.IsOpaque(v.Type()) {
		return nameError(ErrTypeMismatch, nil, name,
			"%s values cannot be stored in variable %q", ir.TypeString(v.Type()), name)
	}
	if global {
		return c.assignGlobal(name, v)
	}

	info, mangled, owner := c.findVariable(name)
	if info == nil {
		if _, ok := c.findAlias(name); ok {
			return nameError(ErrDuplicateBinding, nil, name, "%q is already bound to a resource", name)
		}
		c.declareLocal(name, v, mutable)
		return nil
	}

	if info.ReadOnly {
		if !ir.TypesEqual(info.Type, v.Type()) {
			return nameError(ErrTypeMismatch, nil, name, "cannot assign %s to %q of type %s",
				ir.TypeString(v.Type()), name, ir.TypeString(info.Type))
		}
		mangled = c.unlockParameter(name, mangled, info, owner)
		c.AddNew(ir.Join(mangled, " = ", v.Render(), ";\n"))
		return nil
	}

	if !allowUpdate {
		return nameError(ErrDuplicateBinding, nil, name, "%q is already defined", name)
	}
	if !info.Mutable {
		return nameError(ErrDuplicateBinding, nil, name, "%q is immutable", name)
	}
	if !ir.TypesEqual(info.Type, v.Type()) {
		return nameError(ErrTypeMismatch, nil, name, "cannot assign %s to %q of type %s",
			ir.TypeString(v.Type()), name, ir.TypeString(info.Type))
	}
	if info.keyword != nil {
		info.keyword.Text = "var "
	}
	c.AddNew(ir.Join(mangled, " = ", v.Render(), ";\n"))
	return nil
}

// unlockParameter copies a captured parameter into a mutable local at the
// top of the function body and rebinds name to it in the owning scope.
func (c *TranslationContext) unlockParameter(name, param string, info *VariableInfo, owner *scope) string {
	local := c.names.call(name)
	if f := owner.frame; f != nil {
		f.prologue.Append(ir.Join("var ", local, " = ", param, ";\n"))
	}
	owner.storage.define(name, local, &VariableInfo{Type: info.Type, Mutable: true})
	c.log.Debug("unlocked captured parameter", zap.String("name", name))
	return local
}

func (c *TranslationContext) assignGlobal(name string, v Value) error {
	if info, _, ok := c.globals.Lookup(name); ok {
		if !ir.TypesEqual(info.Type, v.Type()) {
			return nameError(ErrTypeMismatch, nil, name, "global %q has type %s, cannot assign %s",
				name, ir.TypeString(info.Type), ir.TypeString(v.Type()))
		}
	} else {
		c.globals.define(name, name, &VariableInfo{Type: v.Type(), Mutable: true})
	}
	c.AddNew(&ir.WriteGlobal{Name: name, Type: v.Type(), Value: v.Render()})
	return nil
}

// AssignAlias binds a texture or sampler value to name. Such values cannot
// live in a let or var, so later references repeat the aliased expression.
func (c *TranslationContext) AssignAlias(name string, global bool, v Value) error {
	if v == nil {
		return nameError(ErrNoValueToConsume, nil, name, "nothing to alias as %q", name)
	}
	alias := &AliasInfo{Type: v.Type(), Block: v.Render()}
	if global {
		if existing, ok := c.globals.Alias(name); ok && !ir.TypesEqual(existing.Type, alias.Type) {
			return nameError(ErrTypeMismatch, nil, name, "global %q has type %s, cannot assign %s",
				name, ir.TypeString(existing.Type), ir.TypeString(alias.Type))
		}
		if _, _, ok := c.globals.Lookup(name); ok {
			return nameError(ErrDuplicateBinding, nil, name, "global %q is already a variable", name)
		}
		c.globals.defineAlias(name, alias)
		return nil
	}
	if _, ok := c.lookupLocal(name); ok {
		return nameError(ErrDuplicateBinding, nil, name, "%q is already defined", name)
	}
	c.current().storage.defineAlias(name, alias)
	return nil
}

// pushSequence appends v to the virtual sequence name. The innermost scope
// that knows name owns the accumulator; if that scope has a materialized
// binding instead, a fresh accumulator starts in the current scope. A row
// pushed from inside a region into an accumulator of an enclosing block is
// hoisted. On a type clash it returns the element type already accumulated
// and false.
func (c *TranslationContext) pushSequence(name string, t ir.NumType, v Value) (Value, ir.NumType, bool) {
	owner := len(c.scopes) - 1
	for i := owner; i >= 0; i-- {
		s := c.scopes[i].storage
		if s.pending(name) != nil {
			owner = i
			break
		}
		if s.Has(name) {
			break
		}
	}

	target := c.scopes[owner].storage
	region := c.regionOf(owner)
	if region != nil && region.preamble == nil {
		target, region = c.current().storage, nil
	}
	if seq := target.pending(name); seq != nil && seq.element != t {
		return nil, seq.element, false
	}

	var preamble *ir.Compound
	if region == nil {
		v = c.stabilize(v)
	} else {
		preamble = region.preamble
		v = c.hoist(preamble, name, nil, v)
	}
	have, ok := target.push(name, t, v, preamble)
	return v, have, ok
}

// setTableEntry stores v under key in the innermost virtual table called
// name, creating the table in the current scope when none exists. An entry
// written from inside a region into a table of an enclosing block is
// hoisted; a var already hoisted for the same region is reassigned.
func (c *TranslationContext) setTableEntry(name, key string, v Value) {
	owner := -1
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].storage.Table(name); ok {
			owner = i
			break
		}
	}
	if owner < 0 {
		c.current().storage.setTableEntry(name, key, c.stabilize(v))
		return
	}

	table, _ := c.scopes[owner].storage.Table(name)
	if ir.IsOpaque(v.Type()) {
		table[key] = v
		return
	}
	region := c.regionOf(owner)
	switch {
	case region == nil:
		table[key] = c.stabilize(v)
	case region.preamble == nil:
		local := c.current().storage
		local.copyTable(name, table)
		local.setTableEntry(name, key, c.stabilize(v))
	default:
		prev := table[key]
		if lv, ok := prev.(*LiteralValue); ok && c.hoisted[lv] == region.preamble && ir.TypesEqual(prev.Type(), v.Type()) {
			c.AddNew(ir.Join(prev.Render(), " = ", v.Render(), ";\n"))
			return
		}
		table[key] = c.hoist(region.preamble, name+"_"+key, prev, v)
	}
}

// sortedKeys returns the keys of a virtual table in a stable order.
func sortedKeys(t map[string]Value) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

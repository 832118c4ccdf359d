package wgsl

import (
	"sort"

	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// VariableInfo describes a bound variable.
type VariableInfo struct {
	Type ir.Type

	// Mutable bindings (Set) accept Update; immutable ones (Ref) do not.
	Mutable bool

	// ReadOnly marks a captured function parameter. The first write inside
	// the function copies it into a fresh local and clears the flag.
	ReadOnly bool

	// keyword is the declaration keyword node. It reads "let " until the
	// first update of a mutable binding turns it into "var ".
	keyword *ir.Direct
}

// AliasInfo binds a name to an expression for types that WGSL cannot hold in
// a let or var, such as textures and samplers.
type AliasInfo struct {
	Type  ir.Type
	Block ir.Block
}

type virtualSequence struct {
	element ir.NumType
	values  []Value

	// region is the preamble that declares the latest row hoisted out of a
	// region, or nil.
	region *ir.Compound
}

// VariableStorage is the symbol table of one scope.
type VariableStorage struct {
	variables   map[string]*VariableInfo
	aliases     map[string]*AliasInfo
	uniqueNames map[string]string
	sequences   map[string]*virtualSequence
	tables      map[string]map[string]Value
}

// NewVariableStorage creates an empty symbol table.
func NewVariableStorage() *VariableStorage {
	return &VariableStorage{
		variables:   make(map[string]*VariableInfo),
		aliases:     make(map[string]*AliasInfo),
		uniqueNames: make(map[string]string),
		sequences:   make(map[string]*virtualSequence),
		tables:      make(map[string]map[string]Value),
	}
}

// Lookup returns the variable bound to name and its mangled identifier.
func (s *VariableStorage) Lookup(name string) (*VariableInfo, string, bool) {
	info, ok := s.variables[name]
	if !ok {
		return nil, "", false
	}
	return info, s.uniqueNames[name], true
}

// Alias returns the alias bound to name.
func (s *VariableStorage) Alias(name string) (*AliasInfo, bool) {
	a, ok := s.aliases[name]
	return a, ok
}

// Has reports whether name is bound as a variable or an alias.
func (s *VariableStorage) Has(name string) bool {
	if _, ok := s.variables[name]; ok {
		return true
	}
	_, ok := s.aliases[name]
	return ok
}

// Names returns the logical names of all variables, sorted.
func (s *VariableStorage) Names() []string {
	names := make([]string, 0, len(s.variables))
	for name := range s.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *VariableStorage) define(name, mangled string, info *VariableInfo) {
	s.variables[name] = info
	s.uniqueNames[name] = mangled
}

func (s *VariableStorage) defineAlias(name string, info *AliasInfo) {
	s.aliases[name] = info
}

// pending returns the accumulator for name if it holds values.
func (s *VariableStorage) pending(name string) *virtualSequence {
	seq, ok := s.sequences[name]
	if !ok || len(seq.values) == 0 {
		return nil
	}
	return seq
}

// push appends v to the accumulator for name, starting a new one when
// needed. region is the preamble declaring v when v was hoisted. If v's
// type differs from the elements already pushed it returns their type and
// false.
func (s *VariableStorage) push(name string, t ir.NumType, v Value, region *ir.Compound) (ir.NumType, bool) {
	seq := s.sequences[name]
	if seq == nil || len(seq.values) == 0 {
		s.sequences[name] = &virtualSequence{element: t, values: []Value{v}, region: region}
		return t, true
	}
	if seq.element != t {
		return seq.element, false
	}
	seq.values = append(seq.values, v)
	if region != nil {
		seq.region = region
	}
	return t, true
}

func (s *VariableStorage) clearSequence(name string) {
	delete(s.sequences, name)
}

// Table returns the virtual table called name.
func (s *VariableStorage) Table(name string) (map[string]Value, bool) {
	t, ok := s.tables[name]
	return t, ok
}

func (s *VariableStorage) setTableEntry(name, key string, v Value) {
	t, ok := s.tables[name]
	if !ok {
		t = make(map[string]Value)
		s.tables[name] = t
	}
	t[key] = v
}

func (s *VariableStorage) copyTable(name string, from map[string]Value) {
	t := make(map[string]Value, len(from))
	for k, v := range from {
		t[k] = v
	}
	s.tables[name] = t
}

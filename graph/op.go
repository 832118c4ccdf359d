package graph

import (
	"strconv"
	"strings"

	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// OpKind identifies an opcode for handler dispatch.
type OpKind uint16

const (
	KindInvalid OpKind = iota

	// Values and variables
	KindConst
	KindGet
	KindSet
	KindRef
	KindUpdate
	KindTake
	KindPush

	// Math
	KindBinary
	KindUnary
	KindCast
	KindMake
	KindLerp

	// Control flow
	KindSub
	KindIf
	KindWhen
	KindForRange
	KindOr
	KindAnd
	KindCall

	// IO
	KindReadInput
	KindWriteOutput
	KindReadBuffer
	KindSampleTexture
	KindRefTexture
	KindRefSampler
	KindDiscard

	// KindUser is the first kind available for host-defined opcodes.
	KindUser OpKind = 1024
)

var kindNames = map[OpKind]string{
	KindInvalid:       "Invalid",
	KindConst:         "Const",
	KindGet:           "Get",
	KindSet:           "Set",
	KindRef:           "Ref",
	KindUpdate:        "Update",
	KindTake:          "Take",
	KindPush:          "Push",
	KindBinary:        "Binary",
	KindUnary:         "Unary",
	KindCast:          "Cast",
	KindMake:          "Make",
	KindLerp:          "Lerp",
	KindSub:           "Sub",
	KindIf:            "If",
	KindWhen:          "When",
	KindForRange:      "ForRange",
	KindOr:            "Or",
	KindAnd:           "And",
	KindCall:          "Call",
	KindReadInput:     "ReadInput",
	KindWriteOutput:   "WriteOutput",
	KindReadBuffer:    "ReadBuffer",
	KindSampleTexture: "SampleTexture",
	KindRefTexture:    "RefTexture",
	KindRefSampler:    "RefSampler",
	KindDiscard:       "Discard",
}

// String returns the opcode kind name.
func (k OpKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Op(" + strconv.Itoa(int(k)) + ")"
}

// Op is one node of the host dataflow graph.
type Op interface {
	// Kind selects the translator handler.
	Kind() OpKind

	// Label describes the op for diagnostics using only author-facing names.
	Label() string
}

// Sequence is an ordered list of opcodes.
type Sequence []Op

// Wire is a callable sub-graph. The pointer identity of a Wire keys the
// translator's function cache, so hosts must reuse the same *Wire for every
// call site of the same sub-graph.
type Wire struct {
	Name string
	Body Sequence
}

// Operand is the right-hand side of a binary-style opcode: either a literal
// Value or a named variable. A named operand that matches a compose-time
// constant is inlined.
type Operand struct {
	Value  *Value
	Name   string
	Global bool
}

// Literal returns an operand holding v.
func Literal(v Value) Operand { return Operand{Value: &v} }

// Var returns an operand reading the named variable.
func Var(name string) Operand { return Operand{Name: name} }

// IsZero reports whether the operand is unset.
func (o Operand) IsZero() bool { return o.Value == nil && o.Name == "" }

func (o Operand) String() string {
	switch {
	case o.Value != nil:
		return o.Value.String()
	case o.Global:
		return "global " + o.Name
	default:
		return o.Name
	}
}

// Const produces a literal value.
type Const struct{ Value Value }

func (Const) Kind() OpKind    { return KindConst }
func (o Const) Label() string { return "Const " + o.Value.String() }

// Get reads a variable, a compose-time constant, or, with Key set, an entry
// of a virtual table.
type Get struct {
	Name   string
	Key    string
	Global bool
}

func (Get) Kind() OpKind    { return KindGet }
func (o Get) Label() string { return "Get " + qualified(o.Name, o.Key) }

// Set binds the top value to a mutable variable, or with Key set stores it
// in the virtual table Name.
type Set struct {
	Name   string
	Key    string
	Global bool
}

func (Set) Kind() OpKind    { return KindSet }
func (o Set) Label() string { return "Set " + qualified(o.Name, o.Key) }

// Ref binds the top value to an immutable variable.
type Ref struct {
	Name   string
	Global bool
}

func (Ref) Kind() OpKind    { return KindRef }
func (o Ref) Label() string { return "Ref " + o.Name }

// Update reassigns an existing variable.
type Update struct {
	Name   string
	Global bool
}

func (Update) Kind() OpKind    { return KindUpdate }
func (o Update) Label() string { return "Update " + o.Name }

// Take swizzles vector components.
type Take struct{ Indices []int }

func (Take) Kind() OpKind { return KindTake }
func (o Take) Label() string {
	parts := make([]string, len(o.Indices))
	for i, idx := range o.Indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "Take [" + strings.Join(parts, " ") + "]"
}

// Push appends the top value to the virtual sequence Name.
type Push struct{ Name string }

func (Push) Kind() OpKind    { return KindPush }
func (o Push) Label() string { return "Push " + o.Name }

// Binary applies Op with the top value on the left and Operand on the right.
type Binary struct {
	Op      ir.BinaryOperator
	Operand Operand
}

func (Binary) Kind() OpKind    { return KindBinary }
func (o Binary) Label() string { return o.Op.String() + " " + o.Operand.String() }

// Unary applies Op to the top value.
type Unary struct{ Op ir.UnaryOperator }

func (Unary) Kind() OpKind    { return KindUnary }
func (o Unary) Label() string { return o.Op.String() }

// Cast converts the top value to To, broadcasting scalars and zero-filling
// missing components.
type Cast struct{ To ir.NumType }

func (Cast) Kind() OpKind    { return KindCast }
func (o Cast) Label() string { return "To" + o.To.String() }

// Make constructs To from the components of Sources, in order. With no
// sources it behaves like Cast on the top value.
type Make struct {
	To      ir.NumType
	Sources []Operand
}

func (Make) Kind() OpKind    { return KindMake }
func (o Make) Label() string { return "Make" + o.To.String() }

// Lerp mixes First and Second using the top value as the factor.
type Lerp struct {
	First  Operand
	Second Operand
}

func (Lerp) Kind() OpKind    { return KindLerp }
func (o Lerp) Label() string { return "Lerp " + o.First.String() + " " + o.Second.String() }

// Sub runs Body on the top value without replacing it.
type Sub struct{ Body Sequence }

func (Sub) Kind() OpKind  { return KindSub }
func (Sub) Label() string { return "Sub" }

// If branches on Condition. Unless Passthrough is set, Then and Else must
// produce values of the same type, which becomes the new top value.
type If struct {
	Condition   Sequence
	Then        Sequence
	Else        Sequence
	Passthrough bool
}

func (If) Kind() OpKind  { return KindIf }
func (If) Label() string { return "If" }

// When runs Action if Condition holds (or does not hold, with Not set). The
// top value passes through unchanged.
type When struct {
	Condition Sequence
	Action    Sequence
	Not       bool
}

func (When) Kind() OpKind { return KindWhen }
func (o When) Label() string {
	if o.Not {
		return "WhenNot"
	}
	return "When"
}

// ForRange runs Body for every integer in [From, To] with the index as the
// body's input.
type ForRange struct {
	From int64
	To   int64
	Body Sequence
}

func (ForRange) Kind() OpKind { return KindForRange }
func (o ForRange) Label() string {
	return "ForRange " + strconv.FormatInt(o.From, 10) + " " + strconv.FormatInt(o.To, 10)
}

// Or returns true from the enclosing condition if the top value is true.
type Or struct{}

func (Or) Kind() OpKind  { return KindOr }
func (Or) Label() string { return "Or" }

// And returns false from the enclosing condition if the top value is false.
type And struct{}

func (And) Kind() OpKind  { return KindAnd }
func (And) Label() string { return "And" }

// Call invokes a sub-graph as a function.
type Call struct{ Wire *Wire }

func (Call) Kind() OpKind { return KindCall }
func (o Call) Label() string {
	if o.Wire == nil {
		return "Do <nil>"
	}
	return "Do " + o.Wire.Name
}

// ReadInput reads a stage input.
type ReadInput struct{ Name string }

func (ReadInput) Kind() OpKind    { return KindReadInput }
func (o ReadInput) Label() string { return "ReadInput " + o.Name }

// WriteOutput writes the top value to a stage output.
type WriteOutput struct{ Name string }

func (WriteOutput) Kind() OpKind    { return KindWriteOutput }
func (o WriteOutput) Label() string { return "WriteOutput " + o.Name }

// ReadBuffer reads field Name of buffer Buffer.
type ReadBuffer struct {
	Name   string
	Buffer string
}

func (ReadBuffer) Kind() OpKind    { return KindReadBuffer }
func (o ReadBuffer) Label() string { return "ReadBuffer " + o.Buffer + "." + o.Name }

// SampleTexture samples texture Name at the top value, or at the default
// texture coordinate input when there is no top value.
type SampleTexture struct{ Name string }

func (SampleTexture) Kind() OpKind    { return KindSampleTexture }
func (o SampleTexture) Label() string { return "SampleTexture " + o.Name }

// RefTexture produces a texture reference.
type RefTexture struct{ Name string }

func (RefTexture) Kind() OpKind    { return KindRefTexture }
func (o RefTexture) Label() string { return "RefTexture " + o.Name }

// RefSampler produces the sampler paired with texture Name.
type RefSampler struct{ Name string }

func (RefSampler) Kind() OpKind    { return KindRefSampler }
func (o RefSampler) Label() string { return "RefSampler " + o.Name }

// Discard terminates the fragment invocation.
type Discard struct{}

func (Discard) Kind() OpKind  { return KindDiscard }
func (Discard) Label() string { return "Discard" }

func qualified(name, key string) string {
	if key == "" {
		return name
	}
	return name + "." + key
}

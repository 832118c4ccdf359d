package ir

import "fmt"

// Block is a node of the output AST.
//
// Expressions and statements share the same node kinds: an expression is a
// Compound of text fragments and IO nodes, a statement is the same with a
// terminating ";\n". The emitter walks the tree and resolves IO nodes against
// its own struct and binding layout.
type Block interface {
	block()
}

// Direct is literal WGSL text.
type Direct struct {
	Text string
}

func (*Direct) block() {}

// Compound is an ordered sequence of blocks. It is the only node kind that
// accepts children.
type Compound struct {
	Children []Block
}

func (*Compound) block() {}

// Append adds children to the end of the compound.
func (c *Compound) Append(children ...Block) {
	c.Children = append(c.Children, children...)
}

// Len returns the number of direct children.
func (c *Compound) Len() int { return len(c.Children) }

// Header is a block that the emitter moves ahead of all non-header output,
// in insertion order. Extracted functions are inserted as headers so that
// they are defined before their first call regardless of call-site position.
type Header struct {
	Block Block
}

func (*Header) block() {}

// ReadInput reads a named stage input.
type ReadInput struct {
	Name string
	Type Type
}

func (*ReadInput) block() {}

// WriteOutput assigns Value to a named stage output.
type WriteOutput struct {
	Name  string
	Type  Type
	Value Block
}

func (*WriteOutput) block() {}

// ReadGlobal reads a named global shared between entry points.
type ReadGlobal struct {
	Name string
	Type Type
}

func (*ReadGlobal) block() {}

// WriteGlobal assigns Value to a named global.
type WriteGlobal struct {
	Name  string
	Type  Type
	Value Block
}

func (*WriteGlobal) block() {}

// ReadBuffer reads field Name of the bound buffer Buffer.
type ReadBuffer struct {
	Name   string
	Type   Type
	Buffer string
}

func (*ReadBuffer) block() {}

// RefTexture references a bound texture.
type RefTexture struct {
	Name string
}

func (*RefTexture) block() {}

// RefSampler references the sampler paired with a bound texture.
type RefSampler struct {
	Name string
}

func (*RefSampler) block() {}

// SampleTexture samples the named texture with its default sampler at Coord.
type SampleTexture struct {
	Name  string
	Coord Block
}

func (*SampleTexture) block() {}

// Join builds a compound from strings and blocks. Strings become Direct
// nodes; nil blocks are skipped.
func Join(parts ...any) *Compound {
	c := &Compound{Children: make([]Block, 0, len(parts))}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if v != "" {
				c.Children = append(c.Children, &Direct{Text: v})
			}
		case Block:
			if v != nil {
				c.Children = append(c.Children, v)
			}
		case nil:
		default:
			panic(fmt.Sprintf("ir.Join: unsupported part %T", p))
		}
	}
	return c
}

// Walk visits b and all of its descendants in order. Returning false from
// visit skips the children of that node.
func Walk(b Block, visit func(Block) bool) {
	if b == nil || !visit(b) {
		return
	}
	switch n := b.(type) {
	case *Compound:
		for _, child := range n.Children {
			Walk(child, visit)
		}
	case *Header:
		Walk(n.Block, visit)
	case *WriteOutput:
		Walk(n.Value, visit)
	case *WriteGlobal:
		Walk(n.Value, visit)
	case *SampleTexture:
		Walk(n.Coord, visit)
	}
}

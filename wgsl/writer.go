package wgsl

import (
	"strings"

	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// Bindings maps IO nodes to the expressions of an emitter's struct and
// binding layout.
type Bindings interface {
	Input(name string) string
	Output(name string) string
	Global(name string) string
	BufferField(buffer, name string) string
	Texture(name string) string
	Sampler(name string) string
}

// DefaultBindings renders IO through conventional struct names: in.<name>,
// out.<name>, globals.<name>, <buffer>.<name>, t_<name> and s_<name>.
type DefaultBindings struct{}

func (DefaultBindings) Input(name string) string               { return "in." + name }
func (DefaultBindings) Output(name string) string              { return "out." + name }
func (DefaultBindings) Global(name string) string              { return "globals." + name }
func (DefaultBindings) BufferField(buffer, name string) string { return buffer + "." + name }
func (DefaultBindings) Texture(name string) string             { return "t_" + name }
func (DefaultBindings) Sampler(name string) string             { return "s_" + name }

// WriterOptions configures Write.
type WriterOptions struct {
	// EntryPoint names the function wrapping the root body. Default "main".
	EntryPoint string

	// Bindings resolves IO nodes. Default DefaultBindings.
	Bindings Bindings
}

// Writer renders a translation result as WGSL text.
//
// Header blocks are hoisted to module scope in insertion order and the
// remaining root body is wrapped in the entry point function. Struct
// layout and binding declarations are left to the caller's emitter.
type Writer struct {
	out      strings.Builder
	indent   int
	bindings Bindings
}

// Write renders result with opts.
func Write(result *Result, opts WriterOptions) string {
	if opts.EntryPoint == "" {
		opts.EntryPoint = "main"
	}
	if opts.Bindings == nil {
		opts.Bindings = DefaultBindings{}
	}
	w := &Writer{bindings: opts.Bindings}

	for _, h := range collectHeaders(result.Root) {
		w.writeText(w.render(h.Block))
		w.writeLine("")
	}

	w.writeLine("fn " + opts.EntryPoint + "() {")
	w.pushIndent()
	w.writeText(w.render(result.Root))
	w.popIndent()
	w.writeLine("}")
	return w.out.String()
}

// WriteHeaders renders every hoisted block separately, in insertion order.
// Extracted functions appear in the same order as Result.Functions.
func WriteHeaders(result *Result, opts WriterOptions) []string {
	if opts.Bindings == nil {
		opts.Bindings = DefaultBindings{}
	}
	headers := collectHeaders(result.Root)
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		w := &Writer{bindings: opts.Bindings}
		w.writeText(w.render(h.Block))
		out = append(out, w.out.String())
	}
	return out
}

func collectHeaders(root ir.Block) []*ir.Header {
	var headers []*ir.Header
	ir.Walk(root, func(b ir.Block) bool {
		if h, ok := b.(*ir.Header); ok {
			headers = append(headers, h)
			return false
		}
		return true
	})
	return headers
}

// render flattens b into raw text, skipping hoisted headers.
func (w *Writer) render(b ir.Block) string {
	var sb strings.Builder
	w.renderInto(&sb, b)
	return sb.String()
}

//nolint:gocyclo,cyclop // one case per node kind
func (w *Writer) renderInto(sb *strings.Builder, b ir.Block) {
	switch n := b.(type) {
	case *ir.Direct:
		sb.WriteString(n.Text)
	case *ir.Compound:
		for _, child := range n.Children {
			if _, hoisted := child.(*ir.Header); hoisted {
				continue
			}
			w.renderInto(sb, child)
		}
	case *ir.ReadInput:
		sb.WriteString(w.bindings.Input(n.Name))
	case *ir.WriteOutput:
		sb.WriteString(w.bindings.Output(n.Name))
		sb.WriteString(" = ")
		w.renderInto(sb, n.Value)
		sb.WriteString(";\n")
	case *ir.ReadGlobal:
		sb.WriteString(w.bindings.Global(n.Name))
	case *ir.WriteGlobal:
		sb.WriteString(w.bindings.Global(n.Name))
		sb.WriteString(" = ")
		w.renderInto(sb, n.Value)
		sb.WriteString(";\n")
	case *ir.ReadBuffer:
		sb.WriteString(w.bindings.BufferField(n.Buffer, n.Name))
	case *ir.RefTexture:
		sb.WriteString(w.bindings.Texture(n.Name))
	case *ir.RefSampler:
		sb.WriteString(w.bindings.Sampler(n.Name))
	case *ir.SampleTexture:
		sb.WriteString("textureSample(")
		sb.WriteString(w.bindings.Texture(n.Name))
		sb.WriteString(", ")
		sb.WriteString(w.bindings.Sampler(n.Name))
		sb.WriteString(", ")
		w.renderInto(sb, n.Coord)
		sb.WriteString(")")
	case *ir.Header:
		w.renderInto(sb, n.Block)
	}
}

// writeText re-indents raw text by brace depth.
func (w *Writer) writeText(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "}") {
			w.popIndent()
		}
		w.writeLine(line)
		if strings.HasSuffix(line, "{") {
			w.pushIndent()
		}
	}
}

// writeLine writes an indented line followed by a newline.
func (w *Writer) writeLine(line string) {
	if line != "" {
		w.writeIndent()
		w.out.WriteString(line)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

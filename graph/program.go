package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// Program is a self-contained translation unit: an entry point sequence,
// the wires it calls, compose-time constants, and the IO layout its opcodes
// read and write. It is what a host would otherwise supply piecemeal.
type Program struct {
	EntryPoint string
	Ops        Sequence
	Wires      map[string]*Wire
	Constants  map[string]Value
	Inputs     map[string]ir.Type
	Outputs    map[string]ir.Type
	Buffers    map[string]map[string]ir.Type
	Textures   map[string]ir.TextureType
}

type jsonProgram struct {
	EntryPoint string                       `json:"entryPoint"`
	Ops        []json.RawMessage            `json:"ops"`
	Wires      map[string][]json.RawMessage `json:"wires"`
	Constants  map[string]jsonValue         `json:"constants"`
	Inputs     map[string]string            `json:"inputs"`
	Outputs    map[string]string            `json:"outputs"`
	Buffers    map[string]map[string]string `json:"buffers"`
	Textures   map[string]string            `json:"textures"`
}

type jsonValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type jsonOperand struct {
	Value  *jsonValue `json:"value"`
	Name   string     `json:"name"`
	Global bool       `json:"global"`
}

type jsonOp struct {
	Op          string            `json:"op"`
	Name        string            `json:"name"`
	Key         string            `json:"key"`
	Global      bool              `json:"global"`
	Value       *jsonValue        `json:"value"`
	Indices     []int             `json:"indices"`
	Operand     *jsonOperand      `json:"operand"`
	Type        string            `json:"type"`
	Sources     []jsonOperand     `json:"sources"`
	First       *jsonOperand      `json:"first"`
	Second      *jsonOperand      `json:"second"`
	Body        []json.RawMessage `json:"body"`
	Condition   []json.RawMessage `json:"condition"`
	Then        []json.RawMessage `json:"then"`
	Else        []json.RawMessage `json:"else"`
	Passthrough bool              `json:"passthrough"`
	From        int64             `json:"from"`
	To          int64             `json:"to"`
	Wire        string            `json:"wire"`
	Buffer      string            `json:"buffer"`
}

// DecodeProgram reads a JSON program.
func DecodeProgram(r io.Reader) (*Program, error) {
	var raw jsonProgram
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}

	p := &Program{
		EntryPoint: raw.EntryPoint,
		Wires:      make(map[string]*Wire, len(raw.Wires)),
		Constants:  make(map[string]Value, len(raw.Constants)),
		Inputs:     make(map[string]ir.Type, len(raw.Inputs)),
		Outputs:    make(map[string]ir.Type, len(raw.Outputs)),
		Buffers:    make(map[string]map[string]ir.Type, len(raw.Buffers)),
		Textures:   make(map[string]ir.TextureType, len(raw.Textures)),
	}
	if p.EntryPoint == "" {
		p.EntryPoint = "main"
	}

	for name, v := range raw.Constants {
		value, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", name, err)
		}
		p.Constants[name] = value
	}
	if err := decodeTypeMap(raw.Inputs, p.Inputs); err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	if err := decodeTypeMap(raw.Outputs, p.Outputs); err != nil {
		return nil, fmt.Errorf("outputs: %w", err)
	}
	for buffer, fields := range raw.Buffers {
		m := make(map[string]ir.Type, len(fields))
		if err := decodeTypeMap(fields, m); err != nil {
			return nil, fmt.Errorf("buffer %s: %w", buffer, err)
		}
		p.Buffers[buffer] = m
	}
	for name, typeName := range raw.Textures {
		t, err := ir.ParseTypeName(typeName)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", name, err)
		}
		tex, ok := t.(ir.TextureType)
		if !ok {
			return nil, fmt.Errorf("texture %s: %q is not a texture type", name, typeName)
		}
		p.Textures[name] = tex
	}

	// Create every wire first so calls resolve to a single *Wire per name.
	for name := range raw.Wires {
		p.Wires[name] = &Wire{Name: name}
	}
	d := &opDecoder{wires: p.Wires}
	names := make([]string, 0, len(raw.Wires))
	for name := range raw.Wires {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := d.sequence(raw.Wires[name])
		if err != nil {
			return nil, fmt.Errorf("wire %s: %w", name, err)
		}
		p.Wires[name].Body = body
	}

	ops, err := d.sequence(raw.Ops)
	if err != nil {
		return nil, fmt.Errorf("entry point %s: %w", p.EntryPoint, err)
	}
	p.Ops = ops
	return p, nil
}

func decodeTypeMap(in map[string]string, out map[string]ir.Type) error {
	for name, typeName := range in {
		t, err := ir.ParseTypeName(typeName)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = t
	}
	return nil
}

func decodeValue(v jsonValue) (Value, error) {
	t, err := ir.ParseTypeName(v.Type)
	if err != nil {
		return Value{}, err
	}
	nt, ok := t.(ir.NumType)
	if !ok || nt.Atomic {
		return Value{}, fmt.Errorf("%q cannot hold a literal", v.Type)
	}
	value := Value{Type: nt}
	switch {
	case nt.Base.IsFloat():
		err = json.Unmarshal(v.Value, &value.Floats)
	case nt.Base == ir.Bool:
		err = json.Unmarshal(v.Value, &value.Bools)
	default:
		err = json.Unmarshal(v.Value, &value.Ints)
	}
	if err != nil {
		return Value{}, fmt.Errorf("value of type %s: %w", v.Type, err)
	}
	if err := value.Validate(); err != nil {
		return Value{}, err
	}
	return value, nil
}

type opDecoder struct {
	wires map[string]*Wire
}

func (d *opDecoder) sequence(raw []json.RawMessage) (Sequence, error) {
	seq := make(Sequence, 0, len(raw))
	for i, msg := range raw {
		op, err := d.op(msg)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		seq = append(seq, op)
	}
	return seq, nil
}

func (d *opDecoder) operand(o *jsonOperand) (Operand, error) {
	if o == nil {
		return Operand{}, fmt.Errorf("missing operand")
	}
	if o.Value != nil {
		v, err := decodeValue(*o.Value)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Value: &v}, nil
	}
	if o.Name == "" {
		return Operand{}, fmt.Errorf("operand needs a value or a name")
	}
	return Operand{Name: o.Name, Global: o.Global}, nil
}

func (d *opDecoder) numType(name string) (ir.NumType, error) {
	t, err := ir.ParseTypeName(name)
	if err != nil {
		return ir.NumType{}, err
	}
	nt, ok := t.(ir.NumType)
	if !ok {
		return ir.NumType{}, fmt.Errorf("%q is not a numeric type", name)
	}
	return nt, nil
}

//nolint:gocyclo,cyclop,funlen // one case per opcode kind
func (d *opDecoder) op(msg json.RawMessage) (Op, error) {
	var o jsonOp
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return nil, err
	}

	if bin, ok := ir.ParseBinaryOperator(o.Op); ok {
		operand, err := d.operand(o.Operand)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Op, err)
		}
		return Binary{Op: bin, Operand: operand}, nil
	}
	if un, ok := ir.ParseUnaryOperator(o.Op); ok {
		return Unary{Op: un}, nil
	}

	switch o.Op {
	case "Const":
		if o.Value == nil {
			return nil, fmt.Errorf("Const: missing value")
		}
		v, err := decodeValue(*o.Value)
		if err != nil {
			return nil, fmt.Errorf("Const: %w", err)
		}
		return Const{Value: v}, nil
	case "Get":
		return Get{Name: o.Name, Key: o.Key, Global: o.Global}, nil
	case "Set":
		return Set{Name: o.Name, Key: o.Key, Global: o.Global}, nil
	case "Ref":
		return Ref{Name: o.Name, Global: o.Global}, nil
	case "Update":
		return Update{Name: o.Name, Global: o.Global}, nil
	case "Take":
		return Take{Indices: o.Indices}, nil
	case "Push":
		return Push{Name: o.Name}, nil
	case "Cast", "Make":
		to, err := d.numType(o.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Op, err)
		}
		if o.Op == "Cast" {
			return Cast{To: to}, nil
		}
		sources := make([]Operand, 0, len(o.Sources))
		for i := range o.Sources {
			src, err := d.operand(&o.Sources[i])
			if err != nil {
				return nil, fmt.Errorf("Make source %d: %w", i, err)
			}
			sources = append(sources, src)
		}
		return Make{To: to, Sources: sources}, nil
	case "Lerp":
		first, err := d.operand(o.First)
		if err != nil {
			return nil, fmt.Errorf("Lerp first: %w", err)
		}
		second, err := d.operand(o.Second)
		if err != nil {
			return nil, fmt.Errorf("Lerp second: %w", err)
		}
		return Lerp{First: first, Second: second}, nil
	case "Sub":
		body, err := d.sequence(o.Body)
		if err != nil {
			return nil, fmt.Errorf("Sub: %w", err)
		}
		return Sub{Body: body}, nil
	case "If":
		cond, err := d.sequence(o.Condition)
		if err != nil {
			return nil, fmt.Errorf("If condition: %w", err)
		}
		then, err := d.sequence(o.Then)
		if err != nil {
			return nil, fmt.Errorf("If then: %w", err)
		}
		els, err := d.sequence(o.Else)
		if err != nil {
			return nil, fmt.Errorf("If else: %w", err)
		}
		return If{Condition: cond, Then: then, Else: els, Passthrough: o.Passthrough}, nil
	case "When", "WhenNot":
		cond, err := d.sequence(o.Condition)
		if err != nil {
			return nil, fmt.Errorf("%s condition: %w", o.Op, err)
		}
		action, err := d.sequence(o.Body)
		if err != nil {
			return nil, fmt.Errorf("%s action: %w", o.Op, err)
		}
		return When{Condition: cond, Action: action, Not: o.Op == "WhenNot"}, nil
	case "ForRange":
		body, err := d.sequence(o.Body)
		if err != nil {
			return nil, fmt.Errorf("ForRange: %w", err)
		}
		return ForRange{From: o.From, To: o.To, Body: body}, nil
	case "Or":
		return Or{}, nil
	case "And":
		return And{}, nil
	case "Call", "Do":
		w, ok := d.wires[o.Wire]
		if !ok {
			return nil, fmt.Errorf("%s: unknown wire %q", o.Op, o.Wire)
		}
		return Call{Wire: w}, nil
	case "ReadInput":
		return ReadInput{Name: o.Name}, nil
	case "WriteOutput":
		return WriteOutput{Name: o.Name}, nil
	case "ReadBuffer":
		return ReadBuffer{Name: o.Name, Buffer: o.Buffer}, nil
	case "SampleTexture":
		return SampleTexture{Name: o.Name}, nil
	case "RefTexture":
		return RefTexture{Name: o.Name}, nil
	case "RefSampler":
		return RefSampler{Name: o.Name}, nil
	case "Discard":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", o.Op)
	}
}

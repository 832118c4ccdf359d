package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

func translateReadInput(c *TranslationContext, op graph.Op, _ Value) (Value, error) {
	o := op.(graph.ReadInput)
	return c.readInput(op, o.Name)
}

func (c *TranslationContext) readInput(op graph.Op, name string) (Value, error) {
	t, ok := c.env.Definitions.Inputs[name]
	if !ok {
		return nil, nameError(ErrUndefinedVariable, op, name, "input %q is not defined", name)
	}
	return NewBlockValue(t, &ir.ReadInput{Name: name, Type: t}), nil
}

func translateWriteOutput(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.WriteOutput)
	v, err := consume(op, top)
	if err != nil {
		return nil, err
	}
	if ir.IsOpaque(v.Type()) {
		return nil, nameError(ErrTypeMismatch, op, o.Name, "cannot write %s to output %q", ir.TypeString(v.Type()), o.Name)
	}
	want, declared := c.env.Definitions.Outputs[o.Name]
	if !declared {
		want, declared = c.outputs[o.Name]
	}
	if declared && !ir.TypesEqual(want, v.Type()) {
		return nil, nameError(ErrTypeMismatch, op, o.Name, "output %q has type %s, cannot write %s",
			o.Name, ir.TypeString(want), ir.TypeString(v.Type()))
	}
	c.outputs[o.Name] = v.Type()
	c.AddNew(&ir.WriteOutput{Name: o.Name, Type: v.Type(), Value: v.Render()})
	return nil, nil
}

func translateReadBuffer(c *TranslationContext, op graph.Op, _ Value) (Value, error) {
	o := op.(graph.ReadBuffer)
	fields, ok := c.env.Definitions.Buffers[o.Buffer]
	if !ok {
		return nil, nameError(ErrUndefinedVariable, op, o.Buffer, "buffer %q is not defined", o.Buffer)
	}
	t, ok := fields[o.Name]
	if !ok {
		return nil, nameError(ErrUndefinedVariable, op, o.Name, "buffer %q has no field %q", o.Buffer, o.Name)
	}
	return NewBlockValue(t, &ir.ReadBuffer{Name: o.Name, Type: t, Buffer: o.Buffer}), nil
}

func (c *TranslationContext) texture(op graph.Op, name string) (ir.TextureType, error) {
	t, ok := c.env.Definitions.Textures[name]
	if !ok {
		return ir.TextureType{}, nameError(ErrUndefinedVariable, op, name, "texture %q is not defined", name)
	}
	return t, nil
}

// coordComponents returns the coordinate width textureSample expects.
func coordComponents(dim ir.TextureDimension) uint8 {
	switch dim {
	case ir.Dim1D:
		return 1
	case ir.Dim2D:
		return 2
	default:
		return 3
	}
}

func translateSampleTexture(c *TranslationContext, op graph.Op, top Value) (Value, error) {
	o := op.(graph.SampleTexture)
	tex, err := c.texture(op, o.Name)
	if err != nil {
		return nil, err
	}
	coord := top
	if coord == nil {
		coord, err = c.readInput(op, c.env.Definitions.texCoordInput())
		if err != nil {
			return nil, err
		}
	}
	want := ir.Vector(ir.Float32, coordComponents(tex.Dimension))
	if t, ok := numType(coord); !ok || t != want {
		return nil, nameError(ErrTypeMismatch, op, o.Name, "texture %q is sampled with %s, got %s",
			o.Name, want, ir.TypeString(coord.Type()))
	}
	result := ir.Vector(ir.Float32, 4)
	if tex.Format.IsInteger() {
		result = ir.Vector(tex.Format, 4)
	}
	return NewBlockValue(result, &ir.SampleTexture{Name: o.Name, Coord: coord.Render()}), nil
}

func translateRefTexture(c *TranslationContext, op graph.Op, _ Value) (Value, error) {
	o := op.(graph.RefTexture)
	tex, err := c.texture(op, o.Name)
	if err != nil {
		return nil, err
	}
	return NewBlockValue(tex, &ir.RefTexture{Name: o.Name}), nil
}

func translateRefSampler(c *TranslationContext, op graph.Op, _ Value) (Value, error) {
	o := op.(graph.RefSampler)
	if _, err := c.texture(op, o.Name); err != nil {
		return nil, err
	}
	return NewBlockValue(ir.SamplerType{}, &ir.RefSampler{Name: o.Name}), nil
}

func translateDiscard(c *TranslationContext, _ graph.Op, top Value) (Value, error) {
	c.AddNew(&ir.Direct{Text: "discard;\n"})
	return top, nil
}

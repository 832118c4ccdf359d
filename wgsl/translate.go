package wgsl

import (
	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// builtinHandlers maps every built-in opcode kind to its translator.
var builtinHandlers = map[graph.OpKind]Handler{
	graph.KindConst:         translateConst,
	graph.KindGet:           translateGet,
	graph.KindSet:           translateSet,
	graph.KindRef:           translateRef,
	graph.KindUpdate:        translateUpdate,
	graph.KindTake:          translateTake,
	graph.KindPush:          translatePush,
	graph.KindBinary:        translateBinary,
	graph.KindUnary:         translateUnary,
	graph.KindCast:          translateCast,
	graph.KindMake:          translateMake,
	graph.KindLerp:          translateLerp,
	graph.KindSub:           translateSub,
	graph.KindIf:            translateIf,
	graph.KindWhen:          translateWhen,
	graph.KindForRange:      translateForRange,
	graph.KindOr:            translateShortCircuit,
	graph.KindAnd:           translateShortCircuit,
	graph.KindCall:          translateCall,
	graph.KindReadInput:     translateReadInput,
	graph.KindWriteOutput:   translateWriteOutput,
	graph.KindReadBuffer:    translateReadBuffer,
	graph.KindSampleTexture: translateSampleTexture,
	graph.KindRefTexture:    translateRefTexture,
	graph.KindRefSampler:    translateRefSampler,
	graph.KindDiscard:       translateDiscard,
}

// consume returns top, or NoValueToConsume when the register is empty.
func consume(op graph.Op, top Value) (Value, error) {
	if top == nil {
		return nil, newError(ErrNoValueToConsume, op, "no value to consume")
	}
	return top, nil
}

// consumeNum is consume for opcodes that only accept numeric values.
func consumeNum(op graph.Op, top Value) (Value, ir.NumType, error) {
	v, err := consume(op, top)
	if err != nil {
		return nil, ir.NumType{}, err
	}
	nt, ok := numType(v)
	if !ok {
		return nil, ir.NumType{}, newError(ErrTypeMismatch, op, "expected a numeric value, got %s", ir.TypeString(v.Type()))
	}
	return v, nt, nil
}

// resolveOperand turns an operand into a value. Named operands read
// compose-time constants first, then variables.
func (c *TranslationContext) resolveOperand(op graph.Op, o graph.Operand) (Value, error) {
	switch {
	case o.Value != nil:
		return constValue(op, *o.Value)
	case o.Name == "":
		return nil, newError(ErrNoValueToConsume, op, "missing operand")
	case o.Global:
		return c.referenceGlobal(o.Name)
	}
	if v, ok := c.env.Constants[o.Name]; ok {
		return constValue(op, v)
	}
	return c.Reference(o.Name)
}

func constValue(op graph.Op, v graph.Value) (Value, error) {
	if err := v.Validate(); err != nil {
		return nil, typeError(op, err, "invalid literal")
	}
	return NewLiteralValue(v.Type, v.Literal()), nil
}

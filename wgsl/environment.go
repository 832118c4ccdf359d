package wgsl

import (
	"go.uber.org/zap"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// DefaultTexCoordInput is the stage input SampleTexture reads when there is
// no coordinate on the top register.
const DefaultTexCoordInput = "texCoord0"

// Definitions declares the IO interface visible to the IO opcodes.
type Definitions struct {
	Inputs   map[string]ir.Type
	Outputs  map[string]ir.Type
	Buffers  map[string]map[string]ir.Type
	Textures map[string]ir.TextureType

	// TexCoordInput overrides DefaultTexCoordInput.
	TexCoordInput string
}

// Environment is the composition context of one translation. It replaces
// any process-wide host state: everything a translator needs from the host
// is reachable from here.
type Environment struct {
	// Constants are compose-time values inlined wherever their name is read.
	Constants map[string]graph.Value

	Definitions Definitions

	// Captures computes the free variables of extracted sub-graphs.
	// graph.DefaultCaptures is used when nil.
	Captures graph.CaptureAnalyzer

	// Logger overrides the package logger for this translation.
	Logger *zap.Logger

	// ReservedNames are identifiers the generated code must never declare.
	ReservedNames []string
}

func (d *Definitions) texCoordInput() string {
	if d.TexCoordInput != "" {
		return d.TexCoordInput
	}
	return DefaultTexCoordInput
}

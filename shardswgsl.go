// Package shardswgsl compiles shards opcode graphs to WGSL.
//
// A program is an entry point opcode sequence plus the wires it calls,
// compose-time constants and its IO layout. The translation pipeline is:
//
//	JSON program → graph.Program → wgsl.TranslationContext → wgsl.Result → WGSL text
//
// Example usage:
//
//	program, err := shardswgsl.Decode(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source, err := shardswgsl.Compile(program)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For access to the output AST and the extracted function signatures, use
// Translate and Emit separately.
package shardswgsl

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/wgsl"
)

// Options configures compilation.
type Options struct {
	// EntryPoint overrides the program's entry point name.
	EntryPoint string

	// Bindings resolves IO nodes when emitting text (default: wgsl.DefaultBindings)
	Bindings wgsl.Bindings

	// Captures computes free variables of extracted sub-graphs
	// (default: graph.DefaultCaptures)
	Captures graph.CaptureAnalyzer

	// Logger receives debug events (default: the wgsl package logger)
	Logger *zap.Logger

	// ReservedNames are identifiers generated code must not declare
	ReservedNames []string

	// TexCoordInput is the input SampleTexture falls back to
	// (default: wgsl.DefaultTexCoordInput)
	TexCoordInput string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Bindings:      wgsl.DefaultBindings{},
		Captures:      graph.DefaultCaptures,
		ReservedNames: []string{"in", "out", "globals"},
		TexCoordInput: wgsl.DefaultTexCoordInput,
	}
}

// Decode reads a JSON program.
func Decode(r io.Reader) (*graph.Program, error) {
	return graph.DecodeProgram(r)
}

// Compile translates program to WGSL text using default options.
func Compile(program *graph.Program) (string, error) {
	return CompileWithOptions(program, DefaultOptions())
}

// CompileWithOptions translates program to WGSL text with custom options.
func CompileWithOptions(program *graph.Program, opts Options) (string, error) {
	result, err := Translate(program, opts)
	if err != nil {
		return "", err
	}
	return Emit(result, entryPoint(program, opts), opts), nil
}

// Translate runs the translator over the program's entry point and returns
// the output AST with the functions extracted along the way.
func Translate(program *graph.Program, opts Options) (*wgsl.Result, error) {
	ctx := wgsl.NewTranslationContext(wgsl.Environment{
		Constants: program.Constants,
		Definitions: wgsl.Definitions{
			Inputs:        program.Inputs,
			Outputs:       program.Outputs,
			Buffers:       program.Buffers,
			Textures:      program.Textures,
			TexCoordInput: opts.TexCoordInput,
		},
		Captures:      opts.Captures,
		Logger:        opts.Logger,
		ReservedNames: opts.ReservedNames,
	})
	if err := ctx.ProcessSequence(program.Ops); err != nil {
		return nil, fmt.Errorf("translate %s: %w", entryPoint(program, opts), err)
	}
	result, err := ctx.Finalize()
	if err != nil {
		return nil, fmt.Errorf("finalize %s: %w", entryPoint(program, opts), err)
	}
	return result, nil
}

// Emit renders a translation result as WGSL text.
func Emit(result *wgsl.Result, entry string, opts Options) string {
	return wgsl.Write(result, wgsl.WriterOptions{
		EntryPoint: entry,
		Bindings:   opts.Bindings,
	})
}

func entryPoint(program *graph.Program, opts Options) string {
	switch {
	case opts.EntryPoint != "":
		return opts.EntryPoint
	case program.EntryPoint != "":
		return program.EntryPoint
	default:
		return "main"
	}
}

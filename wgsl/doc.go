// Package wgsl translates shards opcode graphs into WGSL.
//
// A TranslationContext consumes opcodes one at a time. Each opcode's handler
// receives the pending top value, may emit statements into the current
// scope's block, and returns the value that replaces it. Nested sequences
// open child scopes (If, When, ForRange, Sub) or are extracted into WGSL
// functions (conditions and called wires).
//
// # Components
//
//   - TranslationContext: scope stack, globals, function cache, name allocator
//   - VariableStorage: per-scope variables, aliases, virtual sequences and tables
//   - Handlers: one translator per graph.OpKind, extensible with Register
//   - Writer: renders a Result as WGSL text for inspection and tooling
//
// # Usage
//
//	ctx := wgsl.NewTranslationContext(wgsl.Environment{
//	    Definitions: wgsl.Definitions{Inputs: inputs},
//	})
//	if err := ctx.ProcessSequence(ops); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := ctx.Finalize()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(wgsl.Write(result, wgsl.WriterOptions{}))
//
// # Conditions
//
// Conditions of If and When are compiled into functions returning bool so
// that Or and And can lower to early returns:
//
//	fn condition_3(input_4: f32, x_5: f32) -> bool {
//	    if ((x_5 > 0.)) { return true; }
//	    return (input_4 < 1.);
//	}
package wgsl

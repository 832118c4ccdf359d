package wgsl

import (
	"strings"
	"testing"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

func TestWireCompiledOnce(t *testing.T) {
	double := &graph.Wire{Name: "double", Body: graph.Sequence{
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Literal(graph.Float(2))},
	}}
	result, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.Call{Wire: double},
		graph.Set{Name: "a"},
		constant(graph.Float(3)),
		graph.Call{Wire: double},
		graph.Set{Name: "b"},
	})

	want := "fn double_1(input_2: f32) -> f32 {\n" +
		"    return (input_2 * 2.);\n" +
		"}\n" +
		"\n" +
		"fn main() {\n" +
		"    let a_3 = double_1(1.);\n" +
		"    let b_4 = double_1(3.);\n" +
		"}\n"
	if src != want {
		t.Errorf("output =\n%s\nwant\n%s", src, want)
	}
	if len(result.Functions) != 1 {
		t.Errorf("len(Functions) = %d, want 1", len(result.Functions))
	}
	if n := strings.Count(src, "fn double_"); n != 1 {
		t.Errorf("double emitted %d times, want once", n)
	}
}

func TestWireInputTypeIsFixed(t *testing.T) {
	double := &graph.Wire{Name: "double", Body: graph.Sequence{
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Literal(graph.Float(2))},
	}}
	err := translateErr(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.Call{Wire: double},
		graph.Set{Name: "a"},
		constant(graph.Int(1)),
		graph.Call{Wire: double},
	})
	if !IsKind(err, ErrTypeMismatch) {
		t.Errorf("error = %v, want TypeMismatch", err)
	}
}

func TestWireCapturesCallerVariable(t *testing.T) {
	scale := &graph.Wire{Name: "scale", Body: graph.Sequence{
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Var("k")},
	}}
	result, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(2)),
		graph.Set{Name: "k"},
		constant(graph.Float(1)),
		graph.Call{Wire: scale},
		graph.Set{Name: "r"},
	})
	wantContains(t, src,
		"fn scale_2(input_3: f32, k_4: f32) -> f32 {\n    return (input_3 * k_4);\n}",
		"let r_5 = scale_2(1., k_1);",
	)
	captures := result.Functions[0].Captures()
	if len(captures) != 1 || captures[0].HostName != "k" || captures[0].Name != "k_4" {
		t.Errorf("Captures() = %+v, want k as k_4", captures)
	}
}

func TestConstantsAreNotCaptured(t *testing.T) {
	tint := &graph.Wire{Name: "tint", Body: graph.Sequence{
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Var("scale")},
	}}
	env := Environment{Constants: map[string]graph.Value{"scale": graph.Float(0.5)}}
	_, src := translate(t, env, graph.Sequence{
		constant(graph.Float(1)),
		graph.Call{Wire: tint},
		graph.Set{Name: "c"},
	})
	wantContains(t, src,
		"fn tint_1(input_2: f32) -> f32 {\n    return (input_2 * 0.5);\n}",
		"let c_3 = tint_1(1.);",
	)
}

func TestCapturedParameterUnlocksOnWrite(t *testing.T) {
	bump := &graph.Wire{Name: "bump", Body: graph.Sequence{
		constant(graph.Float(5)),
		graph.Update{Name: "k"},
		graph.Get{Name: "k"},
	}}
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(2)),
		graph.Set{Name: "k"},
		graph.Call{Wire: bump},
		graph.Set{Name: "r"},
		graph.Get{Name: "k"},
		graph.Set{Name: "s"},
	})
	wantContains(t, src,
		"fn bump_2(k_3: f32) -> f32 {\n"+
			"    var k_4 = k_3;\n"+
			"    k_4 = 5.;\n"+
			"    return k_4;\n"+
			"}\n",
		"    let k_1 = 2.;\n",
		"let r_5 = bump_2(k_1);",
		"let s_6 = k_1;",
	)

	err := translateErr(t, Environment{}, graph.Sequence{
		constant(graph.Float(2)),
		graph.Set{Name: "k"},
		graph.Call{Wire: &graph.Wire{Name: "bad", Body: graph.Sequence{
			constant(graph.Int(5)),
			graph.Update{Name: "k"},
		}}},
	})
	if !IsKind(err, ErrTypeMismatch) {
		t.Errorf("retyping a captured parameter error = %v, want TypeMismatch", err)
	}
}

func TestWireCapturesTable(t *testing.T) {
	read := &graph.Wire{Name: "read", Body: graph.Sequence{graph.Get{Name: "light", Key: "power"}}}
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1, 0, 0)),
		graph.Set{Name: "light", Key: "dir"},
		constant(graph.Float(1)),
		graph.Set{Name: "light", Key: "power"},
		graph.Call{Wire: read},
		graph.Set{Name: "p"},
	})
	wantContains(t, src,
		"fn read_1(light_dir_2: vec3<f32>, light_power_3: f32) -> f32 {\n    return light_power_3;\n}",
		"let p_4 = read_1(vec3<f32>(1.,0.,0.), 1.);",
	)
}

func TestRecursiveWire(t *testing.T) {
	loop := &graph.Wire{Name: "loop"}
	loop.Body = graph.Sequence{graph.Call{Wire: loop}}

	err := translateErr(t, Environment{}, graph.Sequence{constant(graph.Float(1)), graph.Call{Wire: loop}})
	if !IsKind(err, ErrMisplacedOpcode) {
		t.Errorf("error = %v, want MisplacedOpcode", err)
	}
}

func TestWireWithoutOutput(t *testing.T) {
	store := &graph.Wire{Name: "store", Body: graph.Sequence{graph.Set{Name: "acc", Global: true}}}
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.Call{Wire: store},
	})
	wantContains(t, src,
		"fn store_1(input_2: f32) {\n    globals.acc = input_2;\n}",
		"    store_1(1.);\n",
	)
}

func TestProcessShards(t *testing.T) {
	c := NewTranslationContext(Environment{Constants: map[string]graph.Value{"half": graph.Float(0.5)}})
	if err := c.ProcessSequence(graph.Sequence{constant(graph.Float(3)), graph.Set{Name: "k"}}); err != nil {
		t.Fatal(err)
	}

	fn, err := c.ProcessShards(graph.Sequence{
		graph.Binary{Op: ir.BinaryAdd, Operand: graph.Var("k")},
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Var("half")},
	}, []string{"k", "half", "unbound"}, ir.TypeFloat, "helper fn")
	if err != nil {
		t.Fatalf("ProcessShards() error = %v", err)
	}
	if got, want := fn.Signature(), "fn helper_fn_2(input_3: f32, k_4: f32) -> f32"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
	if got := c.Functions(); len(got) != 1 || got[0] != fn {
		t.Errorf("Functions() = %v, want the extracted function", got)
	}

	_, err = c.ProcessShards(nil, nil, ir.TextureType{Dimension: ir.Dim2D, Format: ir.Float32}, "sample")
	if !IsKind(err, ErrTypeMismatch) {
		t.Errorf("opaque input error = %v, want TypeMismatch", err)
	}
}

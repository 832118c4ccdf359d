package shardswgsl

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fragcolor-xyz/shardswgsl/wgsl"
)

const tintProgram = `{
  "entryPoint": "fragment",
  "inputs": {"texCoord0": "vec2<f32>"},
  "outputs": {"color": "vec4<f32>"},
  "textures": {"albedo": "texture_2d<f32>"},
  "constants": {"scale": {"type": "f32", "value": [0.5]}},
  "wires": {
    "tint": [{"op": "Multiply", "operand": {"name": "scale"}}]
  },
  "ops": [
    {"op": "SampleTexture", "name": "albedo"},
    {"op": "Do", "wire": "tint"},
    {"op": "WriteOutput", "name": "color"}
  ]
}`

func TestCompile(t *testing.T) {
	program, err := Decode(strings.NewReader(tintProgram))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, err := Compile(program)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := "fn tint_1(input_2: vec4<f32>) -> vec4<f32> {\n" +
		"    return (input_2 * 0.5);\n" +
		"}\n" +
		"\n" +
		"fn fragment() {\n" +
		"    out.color = tint_1(textureSample(t_albedo, s_albedo, in.texCoord0));\n" +
		"}\n"
	if got != want {
		t.Errorf("Compile() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompileWithOptions(t *testing.T) {
	program, err := Decode(strings.NewReader(tintProgram))
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zap.DebugLevel)

	opts := DefaultOptions()
	opts.EntryPoint = "fs_main"
	opts.Logger = zap.New(core)
	got, err := CompileWithOptions(program, opts)
	if err != nil {
		t.Fatalf("CompileWithOptions() error = %v", err)
	}
	if !strings.Contains(got, "fn fs_main() {") {
		t.Errorf("entry point not renamed:\n%s", got)
	}
	if n := logs.FilterMessage("extracted function").Len(); n != 1 {
		t.Errorf("logged %d extracted functions, want 1", n)
	}
}

func TestTranslateFunctions(t *testing.T) {
	program, err := Decode(strings.NewReader(tintProgram))
	if err != nil {
		t.Fatal(err)
	}
	result, err := Translate(program, DefaultOptions())
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if len(result.Functions) != 1 {
		t.Fatalf("len(Functions) = %d, want 1", len(result.Functions))
	}
	if got, want := result.Functions[0].Signature(), "fn tint_1(input_2: vec4<f32>) -> vec4<f32>"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
	if _, ok := result.Outputs["color"]; !ok {
		t.Error("Outputs should record color")
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		kind    wgsl.ErrorKind
		prefix  string
	}{
		{"undefined variable", `{"ops": [{"op": "Get", "name": "ghost"}]}`, wgsl.ErrUndefinedVariable, "translate main: "},
		{"misplaced Or", `{"entryPoint": "vs", "ops": [{"op": "Const", "value": {"type": "bool", "value": [true]}}, {"op": "Or"}]}`, wgsl.ErrMisplacedOpcode, "translate vs: "},
		{"type mismatch", `{"ops": [{"op": "Const", "value": {"type": "f32", "value": [1]}}, {"op": "Add", "operand": {"value": {"type": "i32", "value": [1]}}}]}`, wgsl.ErrTypeMismatch, "translate main: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Decode(strings.NewReader(tt.program))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			_, err = Compile(program)
			if !wgsl.IsKind(err, tt.kind) {
				t.Fatalf("Compile() error = %v, want %s", err, tt.kind)
			}
			if !strings.HasPrefix(err.Error(), tt.prefix) {
				t.Errorf("error %q should start with %q", err, tt.prefix)
			}
		})
	}
}

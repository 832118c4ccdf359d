package wgsl

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fragcolor-xyz/shardswgsl/graph"
	"github.com/fragcolor-xyz/shardswgsl/ir"
)

// TestTakeSwizzles checks Take over every vector width and index
// combination of length 1 and 2, plus a few longer ones: in-range indices
// produce the matching letters and width, anything else is InvalidSwizzle.
func TestTakeSwizzles(t *testing.T) {
	type take struct {
		width   uint8
		indices []int
	}
	var cases []take
	for width := uint8(2); width <= 4; width++ {
		for a := -1; a <= 4; a++ {
			cases = append(cases, take{width, []int{a}})
			for b := 0; b <= 4; b++ {
				cases = append(cases, take{width, []int{a, b}})
			}
		}
		cases = append(cases,
			take{width, []int{0, 1, 1}},
			take{width, []int{1, 0, 1, 0}},
			take{width, []int{0, 0, 0, 0, 0}},
			take{width, nil},
		)
	}

	for _, tc := range cases {
		components := make([]float64, tc.width)
		vec := graph.Float(components...)
		t.Run(fmt.Sprintf("vec%d%v", tc.width, tc.indices), func(t *testing.T) {
			c := NewTranslationContext(Environment{})
			err := c.ProcessSequence(graph.Sequence{constant(vec), graph.Take{Indices: tc.indices}})

			valid := len(tc.indices) >= 1 && len(tc.indices) <= 4
			var letters strings.Builder
			for _, idx := range tc.indices {
				if idx < 0 || idx >= int(tc.width) {
					valid = false
					break
				}
				letters.WriteByte("xyzw"[idx])
			}

			if !valid {
				if !IsKind(err, ErrInvalidSwizzle) {
					t.Errorf("error = %v, want InvalidSwizzle", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProcessSequence() error = %v", err)
			}

			want := ir.TypeFloat
			if len(tc.indices) > 1 {
				want = ir.Vector(ir.Float32, uint8(len(tc.indices)))
			}
			if got := c.Top().Type(); !ir.TypesEqual(got, want) {
				t.Errorf("type = %s, want %s", ir.TypeString(got), want)
			}
			if got := renderValue(c.Top()); !strings.HasSuffix(got, ")."+letters.String()) {
				t.Errorf("Take = %q, want suffix .%s", got, letters.String())
			}
		})
	}
}

func TestTakeNeedsVector(t *testing.T) {
	err := translateErr(t, Environment{}, graph.Sequence{constant(graph.Float(1)), graph.Take{Indices: []int{0}}})
	if !IsKind(err, ErrInvalidSwizzle) {
		t.Errorf("Take of a scalar error = %v, want InvalidSwizzle", err)
	}
	err = translateErr(t, Environment{}, graph.Sequence{graph.Take{Indices: []int{0}}})
	if !IsKind(err, ErrNoValueToConsume) {
		t.Errorf("Take without a value error = %v, want NoValueToConsume", err)
	}
}

func pushAll(name string, values ...graph.Value) graph.Sequence {
	seq := make(graph.Sequence, 0, 2*len(values))
	for _, v := range values {
		seq = append(seq, constant(v), graph.Push{Name: name})
	}
	return seq
}

func TestPushBuildsMatrix(t *testing.T) {
	seq := pushAll("m",
		graph.Float(1, 0, 0, 0),
		graph.Float(0, 1, 0, 0),
		graph.Float(0, 0, 1, 0),
		graph.Float(0, 0, 0, 1),
	)
	seq = append(seq, graph.Get{Name: "m"}, graph.Set{Name: "t"})
	// A second cycle starts a fresh accumulator once m is bound.
	seq = append(seq, pushAll("m", graph.Float(1, 2, 3), graph.Float(4, 5, 6), graph.Float(7, 8, 9))...)
	seq = append(seq, graph.Get{Name: "m"}, graph.Set{Name: "u"})

	c := NewTranslationContext(Environment{})
	if err := c.ProcessSequence(seq); err != nil {
		t.Fatalf("ProcessSequence() error = %v", err)
	}
	if v, err := c.Reference("m"); err != nil || !ir.TypesEqual(v.Type(), ir.Matrix(ir.TypeFloat3, 3)) {
		t.Errorf("Reference(m) = %v, %v, want mat3x3<f32>", v, err)
	}
	result, err := c.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	src := Write(result, WriterOptions{})
	wantContains(t, src,
		"let m_1 = mat4x4<f32>(vec4<f32>(1.,0.,0.,0.), vec4<f32>(0.,1.,0.,0.), vec4<f32>(0.,0.,1.,0.), vec4<f32>(0.,0.,0.,1.));",
		"let t_2 = m_1;",
		"let m_3 = mat3x3<f32>(vec3<f32>(1.,2.,3.), vec3<f32>(4.,5.,6.), vec3<f32>(7.,8.,9.));",
		"let u_4 = m_3;",
	)
}

func TestPushSingleValue(t *testing.T) {
	seq := append(pushAll("v", graph.Float(7)), graph.Get{Name: "v"}, graph.Set{Name: "w"})
	_, src := translate(t, Environment{}, seq)
	wantContains(t, src, "let v_1 = 7.;", "let w_2 = v_1;")
}

func TestPushStabilizesExpressions(t *testing.T) {
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1, 2)),
		graph.Binary{Op: ir.BinaryAdd, Operand: graph.Literal(graph.Float(1))},
		graph.Push{Name: "rows"},
		graph.Push{Name: "rows"},
		graph.Get{Name: "rows"},
		graph.Set{Name: "m"},
	})
	wantContains(t, src,
		"let tmp_1 = (vec2<f32>(1.,2.) + 1.);",
		"let rows_2 = mat2x2<f32>(tmp_1, tmp_1);",
	)
}

func TestPushErrors(t *testing.T) {
	tests := []struct {
		name string
		seq  graph.Sequence
	}{
		{"element type changes", pushAll("m", graph.Float(1, 2), graph.Float(1, 2, 3))},
		{"too many rows", append(pushAll("m",
			graph.Float(1, 2), graph.Float(1, 2), graph.Float(1, 2), graph.Float(1, 2), graph.Float(1, 2),
		), graph.Get{Name: "m"})},
		{"not square", append(pushAll("m", graph.Float(1, 2, 3), graph.Float(4, 5, 6)), graph.Get{Name: "m"})},
		{"integer rows", append(pushAll("m", graph.Int(1, 2), graph.Int(3, 4)), graph.Get{Name: "m"})},
		{"scalar rows", append(pushAll("m", graph.Float(1), graph.Float(2)), graph.Get{Name: "m"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateErr(t, Environment{}, tt.seq)
			if !IsKind(err, ErrTypeMismatch) {
				t.Errorf("error = %v, want TypeMismatch", err)
			}
			var e *Error
			if errors.As(err, &e) && e.Name != "m" {
				t.Errorf("Name = %q, want m", e.Name)
			}
		})
	}
}

func TestPushInNestedScope(t *testing.T) {
	// Rows pushed inside a Sub land in the enclosing accumulator.
	seq := pushAll("m", graph.Float(1, 0))
	seq = append(seq, graph.Sub{Body: pushAll("m", graph.Float(0, 1))}, graph.Get{Name: "m"}, graph.Set{Name: "k"})
	_, src := translate(t, Environment{}, seq)
	wantContains(t, src, "let m_1 = mat2x2<f32>(vec2<f32>(1.,0.), vec2<f32>(0.,1.));")
}

func TestMaterializeInSubEmptiesAccumulator(t *testing.T) {
	seq := pushAll("m", graph.Float(1, 0), graph.Float(0, 1))
	seq = append(seq, graph.Sub{Body: graph.Sequence{graph.Get{Name: "m"}, graph.Set{Name: "inner"}}})
	seq = append(seq, pushAll("m", graph.Float(2, 2))...)
	seq = append(seq, graph.Get{Name: "m"}, graph.Set{Name: "outer"})

	_, src := translate(t, Environment{}, seq)
	want := "fn main() {\n" +
		"    let m_1 = mat2x2<f32>(vec2<f32>(1.,0.), vec2<f32>(0.,1.));\n" +
		"    let inner_2 = m_1;\n" +
		"    let m_3 = vec2<f32>(2.,2.);\n" +
		"    let outer_4 = m_3;\n" +
		"}\n"
	if src != want {
		t.Errorf("output =\n%s\nwant\n%s", src, want)
	}
}

func TestMaterializeInBranch(t *testing.T) {
	always := graph.Sequence{constant(graph.Bool(true))}

	t.Run("rows from outside", func(t *testing.T) {
		seq := pushAll("m", graph.Float(1, 0), graph.Float(0, 1))
		seq = append(seq,
			constant(graph.Float(1)),
			graph.When{Condition: always, Action: graph.Sequence{graph.Get{Name: "m"}, graph.Set{Name: "inner"}}},
			graph.Get{Name: "m"},
			graph.Set{Name: "outer"},
		)
		seq = append(seq, pushAll("m", graph.Float(2, 2))...)
		seq = append(seq, graph.Get{Name: "m"}, graph.Set{Name: "again"})

		_, src := translate(t, Environment{}, seq)
		wantContains(t, src, "fn main() {\n"+
			"    let m_3 = mat2x2<f32>(vec2<f32>(1.,0.), vec2<f32>(0.,1.));\n"+
			"    if (condition_1(1.)) {\n"+
			"        let inner_4 = m_3;\n"+
			"    }\n"+
			"    let outer_5 = m_3;\n"+
			"    let m_6 = vec2<f32>(2.,2.);\n"+
			"    let again_7 = m_6;\n"+
			"}\n")
	})

	t.Run("rows from inside", func(t *testing.T) {
		seq := pushAll("m", graph.Float(1, 0))
		seq = append(seq,
			constant(graph.Float(1)),
			graph.When{Condition: always, Action: append(pushAll("m", graph.Float(0, 1)),
				graph.Get{Name: "m"},
				graph.Set{Name: "inner"},
			)},
			graph.Get{Name: "m"},
			graph.Set{Name: "outer"},
		)

		_, src := translate(t, Environment{}, seq)
		wantContains(t, src, "fn main() {\n"+
			"    var m_3: vec2<f32>;\n"+
			"    var m_4: mat2x2<f32>;\n"+
			"    if (condition_1(1.)) {\n"+
			"        m_3 = vec2<f32>(0.,1.);\n"+
			"        m_4 = mat2x2<f32>(vec2<f32>(1.,0.), m_3);\n"+
			"        let inner_5 = m_4;\n"+
			"    }\n"+
			"    let outer_6 = m_4;\n"+
			"}\n")
	})
}

func TestPushInBranchIsHoisted(t *testing.T) {
	positive := graph.Sequence{graph.Binary{Op: ir.BinaryGreater, Operand: graph.Literal(graph.Float(0))}}
	seq := pushAll("m", graph.Float(1, 0))
	seq = append(seq,
		constant(graph.Float(1)),
		graph.Set{Name: "x"},
		constant(graph.Float(5)),
		graph.Set{Name: "t", Key: "k"},
		graph.Get{Name: "x"},
		graph.When{Condition: positive, Action: graph.Sequence{
			constant(graph.Float(0, 1)),
			graph.Binary{Op: ir.BinaryAdd, Operand: graph.Literal(graph.Float(1, 1))},
			graph.Push{Name: "m"},
			graph.Get{Name: "x"},
			graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Literal(graph.Float(2))},
			graph.Set{Name: "t", Key: "k"},
			graph.Get{Name: "x"},
		}},
		graph.Get{Name: "m"},
		graph.Set{Name: "outer"},
		graph.Get{Name: "t", Key: "k"},
		graph.Set{Name: "y"},
	)

	_, src := translate(t, Environment{}, seq)
	wantContains(t, src,
		"fn condition_2(input_3: f32) -> bool {\n    return (input_3 > 0.);\n}",
		"fn main() {\n"+
			"    let x_1 = 1.;\n"+
			"    var m_4: vec2<f32>;\n"+
			"    var t_k_5 = 5.;\n"+
			"    if (condition_2(x_1)) {\n"+
			"        m_4 = (vec2<f32>(0.,1.) + vec2<f32>(1.,1.));\n"+
			"        t_k_5 = (x_1 * 2.);\n"+
			"    }\n"+
			"    let m_6 = mat2x2<f32>(vec2<f32>(1.,0.), m_4);\n"+
			"    let outer_7 = m_6;\n"+
			"    let y_8 = t_k_5;\n"+
			"}\n",
	)
}

func TestPushInLoopIsHoisted(t *testing.T) {
	seq := pushAll("m", graph.Float(1, 0))
	seq = append(seq,
		graph.ForRange{From: 0, To: 1, Body: pushAll("m", graph.Float(0, 1))},
		graph.Get{Name: "m"},
		graph.Set{Name: "k"},
	)
	_, src := translate(t, Environment{}, seq)
	want := "fn main() {\n" +
		"    var m_2: vec2<f32>;\n" +
		"    for (var i_1: i32 = 0; i_1 <= 1; i_1++) {\n" +
		"        m_2 = vec2<f32>(0.,1.);\n" +
		"    }\n" +
		"    let m_3 = mat2x2<f32>(vec2<f32>(1.,0.), m_2);\n" +
		"    let k_4 = m_3;\n" +
		"}\n"
	if src != want {
		t.Errorf("output =\n%s\nwant\n%s", src, want)
	}
}

func TestTableEntryInBothBranches(t *testing.T) {
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.Set{Name: "t", Key: "k"},
		constant(graph.Float(2)),
		graph.If{
			Condition: graph.Sequence{graph.Binary{Op: ir.BinaryLess, Operand: graph.Literal(graph.Float(0))}},
			Then:      graph.Sequence{graph.Set{Name: "t", Key: "k"}},
			Else: graph.Sequence{
				graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Literal(graph.Float(3))},
				graph.Set{Name: "t", Key: "k"},
			},
			Passthrough: true,
		},
		graph.Get{Name: "t", Key: "k"},
		graph.Set{Name: "y"},
	})
	wantContains(t, src, "fn main() {\n"+
		"    var t_k_3 = 1.;\n"+
		"    if (condition_1(2.)) {\n"+
		"        t_k_3 = 2.;\n"+
		"    } else {\n"+
		"        t_k_3 = (2. * 3.);\n"+
		"    }\n"+
		"    let y_4 = t_k_3;\n"+
		"}\n")
}

func TestBranchLocalsStayInBranch(t *testing.T) {
	// A table or accumulator first created inside a branch is local to it.
	err := translateErr(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.When{Condition: graph.Sequence{constant(graph.Bool(true))}, Action: graph.Sequence{
			graph.Set{Name: "t", Key: "k"},
		}},
		graph.Get{Name: "t", Key: "k"},
	})
	if !IsKind(err, ErrUndefinedVariable) {
		t.Errorf("table read after branch error = %v, want UndefinedVariable", err)
	}

	err = translateErr(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.When{Condition: graph.Sequence{constant(graph.Bool(true))}, Action: graph.Sequence{
			constant(graph.Float(1, 0)),
			graph.Push{Name: "m"},
			constant(graph.Float(0)),
		}},
		graph.Get{Name: "m"},
	})
	if !IsKind(err, ErrUndefinedVariable) {
		t.Errorf("sequence read after branch error = %v, want UndefinedVariable", err)
	}
}

func TestVirtualTable(t *testing.T) {
	_, src := translate(t, Environment{}, graph.Sequence{
		constant(graph.Float(1, 0, 0)),
		graph.Set{Name: "light", Key: "dir"},
		constant(graph.Float(2)),
		graph.Binary{Op: ir.BinaryMultiply, Operand: graph.Literal(graph.Float(3))},
		graph.Set{Name: "light", Key: "power"},
		graph.Get{Name: "light", Key: "power"},
		graph.Set{Name: "p"},
		graph.Get{Name: "light", Key: "dir"},
		graph.Set{Name: "d"},
	})
	wantContains(t, src,
		"let tmp_1 = (2. * 3.);",
		"let p_2 = tmp_1;",
		"let d_3 = vec3<f32>(1.,0.,0.);",
	)

	err := translateErr(t, Environment{}, graph.Sequence{
		constant(graph.Float(1)),
		graph.Set{Name: "light", Key: "dir"},
		graph.Get{Name: "light", Key: "color"},
	})
	if !IsKind(err, ErrUndefinedVariable) {
		t.Errorf("missing table entry error = %v, want UndefinedVariable", err)
	}
}

func TestResourceAliases(t *testing.T) {
	env := Environment{Definitions: Definitions{
		Inputs:   map[string]ir.Type{"uv": ir.TypeFloat2},
		Textures: map[string]ir.TextureType{"albedo": {Dimension: ir.Dim2D, Format: ir.Float32}},
	}}
	c := NewTranslationContext(env)
	err := c.ProcessSequence(graph.Sequence{
		graph.RefTexture{Name: "albedo"},
		graph.Set{Name: "tex"},
		graph.Get{Name: "tex"},
	})
	if err != nil {
		t.Fatalf("ProcessSequence() error = %v", err)
	}
	if got := renderValue(c.Top()); got != "t_albedo" {
		t.Errorf("alias renders as %q, want t_albedo", got)
	}

	err = translateErr(t, env, graph.Sequence{
		graph.RefTexture{Name: "albedo"}, graph.Set{Name: "tex"},
		graph.RefSampler{Name: "albedo"}, graph.Set{Name: "tex"},
	})
	if !IsKind(err, ErrDuplicateBinding) {
		t.Errorf("re-alias error = %v, want DuplicateBinding", err)
	}
}

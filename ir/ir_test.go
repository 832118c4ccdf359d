package ir

import "testing"

func TestNumTypeTypeName(t *testing.T) {
	tests := []struct {
		name string
		typ  NumType
		want string
	}{
		{"f32", TypeFloat, "f32"},
		{"i32", TypeInt, "i32"},
		{"u32", TypeUInt, "u32"},
		{"bool", TypeBool, "bool"},
		{"f16", Scalar(Float16), "f16"},
		{"i8 widens", Scalar(Int8), "i32"},
		{"u16 widens", Scalar(UInt16), "u32"},
		{"vec2<f32>", TypeFloat2, "vec2<f32>"},
		{"vec3<i32>", TypeInt3, "vec3<i32>"},
		{"vec4<bool>", Vector(Bool, 4), "vec4<bool>"},
		{"vec2 of u8", Vector(UInt8, 2), "vec2<u32>"},
		{"mat4x4", Matrix(TypeFloat4, 4), "mat4x4<f32>"},
		{"mat3x4", Matrix(TypeFloat4, 3), "mat3x4<f32>"},
		{"mat2x3", Matrix(TypeFloat3, 2), "mat2x3<f32>"},
		{"atomic", NumType{Base: UInt32, Components: 1, MatrixDimension: 1, Atomic: true}, "atomic<u32>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.TypeName(); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNumTypeString(t *testing.T) {
	tests := []struct {
		typ  NumType
		want string
	}{
		{TypeFloat, "Float32"},
		{TypeFloat3, "Float32x3"},
		{Vector(Int16, 2), "Int16x2"},
		{Matrix(TypeFloat4, 4), "Float32x4x4"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNumTypeShape(t *testing.T) {
	mat := Matrix(TypeFloat3, 3)
	rect := Matrix(TypeFloat4, 2)

	if !TypeFloat.IsScalar() || TypeFloat.IsVector() || TypeFloat.IsMatrix() {
		t.Error("f32 should be a scalar only")
	}
	if TypeFloat3.IsScalar() || !TypeFloat3.IsVector() || TypeFloat3.IsMatrix() {
		t.Error("vec3<f32> should be a vector only")
	}
	if mat.IsScalar() || mat.IsVector() || !mat.IsMatrix() {
		t.Error("mat3x3<f32> should be a matrix only")
	}
	if !mat.IsSquareMatrix() {
		t.Error("mat3x3<f32> should be square")
	}
	if rect.IsSquareMatrix() {
		t.Error("mat2x4<f32> should not be square")
	}
	if got := TypeInt4.Element(); got != TypeInt {
		t.Errorf("Element() = %v, want %v", got, TypeInt)
	}
	if got := TypeFloat.WithComponents(3); got != TypeFloat3 {
		t.Errorf("WithComponents(3) = %v, want %v", got, TypeFloat3)
	}
	if got := TypeFloat2.WithBase(Int32); got != TypeInt2 {
		t.Errorf("WithBase(Int32) = %v, want %v", got, TypeInt2)
	}
}

func TestBaseTypeKinds(t *testing.T) {
	tests := []struct {
		base    BaseType
		float   bool
		integer bool
		signed  bool
	}{
		{Int8, false, true, true},
		{UInt8, false, true, false},
		{Int16, false, true, true},
		{UInt16, false, true, false},
		{Int32, false, true, true},
		{UInt32, false, true, false},
		{Float16, true, false, true},
		{Float32, true, false, true},
		{Bool, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.base.String(), func(t *testing.T) {
			if got := tt.base.IsFloat(); got != tt.float {
				t.Errorf("IsFloat() = %v, want %v", got, tt.float)
			}
			if got := tt.base.IsInteger(); got != tt.integer {
				t.Errorf("IsInteger() = %v, want %v", got, tt.integer)
			}
			if got := tt.base.IsSigned(); got != tt.signed {
				t.Errorf("IsSigned() = %v, want %v", got, tt.signed)
			}
		})
	}
}

func TestOpaqueTypeNames(t *testing.T) {
	length := uint32(8)
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"texture 2d", TextureType{Dimension: Dim2D, Format: Float32}, "texture_2d<f32>"},
		{"texture 1d", TextureType{Dimension: Dim1D, Format: Float32}, "texture_1d<f32>"},
		{"texture cube", TextureType{Dimension: DimCube, Format: Float32}, "texture_cube<f32>"},
		{"integer texture", TextureType{Dimension: Dim3D, Format: UInt32}, "texture_3d<u32>"},
		{"sampler", SamplerType{}, "sampler"},
		{"runtime array", ArrayType{Element: TypeFloat4}, "array<vec4<f32>>"},
		{"fixed array", ArrayType{Element: TypeInt, FixedLength: &length}, "array<i32, 8>"},
		{"struct", StructType{Name: "Light"}, "Light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.TypeName(); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypesEqual(t *testing.T) {
	four, eight := uint32(4), uint32(8)
	light := StructType{Name: "Light", Fields: []StructField{{Name: "color", Type: TypeFloat3}}}
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same scalar", TypeFloat, Scalar(Float32), true},
		{"different width", TypeFloat, TypeFloat2, false},
		{"different base", TypeFloat2, TypeInt2, false},
		{"scalar vs texture", TypeFloat, TextureType{}, false},
		{"samplers", SamplerType{}, SamplerType{}, true},
		{"textures", TextureType{Dimension: Dim2D}, TextureType{Dimension: Dim2D}, true},
		{"texture dims", TextureType{Dimension: Dim2D}, TextureType{Dimension: Dim3D}, false},
		{"structs", light, StructType{Name: "Light", Fields: []StructField{{Name: "color", Type: TypeFloat3}}}, true},
		{"struct fields", light, StructType{Name: "Light", Fields: []StructField{{Name: "color", Type: TypeFloat4}}}, false},
		{"fixed arrays", ArrayType{Element: TypeInt, FixedLength: &four}, ArrayType{Element: TypeInt, FixedLength: &four}, true},
		{"array lengths", ArrayType{Element: TypeInt, FixedLength: &four}, ArrayType{Element: TypeInt, FixedLength: &eight}, false},
		{"fixed vs runtime", ArrayType{Element: TypeInt, FixedLength: &four}, ArrayType{Element: TypeInt}, false},
		{"nil", nil, TypeFloat, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("TypesEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOpaque(t *testing.T) {
	if !IsOpaque(TextureType{}) || !IsOpaque(SamplerType{}) {
		t.Error("textures and samplers should be opaque")
	}
	if IsOpaque(TypeFloat4) || IsOpaque(ArrayType{Element: TypeFloat}) {
		t.Error("numeric and array types should not be opaque")
	}
}

func TestJoinAndWalk(t *testing.T) {
	read := &ReadInput{Name: "uv", Type: TypeFloat2}
	c := Join("let a = ", read, "", nil, ";\n")
	if c.Len() != 3 {
		t.Fatalf("Join() has %d children, want 3", c.Len())
	}

	root := &Compound{}
	root.Append(&Header{Block: Join("fn f() {}")}, c, &WriteOutput{Name: "color", Value: Join("x")})

	var directs, reads int
	Walk(root, func(b Block) bool {
		switch b.(type) {
		case *Direct:
			directs++
		case *ReadInput:
			reads++
		}
		return true
	})
	if directs != 4 || reads != 1 {
		t.Errorf("Walk() visited %d directs and %d reads, want 4 and 1", directs, reads)
	}

	directs = 0
	Walk(root, func(b Block) bool {
		if _, ok := b.(*Direct); ok {
			directs++
		}
		_, header := b.(*Header)
		return !header
	})
	if directs != 3 {
		t.Errorf("Walk() skipping headers visited %d directs, want 3", directs)
	}
}

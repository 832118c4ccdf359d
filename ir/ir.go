package ir

import (
	"fmt"
	"strconv"
)

// BaseType is the scalar kind of a numeric type.
type BaseType uint8

const (
	Int8 BaseType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Float16
	Float32
	Bool
)

// String returns the host-facing name of the base type.
func (b BaseType) String() string {
	switch b {
	case Int8:
		return "Int8"
	case UInt8:
		return "UInt8"
	case Int16:
		return "Int16"
	case UInt16:
		return "UInt16"
	case Int32:
		return "Int32"
	case UInt32:
		return "UInt32"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Bool:
		return "Bool"
	default:
		return "BaseType(" + strconv.Itoa(int(b)) + ")"
	}
}

// ScalarName returns the WGSL scalar type used to store values of this kind.
// WGSL has no 8 or 16 bit integers, so those widen to i32/u32.
func (b BaseType) ScalarName() string {
	switch b {
	case Int8, Int16, Int32:
		return "i32"
	case UInt8, UInt16, UInt32:
		return "u32"
	case Float16:
		return "f16"
	case Float32:
		return "f32"
	case Bool:
		return "bool"
	default:
		return "<invalid>"
	}
}

// IsFloat reports whether b is a floating point kind.
func (b BaseType) IsFloat() bool {
	return b == Float16 || b == Float32
}

// IsInteger reports whether b is a signed or unsigned integer kind.
func (b BaseType) IsInteger() bool {
	return b <= UInt32
}

// IsSigned reports whether b is a signed integer or float kind.
func (b BaseType) IsSigned() bool {
	switch b {
	case Int8, Int16, Int32, Float16, Float32:
		return true
	default:
		return false
	}
}

// Type is one of NumType, TextureType, SamplerType, StructType or ArrayType.
type Type interface {
	typeInner()

	// TypeName returns the WGSL spelling of the type.
	TypeName() string
}

// NumType describes scalar, vector and matrix numeric types.
//
// Components is the vector width (1 for scalars). MatrixDimension greater
// than 1 makes the type a matrix of MatrixDimension columns, each a vector of
// Components rows. Matrices are Float32 only.
type NumType struct {
	Base            BaseType
	Components      uint8
	MatrixDimension uint8
	Atomic          bool
}

func (NumType) typeInner() {}

// Scalar returns the scalar NumType of the given base.
func Scalar(base BaseType) NumType {
	return NumType{Base: base, Components: 1, MatrixDimension: 1}
}

// Vector returns an n-component vector of the given base.
func Vector(base BaseType, n uint8) NumType {
	return NumType{Base: base, Components: n, MatrixDimension: 1}
}

// Matrix returns a Float32 matrix of the given column type and column count.
func Matrix(column NumType, columns uint8) NumType {
	return NumType{Base: Float32, Components: column.Components, MatrixDimension: columns}
}

// Common types.
var (
	TypeFloat  = Scalar(Float32)
	TypeFloat2 = Vector(Float32, 2)
	TypeFloat3 = Vector(Float32, 3)
	TypeFloat4 = Vector(Float32, 4)
	TypeInt    = Scalar(Int32)
	TypeInt2   = Vector(Int32, 2)
	TypeInt3   = Vector(Int32, 3)
	TypeInt4   = Vector(Int32, 4)
	TypeUInt   = Scalar(UInt32)
	TypeBool   = Scalar(Bool)
)

// IsScalar reports whether t is a single non-matrix component.
func (t NumType) IsScalar() bool {
	return t.Components <= 1 && t.MatrixDimension <= 1
}

// IsVector reports whether t is a vector with two or more components.
func (t NumType) IsVector() bool {
	return t.Components > 1 && t.MatrixDimension <= 1
}

// IsMatrix reports whether t is a matrix.
func (t NumType) IsMatrix() bool {
	return t.MatrixDimension > 1
}

// IsSquareMatrix reports whether t is a matrix with as many rows as columns.
func (t NumType) IsSquareMatrix() bool {
	return t.IsMatrix() && t.MatrixDimension == t.Components
}

// IsFloat reports whether t has a floating point base.
func (t NumType) IsFloat() bool { return t.Base.IsFloat() }

// IsInteger reports whether t has an integer base.
func (t NumType) IsInteger() bool { return t.Base.IsInteger() }

// Element returns the scalar type of a vector or matrix.
func (t NumType) Element() NumType {
	return NumType{Base: t.Base, Components: 1, MatrixDimension: 1}
}

// WithComponents returns t with a different vector width.
func (t NumType) WithComponents(n uint8) NumType {
	t.Components = n
	return t
}

// WithBase returns t with a different base type.
func (t NumType) WithBase(base BaseType) NumType {
	t.Base = base
	return t
}

// TypeName returns the WGSL type name, e.g. f32, vec3<f32>, mat4x4<f32>.
func (t NumType) TypeName() string {
	var name string
	switch {
	case t.IsMatrix():
		name = "mat" + strconv.Itoa(int(t.MatrixDimension)) + "x" + strconv.Itoa(int(t.Components)) + "<" + t.Base.ScalarName() + ">"
	case t.IsVector():
		name = "vec" + strconv.Itoa(int(t.Components)) + "<" + t.Base.ScalarName() + ">"
	default:
		name = t.Base.ScalarName()
	}
	if t.Atomic {
		return "atomic<" + name + ">"
	}
	return name
}

// String returns a host-facing description such as Float32x3.
func (t NumType) String() string {
	switch {
	case t.IsMatrix():
		return fmt.Sprintf("%sx%dx%d", t.Base, t.MatrixDimension, t.Components)
	case t.IsVector():
		return fmt.Sprintf("%sx%d", t.Base, t.Components)
	default:
		return t.Base.String()
	}
}

// TextureDimension is the dimensionality of a texture binding.
type TextureDimension uint8

const (
	Dim1D TextureDimension = iota
	Dim2D
	Dim3D
	DimCube
)

// TextureType represents a sampled texture.
// Format is the base type of a sampled texel (Float32, Int32 or UInt32).
type TextureType struct {
	Dimension TextureDimension
	Format    BaseType
}

func (TextureType) typeInner() {}

// TypeName returns e.g. texture_2d<f32>.
func (t TextureType) TypeName() string {
	var dim string
	switch t.Dimension {
	case Dim1D:
		dim = "1d"
	case Dim3D:
		dim = "3d"
	case DimCube:
		dim = "cube"
	default:
		dim = "2d"
	}
	texel := "f32"
	if t.Format.IsInteger() {
		texel = t.Format.ScalarName()
	}
	return "texture_" + dim + "<" + texel + ">"
}

// SamplerType represents a texture sampler.
type SamplerType struct{}

func (SamplerType) typeInner() {}

// TypeName returns "sampler".
func (SamplerType) TypeName() string { return "sampler" }

// StructField is a named member of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is a named structure declared by the host.
type StructType struct {
	Name   string
	Fields []StructField
}

func (StructType) typeInner() {}

// TypeName returns the struct's declared name.
func (t StructType) TypeName() string { return t.Name }

// ArrayType is a fixed or runtime-sized array.
type ArrayType struct {
	Element     Type
	FixedLength *uint32 // nil for runtime-sized arrays
}

func (ArrayType) typeInner() {}

// TypeName returns array<T, N> or array<T>.
func (t ArrayType) TypeName() string {
	if t.FixedLength != nil {
		return "array<" + t.Element.TypeName() + ", " + strconv.FormatUint(uint64(*t.FixedLength), 10) + ">"
	}
	return "array<" + t.Element.TypeName() + ">"
}

// TypesEqual compares two types structurally.
func TypesEqual(a, b Type) bool {
	switch ta := a.(type) {
	case NumType:
		tb, ok := b.(NumType)
		return ok && ta == tb
	case TextureType:
		tb, ok := b.(TextureType)
		return ok && ta == tb
	case SamplerType:
		_, ok := b.(SamplerType)
		return ok
	case StructType:
		tb, ok := b.(StructType)
		if !ok || ta.Name != tb.Name || len(ta.Fields) != len(tb.Fields) {
			return false
		}
		for i := range ta.Fields {
			if ta.Fields[i].Name != tb.Fields[i].Name || !TypesEqual(ta.Fields[i].Type, tb.Fields[i].Type) {
				return false
			}
		}
		return true
	case ArrayType:
		tb, ok := b.(ArrayType)
		if !ok || !TypesEqual(ta.Element, tb.Element) {
			return false
		}
		if ta.FixedLength == nil || tb.FixedLength == nil {
			return ta.FixedLength == nil && tb.FixedLength == nil
		}
		return *ta.FixedLength == *tb.FixedLength
	default:
		return false
	}
}

// IsOpaque reports whether values of t cannot be bound with let or var.
func IsOpaque(t Type) bool {
	switch t.(type) {
	case TextureType, SamplerType:
		return true
	default:
		return false
	}
}

// TypeString returns a host-facing description of any type.
func TypeString(t Type) string {
	if t == nil {
		return "<none>"
	}
	if nt, ok := t.(NumType); ok {
		return nt.String()
	}
	return t.TypeName()
}

package ir

import (
	"fmt"
	"strconv"
	"strings"
)

var scalarNames = map[string]BaseType{
	"i32":  Int32,
	"u32":  UInt32,
	"f32":  Float32,
	"f16":  Float16,
	"bool": Bool,
	"i8":   Int8,
	"u8":   UInt8,
	"i16":  Int16,
	"u16":  UInt16,
}

// ParseTypeName parses a type name as produced by Type.TypeName. It accepts
// scalars, vecN<T>, square matNxN<f32>, atomic<T>, texture_*<T>, sampler and
// array<T[, N]>. The host-only names i8, u8, i16 and u16 select the narrow
// integer base types.
func ParseTypeName(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if base, ok := scalarNames[name]; ok {
		return Scalar(base), nil
	}
	if name == "sampler" {
		return SamplerType{}, nil
	}

	outer, inner, ok := splitTemplate(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}

	switch {
	case outer == "atomic":
		t, err := parseNum(inner)
		if err != nil {
			return nil, err
		}
		if !t.IsScalar() || !t.IsInteger() {
			return nil, fmt.Errorf("atomic requires an integer scalar, got %q", inner)
		}
		t.Atomic = true
		return t, nil

	case strings.HasPrefix(outer, "vec"):
		n, err := parseDimension(outer[3:])
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		elem, err := parseNum(inner)
		if err != nil {
			return nil, err
		}
		return Vector(elem.Base, n), nil

	case strings.HasPrefix(outer, "mat"):
		cols, rows, found := strings.Cut(outer[3:], "x")
		if !found {
			return nil, fmt.Errorf("type %q: expected matCxR", name)
		}
		c, err := parseDimension(cols)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		r, err := parseDimension(rows)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		if inner != "f32" {
			return nil, fmt.Errorf("type %q: matrices must be f32", name)
		}
		if c != r {
			return nil, fmt.Errorf("type %q: matrices must be square", name)
		}
		return NumType{Base: Float32, Components: r, MatrixDimension: c}, nil

	case strings.HasPrefix(outer, "texture_"):
		var dim TextureDimension
		switch strings.TrimPrefix(outer, "texture_") {
		case "1d":
			dim = Dim1D
		case "2d":
			dim = Dim2D
		case "3d":
			dim = Dim3D
		case "cube":
			dim = DimCube
		default:
			return nil, fmt.Errorf("unknown texture type %q", name)
		}
		format, err := parseNum(inner)
		if err != nil {
			return nil, err
		}
		return TextureType{Dimension: dim, Format: format.Base}, nil

	case outer == "array":
		elemName, lengthStr, hasLength := cutTopLevelComma(inner)
		elem, err := ParseTypeName(elemName)
		if err != nil {
			return nil, err
		}
		arr := ArrayType{Element: elem}
		if hasLength {
			n, err := strconv.ParseUint(strings.TrimSpace(lengthStr), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("type %q: invalid array length: %w", name, err)
			}
			length := uint32(n)
			arr.FixedLength = &length
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func parseNum(name string) (NumType, error) {
	base, ok := scalarNames[strings.TrimSpace(name)]
	if !ok {
		return NumType{}, fmt.Errorf("unknown scalar type %q", name)
	}
	return Scalar(base), nil
}

func parseDimension(s string) (uint8, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 4 {
		return 0, fmt.Errorf("dimension %q out of range [2,4]", s)
	}
	return uint8(n), nil
}

// splitTemplate splits "outer<inner>" into its parts.
func splitTemplate(name string) (outer, inner string, ok bool) {
	open := strings.IndexByte(name, '<')
	if open <= 0 || !strings.HasSuffix(name, ">") {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

// cutTopLevelComma splits at the last comma that is not nested in <>.
func cutTopLevelComma(s string) (before, after string, found bool) {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '>':
			depth++
		case '<':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), s[i+1:], true
			}
		}
	}
	return s, "", false
}

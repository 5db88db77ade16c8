package buffer

import (
	"fmt"
	"strings"
)

// Element identifies one component of an interleaved vertex.
type Element int

const (
	Position Element = iota
	Normal
	TexCoord
	RGB
	RGBA
)

// Mask selects element groups when enabling a buffer for drawing.
type Mask uint

const (
	MaskPosition Mask = 1 << iota
	MaskNormal
	MaskColour
	MaskTexCoord

	MaskAll = MaskPosition | MaskNormal | MaskColour | MaskTexCoord
)

// Vertex attribute locations shared by every shader in the core.
const (
	PositionAttrib uint32 = 0
	NormalAttrib   uint32 = 1
	ColourAttrib   uint32 = 2
	TexCoordAttrib uint32 = 3
)

const (
	floatSize = 4
	byteSize  = 1
)

// Field is an element placed inside a vertex.
type Field struct {
	Element    Element
	Components int
	Offset     int
}

func (f Field) width() int {
	if f.Element == RGB || f.Element == RGBA {
		return f.Components * byteSize
	}
	return f.Components * floatSize
}

// Format is a parsed vertex format such as "position:normal:rgba".
type Format struct {
	spec   string
	fields []Field
	stride int
}

// DefaultFormat is used by managers that do not name one.
const DefaultFormat = "position:normal:rgba"

// ParseFormat parses a colon separated vertex format.
func ParseFormat(spec string) (Format, error) {
	f := Format{spec: spec}
	for _, name := range strings.Split(spec, ":") {
		field, err := parseElement(name)
		if err != nil {
			return Format{}, fmt.Errorf("buffer: format %q: %w", spec, err)
		}
		for _, existing := range f.fields {
			if existing.Element == field.Element || (isColour(existing.Element) && isColour(field.Element)) {
				return Format{}, fmt.Errorf("buffer: format %q: duplicate element %q", spec, name)
			}
		}
		field.Offset = f.stride
		f.stride += field.width()
		f.fields = append(f.fields, field)
	}
	return f, nil
}

// MustParseFormat is ParseFormat for formats known at compile time.
func MustParseFormat(spec string) Format {
	f, err := ParseFormat(spec)
	if err != nil {
		panic(err)
	}
	return f
}

func parseElement(name string) (Field, error) {
	switch name {
	case "position2d":
		return Field{Element: Position, Components: 2}, nil
	case "position", "position3d":
		return Field{Element: Position, Components: 3}, nil
	case "position4d":
		return Field{Element: Position, Components: 4}, nil
	case "normal":
		return Field{Element: Normal, Components: 3}, nil
	case "texcoord1d":
		return Field{Element: TexCoord, Components: 1}, nil
	case "texcoord", "texcoord2d":
		return Field{Element: TexCoord, Components: 2}, nil
	case "texcoord3d":
		return Field{Element: TexCoord, Components: 3}, nil
	case "texcoord4d":
		return Field{Element: TexCoord, Components: 4}, nil
	case "rgb":
		return Field{Element: RGB, Components: 3}, nil
	case "rgba":
		return Field{Element: RGBA, Components: 4}, nil
	}
	return Field{}, fmt.Errorf("unknown element %q", name)
}

func isColour(e Element) bool { return e == RGB || e == RGBA }

// Stride is the byte length of one vertex.
func (f Format) Stride() int { return f.stride }

func (f Format) String() string { return f.spec }

// Fields returns the elements in declaration order.
func (f Format) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns the field for an element. Colour lookups match rgb or rgba.
func (f Format) Field(e Element) (Field, bool) {
	for _, field := range f.fields {
		if field.Element == e || (isColour(e) && isColour(field.Element)) {
			return field, true
		}
	}
	return Field{}, false
}

// VertexLengthFromFormat returns the stride of a format string, counting
// unknown elements as zero width.
func VertexLengthFromFormat(spec string) int {
	length := 0
	for _, name := range strings.Split(spec, ":") {
		if field, err := parseElement(name); err == nil {
			length += field.width()
		}
	}
	return length
}

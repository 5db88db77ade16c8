package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

var (
	// ErrOutOfBounds is returned by writes and advances past the end of a buffer.
	ErrOutOfBounds = errors.New("buffer: cursor past end of buffer")
	// ErrMissingElement is returned when writing an element the format lacks.
	ErrMissingElement = errors.New("buffer: element not in format")
)

// Buffer is a fixed capacity interleaved vertex buffer with a write cursor.
// Contents live in host memory until Load uploads them to a GL buffer object.
type Buffer struct {
	dev      gfx.Device
	format   Format
	capacity int
	data     []byte

	cursor int
	used   int
	loaded int
	valid  bool

	vbo     uint32
	vao     uint32
	enabled []uint32
}

// New allocates a buffer able to hold capacity vertices of format.
func New(dev gfx.Device, format Format, capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		dev:      dev,
		format:   format,
		capacity: capacity,
		data:     make([]byte, capacity*format.Stride()),
		valid:    true,
		vbo:      dev.GenBuffer(),
		vao:      dev.GenVertexArray(),
	}
}

func (b *Buffer) Format() Format { return b.format }

// Handle is the GL buffer object currently backing the buffer.
func (b *Buffer) Handle() uint32 { return b.vbo }

// Invalidate marks the contents stale; owners drop invalid buffers and
// repopulate their geometry elsewhere.
func (b *Buffer) Invalidate() { b.valid = false }

func (b *Buffer) Validate() { b.valid = true }

func (b *Buffer) IsValid() bool { return b.valid }

// IsLoaded reports whether every written vertex has been uploaded.
func (b *Buffer) IsLoaded() bool { return b.loaded == b.used }

func (b *Buffer) Capacity() int { return b.capacity }

// Size is the capacity in bytes.
func (b *Buffer) Size() int { return b.capacity * b.format.Stride() }

func (b *Buffer) UsedSpace() int { return b.used * b.format.Stride() }

func (b *Buffer) FreeSpace() int { return b.Size() - b.UsedSpace() }

func (b *Buffer) UsedVertices() int { return b.used }

func (b *Buffer) FreeVertices() int { return b.capacity - b.used }

func (b *Buffer) VertexLength() int { return b.format.Stride() }

// Cursor is the index of the vertex the setters write to.
func (b *Buffer) Cursor() int { return b.cursor }

// EOB reports whether the cursor has reached capacity.
func (b *Buffer) EOB() bool { return b.cursor >= b.capacity }

// Next advances the cursor by one vertex.
func (b *Buffer) Next() error {
	if b.EOB() {
		return fmt.Errorf("next at vertex %d of %d: %w", b.cursor, b.capacity, ErrOutOfBounds)
	}
	b.cursor++
	if b.cursor > b.used {
		b.used = b.cursor
	}
	return nil
}

// To moves the cursor to vertex index, clamped to the last vertex.
func (b *Buffer) To(index int) {
	if index >= b.capacity {
		index = b.capacity - 1
	}
	if index < 0 {
		index = 0
	}
	b.cursor = index
	if b.cursor > b.used {
		b.used = b.cursor
	}
}

func (b *Buffer) slot(e Element) (Field, int, error) {
	if b.EOB() {
		return Field{}, 0, fmt.Errorf("write at vertex %d of %d: %w", b.cursor, b.capacity, ErrOutOfBounds)
	}
	field, ok := b.format.Field(e)
	if !ok {
		return Field{}, 0, fmt.Errorf("format %q: %w", b.format, ErrMissingElement)
	}
	return field, b.cursor*b.format.Stride() + field.Offset, nil
}

func (b *Buffer) putFloats(e Element, values ...float32) error {
	field, at, err := b.slot(e)
	if err != nil {
		return err
	}
	for i := 0; i < field.Components && i < len(values); i++ {
		binary.NativeEndian.PutUint32(b.data[at+i*floatSize:], math.Float32bits(values[i]))
	}
	return nil
}

// SetPosition writes the position of the current vertex. Components beyond
// the format's dimension are ignored.
func (b *Buffer) SetPosition(x, y, z, w float32) error {
	return b.putFloats(Position, x, y, z, w)
}

func (b *Buffer) SetNormal(x, y, z float32) error {
	return b.putFloats(Normal, x, y, z)
}

func (b *Buffer) SetTexCoord(s, t, r, q float32) error {
	return b.putFloats(TexCoord, s, t, r, q)
}

// SetColourf writes a colour given as 0..1 floats.
func (b *Buffer) SetColourf(r, g, bl, a float32) error {
	return b.SetColourb(unitToByte(r), unitToByte(g), unitToByte(bl), unitToByte(a))
}

func (b *Buffer) SetColourb(r, g, bl, a uint8) error {
	field, at, err := b.slot(RGBA)
	if err != nil {
		return err
	}
	b.data[at] = r
	b.data[at+1] = g
	b.data[at+2] = bl
	if field.Element == RGBA {
		b.data[at+3] = a
	}
	return nil
}

func unitToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Bytes returns the written portion of the host copy.
func (b *Buffer) Bytes() []byte { return b.data[:b.UsedSpace()] }

// Load uploads all written vertices, replacing the GL buffer contents.
func (b *Buffer) Load() {
	b.valid = true
	if b.loaded > 0 {
		b.Unload()
	}
	b.dev.BufferData(b.vbo, b.data[:b.UsedSpace()], gfx.DynamicDraw)
	b.loaded = b.used
}

// LoadRange uploads count vertices starting at first, falling back to a full
// Load when the range extends past what was previously uploaded.
func (b *Buffer) LoadRange(first, count int) {
	if first+count > b.loaded {
		b.Load()
		return
	}
	stride := b.format.Stride()
	b.dev.BufferSubData(b.vbo, first*stride, b.data[first*stride:(first+count)*stride])
}

// Unload releases the GL copy; the host copy is kept for a later Load.
func (b *Buffer) Unload() {
	b.loaded = 0
	b.dev.DeleteBuffer(b.vbo)
	b.vbo = b.dev.GenBuffer()
}

// Enable binds the buffer and the attribute pointers selected by mask,
// uploading first if vertices were written since the last Load.
func (b *Buffer) Enable(mask Mask) {
	if b.used > b.loaded {
		b.Load()
	}
	b.dev.BindVertexArray(b.vao)
	stride := b.format.Stride()
	for _, field := range b.format.fields {
		attr := gfx.Attrib{Size: field.Components, Stride: stride, Offset: field.Offset}
		switch {
		case field.Element == Position && mask&MaskPosition != 0:
			attr.Index, attr.Type = PositionAttrib, gfx.Float
		case field.Element == Normal && mask&MaskNormal != 0:
			attr.Index, attr.Type = NormalAttrib, gfx.Float
		case field.Element == TexCoord && mask&MaskTexCoord != 0:
			attr.Index, attr.Type = TexCoordAttrib, gfx.Float
		case isColour(field.Element) && mask&MaskColour != 0:
			attr.Index, attr.Type, attr.Normalized = ColourAttrib, gfx.UnsignedByte, true
		default:
			continue
		}
		b.dev.EnableAttrib(b.vbo, attr)
		b.enabled = append(b.enabled, attr.Index)
	}
}

// Disable releases the attribute pointers bound by Enable.
func (b *Buffer) Disable() {
	for _, index := range b.enabled {
		b.dev.DisableAttrib(index)
	}
	b.enabled = b.enabled[:0]
	b.dev.BindVertexArray(0)
}

// Render draws count vertices from first; count of -1 draws every used vertex.
func (b *Buffer) Render(mode gfx.Primitive, first, count int) error {
	if count == -1 {
		count = b.used - first
	}
	if count <= 0 {
		return nil
	}
	b.dev.DrawArrays(mode, first, count)
	return b.dev.Error()
}

// Release frees the GL objects. The buffer must not be used afterwards.
func (b *Buffer) Release() {
	if b.vbo != 0 {
		b.dev.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		b.dev.DeleteVertexArray(b.vao)
		b.vao = 0
	}
	b.loaded = 0
}

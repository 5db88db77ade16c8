//go:build !js

package gldevice

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

func glPrimitive(p gfx.Primitive) uint32 {
	switch p {
	case gfx.Points:
		return gl.POINTS
	case gfx.Lines:
		return gl.LINES
	case gfx.LineStrip:
		return gl.LINE_STRIP
	case gfx.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gfx.TriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func glType(t gfx.DataType) uint32 {
	if t == gfx.UnsignedByte {
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func glUsage(u gfx.Usage) uint32 {
	switch u {
	case gfx.StaticDraw:
		return gl.STATIC_DRAW
	case gfx.StreamDraw:
		return gl.STREAM_DRAW
	}
	return gl.DYNAMIC_DRAW
}

func glCompare(f gfx.CompareFunc) uint32 {
	switch f {
	case gfx.Never:
		return gl.NEVER
	case gfx.Less:
		return gl.LESS
	case gfx.Equal:
		return gl.EQUAL
	case gfx.Greater:
		return gl.GREATER
	case gfx.NotEqual:
		return gl.NOTEQUAL
	case gfx.GreaterEqual:
		return gl.GEQUAL
	case gfx.Always:
		return gl.ALWAYS
	}
	return gl.LEQUAL
}

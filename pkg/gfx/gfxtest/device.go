// Package gfxtest provides an in-memory gfx.Device that records the calls made
// against it, for tests that exercise rendering code without a GL context.
package gfxtest

import (
	"fmt"
	"strings"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

// Draw records one DrawArrays call.
type Draw struct {
	Mode    gfx.Primitive
	First   int
	Count   int
	Program uint32
	Array   uint32
}

// Device is a fake gfx.Device. The zero value is not usable; call New.
type Device struct {
	Caps gfx.Capabilities

	// FailCompile makes CompileShader fail for sources containing the string.
	FailCompile string
	// Pixel is returned by ReadPixel.
	Pixel [4]uint8

	next     uint32
	buffers  map[uint32][]byte
	arrays   map[uint32]bool
	shaders  map[uint32]gfx.Stage
	programs map[uint32][]uint32
	uniforms map[string]int32

	// Compiled holds every source passed to CompileShader, in order.
	Compiled []string

	Draws    []Draw
	States   []gfx.State
	Attribs  map[uint32]gfx.Attrib
	Uniforms map[int32][]float32
	Clears   int
	View     [4]int
	program  uint32
	array    uint32
}

// New returns a fake device supporting GLSL and VBOs with the given
// GL_MAX_ELEMENTS_VERTICES value.
func New(maxElementsVertices int) *Device {
	return &Device{
		Caps: gfx.Capabilities{
			Version:             "3.3 gfxtest",
			ShadingLanguage:     "3.30",
			GLSL:                true,
			VertexBufferObjects: true,
			MaxElementsVertices: maxElementsVertices,
		},
		buffers:  make(map[uint32][]byte),
		arrays:   make(map[uint32]bool),
		shaders:  make(map[uint32]gfx.Stage),
		programs: make(map[uint32][]uint32),
		uniforms: make(map[string]int32),
		Attribs:  make(map[uint32]gfx.Attrib),
		Uniforms: make(map[int32][]float32),
	}
}

var _ gfx.Device = (*Device)(nil)

func (d *Device) Capabilities() gfx.Capabilities { return d.Caps }

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) GenBuffer() uint32 {
	h := d.handle()
	d.buffers[h] = nil
	return h
}

func (d *Device) DeleteBuffer(handle uint32) { delete(d.buffers, handle) }

func (d *Device) BufferData(handle uint32, data []byte, _ gfx.Usage) {
	d.buffers[handle] = append([]byte(nil), data...)
}

func (d *Device) BufferSubData(handle uint32, offset int, data []byte) {
	buf := d.buffers[handle]
	if offset+len(data) > len(buf) {
		panic(fmt.Sprintf("gfxtest: sub-data [%d,%d) outside buffer of %d bytes", offset, offset+len(data), len(buf)))
	}
	copy(buf[offset:], data)
}

// BufferContents returns the bytes uploaded to a buffer object.
func (d *Device) BufferContents(handle uint32) []byte { return d.buffers[handle] }

// LiveBuffers reports how many buffer objects have not been deleted.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

func (d *Device) GenVertexArray() uint32 {
	h := d.handle()
	d.arrays[h] = true
	return h
}

func (d *Device) DeleteVertexArray(handle uint32) { delete(d.arrays, handle) }

func (d *Device) BindVertexArray(handle uint32) { d.array = handle }

func (d *Device) EnableAttrib(_ uint32, attr gfx.Attrib) { d.Attribs[attr.Index] = attr }

func (d *Device) DisableAttrib(index uint32) { delete(d.Attribs, index) }

func (d *Device) DrawArrays(mode gfx.Primitive, first, count int) {
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count, Program: d.program, Array: d.array})
}

func (d *Device) CompileShader(stage gfx.Stage, source string) (uint32, error) {
	if d.FailCompile != "" && strings.Contains(source, d.FailCompile) {
		return 0, fmt.Errorf("compile error: %s", d.FailCompile)
	}
	d.Compiled = append(d.Compiled, source)
	h := d.handle()
	d.shaders[h] = stage
	return h, nil
}

func (d *Device) DeleteShader(handle uint32) { delete(d.shaders, handle) }

func (d *Device) LinkProgram(shaders []uint32) (uint32, error) {
	for _, s := range shaders {
		if _, ok := d.shaders[s]; !ok {
			return 0, fmt.Errorf("link error: unknown shader %d", s)
		}
	}
	h := d.handle()
	d.programs[h] = append([]uint32(nil), shaders...)
	return h, nil
}

func (d *Device) DeleteProgram(handle uint32) { delete(d.programs, handle) }

func (d *Device) UseProgram(handle uint32) { d.program = handle }

// Program returns the program currently in use.
func (d *Device) Program() uint32 { return d.program }

// LivePrograms reports how many programs have not been deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	if loc, ok := d.uniforms[key]; ok {
		return loc
	}
	loc := int32(len(d.uniforms))
	d.uniforms[key] = loc
	return loc
}

// UniformValue returns the last value set on a named uniform of a program.
func (d *Device) UniformValue(program uint32, name string) ([]float32, bool) {
	loc, ok := d.uniforms[fmt.Sprintf("%d/%s", program, name)]
	if !ok {
		return nil, false
	}
	v, ok := d.Uniforms[loc]
	return v, ok
}

func (d *Device) Uniformf(location int32, values ...float32) {
	d.Uniforms[location] = append([]float32(nil), values...)
}

func (d *Device) Uniformfv(location int32, _ int, values []float32) {
	d.Uniforms[location] = append([]float32(nil), values...)
}

func (d *Device) Uniformi(location int32, values ...int32) {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	d.Uniforms[location] = out
}

func (d *Device) Uniformiv(location int32, _ int, values []int32) {
	d.Uniformi(location, values...)
}

func (d *Device) UniformMatrix4fv(location int32, _ bool, values []float32) {
	d.Uniforms[location] = append([]float32(nil), values...)
}

func (d *Device) ApplyState(state gfx.State) { d.States = append(d.States, state) }

func (d *Device) Viewport(x, y, width, height int) { d.View = [4]int{x, y, width, height} }

func (d *Device) Clear([4]float32) { d.Clears++ }

func (d *Device) ReadPixel(int, int) [4]uint8 { return d.Pixel }

func (d *Device) Error() error { return nil }

// Reset forgets recorded draws, states and uniforms but keeps GL objects.
func (d *Device) Reset() {
	d.Draws = nil
	d.States = nil
	d.Clears = 0
	d.Uniforms = make(map[int32][]float32)
}

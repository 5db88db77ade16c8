//go:build !js

// Package gldevice binds gfx.Device to the OpenGL 3.3 core profile through go-gl.
package gldevice

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

const (
	minMajor = 3
	minMinor = 3
)

type device struct {
	caps   gfx.Capabilities
	logger *slog.Logger
}

// New resolves GL entry points for the current context and checks that the
// context can run the core. It must be called with a current context.
func New(logger *slog.Logger) (gfx.Device, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := gl.Init(); err != nil {
		return nil, &gfx.UnsupportedError{Feature: "OpenGL 3.3 core entry points", Detail: err.Error()}
	}
	d := &device{logger: logger}
	d.caps = d.probe()
	if err := d.caps.Require(); err != nil {
		return nil, err
	}
	logger.Info("gl device ready",
		"version", d.caps.Version,
		"glsl", d.caps.ShadingLanguage,
		"max_elements_vertices", d.caps.MaxElementsVertices)
	return d, nil
}

func (d *device) probe() gfx.Capabilities {
	caps := gfx.Capabilities{
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	major, minor := parseVersion(caps.Version)
	atLeast := major > minMajor || (major == minMajor && minor >= minMinor)
	caps.VertexBufferObjects = atLeast
	glslMajor, glslMinor := parseVersion(caps.ShadingLanguage)
	caps.GLSL = glslMajor > 3 || (glslMajor == 3 && glslMinor >= 30)

	var maxVertices int32
	gl.GetIntegerv(gl.MAX_ELEMENTS_VERTICES, &maxVertices)
	caps.MaxElementsVertices = int(maxVertices)
	return caps
}

func parseVersion(s string) (int, int) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, 0
	}
	parts := strings.SplitN(fields[0], ".", 3)
	major, _ := strconv.Atoi(parts[0])
	minor := 0
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}

func (d *device) Capabilities() gfx.Capabilities { return d.caps }

func (d *device) GenBuffer() uint32 {
	var h uint32
	gl.GenBuffers(1, &h)
	return h
}

func (d *device) DeleteBuffer(handle uint32) {
	if handle != 0 {
		gl.DeleteBuffers(1, &handle)
	}
}

func (d *device) BufferData(handle uint32, data []byte, usage gfx.Usage) {
	gl.BindBuffer(gl.ARRAY_BUFFER, handle)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), glUsage(usage))
}

func (d *device) BufferSubData(handle uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, handle)
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data), gl.Ptr(data))
}

func (d *device) GenVertexArray() uint32 {
	var h uint32
	gl.GenVertexArrays(1, &h)
	return h
}

func (d *device) DeleteVertexArray(handle uint32) {
	if handle != 0 {
		gl.DeleteVertexArrays(1, &handle)
	}
}

func (d *device) BindVertexArray(handle uint32) { gl.BindVertexArray(handle) }

func (d *device) EnableAttrib(buffer uint32, attr gfx.Attrib) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(attr.Index)
	gl.VertexAttribPointer(attr.Index, int32(attr.Size), glType(attr.Type), attr.Normalized, int32(attr.Stride), gl.PtrOffset(attr.Offset))
}

func (d *device) DisableAttrib(index uint32) { gl.DisableVertexAttribArray(index) }

func (d *device) DrawArrays(mode gfx.Primitive, first, count int) {
	gl.DrawArrays(glPrimitive(mode), int32(first), int32(count))
}

func (d *device) CompileShader(stage gfx.Stage, source string) (uint32, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gfx.FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader compile error: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *device) DeleteShader(handle uint32) { gl.DeleteShader(handle) }

func (d *device) LinkProgram(shaders []uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link error: %s", strings.TrimRight(log, "\x00"))
	}
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, nil
}

func (d *device) DeleteProgram(handle uint32) { gl.DeleteProgram(handle) }

func (d *device) UseProgram(handle uint32) { gl.UseProgram(handle) }

func (d *device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *device) Uniformf(location int32, values ...float32) {
	switch len(values) {
	case 1:
		gl.Uniform1f(location, values[0])
	case 2:
		gl.Uniform2f(location, values[0], values[1])
	case 3:
		gl.Uniform3f(location, values[0], values[1], values[2])
	case 4:
		gl.Uniform4f(location, values[0], values[1], values[2], values[3])
	}
}

func (d *device) Uniformfv(location int32, size int, values []float32) {
	if len(values) == 0 || size <= 0 {
		return
	}
	count := int32(len(values) / size)
	switch size {
	case 1:
		gl.Uniform1fv(location, count, &values[0])
	case 2:
		gl.Uniform2fv(location, count, &values[0])
	case 3:
		gl.Uniform3fv(location, count, &values[0])
	case 4:
		gl.Uniform4fv(location, count, &values[0])
	}
}

func (d *device) Uniformi(location int32, values ...int32) {
	switch len(values) {
	case 1:
		gl.Uniform1i(location, values[0])
	case 2:
		gl.Uniform2i(location, values[0], values[1])
	case 3:
		gl.Uniform3i(location, values[0], values[1], values[2])
	case 4:
		gl.Uniform4i(location, values[0], values[1], values[2], values[3])
	}
}

func (d *device) Uniformiv(location int32, size int, values []int32) {
	if len(values) == 0 || size <= 0 {
		return
	}
	count := int32(len(values) / size)
	switch size {
	case 1:
		gl.Uniform1iv(location, count, &values[0])
	case 2:
		gl.Uniform2iv(location, count, &values[0])
	case 3:
		gl.Uniform3iv(location, count, &values[0])
	case 4:
		gl.Uniform4iv(location, count, &values[0])
	}
}

func (d *device) UniformMatrix4fv(location int32, transpose bool, values []float32) {
	if len(values) < 16 {
		return
	}
	gl.UniformMatrix4fv(location, int32(len(values)/16), transpose, &values[0])
}

func (d *device) ApplyState(s gfx.State) {
	setCap(gl.DEPTH_TEST, s.DepthTest)
	gl.DepthFunc(glCompare(s.DepthFunc))
	gl.DepthMask(s.DepthWrite)

	setCap(gl.BLEND, s.Blend)
	if s.Blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	gl.ColorMask(s.ColourWrite, s.ColourWrite, s.ColourWrite, s.ColourWrite)

	setCap(gl.STENCIL_TEST, s.Stencil)
	if s.Stencil {
		gl.StencilFunc(glCompare(s.StencilFunc), int32(s.StencilRef), 0xFFFFFFFF)
		op := uint32(gl.KEEP)
		if s.StencilOp == gfx.Replace {
			op = gl.REPLACE
		}
		gl.StencilOp(gl.KEEP, gl.KEEP, op)
	}

	setCap(gl.CULL_FACE, s.CullBack)
	if s.CullBack {
		gl.CullFace(gl.BACK)
	}
	if s.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if s.LineWidth > 0 {
		gl.LineWidth(s.LineWidth)
	}
}

func (d *device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *device) Clear(c [4]float32) {
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (d *device) ReadPixel(x, y int) [4]uint8 {
	var px [4]uint8
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&px[0]))
	return px
}

func (d *device) Error() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func setCap(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

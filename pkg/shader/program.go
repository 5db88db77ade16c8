package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

// ErrLinked is returned when shaders are added to an already linked program.
var ErrLinked = errors.New("shader: program already linked")

// Program links a set of shaders. Linking happens on the first Enable.
type Program struct {
	dev       gfx.Device
	shaders   []*Shader
	defines   []string
	handle    uint32
	linked    bool
	enabled   bool
	locations map[string]int32
}

func NewProgram(dev gfx.Device) *Program {
	return &Program{dev: dev, locations: make(map[string]int32)}
}

func (p *Program) AddShader(s *Shader) error {
	if p.linked {
		return ErrLinked
	}
	p.shaders = append(p.shaders, s)
	return nil
}

func (p *Program) AddSource(source string, stage gfx.Stage) error {
	return p.AddShader(New(stage, source))
}

// Define adds preprocessor symbols emitted ahead of every shader body.
func (p *Program) Define(names ...string) error {
	if p.linked {
		return ErrLinked
	}
	p.defines = append(p.defines, names...)
	return nil
}

func (p *Program) Linked() bool { return p.linked }

func (p *Program) Handle() uint32 { return p.handle }

// Link compiles every shader and links them. Compiled stages are deleted once
// the program exists.
func (p *Program) Link() error {
	if p.linked {
		return nil
	}
	if Capability(p.dev) != GLSL {
		return &gfx.UnsupportedError{Feature: "GLSL", Detail: p.dev.Capabilities().ShadingLanguage}
	}
	if len(p.shaders) == 0 {
		return errors.New("shader: program has no shaders")
	}

	compiled := make([]uint32, 0, len(p.shaders))
	defer func() {
		for _, h := range compiled {
			p.dev.DeleteShader(h)
		}
	}()
	for _, s := range p.shaders {
		h, err := p.dev.CompileShader(s.stage, buildSource(s.stage, p.defines, s.source))
		if err != nil {
			return fmt.Errorf("shader: %w", err)
		}
		compiled = append(compiled, h)
	}
	handle, err := p.dev.LinkProgram(compiled)
	if err != nil {
		return fmt.Errorf("shader: %w", err)
	}
	p.handle = handle
	p.linked = true
	return nil
}

// Enable links if needed and makes the program current.
func (p *Program) Enable() error {
	if err := p.Link(); err != nil {
		return err
	}
	p.dev.UseProgram(p.handle)
	p.enabled = true
	return nil
}

func (p *Program) Disable() {
	if p.enabled {
		p.dev.UseProgram(0)
		p.enabled = false
	}
}

// UniformLocation returns the cached location of name, or -1.
func (p *Program) UniformLocation(name string) int32 {
	if !p.linked {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	p.locations[name] = loc
	return loc
}

func (p *Program) SetUniformf(name string, values ...float32) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	p.dev.Uniformf(loc, values...)
	return true
}

// SetUniformfv sets an array uniform whose elements have size components.
func (p *Program) SetUniformfv(name string, size int, values []float32) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	p.dev.Uniformfv(loc, size, values)
	return true
}

func (p *Program) SetUniformi(name string, values ...int32) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	p.dev.Uniformi(loc, values...)
	return true
}

func (p *Program) SetUniformiv(name string, size int, values []int32) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	p.dev.Uniformiv(loc, size, values)
	return true
}

func (p *Program) SetUniformVec3(name string, v mgl32.Vec3) bool {
	return p.SetUniformf(name, v[0], v[1], v[2])
}

func (p *Program) SetUniformVec4(name string, v mgl32.Vec4) bool {
	return p.SetUniformf(name, v[0], v[1], v[2], v[3])
}

func (p *Program) SetUniformMatrix4(name string, m mgl32.Mat4) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	p.dev.UniformMatrix4fv(loc, false, m[:])
	return true
}

// Release deletes the GL program. The program may be linked again afterwards.
func (p *Program) Release() {
	p.Disable()
	if p.linked {
		p.dev.DeleteProgram(p.handle)
	}
	p.handle = 0
	p.linked = false
	clear(p.locations)
}

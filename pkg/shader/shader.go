// Package shader compiles and links GLSL programs against a gfx.Device.
package shader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

// Language is the shading language a device supports.
type Language int

const (
	None Language = iota
	GLSL
)

func (l Language) String() string {
	if l == GLSL {
		return "GLSL"
	}
	return "none"
}

// Capability reports the shading language available on dev.
func Capability(dev gfx.Device) Language {
	if dev.Capabilities().GLSL {
		return GLSL
	}
	return None
}

// Version is the GLSL version line prepended to every source.
const Version = "#version 330 core"

// Shader is one stage's source. It is compiled when its program links.
type Shader struct {
	stage  gfx.Stage
	source string
}

func New(stage gfx.Stage, source string) *Shader {
	return &Shader{stage: stage, source: source}
}

// Load reads a shader source file.
func Load(path string, stage gfx.Stage) (*Shader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shader: %w", err)
	}
	defer f.Close()
	return Read(f, stage)
}

func Read(r io.Reader, stage gfx.Stage) (*Shader, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("shader: read %s source: %w", stage, err)
	}
	return New(stage, string(src)), nil
}

func (s *Shader) Stage() gfx.Stage { return s.stage }

func (s *Shader) Source() string { return s.source }

// buildSource places the version line, a stage define and the program's
// defines ahead of the body so one file can carry every stage and variant.
func buildSource(stage gfx.Stage, defines []string, body string) string {
	var sb strings.Builder
	version := Version
	if rest, found := strings.CutPrefix(strings.TrimLeft(body, " \t\r\n"), "#version"); found {
		line, tail, _ := strings.Cut(rest, "\n")
		version = "#version" + line
		body = tail
	}
	sb.WriteString(version + "\n")
	if stage == gfx.FragmentStage {
		sb.WriteString("#define FRAGMENT\n")
	} else {
		sb.WriteString("#define VERTEX\n")
	}
	for _, d := range defines {
		sb.WriteString("#define " + d + "\n")
	}
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

package shader_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/gfx/gfxtest"
	"github.com/utopiadocs/ambrosia/pkg/shader"
)

const body = `
#ifdef VERTEX
void main() { gl_Position = vec4(0.0); }
#endif
#ifdef FRAGMENT
out vec4 colour;
void main() { colour = vec4(1.0); }
#endif
`

func TestProgramLinksLazily(t *testing.T) {
	dev := gfxtest.New(0)
	p := shader.NewProgram(dev)
	require.NoError(t, p.AddSource(body, gfx.VertexStage))
	require.NoError(t, p.AddSource(body, gfx.FragmentStage))
	require.NoError(t, p.Define("NAME_PASS"))
	assert.False(t, p.Linked())
	assert.Equal(t, int32(-1), p.UniformLocation("uModelView"))

	require.NoError(t, p.Enable())
	assert.True(t, p.Linked())
	assert.Equal(t, p.Handle(), dev.Program())
	require.Len(t, dev.Compiled, 2)
	assert.True(t, strings.HasPrefix(dev.Compiled[0], shader.Version+"\n#define VERTEX\n#define NAME_PASS\n"))
	assert.True(t, strings.HasPrefix(dev.Compiled[1], shader.Version+"\n#define FRAGMENT\n#define NAME_PASS\n"))

	assert.ErrorIs(t, p.AddSource(body, gfx.VertexStage), shader.ErrLinked)
	assert.ErrorIs(t, p.Define("OTHER"), shader.ErrLinked)

	p.Disable()
	assert.Equal(t, uint32(0), dev.Program())
}

func TestProgramKeepsExplicitVersion(t *testing.T) {
	dev := gfxtest.New(0)
	p := shader.NewProgram(dev)
	require.NoError(t, p.AddSource("#version 410 core\nvoid main() {}", gfx.VertexStage))
	require.NoError(t, p.Link())
	assert.Equal(t, "#version 410 core\n#define VERTEX\nvoid main() {}\n", dev.Compiled[0])
}

func TestProgramCompileError(t *testing.T) {
	dev := gfxtest.New(0)
	dev.FailCompile = "broken"
	p := shader.NewProgram(dev)
	require.NoError(t, p.AddSource("void main() { broken; }", gfx.FragmentStage))
	err := p.Enable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.False(t, p.Linked())
}

func TestProgramRequiresGLSL(t *testing.T) {
	dev := gfxtest.New(0)
	dev.Caps.GLSL = false
	assert.Equal(t, shader.None, shader.Capability(dev))

	p := shader.NewProgram(dev)
	require.NoError(t, p.AddSource(body, gfx.VertexStage))
	var unsupported *gfx.UnsupportedError
	assert.True(t, errors.As(p.Link(), &unsupported))
}

func TestProgramUniforms(t *testing.T) {
	dev := gfxtest.New(0)
	p := shader.NewProgram(dev)
	require.NoError(t, p.AddSource(body, gfx.VertexStage))
	require.NoError(t, p.Enable())

	assert.True(t, p.SetUniformf("uAlpha", 0.5))
	assert.True(t, p.SetUniformVec3("uLight", mgl32.Vec3{1, 2, 3}))
	assert.True(t, p.SetUniformMatrix4("uProjection", mgl32.Ident4()))
	assert.True(t, p.SetUniformi("uName", 7))
	assert.Equal(t, p.UniformLocation("uAlpha"), p.UniformLocation("uAlpha"))

	v, ok := dev.UniformValue(p.Handle(), "uLight")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)
	m, _ := dev.UniformValue(p.Handle(), "uProjection")
	assert.Len(t, m, 16)
	n, _ := dev.UniformValue(p.Handle(), "uName")
	assert.Equal(t, []float32{7}, n)

	p.Release()
	assert.Equal(t, 0, dev.LivePrograms())
	assert.False(t, p.Linked())
}

func TestReadShader(t *testing.T) {
	s, err := shader.Read(strings.NewReader(body), gfx.FragmentStage)
	require.NoError(t, err)
	assert.Equal(t, gfx.FragmentStage, s.Stage())
	assert.Equal(t, body, s.Source())

	_, err = shader.Load("does/not/exist.glsl", gfx.VertexStage)
	assert.Error(t, err)
}

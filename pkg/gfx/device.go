package gfx

// Device is the subset of the OpenGL API the rendering core depends on.
// A Device is bound to a single GL context and must only be used from the
// goroutine that owns that context.
type Device interface {
	Capabilities() Capabilities

	GenBuffer() uint32
	DeleteBuffer(handle uint32)
	BufferData(handle uint32, data []byte, usage Usage)
	BufferSubData(handle uint32, offset int, data []byte)

	GenVertexArray() uint32
	DeleteVertexArray(handle uint32)
	BindVertexArray(handle uint32)
	EnableAttrib(buffer uint32, attr Attrib)
	DisableAttrib(index uint32)

	DrawArrays(mode Primitive, first, count int)

	CompileShader(stage Stage, source string) (uint32, error)
	DeleteShader(handle uint32)
	LinkProgram(shaders []uint32) (uint32, error)
	DeleteProgram(handle uint32)
	UseProgram(handle uint32)
	UniformLocation(program uint32, name string) int32
	Uniformf(location int32, values ...float32)
	Uniformfv(location int32, size int, values []float32)
	Uniformi(location int32, values ...int32)
	Uniformiv(location int32, size int, values []int32)
	UniformMatrix4fv(location int32, transpose bool, values []float32)

	ApplyState(state State)
	// Viewport sets the framebuffer rectangle, origin at the bottom left.
	Viewport(x, y, width, height int)
	Clear(colour [4]float32)
	ReadPixel(x, y int) [4]uint8
	Error() error
}

// Capabilities describes what the current context supports.
type Capabilities struct {
	Version             string
	ShadingLanguage     string
	GLSL                bool
	VertexBufferObjects bool
	MaxElementsVertices int
}

// Attrib describes one vertex attribute pointer inside an interleaved buffer.
type Attrib struct {
	Index      uint32
	Size       int
	Type       DataType
	Normalized bool
	Stride     int
	Offset     int
}

type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

type Primitive int

const (
	Points Primitive = iota
	Lines
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

type DataType int

const (
	Float DataType = iota
	UnsignedByte
)

type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

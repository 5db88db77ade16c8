package gfx

// CompareFunc selects a depth or stencil comparison.
type CompareFunc int

const (
	Never CompareFunc = iota
	Less
	Equal
	LessEqual
	Greater
	NotEqual
	GreaterEqual
	Always
)

// StencilOp selects what happens to the stencil value on depth pass.
type StencilOp int

const (
	Keep StencilOp = iota
	Replace
)

// State is the fixed-function configuration for one render pass. Devices
// apply it wholesale so that passes never leak state into each other.
type State struct {
	DepthTest  bool
	DepthFunc  CompareFunc
	DepthWrite bool

	Blend bool

	ColourWrite bool

	Stencil     bool
	StencilFunc CompareFunc
	StencilRef  int
	StencilOp   StencilOp

	CullBack  bool
	Wireframe bool
	LineWidth float32
}

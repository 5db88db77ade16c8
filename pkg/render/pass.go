package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Pass is one stage of the multi-pass frame.
type Pass int

const (
	ShadowMapPass Pass = iota
	StencilPass
	DrawPass
	DepthShadePass
	DrawShadePass
	DepthTransparentPass
	DrawTransparentPass
	DrawOutlinePass
	NamePass
)

var passNames = [...]string{
	"shadow-map", "stencil", "draw", "depth-shade", "draw-shade",
	"depth-transparent", "draw-transparent", "draw-outline", "name",
}

func (p Pass) String() string {
	if p >= 0 && int(p) < len(passNames) {
		return passNames[p]
	}
	return "unknown"
}

// Passes lists every pass in enum order.
func Passes() []Pass {
	return []Pass{ShadowMapPass, StencilPass, DrawPass, DepthShadePass, DrawShadePass,
		DepthTransparentPass, DrawTransparentPass, DrawOutlinePass, NamePass}
}

// RenderTag decides which passes draw a renderable.
type RenderTag uint32

const (
	Solid RenderTag = 1 << iota
	Shade
	Transparent
	Outline
)

func (t RenderTag) String() string {
	switch t {
	case Solid:
		return "solid"
	case Shade:
		return "shade"
	case Transparent:
		return "transparent"
	case Outline:
		return "outline"
	}
	return "none"
}

// PerRenderable reports whether the pass draws renderables one at a time
// rather than whole buffers.
func (p Pass) PerRenderable() bool {
	switch p {
	case ShadowMapPass, StencilPass, DrawOutlinePass, NamePass:
		return true
	}
	return false
}

// Draws reports whether renderables tagged t take part in the pass. Outline
// renderables join every buffered pass; Shade renderables are never named.
func (p Pass) Draws(t RenderTag) bool {
	switch p {
	case DrawPass:
		return t == Solid || t == Outline
	case DepthShadePass, DrawShadePass:
		return t == Shade || t == Outline
	case DepthTransparentPass, DrawTransparentPass:
		return t == Transparent || t == Outline
	case ShadowMapPass, StencilPass, DrawOutlinePass:
		return t == Outline
	case NamePass:
		return t == Solid || t == Outline
	}
	return false
}

// View carries the camera and lighting shared by every draw of a frame.
type View struct {
	Projection mgl32.Mat4
	ModelView  mgl32.Mat4
	// Light is the eye-space light direction.
	Light    mgl32.Vec3
	Specular bool
	// Outline is the default outline colour for renderables without a
	// highlight.
	Outline mgl32.Vec4
}

// DefaultView looks down -Z at the origin from distance with a perspective
// projection for the given aspect ratio.
func DefaultView(aspect, distance float32) View {
	return View{
		Projection: mgl32.Perspective(mgl32.DegToRad(30), aspect, 0.1, distance*4),
		ModelView:  mgl32.Translate3D(0, 0, -distance),
		Light:      mgl32.Vec3{0.3, 0.5, 1}.Normalize(),
		Specular:   true,
		Outline:    mgl32.Vec4{1, 1, 0, 1},
	}
}

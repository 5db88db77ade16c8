package ambrosia

import (
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/render"
)

// PassState returns the fixed-function state a pass runs under.
func PassState(pass render.Pass) gfx.State {
	st := gfx.State{CullBack: true, LineWidth: 1}
	switch pass {
	case render.ShadowMapPass, render.StencilPass:
		st.Stencil = true
		st.StencilFunc = gfx.Always
		st.StencilRef = 1
		st.StencilOp = gfx.Replace
	case render.DepthShadePass, render.DepthTransparentPass:
		st.DepthTest = true
		st.DepthFunc = gfx.LessEqual
		st.DepthWrite = true
	case render.DrawShadePass, render.DrawTransparentPass:
		st.DepthTest = true
		st.DepthFunc = gfx.Equal
		st.Blend = true
		st.ColourWrite = true
	case render.DrawPass:
		st.DepthTest = true
		st.DepthFunc = gfx.LessEqual
		st.DepthWrite = true
		st.ColourWrite = true
	case render.DrawOutlinePass:
		st.Stencil = true
		st.StencilFunc = gfx.NotEqual
		st.StencilRef = 1
		st.StencilOp = gfx.Keep
		st.ColourWrite = true
		st.LineWidth = 5
	case render.NamePass:
		st.DepthTest = true
		st.DepthFunc = gfx.LessEqual
		st.DepthWrite = true
		st.ColourWrite = true
	}
	return st
}

// framePasses is the order Render issues passes in. The shadow map pass is
// skipped unless shadows are enabled.
var framePasses = []render.Pass{
	render.ShadowMapPass,
	render.StencilPass,
	render.DrawPass,
	render.DepthShadePass,
	render.DrawShadePass,
	render.DepthTransparentPass,
	render.DrawTransparentPass,
	render.DrawOutlinePass,
}

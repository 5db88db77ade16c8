package ambrosia_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/pkg/ambrosia"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/gfx/gfxtest"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/render"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

// waterComplex has one protein chain of ten residues and a solvent chain of
// five waters.
func waterComplex() *model.Node {
	cx := model.NewComplex("water")
	protein := cx.Add(model.Chain, "A")
	for i := range 10 {
		res := protein.Add(model.AminoAcid, "ALA")
		res.Serial = i + 1
		x := float32(i) * 3.8
		res.AddAtom("N", "N", mgl32.Vec3{x - 1.2, 0.3, 0})
		res.AddAtom("CA", "C", mgl32.Vec3{x, 0, 0})
		res.AddAtom("C", "C", mgl32.Vec3{x + 1.2, 0.3, 0})
		res.AddAtom("CB", "C", mgl32.Vec3{x, -1.5, 0})
	}
	solvent := cx.Add(model.Chain, "W")
	for i := range 5 {
		res := solvent.Add(model.Heterogen, "HOH")
		res.HetID = "HOH"
		res.Serial = 100 + i
		res.AddAtom("O", "O", mgl32.Vec3{float32(i) * 3, 10, 0})
	}
	return cx
}

func newScene(t *testing.T, cx *model.Node) (*ambrosia.Ambrosia, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.New(0)
	a, err := ambrosia.New(dev,
		ambrosia.WithTokens(token.NewTable()),
		ambrosia.WithColours(colour.NewDefault()),
		ambrosia.WithNames(render.NewNames()),
	)
	require.NoError(t, err)
	require.NoError(t, a.Load(cx))
	return a, dev
}

func view() render.View { return render.DefaultView(1, 50) }

func TestHideWaterDirtiesOnlyWater(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	require.NoError(t, a.SetDisplay(true, ambrosia.Atoms, nil))
	require.NoError(t, a.Render(view()))
	require.False(t, a.RequiresRedraw())

	require.NoError(t, a.SetDisplay(false, ambrosia.Water, nil))

	hidden := 0
	for _, r := range a.Atoms().Renderables() {
		if r.Node().Parent.IsWater() {
			assert.False(t, r.Display())
			assert.True(t, r.Dirty())
			hidden++
			continue
		}
		assert.True(t, r.Display())
		assert.False(t, r.Dirty())
	}
	assert.Equal(t, 5, hidden)
	for _, r := range a.Chains().Renderables() {
		assert.False(t, r.Dirty())
	}
	assert.True(t, a.RequiresRedraw())
}

func TestBuildCreatesRenderables(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	assert.True(t, a.Built())
	assert.Equal(t, 45, a.Atoms().Len())
	assert.Equal(t, 10, a.Chains().Len())
	for _, r := range a.Atoms().Renderables() {
		assert.False(t, r.Display())
	}
	require.NoError(t, a.Build())
	assert.Equal(t, 45, a.Atoms().Len())
}

func TestStandardSelections(t *testing.T) {
	cx := waterComplex()
	res := cx.Children[0].Children[2]
	res.AddAtom("SG", "S", mgl32.Vec3{7.6, -2.5, 0})
	zn := cx.Children[1].Add(model.Heterogen, "ZN")
	zn.HetID = "ZN"
	zn.AddAtom("ZN", "Zn", mgl32.Vec3{0, 20, 0})
	cx.Children[1].Add(model.Heterogen, "H2").AddAtom("H1", "H", mgl32.Vec3{0, 21, 0})

	a, _ := newScene(t, cx)
	cases := map[ambrosia.RenderSelection]int{
		ambrosia.All:          1,
		ambrosia.Atoms:        48,
		ambrosia.Chains:       2,
		ambrosia.AminoAcids:   10,
		ambrosia.Nucleotides:  0,
		ambrosia.Residues:     17,
		ambrosia.Proteins:     1,
		ambrosia.NucleicAcids: 0,
		ambrosia.Backbone:     30,
		ambrosia.Sidechain:    11,
		ambrosia.Water:        5,
		ambrosia.Heterogens:   7,
		ambrosia.Metals:       1,
		ambrosia.Sulphur:      1,
		ambrosia.Hydrogens:    1,
		ambrosia.Bonds:        0,
	}
	for which, want := range cases {
		sel, ok := a.Selection(which)
		require.True(t, ok, which.String())
		assert.Equal(t, want, sel.Len(), which.String())
	}
	_, ok := a.Selection(ambrosia.Custom)
	assert.False(t, ok)
}

func TestHeterogensIncludeWater(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	water, ok := a.Selection(ambrosia.Water)
	require.True(t, ok)
	het, ok := a.Selection(ambrosia.Heterogens)
	require.True(t, ok)
	for _, n := range water.Nodes() {
		assert.True(t, het.Contains(n), "residue %d", n.Serial)
	}

	n, err := a.ApplyCommand(ambrosia.Command{Attr: ambrosia.AttrDisplay, Bool: true}, ambrosia.Heterogens, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, a.SetDisplay(false, ambrosia.Water, nil))
	for _, r := range a.Atoms().Renderables() {
		if r.Node().Parent.IsWater() {
			assert.False(t, r.Display())
		}
	}
}

func TestCustomSelection(t *testing.T) {
	cx := waterComplex()
	a, _ := newScene(t, cx)

	n, err := a.ApplyCommand(ambrosia.Command{Attr: ambrosia.AttrDisplay, Bool: true}, ambrosia.Custom, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	res := cx.Children[0].Children[0]
	n, err = a.ApplyCommand(ambrosia.Command{Attr: ambrosia.AttrDisplay, Bool: true}, ambrosia.Custom, ambrosia.NewSelection(res))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	a.SetSelection(ambrosia.Temp, ambrosia.NewSelection(res))
	n, err = a.ApplyCommand(ambrosia.Command{Attr: ambrosia.AttrAlpha, Alpha: 40}, ambrosia.Temp, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	r, ok := a.Chains().Get(res)
	require.True(t, ok)
	assert.Equal(t, uint8(40), r.Alpha())
}

func TestRenderFormatOnlyReachesKnowingManager(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	cartoon := a.Token(token.RenderFormat, render.Cartoon)
	spacefill := a.Token(token.RenderFormat, render.Spacefill)

	require.NoError(t, a.SetRenderFormat(cartoon, ambrosia.All, nil))
	for _, r := range a.Chains().Renderables() {
		assert.Equal(t, cartoon, r.Style())
	}
	for _, r := range a.Atoms().Renderables() {
		assert.Equal(t, spacefill, r.Style())
	}
	assert.Contains(t, a.RenderFormats(), render.BallsAndSticks)
	assert.Contains(t, a.RenderOptions(), render.SmoothBackbones)
	assert.Equal(t, token.RenderFormat, a.TokenClass(cartoon))
	assert.Equal(t, render.Cartoon, a.TokenName(cartoon))
}

func TestPassOrder(t *testing.T) {
	a, dev := newScene(t, waterComplex())
	require.NoError(t, a.Render(view()))

	want := []gfx.State{
		ambrosia.PassState(render.StencilPass),
		ambrosia.PassState(render.DrawPass),
		ambrosia.PassState(render.DepthShadePass),
		ambrosia.PassState(render.DrawShadePass),
		ambrosia.PassState(render.DepthTransparentPass),
		ambrosia.PassState(render.DrawTransparentPass),
		ambrosia.PassState(render.DrawOutlinePass),
	}
	assert.Equal(t, want, dev.States)
	assert.Equal(t, 1, dev.Clears)

	dev.States = nil
	a.Enable(ambrosia.Shadows)
	require.True(t, a.IsEnabled(ambrosia.Shadows))
	require.NoError(t, a.Render(view()))
	assert.Equal(t, append([]gfx.State{ambrosia.PassState(render.ShadowMapPass)}, want...), dev.States)
}

func TestPassStates(t *testing.T) {
	draw := ambrosia.PassState(render.DrawPass)
	assert.True(t, draw.DepthTest)
	assert.True(t, draw.DepthWrite)
	assert.True(t, draw.ColourWrite)
	assert.False(t, draw.Blend)

	shade := ambrosia.PassState(render.DrawShadePass)
	assert.Equal(t, gfx.Equal, shade.DepthFunc)
	assert.True(t, shade.Blend)

	stencil := ambrosia.PassState(render.StencilPass)
	assert.False(t, stencil.ColourWrite)
	assert.Equal(t, gfx.Replace, stencil.StencilOp)

	outline := ambrosia.PassState(render.DrawOutlinePass)
	assert.Equal(t, gfx.NotEqual, outline.StencilFunc)
	assert.False(t, outline.DepthTest)
}

func TestSpecularFollowsFeature(t *testing.T) {
	a, dev := newScene(t, waterComplex())
	require.True(t, a.IsEnabled(ambrosia.Specular))
	a.Disable(ambrosia.Specular)
	require.NoError(t, a.RenderPass(view(), render.DrawPass))

	require.NotEmpty(t, dev.Draws)
	got, ok := dev.UniformValue(dev.Draws[0].Program, "uSpecular")
	require.True(t, ok)
	assert.Equal(t, []float32{0}, got)
}

func TestCentreAndRadius(t *testing.T) {
	cx := model.NewComplex("pair")
	res := cx.Add(model.Chain, "A").Add(model.Heterogen, "LIG")
	res.AddAtom("C1", "C", mgl32.Vec3{0, 0, 0})
	res.AddAtom("C2", "C", mgl32.Vec3{2, 0, 0})

	a, _ := newScene(t, cx)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, a.Centre())
	assert.InDelta(t, 3, a.Radius(), 1e-6)
}

func TestPick(t *testing.T) {
	cx := waterComplex()
	a, dev := newScene(t, cx)
	require.NoError(t, a.SetDisplay(true, ambrosia.All, nil))

	target, ok := a.Atoms().Get(cx.Children[1].Children[0].Children[0])
	require.True(t, ok)
	dev.Pixel = target.Name().RGBA()

	got, ok, err := a.Pick(view(), 10, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, target, got)
	assert.True(t, got.Node().Parent.IsWater())

	dev.Pixel = [4]uint8{}
	_, ok, err = a.Pick(view(), 10, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickWindow(t *testing.T) {
	cx := waterComplex()
	a, dev := newScene(t, cx)
	a.SetViewport(render.NewViewport(640, 480))
	assert.Equal(t, [4]int{0, 0, 640, 480}, dev.View)

	r := a.Chains().Renderables()[3]
	dev.Pixel = r.Name().RGBA()
	got, ok, err := a.PickWindow(view(), 100, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok, err = a.PickWindow(view(), 700, 100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickAfterClearMisses(t *testing.T) {
	cx := waterComplex()
	a, dev := newScene(t, cx)
	r := a.Atoms().Renderables()[0]
	dev.Pixel = r.Name().RGBA()

	a.Clear()
	require.NoError(t, a.Build())
	_, ok, err := a.Pick(view(), 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleRefCount(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	a.SetAutoDelete(true)

	h1, h2 := a.Acquire(), a.Acquire()
	assert.Equal(t, 2, a.RefCount())
	assert.Same(t, a, h1.Ambrosia())

	h1.Release()
	h1.Release()
	assert.Equal(t, 1, a.RefCount())
	assert.False(t, a.Closed())

	h2.Release()
	assert.Zero(t, a.RefCount())
	assert.True(t, a.Closed())
	assert.ErrorIs(t, a.Render(view()), ambrosia.ErrClosed)
}

func TestHandleWithoutAutoDelete(t *testing.T) {
	a, _ := newScene(t, waterComplex())
	a.Acquire().Release()
	assert.False(t, a.Closed())
	require.NoError(t, a.Render(view()))
}

func TestErrors(t *testing.T) {
	dev := gfxtest.New(0)
	a, err := ambrosia.New(dev, ambrosia.WithTokens(token.NewTable()), ambrosia.WithNames(render.NewNames()))
	require.NoError(t, err)

	assert.ErrorIs(t, a.Render(view()), ambrosia.ErrNotBuilt)
	assert.ErrorIs(t, a.Build(), ambrosia.ErrNotComplex)
	assert.ErrorIs(t, a.Load(model.NewComplex("x").Add(model.Chain, "A")), ambrosia.ErrNotComplex)
	_, err = a.ApplyCommand(ambrosia.Command{Attr: ambrosia.AttrDisplay}, ambrosia.All, nil)
	assert.ErrorIs(t, err, ambrosia.ErrNotBuilt)

	dev.Caps.GLSL = false
	_, err = ambrosia.New(dev)
	var unsupported *gfx.UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "GLSL", unsupported.Feature)
}

func TestLoadFile(t *testing.T) {
	dev := gfxtest.New(0)
	a, err := ambrosia.New(dev, ambrosia.WithTokens(token.NewTable()), ambrosia.WithNames(render.NewNames()))
	require.NoError(t, err)

	require.NoError(t, a.LoadFile("testdata/fragment.pdb"))
	assert.Equal(t, "1FRG", a.Complex().Name)
	assert.Equal(t, 11, a.Atoms().Len())
	assert.Equal(t, 3, a.Chains().Len())

	sel, ok := a.Selection(ambrosia.Metals)
	require.True(t, ok)
	assert.Equal(t, 1, sel.Len())

	assert.Error(t, a.LoadFile("testdata/missing.pdb"))
}

package render

import (
	_ "embed"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/utopiadocs/ambrosia/pkg/buffer"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

//go:embed shaders/tube.glsl
var tubeSource string

// Chain render formats and options.
const (
	BackboneTrace = "Backbone Trace"
	Cartoon       = "Cartoon"
	Ribbons       = "Ribbons"

	SmoothBackbones = "Smooth Backbones"
	ChunkyBackbones = "Chunky Backbones"
)

// chainPalette is the number of chain.N colours cycled through.
const chainPalette = 8

// ChainMinLOD is the lowest detail a tube is drawn at.
const ChainMinLOD = 10

// ChainManager draws polymer backbones as tubes. Each residue with a trace
// atom owns one segment running between the midpoints to its neighbours.
type ChainManager struct {
	*core
	geom *chainGeometry
}

var _ Manager = (*ChainManager)(nil)

func NewChainManager(dev gfx.Device, opts ...Option) *ChainManager {
	cfg := newConfig(opts)
	g := &chainGeometry{colours: cfg.colours, traces: make(map[*model.Node]*trace)}
	m := &ChainManager{core: newCore("chains", dev, g, cfg), geom: g}
	g.backbone = cfg.tokens.Get(token.RenderFormat, BackboneTrace)
	g.cartoon = cfg.tokens.Get(token.RenderFormat, Cartoon)
	g.ribbons = cfg.tokens.Get(token.RenderFormat, Ribbons)
	g.smooth = cfg.tokens.Get(token.RenderOption, SmoothBackbones)
	g.chunky = cfg.tokens.Get(token.RenderOption, ChunkyBackbones)
	m.styles = []token.Token{g.backbone, g.cartoon, g.ribbons}
	m.options = []token.Token{g.smooth, g.chunky}
	m.defaultStyle = g.backbone
	return m
}

// Clear also forgets the cached control points of every chain.
func (m *ChainManager) Clear() {
	m.core.Clear()
	clear(m.geom.traces)
}

func (m *ChainManager) Release() {
	m.core.Release()
	clear(m.geom.traces)
}

// trace holds the control points of one chain, one per traced residue.
type trace struct {
	points []mgl32.Vec3
	index  map[*model.Node]int
}

func newTrace(chain *model.Node) *trace {
	t := &trace{index: make(map[*model.Node]int)}
	for _, res := range chain.Residues() {
		atom := res.TraceAtom()
		if atom == nil {
			continue
		}
		t.index[res] = len(t.points)
		t.points = append(t.points, atom.Position)
	}
	return t
}

func (t *trace) at(i int) mgl32.Vec3 {
	return t.points[min(max(i, 0), len(t.points)-1)]
}

type chainGeometry struct {
	colours *colour.Registry
	traces  map[*model.Node]*trace

	backbone, cartoon, ribbons token.Token
	smooth, chunky             token.Token
}

func (g *chainGeometry) trace(residue *model.Node) (*trace, int, bool) {
	chain := residue.Parent
	if chain == nil {
		return nil, 0, false
	}
	t, ok := g.traces[chain]
	if !ok {
		t = newTrace(chain)
		g.traces[chain] = t
	}
	i, ok := t.index[residue]
	return t, i, ok && len(t.points) > 1
}

func (g *chainGeometry) defaultColour(node *model.Node) *colour.Colour {
	index := 0
	if chain := node.Ancestor(model.Chain); chain != nil && chain.Parent != nil {
		for i, c := range chain.Parent.Children {
			if c == chain {
				index = i
				break
			}
		}
	}
	return g.colours.Get("chain." + strconv.Itoa(index%chainPalette))
}

func (g *chainGeometry) vertexCount(r *Renderable, lod int) int {
	if _, _, ok := g.trace(r.node); !ok {
		return 0
	}
	sides, steps := lod, max(lod/2, 1)
	return steps * sides * 6
}

// profile returns the half extents of the tube cross-section.
func (g *chainGeometry) profile(r *Renderable) (width, height float32) {
	radius := float32(0.3)
	if r.options.Has(g.chunky) {
		radius = 0.6
	}
	switch r.style {
	case g.cartoon:
		return radius * 4, radius
	case g.ribbons:
		return radius * 5, radius / 3
	}
	return radius, radius
}

func (g *chainGeometry) path(t *trace, i int, smooth bool, u float32) mgl32.Vec3 {
	a, b := i, i+1
	if u < 0 {
		a, b = i-1, i
		u++
	}
	if smooth {
		return catmullRom(t.at(a-1), t.at(a), t.at(b), t.at(b+1), u)
	}
	return t.at(a).Add(t.at(b).Sub(t.at(a)).Mul(u))
}

func catmullRom(p0, p1, p2, p3 mgl32.Vec3, u float32) mgl32.Vec3 {
	u2, u3 := u*u, u*u*u
	return p1.Mul(2).
		Add(p2.Sub(p0).Mul(u)).
		Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(u2)).
		Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(u3)).
		Mul(0.5)
}

type ring struct {
	normals []mgl32.Vec3
	points  []mgl32.Vec3
}

// quadOrder splits a quad of two rings into two triangles.
var quadOrder = [6]int{0, 2, 1, 1, 2, 3}

func (g *chainGeometry) build(r *Renderable, b *buffer.Buffer, lod int) error {
	t, i, ok := g.trace(r.node)
	if !ok {
		return nil
	}
	sides, steps := lod, max(lod/2, 1)
	from, to := float32(-0.5), float32(0.5)
	if i == 0 {
		from = 0
	}
	if i == len(t.points)-1 {
		to = 0
	}
	smooth := r.options.Has(g.smooth)
	width, height := g.profile(r)

	const h = 0.01
	rings := make([]ring, steps+1)
	for s := range rings {
		u := from + (to-from)*float32(s)/float32(steps)
		centre := g.path(t, i, smooth, u)
		tangent := g.path(t, i, smooth, min(u+h, 0.5)).Sub(g.path(t, i, smooth, max(u-h, -0.5)))
		rings[s] = tubeRing(centre, tangent, sides, width, height)
	}

	rgba := r.RGBA()
	emit := func(p, n mgl32.Vec3) error {
		if err := b.SetPosition(p.X(), p.Y(), p.Z(), 1); err != nil {
			return err
		}
		if err := b.SetNormal(n.X(), n.Y(), n.Z()); err != nil {
			return err
		}
		if err := b.SetColourb(rgba[0], rgba[1], rgba[2], rgba[3]); err != nil {
			return err
		}
		return b.Next()
	}
	for s := range steps {
		a, c := rings[s], rings[s+1]
		for k := range sides {
			k1 := (k + 1) % sides
			corners := [4]struct {
				p, n mgl32.Vec3
			}{
				{a.points[k], a.normals[k]},
				{a.points[k1], a.normals[k1]},
				{c.points[k], c.normals[k]},
				{c.points[k1], c.normals[k1]},
			}
			for _, q := range quadOrder {
				if err := emit(corners[q].p, corners[q].n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// tubeRing places sides points around centre on an ellipse perpendicular to
// tangent.
func tubeRing(centre, tangent mgl32.Vec3, sides int, width, height float32) ring {
	if tangent.Len() < 1e-6 {
		tangent = mgl32.Vec3{0, 0, 1}
	}
	tangent = tangent.Normalize()
	up := mgl32.Vec3{1, 0, 0}
	if math32.Abs(tangent.X()) > 0.9 {
		up = mgl32.Vec3{0, 1, 0}
	}
	n := tangent.Cross(up).Normalize()
	bi := tangent.Cross(n)

	out := ring{normals: make([]mgl32.Vec3, sides), points: make([]mgl32.Vec3, sides)}
	for k := range sides {
		theta := 2 * math32.Pi * float32(k) / float32(sides)
		cos, sin := math32.Cos(theta), math32.Sin(theta)
		out.points[k] = centre.Add(n.Mul(cos * width)).Add(bi.Mul(sin * height))
		out.normals[k] = n.Mul(cos / width).Add(bi.Mul(sin / height)).Normalize()
	}
	return out
}

func (g *chainGeometry) mode(*Renderable) gfx.Primitive { return gfx.Triangles }

func (g *chainGeometry) source() string { return tubeSource }

func (g *chainGeometry) variant(pass Pass) string {
	switch pass {
	case ShadowMapPass, StencilPass:
		return "FLAT"
	case DrawOutlinePass:
		return "OUTLINE"
	case DepthShadePass, DepthTransparentPass:
		return "DEPTH"
	case NamePass:
		return "NAME"
	}
	return "LIT"
}

func (g *chainGeometry) minLOD() int { return ChainMinLOD }

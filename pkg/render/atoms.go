package render

import (
	_ "embed"
	"fmt"

	"github.com/utopiadocs/ambrosia/pkg/buffer"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

//go:embed shaders/sphere.glsl
var sphereSource string

// Atom render formats.
const (
	Spacefill      = "Spacefill"
	BallsAndSticks = "Balls and Sticks"
)

// Billboard corners of the triangle that circumscribes a unit circle.
var sphereCorners = [3][2]float32{{1, 1}, {-3, 1}, {1, -3}}

// AtomManager draws atoms as ray-cast sphere impostors.
type AtomManager struct {
	*core
	geom *atomGeometry
}

var _ Manager = (*AtomManager)(nil)

func NewAtomManager(dev gfx.Device, opts ...Option) *AtomManager {
	cfg := newConfig(opts)
	g := &atomGeometry{colours: cfg.colours}
	m := &AtomManager{core: newCore("atoms", dev, g, cfg), geom: g}
	g.spacefill = cfg.tokens.Get(token.RenderFormat, Spacefill)
	g.balls = cfg.tokens.Get(token.RenderFormat, BallsAndSticks)
	m.styles = []token.Token{g.spacefill, g.balls}
	m.defaultStyle = g.spacefill
	return m
}

// Radius is the drawn radius of an atom renderable in its current style.
func (m *AtomManager) Radius(r *Renderable) float32 { return m.geom.radius(r) }

type atomGeometry struct {
	colours   *colour.Registry
	spacefill token.Token
	balls     token.Token
}

func (g *atomGeometry) defaultColour(node *model.Node) *colour.Colour {
	symbol := model.Unknown.Symbol
	if node.Element != nil {
		symbol = node.Element.Symbol
	}
	return g.colours.Get("element." + symbol)
}

func (g *atomGeometry) radius(r *Renderable) float32 {
	radius := model.Unknown.Radius
	if e := r.node.Element; e != nil {
		radius = e.Radius
	}
	if r.style == g.balls {
		radius /= 4
	}
	return radius
}

func (g *atomGeometry) vertexCount(r *Renderable, _ int) int {
	if r.node.Kind != model.Atom {
		return 0
	}
	return len(sphereCorners)
}

func (g *atomGeometry) build(r *Renderable, b *buffer.Buffer, _ int) error {
	p := r.node.Position
	radius := g.radius(r)
	rgba := r.RGBA()
	for _, c := range sphereCorners {
		if err := b.SetPosition(p.X(), p.Y(), p.Z(), 1); err != nil {
			return err
		}
		if err := b.SetNormal(c[0], c[1], radius); err != nil {
			return err
		}
		if err := b.SetColourb(rgba[0], rgba[1], rgba[2], rgba[3]); err != nil {
			return err
		}
		if err := b.Next(); err != nil {
			return fmt.Errorf("atom %q: %w", r.node.Name, err)
		}
	}
	return nil
}

func (g *atomGeometry) mode(*Renderable) gfx.Primitive { return gfx.Triangles }

func (g *atomGeometry) source() string { return sphereSource }

func (g *atomGeometry) variant(pass Pass) string {
	switch pass {
	case ShadowMapPass, StencilPass:
		return "CIRCLE"
	case DrawOutlinePass:
		return "OUTLINE"
	case DepthShadePass, DepthTransparentPass:
		return "DEPTH"
	case NamePass:
		return "NAME"
	}
	return "SPHERE"
}

func (g *atomGeometry) minLOD() int { return 1 }

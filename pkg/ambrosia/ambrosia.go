// Package ambrosia is the scene a viewer draws: one molecular complex, the
// renderable managers built from it, the standard selections and the
// multi-pass frame.
package ambrosia

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/model/pdb"
	"github.com/utopiadocs/ambrosia/pkg/render"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

var (
	ErrNotComplex = errors.New("ambrosia: not a complex")
	ErrNotBuilt   = errors.New("ambrosia: scene not built")
	ErrClosed     = errors.New("ambrosia: scene closed")
)

// Feature is a global render option.
type Feature int

const (
	Specular Feature = iota
	Shadows
)

func (f Feature) String() string {
	switch f {
	case Specular:
		return "specular"
	case Shadows:
		return "shadows"
	}
	return "unknown"
}

// Option configures an Ambrosia.
type Option func(*Ambrosia)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Ambrosia) { a.logger = logger }
}

func WithTokens(tokens *token.Table) Option {
	return func(a *Ambrosia) { a.tokens = tokens }
}

func WithColours(colours *colour.Registry) Option {
	return func(a *Ambrosia) { a.colours = colours }
}

func WithNames(names *render.Names) Option {
	return func(a *Ambrosia) { a.names = names }
}

// WithBufferBytes sets the default vertex buffer size of both managers.
func WithBufferBytes(n int) Option {
	return func(a *Ambrosia) { a.bufferBytes = n }
}

// Ambrosia owns the renderables drawn for one complex. The complex itself
// belongs to the caller. All methods except Acquire, RefCount and the
// registry lookups must run on the goroutine that owns the GL context.
type Ambrosia struct {
	dev         gfx.Device
	logger      *slog.Logger
	tokens      *token.Table
	colours     *colour.Registry
	names       *render.Names
	bufferBytes int

	atoms  *render.AtomManager
	chains *render.ChainManager

	complex    *model.Node
	built      bool
	closed     bool
	selections map[RenderSelection]*Selection

	centre mgl32.Vec3
	radius float32

	features   map[Feature]bool
	background *colour.Colour
	viewport   render.Viewport

	refs       atomic.Int32
	autoDelete atomic.Bool
}

// New creates an empty scene on dev. It fails with a *gfx.UnsupportedError
// when the context lacks GLSL or vertex buffer objects.
func New(dev gfx.Device, opts ...Option) (*Ambrosia, error) {
	if err := dev.Capabilities().Require(); err != nil {
		return nil, err
	}
	a := &Ambrosia{
		dev:        dev,
		selections: make(map[RenderSelection]*Selection),
		features:   map[Feature]bool{Specular: true, Shadows: false},
		viewport:   render.NewViewport(1, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.tokens == nil {
		a.tokens = token.Default()
	}
	if a.colours == nil {
		a.colours = colour.Default()
	}
	if a.names == nil {
		a.names = render.DefaultNames()
	}
	a.background = a.colours.Get("background")

	ropts := []render.Option{
		render.WithLogger(a.logger),
		render.WithTokens(a.tokens),
		render.WithColours(a.colours),
		render.WithNames(a.names),
	}
	if a.bufferBytes > 0 {
		ropts = append(ropts, render.WithBufferBytes(a.bufferBytes))
	}
	a.atoms = render.NewAtomManager(dev, ropts...)
	a.chains = render.NewChainManager(dev, ropts...)
	return a, nil
}

// Load replaces the scene's complex and builds it.
func (a *Ambrosia) Load(cx *model.Node) error {
	if a.closed {
		return ErrClosed
	}
	if cx == nil || cx.Kind != model.Complex {
		return ErrNotComplex
	}
	a.Clear()
	a.complex = cx
	return a.Build()
}

// LoadFile reads a PDB file and loads the complex it describes.
func (a *Ambrosia) LoadFile(path string) error {
	cx, err := pdb.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ambrosia: load %s: %w", path, err)
	}
	return a.Load(cx)
}

func (a *Ambrosia) Complex() *model.Node { return a.complex }

func (a *Ambrosia) Built() bool { return a.built }

// Build creates a chain segment for every traced residue and a hidden atom
// renderable for every atom, then derives the standard selections and the
// scene's centre and radius. Building a built scene is a no-op.
func (a *Ambrosia) Build() error {
	if a.closed {
		return ErrClosed
	}
	if a.complex == nil {
		return ErrNotComplex
	}
	if a.built {
		return nil
	}

	a.complex.Walk(func(n *model.Node) bool {
		switch {
		case n.Kind == model.Atom:
			a.atoms.Create(n).SetDisplay(false)
		case (n.Kind == model.AminoAcid || n.Kind == model.Nucleotide) && n.TraceAtom() != nil:
			a.chains.Create(n)
		}
		return true
	})

	a.selections = classify(a.complex)
	a.centre, a.radius = bounds(a.complex.Atoms())
	a.built = true
	a.logger.Info("built scene",
		"complex", a.complex.Name,
		"atoms", a.atoms.Len(),
		"segments", a.chains.Len(),
		"radius", a.radius)
	return nil
}

// bounds returns the centroid of the atoms and a radius that encloses them
// from it with a margin.
func bounds(atoms []*model.Node) (mgl32.Vec3, float32) {
	if len(atoms) == 0 {
		return mgl32.Vec3{}, 0
	}
	lo, hi := atoms[0].Position, atoms[0].Position
	var sum mgl32.Vec3
	for _, atom := range atoms {
		p := atom.Position
		sum = sum.Add(p)
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	centroid := sum.Mul(1 / float32(len(atoms)))
	mid := lo.Add(hi).Mul(0.5)
	return centroid, hi.Sub(lo).Len()/2 + centroid.Sub(mid).Len() + 2
}

// Clear destroys every renderable and selection. The complex is kept and
// can be built again.
func (a *Ambrosia) Clear() {
	a.atoms.Clear()
	a.chains.Clear()
	for s := range a.selections {
		if s != Temp && s != Custom {
			delete(a.selections, s)
		}
	}
	a.built = false
}

// Close releases every GL resource. The scene is unusable afterwards.
func (a *Ambrosia) Close() {
	if a.closed {
		return
	}
	a.Clear()
	a.atoms.Release()
	a.chains.Release()
	a.complex = nil
	a.closed = true
	a.logger.Debug("closed scene")
}

func (a *Ambrosia) Closed() bool { return a.closed }

func (a *Ambrosia) Centre() mgl32.Vec3 { return a.centre }

func (a *Ambrosia) Radius() float32 { return a.radius }

func (a *Ambrosia) Atoms() *render.AtomManager { return a.atoms }

func (a *Ambrosia) Chains() *render.ChainManager { return a.chains }

func (a *Ambrosia) Enable(f Feature) { a.features[f] = true }

func (a *Ambrosia) Disable(f Feature) { a.features[f] = false }

func (a *Ambrosia) IsEnabled(f Feature) bool { return a.features[f] }

// SetBackground sets the clear colour of the frame; nil restores the
// registry's background.
func (a *Ambrosia) SetBackground(c *colour.Colour) {
	if c == nil {
		c = a.colours.Get("background")
	}
	a.background = c
}

func (a *Ambrosia) Background() *colour.Colour { return a.background }

// SetLOD sets the tube detail of the chain manager.
func (a *Ambrosia) SetLOD(lod int) { a.chains.SetLOD(lod) }

// RequiresRedraw reports whether the next frame differs from the last.
func (a *Ambrosia) RequiresRedraw() bool {
	return a.atoms.RequiresRedraw() || a.chains.RequiresRedraw()
}

// Render clears to the background and draws a full frame.
func (a *Ambrosia) Render(view render.View) error {
	if err := a.ready(); err != nil {
		return err
	}
	red, green, blue := a.background.Getf()
	a.dev.Clear([4]float32{red, green, blue, 1})
	for _, pass := range framePasses {
		if pass == render.ShadowMapPass && !a.features[Shadows] {
			continue
		}
		if err := a.RenderPass(view, pass); err != nil {
			return err
		}
	}
	return nil
}

// RenderPass applies the pass state and draws chains then atoms. The view's
// model-view is moved so the scene centre sits at its origin.
func (a *Ambrosia) RenderPass(view render.View, pass render.Pass) error {
	if err := a.ready(); err != nil {
		return err
	}
	view.ModelView = view.ModelView.Mul4(mgl32.Translate3D(-a.centre.X(), -a.centre.Y(), -a.centre.Z()))
	view.Specular = view.Specular && a.features[Specular]

	a.dev.ApplyState(PassState(pass))
	if err := a.chains.Render(view, pass); err != nil {
		return fmt.Errorf("ambrosia: chains: %w", err)
	}
	if err := a.atoms.Render(view, pass); err != nil {
		return fmt.Errorf("ambrosia: atoms: %w", err)
	}
	return nil
}

// Name draws the picking pass over a cleared target: every pixel holds the
// name of the renderable drawn there, or zero.
func (a *Ambrosia) Name(view render.View) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.dev.Clear([4]float32{})
	return a.RenderPass(view, render.NamePass)
}

// Pick draws the name pass and resolves the pixel at x, y back to the
// renderable drawn there.
func (a *Ambrosia) Pick(view render.View, x, y int) (*render.Renderable, bool, error) {
	if err := a.Name(view); err != nil {
		return nil, false, err
	}
	name := render.NameFromRGBA(a.dev.ReadPixel(x, y))
	if name == 0 {
		return nil, false, nil
	}
	r, ok := a.names.Lookup(name)
	if ok && !a.owns(r) {
		return nil, false, nil
	}
	return r, ok, nil
}

// SetViewport sets the window area frames are drawn into.
func (a *Ambrosia) SetViewport(v render.Viewport) {
	a.viewport = v
	w, h := v.Size()
	a.dev.Viewport(0, 0, w, h)
}

func (a *Ambrosia) Viewport() render.Viewport { return a.viewport }

// PickWindow is Pick for a point in window coordinates. Points outside the
// viewport pick nothing.
func (a *Ambrosia) PickWindow(view render.View, x, y int) (*render.Renderable, bool, error) {
	px, py, ok := a.viewport.Pixel(x, y)
	if !ok {
		return nil, false, nil
	}
	return a.Pick(view, px, py)
}

func (a *Ambrosia) owns(r *render.Renderable) bool {
	if got, ok := a.atoms.Get(r.Node()); ok && got == r {
		return true
	}
	got, ok := a.chains.Get(r.Node())
	return ok && got == r
}

func (a *Ambrosia) ready() error {
	if a.closed {
		return ErrClosed
	}
	if !a.built {
		return ErrNotBuilt
	}
	return nil
}

// Token interns name in class on the scene's token table.
func (a *Ambrosia) Token(class, name string) token.Token { return a.tokens.Get(class, name) }

func (a *Ambrosia) Tokens(class string) []token.Token { return a.tokens.Tokens(class) }

func (a *Ambrosia) TokenName(tok token.Token) string { return a.tokens.Name(tok) }

func (a *Ambrosia) TokenClass(tok token.Token) string { return a.tokens.Class(tok) }

// RenderFormats lists the format names both managers understand, atoms
// first.
func (a *Ambrosia) RenderFormats() []string {
	return a.tokenNames(slices.Concat(a.atoms.Styles(), a.chains.Styles()))
}

func (a *Ambrosia) RenderOptions() []string {
	return a.tokenNames(slices.Concat(a.atoms.Options(), a.chains.Options()))
}

func (a *Ambrosia) tokenNames(toks []token.Token) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, a.tokens.Name(tok))
	}
	return out
}

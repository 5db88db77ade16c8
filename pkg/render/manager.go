package render

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/utopiadocs/ambrosia/pkg/buffer"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/shader"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

// Manager owns the renderables of one geometry category and draws them
// pass by pass.
type Manager interface {
	// Create returns the renderable for node, creating it on first use.
	Create(node *model.Node) *Renderable
	Get(node *model.Node) (*Renderable, bool)
	Destroy(r *Renderable)
	Clear()
	Renderables() []*Renderable
	Len() int

	SetLOD(lod int)
	LOD() int
	// Render rebuilds dirty renderables and issues the pass's draw calls.
	Render(view View, pass Pass) error
	RequiresRedraw() bool

	Styles() []token.Token
	Options() []token.Token
	// Release frees every GL resource held by the manager.
	Release()
}

// Option configures a manager.
type Option func(*config)

type config struct {
	names       *Names
	tokens      *token.Table
	colours     *colour.Registry
	logger      *slog.Logger
	bufferBytes int
}

func WithNames(names *Names) Option {
	return func(c *config) { c.names = names }
}

func WithTokens(tokens *token.Table) Option {
	return func(c *config) { c.tokens = tokens }
}

func WithColours(colours *colour.Registry) Option {
	return func(c *config) { c.colours = colours }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBufferBytes sets the default size of pooled vertex buffers.
func WithBufferBytes(n int) Option {
	return func(c *config) { c.bufferBytes = n }
}

func newConfig(opts []Option) config {
	cfg := config{bufferBytes: buffer.DefaultBufferBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.names == nil {
		cfg.names = DefaultNames()
	}
	if cfg.tokens == nil {
		cfg.tokens = token.Default()
	}
	if cfg.colours == nil {
		cfg.colours = colour.Default()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// geometry is what differs between managers: how a renderable turns into
// vertices and which shader variant draws each pass.
type geometry interface {
	defaultColour(node *model.Node) *colour.Colour
	vertexCount(r *Renderable, lod int) int
	build(r *Renderable, b *buffer.Buffer, lod int) error
	mode(r *Renderable) gfx.Primitive
	source() string
	variant(pass Pass) string
	minLOD() int
}

type bucketKey struct {
	style token.Token
	tag   RenderTag
	mode  gfx.Primitive
}

// core implements Manager on top of a geometry.
type core struct {
	cfg    config
	dev    gfx.Device
	geom   geometry
	format buffer.Format
	logger *slog.Logger

	lod          int
	styles       []token.Token
	options      []token.Token
	defaultStyle token.Token

	renderables []*Renderable
	byNode      map[*model.Node]*Renderable

	buckets  map[bucketKey]*buffer.Manager
	order    []bucketKey
	programs map[string]*shader.Program
}

func newCore(kind string, dev gfx.Device, geom geometry, cfg config) *core {
	return &core{
		cfg:      cfg,
		dev:      dev,
		geom:     geom,
		format:   buffer.MustParseFormat(buffer.DefaultFormat),
		logger:   cfg.logger.With("manager", kind),
		lod:      geom.minLOD(),
		byNode:   make(map[*model.Node]*Renderable),
		buckets:  make(map[bucketKey]*buffer.Manager),
		programs: make(map[string]*shader.Program),
	}
}

func (c *core) Create(node *model.Node) *Renderable {
	if r, ok := c.byNode[node]; ok {
		return r
	}
	r := newRenderable(node, c.defaultStyle, c.geom.defaultColour(node))
	r.name = c.cfg.names.register(r)
	c.renderables = append(c.renderables, r)
	c.byNode[node] = r
	return r
}

func (c *core) Get(node *model.Node) (*Renderable, bool) {
	r, ok := c.byNode[node]
	return r, ok
}

func (c *core) Destroy(r *Renderable) {
	if r == nil || c.byNode[r.node] != r {
		return
	}
	if r.span.buf != nil {
		r.span.buf.Invalidate()
		r.span = span{}
	}
	delete(c.byNode, r.node)
	c.renderables = slices.DeleteFunc(c.renderables, func(x *Renderable) bool { return x == r })
	c.cfg.names.deregister(r.name)
}

func (c *core) Clear() {
	for _, r := range c.renderables {
		c.cfg.names.deregister(r.name)
		r.span = span{}
	}
	c.renderables = nil
	clear(c.byNode)
	for _, key := range c.order {
		c.buckets[key].Release()
	}
	clear(c.buckets)
	c.order = nil
}

func (c *core) Renderables() []*Renderable { return slices.Clone(c.renderables) }

func (c *core) Len() int { return len(c.renderables) }

// SetLOD changes the level of detail, clamped to the geometry's minimum.
// Every renderable is rebuilt at the new detail.
func (c *core) SetLOD(lod int) {
	lod = max(lod, c.geom.minLOD())
	if lod == c.lod {
		return
	}
	c.lod = lod
	for _, r := range c.renderables {
		r.moved()
	}
}

func (c *core) LOD() int { return c.lod }

func (c *core) Styles() []token.Token { return slices.Clone(c.styles) }

func (c *core) Options() []token.Token { return slices.Clone(c.options) }

func (c *core) RequiresRedraw() bool {
	for _, r := range c.renderables {
		if r.dirty || r.relocate {
			return true
		}
	}
	for _, key := range c.order {
		if !c.buckets[key].IsLoaded() {
			return true
		}
	}
	return false
}

func (c *core) bucket(key bucketKey) *buffer.Manager {
	m, ok := c.buckets[key]
	if !ok {
		m = buffer.NewManager(c.dev, c.format, c.cfg.bufferBytes, buffer.WithLogger(c.logger))
		c.buckets[key] = m
		c.order = append(c.order, key)
	}
	return m
}

// rebuild runs the dirty protocol: relocating renderables invalidate their
// buffers, invalid buffers are dropped along with every span inside them,
// then each dirty renderable is written into its span or a new one.
func (c *core) rebuild() error {
	for _, r := range c.renderables {
		if !r.relocate {
			continue
		}
		if r.span.buf != nil {
			r.span.buf.Invalidate()
			r.span = span{}
		}
		r.relocate = false
	}

	dropped := make(map[*buffer.Buffer]bool)
	for _, key := range c.order {
		for _, b := range c.buckets[key].DropInvalid() {
			dropped[b] = true
		}
	}
	if len(dropped) > 0 {
		for _, r := range c.renderables {
			if r.span.buf != nil && dropped[r.span.buf] {
				r.span = span{}
				r.dirty = true
			}
		}
		c.logger.Debug("dropped invalid buffers", "count", len(dropped))
	}

	rebuilt := 0
	for _, r := range c.renderables {
		if !r.dirty {
			continue
		}
		if err := c.place(r); err != nil {
			return fmt.Errorf("render: rebuild %s %q: %w", r.node.Kind, r.node.Name, err)
		}
		r.dirty = false
		rebuilt++
	}
	if rebuilt > 0 {
		c.logger.Debug("rebuilt renderables", "count", rebuilt, "buffers", c.bufferCount())
	}
	return nil
}

func (c *core) place(r *Renderable) error {
	if !r.Shown() {
		return nil
	}
	count := c.geom.vertexCount(r, c.lod)
	if count == 0 {
		return nil
	}
	if r.span.buf == nil {
		b := c.bucket(bucketKey{style: r.style, tag: r.tag, mode: c.geom.mode(r)}).GetBuffer(count)
		r.span = span{buf: b, first: b.UsedVertices(), count: count}
		b.To(r.span.first)
		return c.geom.build(r, b, c.lod)
	}
	b := r.span.buf
	b.To(r.span.first)
	if err := c.geom.build(r, b, c.lod); err != nil {
		return err
	}
	b.LoadRange(r.span.first, r.span.count)
	return nil
}

func (c *core) bufferCount() int {
	n := 0
	for _, key := range c.order {
		n += c.buckets[key].Len()
	}
	return n
}

func (c *core) program(variant string) (*shader.Program, error) {
	if p, ok := c.programs[variant]; ok {
		return p, nil
	}
	p := shader.NewProgram(c.dev)
	src := c.geom.source()
	if err := p.AddSource(src, gfx.VertexStage); err != nil {
		return nil, err
	}
	if err := p.AddSource(src, gfx.FragmentStage); err != nil {
		return nil, err
	}
	if err := p.Define(variant); err != nil {
		return nil, err
	}
	c.programs[variant] = p
	return p, nil
}

func (c *core) Render(view View, pass Pass) error {
	if err := c.rebuild(); err != nil {
		return err
	}
	if len(c.renderables) == 0 {
		return nil
	}

	prog, err := c.program(c.geom.variant(pass))
	if err != nil {
		return err
	}
	if err := prog.Enable(); err != nil {
		return fmt.Errorf("render: %s pass: %w", pass, err)
	}
	defer prog.Disable()

	prog.SetUniformMatrix4("uProjection", view.Projection)
	prog.SetUniformMatrix4("uModelView", view.ModelView)
	prog.SetUniformVec3("uLight", view.Light)
	specular := float32(0)
	if view.Specular && pass == DrawPass {
		specular = 1
	}
	prog.SetUniformf("uSpecular", specular)

	if pass.PerRenderable() {
		return c.renderEach(prog, view, pass)
	}
	for _, key := range c.order {
		if !pass.Draws(key.tag) {
			continue
		}
		if err := c.buckets[key].Render(key.mode); err != nil {
			return fmt.Errorf("render: %s pass: %w", pass, err)
		}
	}
	return nil
}

func (c *core) renderEach(prog *shader.Program, view View, pass Pass) error {
	for _, r := range c.renderables {
		if !r.Shown() || r.span.buf == nil || !pass.Draws(r.tag) {
			continue
		}
		switch pass {
		case NamePass:
			u := r.name.Unit()
			prog.SetUniformf("uName", u[:]...)
		case DrawOutlinePass:
			highlight := view.Outline
			if r.highlight != nil {
				red, green, blue := r.highlight.Getf()
				highlight = [4]float32{red, green, blue, 1}
			}
			prog.SetUniformVec4("uHighlight", highlight)
		}
		b := r.span.buf
		b.Enable(buffer.MaskAll)
		err := b.Render(c.geom.mode(r), r.span.first, r.span.count)
		b.Disable()
		if err != nil {
			return fmt.Errorf("render: %s pass: %w", pass, err)
		}
	}
	return nil
}

func (c *core) Release() {
	c.Clear()
	for _, p := range c.programs {
		p.Release()
	}
	clear(c.programs)
}

package render

import (
	"github.com/utopiadocs/ambrosia/pkg/buffer"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

// span locates a renderable's vertices inside a pooled buffer.
type span struct {
	buf   *buffer.Buffer
	first int
	count int
}

// Renderable is one drawable unit bound to a model node. Setters mark it
// dirty only when the value changes; the owning manager rebuilds dirty
// renderables before the next draw.
type Renderable struct {
	node *model.Node
	name Name

	display   bool
	visible   bool
	colour    *colour.Colour
	tint      *colour.Colour
	highlight *colour.Colour
	alpha     uint8
	style     token.Token
	tag       RenderTag
	options   Bitmask
	tags      uint32

	dirty bool
	// relocate is set when the geometry must move to another buffer.
	relocate bool
	span     span
}

func newRenderable(node *model.Node, style token.Token, c *colour.Colour) *Renderable {
	return &Renderable{
		node:    node,
		display: true,
		visible: true,
		colour:  c,
		alpha:   255,
		style:   style,
		tag:     Solid,
		dirty:   true,
	}
}

func (r *Renderable) Node() *model.Node { return r.node }

func (r *Renderable) Name() Name { return r.name }

func (r *Renderable) Dirty() bool { return r.dirty }

// MarkDirty forces a rebuild before the next draw.
func (r *Renderable) MarkDirty() { r.dirty = true }

func (r *Renderable) moved() {
	r.dirty = true
	r.relocate = true
}

// Shown reports whether the renderable produces geometry.
func (r *Renderable) Shown() bool { return r.display && r.visible }

func (r *Renderable) Display() bool { return r.display }

func (r *Renderable) SetDisplay(display bool) {
	if r.display != display {
		r.display = display
		r.moved()
	}
}

func (r *Renderable) Visible() bool { return r.visible }

func (r *Renderable) SetVisible(visible bool) {
	if r.visible != visible {
		r.visible = visible
		r.moved()
	}
}

func (r *Renderable) Colour() *colour.Colour { return r.colour }

// SetColour ignores nil; the base colour is always set.
func (r *Renderable) SetColour(c *colour.Colour) {
	if c != nil && c != r.colour {
		r.colour = c
		r.dirty = true
	}
}

func (r *Renderable) Tint() *colour.Colour { return r.tint }

// SetTint overrides the base colour; nil removes the tint.
func (r *Renderable) SetTint(c *colour.Colour) {
	if c != r.tint {
		r.tint = c
		r.dirty = true
	}
}

func (r *Renderable) Highlight() *colour.Colour { return r.highlight }

// SetHighlight sets the outline colour; nil uses the view default.
func (r *Renderable) SetHighlight(c *colour.Colour) {
	if c != r.highlight {
		r.highlight = c
		r.dirty = true
	}
}

func (r *Renderable) Alpha() uint8 { return r.alpha }

func (r *Renderable) SetAlpha(alpha uint8) {
	if r.alpha != alpha {
		r.alpha = alpha
		r.dirty = true
	}
}

func (r *Renderable) Style() token.Token { return r.style }

func (r *Renderable) SetStyle(style token.Token) {
	if r.style != style {
		r.style = style
		r.moved()
	}
}

func (r *Renderable) RenderTag() RenderTag { return r.tag }

func (r *Renderable) SetRenderTag(tag RenderTag) {
	if r.tag != tag {
		r.tag = tag
		r.moved()
	}
}

func (r *Renderable) HasOption(option token.Token) bool { return r.options.Has(option) }

func (r *Renderable) SetOption(option token.Token) {
	if !r.options.Has(option) {
		r.options = r.options.Set(option)
		r.moved()
	}
}

func (r *Renderable) UnsetOption(option token.Token) {
	if r.options.Has(option) {
		r.options = r.options.Clear(option)
		r.moved()
	}
}

// Options returns the set render options in token order.
func (r *Renderable) Options() []token.Token {
	var out []token.Token
	r.options.ForEachSet(func(tok token.Token) { out = append(out, tok) })
	return out
}

func (r *Renderable) Tags() uint32 { return r.tags }

func (r *Renderable) SetTag(tag uint32) {
	if r.tags&tag != tag {
		r.tags |= tag
		r.dirty = true
	}
}

func (r *Renderable) UnsetTag(tag uint32) {
	if r.tags&tag != 0 {
		r.tags &^= tag
		r.dirty = true
	}
}

// HasTag reports whether any bit of tag is set.
func (r *Renderable) HasTag(tag uint32) bool { return r.tags&tag != 0 }

// MatchesTags reports whether every tag of the renderable is within tags.
func (r *Renderable) MatchesTags(tags uint32) bool { return r.tags&tags == r.tags }

// RGBA is the vertex colour: the tint when set, else the base colour.
func (r *Renderable) RGBA() [4]uint8 {
	c := r.colour
	if r.tint != nil {
		c = r.tint
	}
	if c == nil {
		return [4]uint8{255, 255, 255, r.alpha}
	}
	red, green, blue := c.Get()
	return [4]uint8{red, green, blue, r.alpha}
}

// Span returns the vertex range the renderable occupies, if any.
func (r *Renderable) Span() (first, count int, ok bool) {
	if r.span.buf == nil {
		return 0, 0, false
	}
	return r.span.first, r.span.count, true
}

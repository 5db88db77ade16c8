package ambrosia

import (
	"slices"

	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/render"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

// Attribute is the renderable property a Command changes.
type Attribute int

const (
	AttrDisplay Attribute = iota
	AttrVisible
	AttrRenderFormat
	AttrRenderOption
	AttrColour
	AttrAlpha
	AttrTint
	AttrHighlight
	AttrRenderTag
	AttrTag
)

var attributeNames = [...]string{
	"display", "visible", "render-format", "render-option", "colour",
	"alpha", "tint", "highlight", "render-tag", "tag",
}

func (a Attribute) String() string {
	if a >= 0 && int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "unknown"
}

// Command is one attribute change. Only the value fields the attribute
// reads are used: Bool for display, visibility and set/unset of options and
// tags, Token for render formats and options, Colour for colour, tint and
// highlight, Alpha, RenderTag and Tags.
type Command struct {
	Attr      Attribute
	Bool      bool
	Token     token.Token
	Colour    *colour.Colour
	Alpha     uint8
	RenderTag render.RenderTag
	Tags      uint32
}

// applies reports whether the command means anything to renderables of m.
// Formats and options are per manager.
func (c Command) applies(m render.Manager) bool {
	switch c.Attr {
	case AttrRenderFormat:
		return slices.Contains(m.Styles(), c.Token)
	case AttrRenderOption:
		return slices.Contains(m.Options(), c.Token)
	}
	return true
}

func (c Command) apply(r *render.Renderable) {
	switch c.Attr {
	case AttrDisplay:
		r.SetDisplay(c.Bool)
	case AttrVisible:
		r.SetVisible(c.Bool)
	case AttrRenderFormat:
		r.SetStyle(c.Token)
	case AttrRenderOption:
		if c.Bool {
			r.SetOption(c.Token)
		} else {
			r.UnsetOption(c.Token)
		}
	case AttrColour:
		r.SetColour(c.Colour)
	case AttrAlpha:
		r.SetAlpha(c.Alpha)
	case AttrTint:
		r.SetTint(c.Colour)
	case AttrHighlight:
		r.SetHighlight(c.Colour)
	case AttrRenderTag:
		r.SetRenderTag(c.RenderTag)
	case AttrTag:
		if c.Bool {
			r.SetTag(c.Tags)
		} else {
			r.UnsetTag(c.Tags)
		}
	}
}

// ApplyCommand applies cmd to every renderable reached from the selection:
// each selected node and its descendants, residues through their chain
// segments and atoms through their atom renderables. which chooses a
// precomputed selection; Custom uses custom instead, and a nil custom
// selection changes nothing. It returns the number of renderables visited.
func (a *Ambrosia) ApplyCommand(cmd Command, which RenderSelection, custom *Selection) (int, error) {
	if !a.built {
		return 0, ErrNotBuilt
	}
	sel := custom
	if which != Custom {
		sel = a.selections[which]
	}
	if sel == nil {
		return 0, nil
	}

	atoms, chains := cmd.applies(a.atoms), cmd.applies(a.chains)
	visited := 0
	for _, node := range sel.nodes {
		node.Walk(func(n *model.Node) bool {
			var (
				r  *render.Renderable
				ok bool
			)
			switch {
			case n.Kind == model.Atom && atoms:
				r, ok = a.atoms.Get(n)
			case n.Kind.IsResidue() && chains:
				r, ok = a.chains.Get(n)
			}
			if ok {
				cmd.apply(r)
				visited++
			}
			return true
		})
	}
	a.logger.Debug("applied command", "attr", cmd.Attr, "selection", which, "renderables", visited)
	return visited, nil
}

// SetSelection stores sel in the Temp or Custom slot.
func (a *Ambrosia) SetSelection(which RenderSelection, sel *Selection) {
	if which == Temp || which == Custom {
		a.selections[which] = sel
	}
}

// Selection returns a precomputed or stored selection.
func (a *Ambrosia) Selection(which RenderSelection) (*Selection, bool) {
	sel, ok := a.selections[which]
	return sel, ok && sel != nil
}

func (a *Ambrosia) SetDisplay(display bool, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrDisplay, Bool: display}, which, custom)
	return err
}

func (a *Ambrosia) SetVisible(visible bool, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrVisible, Bool: visible}, which, custom)
	return err
}

// SetRenderFormat changes the style of every selected renderable whose
// manager knows the format.
func (a *Ambrosia) SetRenderFormat(format token.Token, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrRenderFormat, Token: format}, which, custom)
	return err
}

func (a *Ambrosia) SetRenderOption(option token.Token, on bool, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrRenderOption, Token: option, Bool: on}, which, custom)
	return err
}

func (a *Ambrosia) SetColour(c *colour.Colour, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrColour, Colour: c}, which, custom)
	return err
}

func (a *Ambrosia) SetAlpha(alpha uint8, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrAlpha, Alpha: alpha}, which, custom)
	return err
}

// SetTintColour overrides the colour of the selection; nil removes the tint.
func (a *Ambrosia) SetTintColour(c *colour.Colour, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrTint, Colour: c}, which, custom)
	return err
}

func (a *Ambrosia) SetHighlightColour(c *colour.Colour, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrHighlight, Colour: c}, which, custom)
	return err
}

func (a *Ambrosia) SetRenderTag(tag render.RenderTag, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrRenderTag, RenderTag: tag}, which, custom)
	return err
}

func (a *Ambrosia) SetTag(tags uint32, on bool, which RenderSelection, custom *Selection) error {
	_, err := a.ApplyCommand(Command{Attr: AttrTag, Tags: tags, Bool: on}, which, custom)
	return err
}

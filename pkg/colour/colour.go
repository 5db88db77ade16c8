// Package colour holds the named palette shared by renderables.
package colour

import "sync/atomic"

// Colour is an RGB triple owned by a Registry. Renderables hold pointers to
// registry entries, so redefining a name recolours everything using it.
type Colour struct {
	name string
	rgb  atomic.Uint32
}

func newColour(name string, r, g, b uint8) *Colour {
	c := &Colour{name: name}
	c.Set(r, g, b)
	return c
}

func (c *Colour) Name() string { return c.name }

func (c *Colour) Set(r, g, b uint8) {
	c.rgb.Store(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c *Colour) Get() (r, g, b uint8) {
	v := c.rgb.Load()
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Getf returns the components scaled to 0..1.
func (c *Colour) Getf() (r, g, b float32) {
	ri, gi, bi := c.Get()
	return float32(ri) / 255, float32(gi) / 255, float32(bi) / 255
}

package render

import "sync"

// Name identifies a renderable in picking passes. Names are never reused
// within a registry, so a released renderable's name cannot resolve to a
// later one. Zero means no renderable.
type Name uint32

// RGBA encodes the name as the colour written by the name pass.
func (n Name) RGBA() [4]uint8 {
	return [4]uint8{uint8(n), uint8(n >> 8), uint8(n >> 16), uint8(n >> 24)}
}

// Unit returns RGBA scaled to 0..1 for a vec4 uniform.
func (n Name) Unit() [4]float32 {
	c := n.RGBA()
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

// NameFromRGBA decodes a pixel read back from the name pass.
func NameFromRGBA(px [4]uint8) Name {
	return Name(px[0]) | Name(px[1])<<8 | Name(px[2])<<16 | Name(px[3])<<24
}

// Names maps picking names to live renderables.
type Names struct {
	mu   sync.RWMutex
	next Name
	live map[Name]*Renderable
}

func NewNames() *Names {
	return &Names{next: 1, live: make(map[Name]*Renderable)}
}

var defaultNames = sync.OnceValue(NewNames)

// DefaultNames is the process-wide registry used when a manager is not
// given one.
func DefaultNames() *Names { return defaultNames() }

func (n *Names) register(r *Renderable) Name {
	n.mu.Lock()
	defer n.mu.Unlock()
	name := n.next
	n.next++
	n.live[name] = r
	return name
}

func (n *Names) deregister(name Name) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.live, name)
}

// Lookup resolves a name to its renderable.
func (n *Names) Lookup(name Name) (*Renderable, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	r, ok := n.live[name]
	return r, ok
}

// Len reports how many names are live.
func (n *Names) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.live)
}

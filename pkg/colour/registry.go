package colour

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Unknown is the name of the fallback colour.
const Unknown = "?"

// ErrNotFound is returned by Lookup for unregistered names.
var ErrNotFound = errors.New("colour: not found")

//go:embed ambrosia.colourmap
var palette string

// Registry maps names to shared Colour instances. Entries live as long as
// the registry.
type Registry struct {
	mu  sync.RWMutex
	all map[string]*Colour
}

// NewRegistry returns a registry holding only the fallback colour.
func NewRegistry() *Registry {
	return &Registry{all: map[string]*Colour{
		Unknown: newColour(Unknown, 255, 20, 147),
	}}
}

// NewDefault returns a registry populated with the built-in palette.
func NewDefault() *Registry {
	r := NewRegistry()
	r.Populate(strings.NewReader(palette))
	return r
}

var defaultRegistry = sync.OnceValue(NewDefault)

// Default is the process-wide registry carrying the built-in palette.
func Default() *Registry { return defaultRegistry() }

// Get returns the named colour or the fallback "?" colour.
func (r *Registry) Get(name string) *Colour {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.all[name]; ok {
		return c
	}
	return r.all[Unknown]
}

// Lookup returns the named colour or ErrNotFound.
func (r *Registry) Lookup(name string) (*Colour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.all[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// RGB returns the interned anonymous colour "user.r.g.b".
func (r *Registry) RGB(red, green, blue uint8) *Colour {
	name := fmt.Sprintf("user.%d.%d.%d", red, green, blue)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.all[name]; ok {
		return c
	}
	c := newColour(name, red, green, blue)
	r.all[name] = c
	return c
}

// Define registers name or updates the existing instance in place.
func (r *Registry) Define(name string, red, green, blue uint8) *Colour {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.define(name, red, green, blue)
}

func (r *Registry) define(name string, red, green, blue uint8) *Colour {
	if c, ok := r.all[name]; ok {
		c.Set(red, green, blue)
		return c
	}
	c := newColour(name, red, green, blue)
	r.all[name] = c
	return c
}

// Parse resolves a registered name or a "#rrggbb" hex colour.
func (r *Registry) Parse(spec string) (*Colour, error) {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return nil, fmt.Errorf("colour: parse %q: %w", spec, err)
		}
		red, green, blue := c.RGB255()
		return r.RGB(red, green, blue), nil
	}
	return r.Lookup(spec)
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Populate reads "name R G B" lines, defining each colour. Blank lines,
// comments and malformed lines are skipped. It returns how many colours were
// defined.
func (r *Registry) Populate(src io.Reader) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var rgb [3]uint8
		ok := true
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				ok = false
				break
			}
			rgb[i] = uint8(v)
		}
		if !ok {
			continue
		}
		r.define(fields[0], rgb[0], rgb[1], rgb[2])
		count++
	}
	return count, scanner.Err()
}

// LoadFile populates the registry from a colour map file.
func (r *Registry) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("colour: %w", err)
	}
	defer f.Close()
	return r.Populate(f)
}

package buffer

import (
	"log/slog"
	"slices"

	"github.com/utopiadocs/ambrosia/pkg/gfx"
)

// MaxBufferBytes caps the default buffer allocation regardless of driver limits.
const MaxBufferBytes = 32 << 20

// DefaultBufferBytes is the pool's default buffer size before clamping.
const DefaultBufferBytes = 1 << 20

// Manager pools buffers sharing one vertex format. Allocation is first-fit in
// insertion order; buffers are never compacted.
type Manager struct {
	dev             gfx.Device
	format          Format
	defaultVertices int
	buffers         []*Buffer
	logger          *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a pool whose default buffers hold defaultBytes, clamped
// to the driver's GL_MAX_ELEMENTS_VERTICES and to MaxBufferBytes.
func NewManager(dev gfx.Device, format Format, defaultBytes int, opts ...ManagerOption) *Manager {
	m := &Manager{dev: dev, format: format, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}

	stride := format.Stride()
	if stride == 0 {
		stride = 1
	}
	if defaultBytes <= 0 {
		defaultBytes = DefaultBufferBytes
	}
	vertices := defaultBytes / stride
	limit := MaxBufferBytes / stride
	if driverMax := dev.Capabilities().MaxElementsVertices; driverMax > 0 && driverMax < limit {
		limit = driverMax
	}
	if vertices > limit {
		m.logger.Debug("clamping default buffer size",
			"format", format.String(),
			"requested_vertices", vertices,
			"limit", limit)
		vertices = limit
	}
	if vertices < 1 {
		vertices = 1
	}
	m.defaultVertices = vertices
	return m
}

func (m *Manager) Format() Format { return m.format }

// VertexLength is the stride shared by every pooled buffer.
func (m *Manager) VertexLength() int { return m.format.Stride() }

// DefaultVertices is the capacity given to newly allocated buffers.
func (m *Manager) DefaultVertices() int { return m.defaultVertices }

// GetBuffer returns the first buffer with at least n free vertices, creating
// one of max(default, n) vertices when none has room.
func (m *Manager) GetBuffer(n int) *Buffer {
	for _, b := range m.buffers {
		if b.FreeVertices() >= n {
			return b
		}
	}
	capacity := m.defaultVertices
	if n > capacity {
		m.logger.Debug("allocating oversized buffer",
			"format", m.format.String(),
			"vertices", n,
			"default", capacity)
		capacity = n
	}
	b := New(m.dev, m.format, capacity)
	m.buffers = append(m.buffers, b)
	return b
}

// Add adopts an externally created buffer.
func (m *Manager) Add(b *Buffer) {
	if !slices.Contains(m.buffers, b) {
		m.buffers = append(m.buffers, b)
	}
}

// Erase removes b from the pool without releasing it.
func (m *Manager) Erase(b *Buffer) {
	m.buffers = slices.DeleteFunc(m.buffers, func(x *Buffer) bool { return x == b })
}

// Buffers returns the pooled buffers in insertion order.
func (m *Manager) Buffers() []*Buffer { return slices.Clone(m.buffers) }

func (m *Manager) Len() int { return len(m.buffers) }

// DropInvalid releases and removes every invalidated buffer, returning them
// so owners can forget spans that pointed into them.
func (m *Manager) DropInvalid() []*Buffer {
	var dropped []*Buffer
	m.buffers = slices.DeleteFunc(m.buffers, func(b *Buffer) bool {
		if b.IsValid() {
			return false
		}
		dropped = append(dropped, b)
		return true
	})
	for _, b := range dropped {
		b.Release()
	}
	return dropped
}

// IsLoaded reports whether every buffer is valid and fully uploaded.
func (m *Manager) IsLoaded() bool {
	for _, b := range m.buffers {
		if !b.IsValid() || !b.IsLoaded() {
			return false
		}
	}
	return true
}

func (m *Manager) Load() {
	for _, b := range m.buffers {
		b.Load()
	}
}

func (m *Manager) Unload() {
	for _, b := range m.buffers {
		b.Unload()
	}
}

// Render draws every buffer in full with the given primitive.
func (m *Manager) Render(mode gfx.Primitive) error {
	return m.RenderMask(mode, MaskAll)
}

// RenderMask is Render restricted to the attribute groups in mask.
func (m *Manager) RenderMask(mode gfx.Primitive, mask Mask) error {
	for _, b := range m.buffers {
		b.Enable(mask)
		err := b.Render(mode, 0, -1)
		b.Disable()
		if err != nil {
			return err
		}
	}
	return nil
}

// Release frees every buffer and empties the pool.
func (m *Manager) Release() {
	for _, b := range m.buffers {
		b.Release()
	}
	m.buffers = nil
}

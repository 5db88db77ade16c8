package render

import (
	"github.com/kjkrol/gokg/pkg/geom"
)

// Viewport is the window area a scene is drawn into, in window coordinates
// with the origin at the top left.
type Viewport struct {
	rect geom.AABB[int]
}

func NewViewport(width, height int) Viewport {
	return Viewport{rect: geom.NewAABBAt(geom.NewVec(0, 0), max(width, 1), max(height, 1))}
}

func (v Viewport) Rect() geom.AABB[int] { return v.rect }

func (v Viewport) Size() (width, height int) {
	return v.rect.BottomRight.X - v.rect.TopLeft.X, v.rect.BottomRight.Y - v.rect.TopLeft.Y
}

// Aspect is width over height.
func (v Viewport) Aspect() float32 {
	w, h := v.Size()
	return float32(w) / float32(h)
}

// Contains reports whether the window point x, y lies inside the viewport.
func (v Viewport) Contains(x, y int) bool {
	return x >= v.rect.TopLeft.X && x < v.rect.BottomRight.X &&
		y >= v.rect.TopLeft.Y && y < v.rect.BottomRight.Y
}

// Pixel converts a window point to framebuffer coordinates, whose origin is
// the bottom left.
func (v Viewport) Pixel(x, y int) (px, py int, ok bool) {
	if !v.Contains(x, y) {
		return 0, 0, false
	}
	return x - v.rect.TopLeft.X, v.rect.BottomRight.Y - 1 - y, true
}

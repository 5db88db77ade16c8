package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/utopiadocs/ambrosia/pkg/render"
)

// clickSlop is how far the pointer may travel between press and release for
// the gesture to count as a click.
const clickSlop = 3

// camera orbits the scene centre. Dragging rotates and the wheel zooms.
type camera struct {
	rotation mgl32.Quat
	distance float32
	near     float32
	far      float32

	dragging       bool
	pressX, pressY int
	lastX, lastY   int
	travelled      int
}

func newCamera(radius float32) *camera {
	d := max(radius*3, 1)
	return &camera{rotation: mgl32.QuatIdent(), distance: d, near: d / 10, far: d * 10}
}

func (c *camera) press(x, y int) {
	c.dragging = true
	c.pressX, c.pressY = x, y
	c.lastX, c.lastY = x, y
	c.travelled = 0
}

// move rotates by the pointer motion since the last event and reports
// whether the view changed. width and height scale a full drag across the
// window to half a turn.
func (c *camera) move(x, y, width, height int) bool {
	if !c.dragging {
		return false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	c.travelled += abs(dx) + abs(dy)
	if dx == 0 && dy == 0 {
		return false
	}
	yaw := float32(dx) / float32(max(width, 1)) * math32.Pi
	pitch := float32(dy) / float32(max(height, 1)) * math32.Pi
	turn := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	c.rotation = turn.Mul(c.rotation).Normalize()
	return true
}

// release ends a drag and reports whether it was a click.
func (c *camera) release(x, y int) bool {
	if !c.dragging {
		return false
	}
	c.dragging = false
	c.travelled += abs(x-c.lastX) + abs(y-c.lastY)
	return c.travelled <= clickSlop
}

// zoom moves the eye by steps wheel notches; positive steps move closer.
func (c *camera) zoom(steps float64) bool {
	if steps == 0 {
		return false
	}
	d := c.distance * math32.Pow(0.9, float32(steps))
	c.distance = min(max(d, c.near), c.far)
	return true
}

func (c *camera) view(aspect float32) render.View {
	v := render.DefaultView(aspect, c.distance)
	v.ModelView = v.ModelView.Mul4(c.rotation.Mat4())
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

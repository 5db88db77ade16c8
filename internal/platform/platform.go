//go:build !js

// Package platform hosts the viewer's window and GL context on GLFW and
// turns its callbacks into events.
package platform

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeyEscape is the KeyPress code of the escape key.
const KeyEscape = uint64(glfw.KeyEscape)

type WindowConfig struct {
	PositionX int
	PositionY int
	Width     int
	Height    int
	Title     string
	// Samples requests a multisampled framebuffer when positive.
	Samples int
}

// Window owns a GLFW window with a current OpenGL 3.3 core context. It must
// be created and used on the main OS thread.
type Window struct {
	win    *glfw.Window
	events *queue
}

func NewWindow(conf WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("platform: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.StencilBits, 8)
	glfw.WindowHint(glfw.Visible, glfw.False)
	if conf.Samples > 0 {
		glfw.WindowHint(glfw.Samples, conf.Samples)
	}

	win, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("platform: create window: %w", err)
	}
	if conf.PositionX != 0 || conf.PositionY != 0 {
		win.SetPos(conf.PositionX, conf.PositionY)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &Window{win: win, events: newQueue(1024)}
	w.install()
	return w, nil
}

// scale converts window coordinates to framebuffer pixels.
func (w *Window) scale(x, y float64) (int, int) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return int(x), int(y)
	}
	return int(x * float64(fw) / float64(ww)), int(y * float64(fh) / float64(wh))
}

func (w *Window) cursor() (int, int) {
	return w.scale(w.win.GetCursorPos())
}

func (w *Window) install() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		label := glfw.GetKeyName(key, scancode)
		switch action {
		case glfw.Press, glfw.Repeat:
			w.events.push(KeyPress{Code: uint64(key), Label: label})
		case glfw.Release:
			w.events.push(KeyRelease{Code: uint64(key), Label: label})
		}
	})
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := w.cursor()
		b := uint32(button) + 1
		if action == glfw.Press {
			w.events.push(ButtonPress{Button: b, X: x, Y: y})
		} else {
			w.events.push(ButtonRelease{Button: b, X: x, Y: y})
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		px, py := w.scale(x, y)
		w.events.push(MotionNotify{X: px, Y: py})
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		x, y := w.cursor()
		w.events.push(MouseWheel{DeltaX: dx, DeltaY: dy, X: x, Y: y})
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.events.push(EnterNotify{})
		} else {
			w.events.push(LeaveNotify{})
		}
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.events.push(Resize{Width: width, Height: height})
	})
	w.win.SetRefreshCallback(func(*glfw.Window) { w.events.push(Expose{}) })
	w.win.SetCloseCallback(func(*glfw.Window) { w.events.push(DestroyNotify{}) })
}

func (w *Window) Show() { w.win.Show() }

// Poll returns a queued event, waiting up to timeout for one. A zero
// timeout only polls.
func (w *Window) Poll(timeout time.Duration) (Event, bool) {
	if e, ok := w.events.pop(); ok {
		return e, true
	}
	if timeout > 0 {
		glfw.WaitEventsTimeout(timeout.Seconds())
	} else {
		glfw.PollEvents()
	}
	return w.events.pop()
}

// Drain hands queued events to handle as strategy directs and returns how
// many were handled.
func (w *Window) Drain(strategy Strategy, timeout time.Duration, handle func(Event)) int {
	return strategy.Consume(w.Poll, handle, timeout)
}

func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

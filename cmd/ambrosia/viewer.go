package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/utopiadocs/ambrosia/internal/config"
	"github.com/utopiadocs/ambrosia/internal/gldevice"
	"github.com/utopiadocs/ambrosia/internal/platform"
	"github.com/utopiadocs/ambrosia/pkg/ambrosia"
	"github.com/utopiadocs/ambrosia/pkg/render"
)

const (
	maxEvents = 64
	idleWait  = 100 * time.Millisecond
)

// view runs the interactive viewer until the window closes.
func view(cfg config.Config, path string) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	win, err := platform.NewWindow(platform.WindowConfig{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Title:   cfg.Window.Title,
		Samples: 4,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := gldevice.New(logger)
	if err != nil {
		return err
	}
	scene, err := openScene(dev, cfg, path, logger)
	if err != nil {
		return err
	}
	defer scene.Close()

	v := &viewer{
		win:    win,
		scene:  scene,
		camera: newCamera(scene.Radius()),
		logger: logger,
		dirty:  true,
	}
	v.resize(win.FramebufferSize())
	win.Show()
	logger.Info("viewing", "path", path, "centre", scene.Centre(), "radius", scene.Radius())
	return v.loop()
}

type viewer struct {
	win    *platform.Window
	scene  *ambrosia.Ambrosia
	camera *camera
	logger *slog.Logger

	outline outline
	dirty   bool
	quit    bool
	err     error
}

func (v *viewer) resize(width, height int) {
	v.scene.SetViewport(render.NewViewport(width, height))
	v.dirty = true
}

func (v *viewer) loop() error {
	for !v.quit && v.err == nil {
		wait := idleWait
		if v.needsFrame() {
			wait = 0
		}
		v.win.Drain(platform.DrainMax(maxEvents), wait, v.handle)
		if v.quit || v.err != nil {
			break
		}
		if v.needsFrame() {
			if err := v.scene.Render(v.view()); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			v.win.SwapBuffers()
			v.dirty = false
		}
	}
	return v.err
}

func (v *viewer) needsFrame() bool {
	return v.dirty || v.scene.RequiresRedraw()
}

func (v *viewer) handle(event platform.Event) {
	switch e := event.(type) {
	case platform.DestroyNotify:
		v.quit = true
	case platform.KeyPress:
		switch {
		case e.Code == platform.KeyEscape || e.Label == "q":
			v.quit = true
		case e.Label == "s":
			v.toggleShadows()
		}
	case platform.ButtonPress:
		if e.Button == platform.ButtonLeft {
			v.camera.press(e.X, e.Y)
		}
	case platform.MotionNotify:
		w, h := v.scene.Viewport().Size()
		v.dirty = v.camera.move(e.X, e.Y, w, h) || v.dirty
	case platform.ButtonRelease:
		if e.Button == platform.ButtonLeft && v.camera.release(e.X, e.Y) {
			v.err = v.pick(e.X, e.Y)
		}
	case platform.MouseWheel:
		v.dirty = v.camera.zoom(e.DeltaY) || v.dirty
	case platform.Resize:
		v.resize(e.Width, e.Height)
	case platform.Expose:
		v.dirty = true
	}
}

func (v *viewer) view() render.View {
	return v.camera.view(v.scene.Viewport().Aspect())
}

func (v *viewer) toggleShadows() {
	if v.scene.IsEnabled(ambrosia.Shadows) {
		v.scene.Disable(ambrosia.Shadows)
	} else {
		v.scene.Enable(ambrosia.Shadows)
	}
	v.logger.Info("shadows", "enabled", v.scene.IsEnabled(ambrosia.Shadows))
	v.dirty = true
}

// pick outlines the renderable under x, y, or clears the outline when
// nothing is there. The name pass overwrites the back buffer, so a frame
// always follows.
func (v *viewer) pick(x, y int) error {
	r, ok, err := v.scene.PickWindow(v.view(), x, y)
	if err != nil {
		return fmt.Errorf("pick: %w", err)
	}
	v.dirty = true
	if !ok {
		v.outline.clear()
		v.scene.SetSelection(ambrosia.Custom, nil)
		return nil
	}
	n := r.Node()
	v.logger.Info("picked", "kind", n.Kind, "name", n.Name, "serial", n.Serial)
	v.scene.SetSelection(ambrosia.Custom, ambrosia.NewSelection(n))
	v.outline.set(r)
	return nil
}

// outline tags one renderable Outline and gives back the tag it had when it
// is cleared or replaced.
type outline struct {
	r   *render.Renderable
	tag render.RenderTag
}

func (o *outline) set(r *render.Renderable) {
	if r == o.r {
		return
	}
	o.clear()
	o.r, o.tag = r, r.RenderTag()
	r.SetRenderTag(render.Outline)
}

func (o *outline) clear() {
	if o.r != nil {
		o.r.SetRenderTag(o.tag)
		o.r = nil
	}
}

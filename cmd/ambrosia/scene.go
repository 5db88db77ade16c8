package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/utopiadocs/ambrosia/internal/config"
	"github.com/utopiadocs/ambrosia/pkg/ambrosia"
	"github.com/utopiadocs/ambrosia/pkg/colour"
	"github.com/utopiadocs/ambrosia/pkg/gfx"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

// openScene creates the scene on dev, loads path and applies the display
// settings of cfg.
func openScene(dev gfx.Device, cfg config.Config, path string, logger *slog.Logger) (*ambrosia.Ambrosia, error) {
	colours := colour.NewDefault()
	if cfg.Render.Colourmap != "" {
		n, err := colours.LoadFile(cfg.Render.Colourmap)
		if err != nil {
			return nil, fmt.Errorf("colourmap: %w", err)
		}
		logger.Info("colourmap loaded", "path", cfg.Render.Colourmap, "colours", n)
	}

	opts := []ambrosia.Option{ambrosia.WithLogger(logger), ambrosia.WithColours(colours)}
	if cfg.Render.BufferBytes > 0 {
		opts = append(opts, ambrosia.WithBufferBytes(cfg.Render.BufferBytes))
	}
	scene, err := ambrosia.New(dev, opts...)
	if err != nil {
		return nil, err
	}
	if err := scene.LoadFile(path); err != nil {
		scene.Close()
		return nil, err
	}
	if err := configure(scene, colours, cfg); err != nil {
		scene.Close()
		return nil, err
	}
	return scene, nil
}

func configure(scene *ambrosia.Ambrosia, colours *colour.Registry, cfg config.Config) error {
	if cfg.Render.Specular {
		scene.Enable(ambrosia.Specular)
	} else {
		scene.Disable(ambrosia.Specular)
	}
	if cfg.Render.Shadows {
		scene.Enable(ambrosia.Shadows)
	}
	if cfg.Render.LOD > 0 {
		scene.SetLOD(cfg.Render.LOD)
	}
	if cfg.Render.Background != "" {
		bg, err := colours.Parse(cfg.Render.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		scene.SetBackground(bg)
	}

	if cfg.Display.ChainFormat != "" {
		if err := setFormat(scene, cfg.Display.ChainFormat, ambrosia.Chains); err != nil {
			return err
		}
	}
	for _, name := range cfg.Display.ChainOptions {
		if !slices.Contains(scene.RenderOptions(), name) {
			return fmt.Errorf("unknown render option %q", name)
		}
		opt := scene.Token(token.RenderOption, name)
		if err := scene.SetRenderOption(opt, true, ambrosia.Chains, nil); err != nil {
			return err
		}
	}
	if cfg.Display.AtomFormat != "" {
		if err := setFormat(scene, cfg.Display.AtomFormat, ambrosia.Atoms); err != nil {
			return err
		}
	}
	if err := display(scene, cfg.Display.Atoms, true); err != nil {
		return err
	}
	return display(scene, cfg.Display.Hide, false)
}

func display(scene *ambrosia.Ambrosia, names []string, on bool) error {
	for _, name := range names {
		which, ok := ambrosia.ParseRenderSelection(name)
		if !ok || which == ambrosia.Temp || which == ambrosia.Custom {
			return fmt.Errorf("unknown selection %q", name)
		}
		if err := scene.SetDisplay(on, which, nil); err != nil {
			return err
		}
	}
	return nil
}

func setFormat(scene *ambrosia.Ambrosia, name string, which ambrosia.RenderSelection) error {
	if !slices.Contains(scene.RenderFormats(), name) {
		return fmt.Errorf("unknown render format %q", name)
	}
	return scene.SetRenderFormat(scene.Token(token.RenderFormat, name), which, nil)
}

package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/internal/config"
	"github.com/utopiadocs/ambrosia/pkg/ambrosia"
	"github.com/utopiadocs/ambrosia/pkg/gfx/gfxtest"
	"github.com/utopiadocs/ambrosia/pkg/render"
	"github.com/utopiadocs/ambrosia/pkg/token"
)

const fragment = "../../pkg/ambrosia/testdata/fragment.pdb"

func shown(rs []*render.Renderable) []*render.Renderable {
	var out []*render.Renderable
	for _, r := range rs {
		if r.Shown() {
			out = append(out, r)
		}
	}
	return out
}

func TestOpenSceneAppliesDisplay(t *testing.T) {
	cfg := config.Default()
	cfg.Display.AtomFormat = "Spacefill"
	cfg.Display.ChainFormat = "Cartoon"
	cfg.Render.Shadows = true

	scene, err := openScene(gfxtest.New(0), cfg, fragment, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer scene.Close()

	assert.True(t, scene.IsEnabled(ambrosia.Shadows))
	assert.True(t, scene.IsEnabled(ambrosia.Specular))

	atoms := shown(scene.Atoms().Renderables())
	require.Len(t, atoms, 1)
	assert.Equal(t, "ZN", atoms[0].Node().Name)
	assert.Equal(t, scene.Token(token.RenderFormat, "Spacefill"), atoms[0].Style())

	cartoon := scene.Token(token.RenderFormat, "Cartoon")
	for _, r := range scene.Chains().Renderables() {
		assert.Equal(t, cartoon, r.Style())
	}
}

func TestOpenSceneRejectsUnknownNames(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cases := map[string]func(*config.Config){
		"format":     func(c *config.Config) { c.Display.AtomFormat = "Wireframe" },
		"option":     func(c *config.Config) { c.Display.ChainOptions = []string{"Glossy"} },
		"selection":  func(c *config.Config) { c.Display.Atoms = []string{"ligands"} },
		"custom":     func(c *config.Config) { c.Display.Atoms = []string{"custom"} },
		"hide":       func(c *config.Config) { c.Display.Hide = []string{"solvent"} },
		"background": func(c *config.Config) { c.Render.Background = "no such colour" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			_, err := openScene(gfxtest.New(0), cfg, fragment, logger)
			assert.Error(t, err)
		})
	}
}

func TestOpenSceneHideAfterShow(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cfg := config.Default()
	cfg.Display.Hide = nil

	scene, err := openScene(gfxtest.New(0), cfg, fragment, logger)
	require.NoError(t, err)
	defer scene.Close()

	var names []string
	for _, r := range shown(scene.Atoms().Renderables()) {
		names = append(names, r.Node().Name)
	}
	assert.ElementsMatch(t, []string{"ZN", "O"}, names)
}

func TestOpenSceneMissingFile(t *testing.T) {
	_, err := openScene(gfxtest.New(0), config.Default(), "missing.pdb", slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

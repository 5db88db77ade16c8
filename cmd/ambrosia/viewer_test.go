package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/internal/config"
	"github.com/utopiadocs/ambrosia/pkg/gfx/gfxtest"
	"github.com/utopiadocs/ambrosia/pkg/render"
)

func TestOutlineRestoresPreviousTag(t *testing.T) {
	scene, err := openScene(gfxtest.New(0), config.Default(), fragment, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer scene.Close()

	rs := scene.Atoms().Renderables()
	glass, plain := rs[0], rs[1]
	glass.SetRenderTag(render.Transparent)

	var o outline
	o.set(glass)
	assert.Equal(t, render.Outline, glass.RenderTag())

	o.set(glass)
	o.set(plain)
	assert.Equal(t, render.Transparent, glass.RenderTag())
	assert.Equal(t, render.Outline, plain.RenderTag())

	o.clear()
	assert.Equal(t, render.Solid, plain.RenderTag())
	o.clear()
	assert.Equal(t, render.Solid, plain.RenderTag())
}

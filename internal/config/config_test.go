package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/internal/config"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ambrosia.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Render.Specular)
	assert.False(t, cfg.Render.Shadows)
	assert.Equal(t, []string{"heterogens"}, cfg.Display.Atoms)
	assert.Equal(t, []string{"water"}, cfg.Display.Hide)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := write(t, `
[window]
width = 640

[render]
shadows = true
background = "#102030"

[display]
atom_format = "Spacefill"
chain_options = ["Smooth Backbones"]

[log]
level = "debug"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.True(t, cfg.Render.Shadows)
	assert.True(t, cfg.Render.Specular)
	assert.Equal(t, "#102030", cfg.Render.Background)
	assert.Equal(t, "Spacefill", cfg.Display.AtomFormat)
	assert.Equal(t, []string{"Smooth Backbones"}, cfg.Display.ChainOptions)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := config.Load(write(t, "[render]\nspecularity = true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specularity")
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := config.Load(write(t, "[window]\nwidth = -1\n"))
	assert.Error(t, err)

	_, err = config.Load(write(t, "[log]\nlevel = \"loud\"\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	require.NoError(t, err)

	got, err := config.Load(write(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg.Window, got.Window)
	assert.Equal(t, cfg.Render, got.Render)
	assert.Equal(t, cfg.Display.Atoms, got.Display.Atoms)
	assert.Equal(t, cfg.Display.Hide, got.Display.Hide)
}

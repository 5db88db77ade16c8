// Package config loads the viewer configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window  Window  `toml:"window"`
	Render  Render  `toml:"render"`
	Display Display `toml:"display"`
	Log     Log     `toml:"log"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type Render struct {
	Specular    bool   `toml:"specular"`
	Shadows     bool   `toml:"shadows"`
	LOD         int    `toml:"lod"`
	BufferBytes int    `toml:"buffer_bytes"`
	Background  string `toml:"background"`

	// Colourmap is an extra "name R G B" file loaded over the built-in palette.
	Colourmap string `toml:"colourmap"`
}

type Display struct {
	// AtomFormat and ChainFormat name render formats, e.g. "Spacefill".
	AtomFormat   string   `toml:"atom_format"`
	ChainFormat  string   `toml:"chain_format"`
	ChainOptions []string `toml:"chain_options"`

	// Atoms lists selections whose atoms are shown at start, e.g. "heterogens".
	// Hide is applied afterwards, so "water" can be taken back out of them.
	Atoms []string `toml:"atoms"`
	Hide  []string `toml:"hide"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{Width: 1024, Height: 768, Title: "Ambrosia"},
		Render: Render{Specular: true, LOD: 12, Background: "background"},
		Display: Display{
			AtomFormat:  "Balls and Sticks",
			ChainFormat: "Backbone Trace",
			Atoms:       []string{"heterogens"},
			Hide:        []string{"water"},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the viewer cannot start with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Render.BufferBytes < 0 {
		return fmt.Errorf("config: negative buffer_bytes %d", c.Render.BufferBytes)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the log level name.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

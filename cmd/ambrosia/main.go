// Command ambrosia opens a PDB file in an interactive OpenGL viewer.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/utopiadocs/ambrosia/internal/config"
)

func init() {
	// GLFW and the GL context are bound to the main thread.
	runtime.LockOSThread()
}

type flags struct {
	config      string
	width       int
	height      int
	shadows     bool
	logLevel    string
	atomFormat  string
	chainFormat string
}

func main() {
	if err := newRootCmd(view).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(run func(cfg config.Config, path string) error) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "ambrosia [flags] file.pdb",
		Short:        "View a molecular structure",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cfg, args[0])
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	fs := cmd.PersistentFlags()
	fs.StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	fs.IntVar(&f.width, "width", 0, "window width")
	fs.IntVar(&f.height, "height", 0, "window height")
	fs.BoolVar(&f.shadows, "shadows", false, "draw the shadow map pass")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.atomFormat, "format", "", "atom render format, e.g. Spacefill")
	fs.StringVar(&f.chainFormat, "chain-format", "", "chain render format, e.g. Cartoon")
	return cmd
}

// resolve loads the configuration file, if any, and lays set flags over it.
func (f flags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}
	set := cmd.Flags().Changed
	if set("width") {
		cfg.Window.Width = f.width
	}
	if set("height") {
		cfg.Window.Height = f.height
	}
	if set("shadows") {
		cfg.Render.Shadows = f.shadows
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("format") {
		cfg.Display.AtomFormat = f.atomFormat
	}
	if set("chain-format") {
		cfg.Display.ChainFormat = f.chainFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Log) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

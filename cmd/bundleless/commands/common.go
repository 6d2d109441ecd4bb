package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bundleless/internal/config"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate one self-contained directory per route"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever sources or public assets change"`
	Routes   RoutesCmd   `cmd:"" help:"List discovered routes without generating"`
	Verify   VerifyCmd   `cmd:"" help:"Check that every local reference in the generated output resolves"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(NewLogger(os.Stderr, c.Verbose, false))
	return nil
}

// NewLogger returns the text logger used by every command. Quiet raises the level to Warn.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ProjectFlags locate the project and its directories. Relative paths resolve against Root.
type ProjectFlags struct {
	Root   string `short:"r" name:"root" default:"." help:"Project root directory."`
	Config string `short:"c" name:"config" help:"Configuration file (default <root>/bundleless.yaml)."`
	Source string `name:"source" help:"Source directory containing page files (default <root>/app)."`
	Output string `short:"o" name:"output" help:"Output directory, cleared on every run (default <root>/bundleless)."`
	Public string `name:"public" help:"Static asset directory probed before the source directory (default <root>/public)."`
}

func (p ProjectFlags) overrides(verbose bool) config.Overrides {
	return config.Overrides{
		ConfigFile: p.Config,
		SourceDir:  p.Source,
		OutputDir:  p.Output,
		PublicDir:  p.Public,
		Verbose:    verbose,
	}
}

// RenderFlags select the document synthesis mode.
type RenderFlags struct {
	Mode    string `name:"mode" help:"Render mode: react or static."`
	Runtime string `name:"runtime" help:"React runtime for react mode: umd or esm."`
}

func (r RenderFlags) apply(ov *config.Overrides) {
	ov.RenderMode = r.Mode
	ov.Runtime = r.Runtime
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

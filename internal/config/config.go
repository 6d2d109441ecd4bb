package config

import (
	"errors"
	"time"

	"git.home.luguber.info/inful/bundleless/internal/foundation/normalization"
)

// DefaultFileName is the project-level configuration file looked up in the project root.
const DefaultFileName = "bundleless.yaml"

// ErrInvalidRenderMode is returned when render.mode or render.runtime holds an unknown value.
var ErrInvalidRenderMode = errors.New("invalid render mode")

// RenderMode selects how a route page is synthesized.
type RenderMode string

const (
	// RenderModeReact embeds page and wrapper source and compiles them in the browser.
	RenderModeReact RenderMode = "react"
	// RenderModeStatic extracts the returned markup and writes a script-free document.
	RenderModeStatic RenderMode = "static"
)

// Runtime selects how the react render mode loads React in the browser.
type Runtime string

const (
	RuntimeUMD Runtime = "umd"
	RuntimeESM Runtime = "esm"
)

var (
	renderModes = normalization.NewNormalizer("render mode", RenderModeReact, RenderModeStatic)
	runtimes    = normalization.NewNormalizer("render runtime", RuntimeUMD, RuntimeESM)
)

// Config is the fully resolved configuration for one invocation.
type Config struct {
	ProjectRoot string   `yaml:"-"`
	SourceDir   string   `yaml:"source_dir"`
	OutputDir   string   `yaml:"output_dir"`
	PublicDir   string   `yaml:"public_dir"`
	PageFiles   []string `yaml:"page_files"`
	LayoutFiles []string `yaml:"layout_files"`
	Stylesheet  string   `yaml:"stylesheet"`

	Render  RenderConfig  `yaml:"render"`
	Watch   WatchConfig   `yaml:"watch"`
	Preview PreviewConfig `yaml:"preview"`

	Verbose bool `yaml:"-"`
}

// RenderConfig controls page synthesis.
type RenderConfig struct {
	Mode    RenderMode `yaml:"mode"`
	Runtime Runtime    `yaml:"runtime"`
}

// WatchConfig controls the watch loop.
type WatchConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	RescanInterval time.Duration `yaml:"rescan_interval"` // 0 disables the periodic rescan
}

// PreviewConfig controls the optional preview server started by watch --serve.
type PreviewConfig struct {
	Port       int  `yaml:"port"`
	LiveReload bool `yaml:"live_reload"`
}

// Overrides carries values supplied on the command line. Zero values mean "not set".
type Overrides struct {
	ConfigFile string
	SourceDir  string
	OutputDir  string
	PublicDir  string
	RenderMode string
	Runtime    string
	Debounce   time.Duration
	Port       int
	LiveReload *bool
	Verbose    bool
}

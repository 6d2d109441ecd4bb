package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/foundation/normalization"
)

// Load resolves the configuration for projectRoot.
// Precedence, highest first: overrides, BUNDLELESS_* environment, bundleless.yaml, defaults.
func Load(projectRoot string, ov Overrides) (*Config, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, ferrors.ConfigError("resolve project root").WithCause(err).WithContext("path", projectRoot).Build()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, ferrors.ConfigError("project root not accessible").WithCause(err).WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, ferrors.ConfigError("project root is not a directory").WithContext("path", root).Build()
	}

	if err := loadEnvFiles(root); err != nil {
		return nil, ferrors.ConfigError("load environment files").WithCause(err).WithContext("path", root).Build()
	}

	cfg := Defaults(root)

	configFile, explicit := ov.ConfigFile, ov.ConfigFile != ""
	if !explicit {
		configFile = filepath.Join(root, DefaultFileName)
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(root, configFile)
	}
	if err := loadFile(configFile, explicit, &cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, ferrors.ConfigError("invalid environment override").WithCause(err).Build()
	}
	applyOverrides(&cfg, ov)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile decodes path into cfg. A missing file is only an error when it was requested explicitly.
func loadFile(path string, explicit bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return ferrors.ConfigError("read configuration file").WithCause(err).WithContext("path", path).Build()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return ferrors.ConfigError("parse configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

func applyOverrides(cfg *Config, ov Overrides) {
	if ov.SourceDir != "" {
		cfg.SourceDir = ov.SourceDir
	}
	if ov.OutputDir != "" {
		cfg.OutputDir = ov.OutputDir
	}
	if ov.PublicDir != "" {
		cfg.PublicDir = ov.PublicDir
	}
	if ov.RenderMode != "" {
		cfg.Render.Mode = RenderMode(ov.RenderMode)
	}
	if ov.Runtime != "" {
		cfg.Render.Runtime = Runtime(ov.Runtime)
	}
	if ov.Debounce > 0 {
		cfg.Watch.Debounce = ov.Debounce
	}
	if ov.Port > 0 {
		cfg.Preview.Port = ov.Port
	}
	if ov.LiveReload != nil {
		cfg.Preview.LiveReload = *ov.LiveReload
	}
	cfg.Verbose = ov.Verbose
}

// normalize resolves relative directories against the project root and case-folds enumerations.
func normalize(cfg *Config) {
	cfg.SourceDir = resolvePath(cfg.ProjectRoot, cfg.SourceDir)
	cfg.OutputDir = resolvePath(cfg.ProjectRoot, cfg.OutputDir)
	cfg.PublicDir = resolvePath(cfg.ProjectRoot, cfg.PublicDir)
	cfg.Render.Mode = RenderMode(normalization.Clean(string(cfg.Render.Mode)))
	cfg.Render.Runtime = Runtime(normalization.Clean(string(cfg.Render.Runtime)))
}

func resolvePath(root, p string) string {
	if p == "" {
		return ""
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return filepath.Clean(p)
}

// String renders a short human-readable summary used in debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("source=%s output=%s public=%s mode=%s runtime=%s", c.SourceDir, c.OutputDir, c.PublicDir, c.Render.Mode, c.Render.Runtime)
}

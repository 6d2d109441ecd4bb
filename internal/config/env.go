package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/bundleless/internal/logfields"
)

// Environment variables consulted between the config file and command-line flags.
const (
	EnvSourceDir      = "BUNDLELESS_SOURCE_DIR"
	EnvOutputDir      = "BUNDLELESS_OUTPUT_DIR"
	EnvPublicDir      = "BUNDLELESS_PUBLIC_DIR"
	EnvPageFiles      = "BUNDLELESS_PAGE_FILES"
	EnvLayoutFiles    = "BUNDLELESS_LAYOUT_FILES"
	EnvRenderMode     = "BUNDLELESS_RENDER_MODE"
	EnvRuntime        = "BUNDLELESS_RUNTIME"
	EnvDebounce       = "BUNDLELESS_WATCH_DEBOUNCE"
	EnvRescanInterval = "BUNDLELESS_WATCH_RESCAN_INTERVAL"
	EnvPreviewPort    = "BUNDLELESS_PREVIEW_PORT"
	EnvLiveReload     = "BUNDLELESS_LIVE_RELOAD"
)

// loadEnvFiles loads .env and .env.local from the project root when present.
// Existing process environment variables are never overridden.
func loadEnvFiles(projectRoot string) error {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		slog.Debug("Loaded environment file", logfields.Path(path))
	}
	return nil
}

// applyEnv overlays BUNDLELESS_* variables onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvSourceDir); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvPublicDir); v != "" {
		cfg.PublicDir = v
	}
	if v := os.Getenv(EnvPageFiles); v != "" {
		cfg.PageFiles = splitList(v)
	}
	if v := os.Getenv(EnvLayoutFiles); v != "" {
		cfg.LayoutFiles = splitList(v)
	}
	if v := os.Getenv(EnvRenderMode); v != "" {
		cfg.Render.Mode = RenderMode(v)
	}
	if v := os.Getenv(EnvRuntime); v != "" {
		cfg.Render.Runtime = Runtime(v)
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		cfg.Watch.Debounce = d
	}
	if v := os.Getenv(EnvRescanInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRescanInterval, err)
		}
		cfg.Watch.RescanInterval = d
	}
	if v := os.Getenv(EnvPreviewPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPreviewPort, err)
		}
		cfg.Preview.Port = port
	}
	if v := os.Getenv(EnvLiveReload); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLiveReload, err)
		}
		cfg.Preview.LiveReload = b
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

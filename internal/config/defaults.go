package config

import (
	"path/filepath"
	"time"
)

const (
	defaultSourceDir   = "app"
	defaultOutputDir   = "bundleless"
	defaultPublicDir   = "public"
	defaultStylesheet  = "globals.css"
	defaultDebounce    = 100 * time.Millisecond
	defaultPreviewPort = 3300
)

// Defaults returns the configuration derived from a project root alone.
func Defaults(projectRoot string) Config {
	return Config{
		ProjectRoot: projectRoot,
		SourceDir:   filepath.Join(projectRoot, defaultSourceDir),
		OutputDir:   filepath.Join(projectRoot, defaultOutputDir),
		PublicDir:   filepath.Join(projectRoot, defaultPublicDir),
		PageFiles:   []string{"page.tsx", "page.js"},
		LayoutFiles: []string{"layout.tsx", "layout.js"},
		Stylesheet:  defaultStylesheet,
		Render: RenderConfig{
			Mode:    RenderModeReact,
			Runtime: RuntimeUMD,
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce,
		},
		Preview: PreviewConfig{
			Port:       defaultPreviewPort,
			LiveReload: true,
		},
	}
}

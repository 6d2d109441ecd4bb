package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
)

// Validate checks a resolved configuration and canonicalizes its enumerations.
// The output directory is deleted on every run, so it must never alias or
// contain the source, public or project directories.
func Validate(cfg *Config) error {
	mode, err := renderModes.Parse(string(cfg.Render.Mode))
	if err != nil {
		return ferrors.ValidationError("unknown render mode").
			WithCause(ErrInvalidRenderMode).WithContext("mode", string(cfg.Render.Mode)).
			WithContext("valid", renderModes.Keys()).Build()
	}
	runtime, err := runtimes.Parse(string(cfg.Render.Runtime))
	if err != nil {
		return ferrors.ValidationError("unknown render runtime").
			WithCause(ErrInvalidRenderMode).WithContext("runtime", string(cfg.Render.Runtime)).
			WithContext("valid", runtimes.Keys()).Build()
	}
	cfg.Render.Mode, cfg.Render.Runtime = mode, runtime

	if len(cfg.PageFiles) == 0 {
		return ferrors.ValidationError("page_files must list at least one candidate").Build()
	}
	for _, name := range append(append([]string{}, cfg.PageFiles...), cfg.LayoutFiles...) {
		if name == "" || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
			return ferrors.ValidationError("candidate file names must be plain file names").WithContext("name", name).Build()
		}
	}
	if cfg.Stylesheet == "" || strings.Contains(cfg.Stylesheet, "/") {
		return ferrors.ValidationError("stylesheet must be a plain file name").WithContext("name", cfg.Stylesheet).Build()
	}

	if cfg.Watch.Debounce < 0 {
		return ferrors.ValidationError("watch.debounce must not be negative").WithContext("value", cfg.Watch.Debounce.String()).Build()
	}
	if cfg.Watch.RescanInterval < 0 {
		return ferrors.ValidationError("watch.rescan_interval must not be negative").WithContext("value", cfg.Watch.RescanInterval.String()).Build()
	}
	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		return ferrors.ValidationError("preview.port out of range").WithContext("port", cfg.Preview.Port).Build()
	}

	if cfg.SourceDir == "" || cfg.OutputDir == "" {
		return ferrors.ValidationError("source_dir and output_dir are required").Build()
	}
	if cfg.OutputDir == cfg.SourceDir || (cfg.PublicDir != "" && cfg.OutputDir == cfg.PublicDir) {
		return ferrors.ValidationError("output_dir must differ from source_dir and public_dir").
			WithContext("output_dir", cfg.OutputDir).Build()
	}
	if isWithin(cfg.ProjectRoot, cfg.OutputDir) || isWithin(cfg.SourceDir, cfg.OutputDir) {
		return ferrors.ValidationError("output_dir must not contain the project or source directory").
			WithContext("output_dir", cfg.OutputDir).Build()
	}
	return nil
}

// isWithin reports whether path equals dir or lies beneath it.
func isWithin(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ShouldIgnore reports whether an event for name never triggers a regeneration:
// events without a name, swap and temp files, dot files, editor backups and OS
// metadata files.
func ShouldIgnore(name string) bool {
	if name == "" {
		return true
	}
	if strings.Contains(name, ".swp") || strings.Contains(name, ".tmp") {
		return true
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

// relevant reports whether ev should count as a source change.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if ShouldIgnore(ev.Name) {
		return false
	}
	return !w.underOutput(ev.Name)
}

func (w *Watcher) underOutput(path string) bool {
	if w.cfg.OutputDir == "" {
		return false
	}
	rel, err := filepath.Rel(w.cfg.OutputDir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Package routes discovers page routes from a directory tree that follows the
// "directory per route, page file inside" convention.
package routes

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/bundleless/internal/logfields"
)

// IndexName is the output name of the root route.
const IndexName = "index"

// Route maps a URL path to the page source that renders it.
type Route struct {
	Path       string `json:"path"`
	SourceFile string `json:"source_file"`
	SourceDir  string `json:"source_dir"`
}

// Name returns the flattened output directory name: "/" becomes "index",
// other paths lose the leading slash and have "/" replaced by "-".
// Distinct paths can share a name ("/a/b" and "/a-b").
func (r Route) Name() string {
	return FlattenPath(r.Path)
}

// FlattenPath applies the output naming rule to a route path.
func FlattenPath(p string) string {
	if p == "/" {
		return IndexName
	}
	return strings.ReplaceAll(strings.TrimPrefix(p, "/"), "/", "-")
}

// Discoverer walks a source tree and emits routes.
type Discoverer struct {
	pageFiles []string
	logger    *slog.Logger
}

// NewDiscoverer returns a Discoverer that recognizes the given page file names,
// checked in order; the first existing candidate wins.
func NewDiscoverer(pageFiles []string, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{pageFiles: append([]string(nil), pageFiles...), logger: logger}
}

// Discover returns the routes under root in traversal order: the root page first
// (as "/"), then a depth-first walk where a directory's route precedes the routes
// of its descendants. Unreadable directories contribute nothing.
func (d *Discoverer) Discover(root string) []Route {
	var out []Route
	if page, ok := d.findPage(root); ok {
		out = append(out, Route{Path: "/", SourceFile: page, SourceDir: root})
	}
	return d.walk(root, "", out)
}

func (d *Discoverer) walk(dir, base string, out []Route) []Route {
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.logger.Warn("Cannot read directory during route discovery",
			logfields.Path(dir), logfields.Error(err))
		return out
	}
	for _, entry := range entries {
		if !entry.IsDir() || Skipped(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		routePath := base + "/" + entry.Name()
		if page, ok := d.findPage(full); ok {
			out = append(out, Route{Path: routePath, SourceFile: page, SourceDir: full})
		}
		out = d.walk(full, routePath, out)
	}
	return out
}

func (d *Discoverer) findPage(dir string) (string, bool) {
	for _, name := range d.pageFiles {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// Skipped reports whether a directory name is excluded from discovery.
func Skipped(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// SortByPath returns a copy of rs sorted by route path for display.
func SortByPath(rs []Route) []Route {
	out := append([]Route(nil), rs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Package assets finds root-relative asset references in page source, copies the
// referenced files next to a route's output and rewrites the references to the copies.
package assets

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/logfields"
)

// Dir is the subdirectory of a route output that receives copied assets.
const Dir = "assets"

var (
	srcAttr  = regexp.MustCompile(`src=["']([^"']+)["']`)
	hrefAttr = regexp.MustCompile(`href=["']([^"']+)["']`)
)

// Copied records an asset that was located and copied; Original is the reference
// as it appeared in source and Rewritten the route-relative path replacing it.
type Copied struct {
	Original  string
	Rewritten string
	Source    string
	Dest      string
}

// ExtractReferences returns the distinct local root-relative src/href values of text
// in first-seen order (src matches before href matches).
func ExtractReferences(text string) []string {
	var refs []string
	seen := map[string]struct{}{}
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		refs = append(refs, v)
	}
	for _, m := range srcAttr.FindAllStringSubmatch(text, -1) {
		if isLocal(m[1]) {
			add(m[1])
		}
	}
	for _, m := range hrefAttr.FindAllStringSubmatch(text, -1) {
		if isLocal(m[1]) && !strings.HasPrefix(m[1], "http") {
			add(m[1])
		}
	}
	return refs
}

// Union merges reference lists preserving first-seen order.
func Union(lists ...[]string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, l := range lists {
		for _, v := range l {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func isLocal(v string) bool {
	return strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//")
}

// Resolver locates references under an ordered list of roots.
type Resolver struct {
	roots  []string
	logger *slog.Logger
}

// NewResolver probes roots in order; empty entries are ignored.
// The conventional order is the public directory, then the source directory.
func NewResolver(logger *slog.Logger, roots ...string) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{logger: logger}
	for _, root := range roots {
		if root != "" {
			r.roots = append(r.roots, root)
		}
	}
	return r
}

// Locate returns the first regular file matching ref under the resolver roots.
func (r *Resolver) Locate(ref string) (string, bool) {
	rel, ok := relativePath(ref)
	if !ok {
		return "", false
	}
	for _, root := range r.roots {
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// Copy copies every resolvable reference into routeDir/assets, preserving the
// relative path. Unresolvable references are skipped silently; I/O failures abort.
func (r *Resolver) Copy(refs []string, routeDir string) ([]Copied, error) {
	var copied []Copied
	for _, ref := range refs {
		src, ok := r.Locate(ref)
		if !ok {
			r.logger.Debug("Asset not found, leaving reference unchanged", logfields.Asset(ref))
			continue
		}
		rel, _ := relativePath(ref)
		dest := filepath.Join(routeDir, Dir, rel)
		if err := copyFile(src, dest); err != nil {
			return copied, ferrors.FileSystemError("copy asset").
				WithCause(err).
				WithContext("asset", ref).
				WithContext("dest", dest).
				Build()
		}
		copied = append(copied, Copied{
			Original:  ref,
			Rewritten: "./" + Dir + "/" + filepath.ToSlash(rel),
			Source:    src,
			Dest:      dest,
		})
	}
	return copied, nil
}

// Rewrite replaces every literal occurrence of each copied original with its
// rewritten path in a single pass. Longer originals take precedence so a
// reference that prefixes another cannot clobber it.
func Rewrite(text string, copied []Copied) string {
	if len(copied) == 0 {
		return text
	}
	ordered := append([]Copied(nil), copied...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Original) > len(ordered[j].Original)
	})
	pairs := make([]string, 0, len(ordered)*2)
	for _, c := range ordered {
		pairs = append(pairs, c.Original, c.Rewritten)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// relativePath strips the leading slash and rejects paths escaping the root.
func relativePath(ref string) (string, bool) {
	rel := filepath.FromSlash(strings.TrimPrefix(ref, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Clean(rel), true
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

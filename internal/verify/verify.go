// Package verify checks a generated output tree: every local reference in a
// route document must resolve to a file inside that route's directory.
package verify

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/bundleless/internal/assets"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/routes"
)

// DocumentFile is the per-route document checked by Dir.
const DocumentFile = "index.html"

// Reason explains why a reference is broken.
type Reason string

const (
	// ReasonMissing: the relative target does not exist or is not a regular file.
	ReasonMissing Reason = "missing"
	// ReasonOutsideRoute: the relative target escapes the route directory.
	ReasonOutsideRoute Reason = "outside_route"
	// ReasonUnresolved: a root-relative asset reference that was never copied next to the route.
	ReasonUnresolved Reason = "unresolved"
)

// Ref is a reference found in a document.
type Ref struct {
	Tag  string // element name, or "script" for references inside inline script text
	Attr string
	URL  string
	// Embedded is set when the reference came from inline script text rather than an element attribute.
	Embedded bool
}

// Problem is a reference that does not resolve.
type Problem struct {
	Route    string `json:"route"`
	Document string `json:"document"`
	Ref      string `json:"ref"`
	Reason   Reason `json:"reason"`
}

// Result summarizes a verification pass.
type Result struct {
	Documents int       `json:"documents"`
	Refs      int       `json:"refs"`
	Problems  []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r *Result) OK() bool { return len(r.Problems) == 0 }

var relativeAttr = regexp.MustCompile(`(?:src|href)=["'](\./[^"']+)["']`)

// Dir verifies every route directory directly below outputDir.
func Dir(ctx context.Context, outputDir string) (*Result, error) {
	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NotFoundError("output directory does not exist, run generate first").
			WithCause(err).WithContext("path", outputDir).Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError("cannot read output directory").WithCause(err).WithContext("path", outputDir).Build()
	}
	res := &Result{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, ferrors.InternalError("verification canceled").WithCause(err).Build()
		}
		if !e.IsDir() {
			continue
		}
		routeDir := filepath.Join(outputDir, e.Name())
		doc := filepath.Join(routeDir, DocumentFile)
		if _, err := os.Stat(doc); err != nil {
			continue
		}
		refs, err := Document(doc)
		if err != nil {
			return nil, err
		}
		res.Documents++
		res.Refs += len(refs)
		for _, ref := range refs {
			if reason, broken := check(outputDir, routeDir, ref.URL); broken {
				res.Problems = append(res.Problems, Problem{Route: e.Name(), Document: doc, Ref: ref.URL, Reason: reason})
			}
		}
	}
	return res, nil
}

// Document parses an HTML file and returns its local references.
func Document(p string) ([]Ref, error) {
	f, err := os.Open(filepath.Clean(p))
	if err != nil {
		return nil, ferrors.FileSystemError("cannot open document").WithCause(err).WithContext("path", p).Build()
	}
	defer func() { _ = f.Close() }()
	return References(f)
}

// References parses r and returns the local references of its elements and of
// its inline scripts, in document order.
func References(r io.Reader) ([]Ref, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, ferrors.ValidationError("cannot parse document").WithCause(err).Build()
	}
	var refs []Ref
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if (a.Key == "src" || a.Key == "href") && isLocal(a.Val) {
					refs = append(refs, Ref{Tag: n.Data, Attr: a.Key, URL: a.Val})
				}
			}
			if n.Data == "script" && attr(n, "src") == "" {
				refs = append(refs, scriptRefs(text(n))...)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func scriptRefs(body string) []Ref {
	var refs []Ref
	for _, m := range relativeAttr.FindAllStringSubmatch(body, -1) {
		refs = append(refs, Ref{Tag: "script", Attr: "text", URL: m[1], Embedded: true})
	}
	for _, u := range assets.ExtractReferences(body) {
		refs = append(refs, Ref{Tag: "script", Attr: "text", URL: u, Embedded: true})
	}
	return refs
}

func isLocal(v string) bool {
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "//") {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// check resolves ref against routeDir. Root-relative references that name a
// generated route, or carry no file extension, are links between routes.
func check(outputDir, routeDir, ref string) (Reason, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return ReasonMissing, true
	}
	p := u.Path
	if strings.HasPrefix(p, "/") {
		if isRouteLink(outputDir, p) {
			return "", false
		}
		return ReasonUnresolved, true
	}
	clean := path.Clean(p)
	if !filepath.IsLocal(filepath.FromSlash(clean)) {
		return ReasonOutsideRoute, true
	}
	info, err := os.Stat(filepath.Join(routeDir, filepath.FromSlash(clean)))
	if err != nil || !info.Mode().IsRegular() {
		return ReasonMissing, true
	}
	return "", false
}

func isRouteLink(outputDir, p string) bool {
	clean := path.Clean(p)
	if path.Ext(clean) == "" {
		return true
	}
	info, err := os.Stat(filepath.Join(outputDir, routes.FlattenPath(clean), DocumentFile))
	return err == nil && info.Mode().IsRegular()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

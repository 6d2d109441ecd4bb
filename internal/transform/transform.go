package transform

import (
	"errors"
	"regexp"
	"strings"
)

// Variant selects the rewrite set applied by Source.
type Variant int

const (
	// Standalone keeps the default export; used for the per-route source artifact.
	Standalone Variant = iota
	// Inline produces plain declarations for embedding in one script block.
	Inline
)

func (v Variant) String() string {
	if v == Inline {
		return "inline"
	}
	return "standalone"
}

const (
	// DefaultComponentName is used when no default-exported function is found.
	DefaultComponentName = "Component"
	// DefaultBodyClass is used when the wrapper declares no body class template.
	DefaultBodyClass = "antialiased"
)

// ErrUnparseable is returned when static markup cannot be extracted from a page.
var ErrUnparseable = errors.New("cannot parse default-exported component")

var (
	componentName = regexp.MustCompile(`export\s+default\s+function\s+(\w+)`)
	bodyClass     = regexp.MustCompile("className=\\{`([^`]+)`\\}")
	interpolation = regexp.MustCompile(`\$\{[^}]+\}`)
)

// Source rewrites page or wrapper text for the given variant.
func Source(text string, v Variant) string {
	if v == Inline {
		text = Apply(text, inlinePreludeRules)
	}
	text = Apply(text, importRules)
	text = Apply(text, elementRules)
	if v == Inline {
		text = Apply(text, inlineExportRules)
	}
	return text
}

// Wrapper rewrites wrapper text for inline embedding, including document-level elements.
func Wrapper(text string) string {
	return Apply(Source(text, Inline), wrapperDocumentRules)
}

// ComponentName returns the identifier of the first default-exported function.
func ComponentName(text string) string {
	if m := componentName.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return DefaultComponentName
}

// BodyClass extracts the static part of the first className template literal.
func BodyClass(text string) string {
	m := bodyClass.FindStringSubmatch(text)
	if m == nil {
		return DefaultBodyClass
	}
	return strings.TrimSpace(interpolation.ReplaceAllString(m[1], ""))
}

var (
	staticImports  = regexp.MustCompile(`import\s+.*?from\s+['"](?:next/.*?|react)['"];?\n?`)
	staticBody     = regexp.MustCompile(`export\s+default\s+function\s+\w+\s*\([^)]*\)\s*\{([\s\S]*?)\}\s*$`)
	staticReturn   = regexp.MustCompile(`return\s*\(`)
	staticTrailing = regexp.MustCompile(`\);?\s*$`)
)

// StaticMarkup extracts the markup returned by a page's default-exported function.
// It returns ErrUnparseable when the page does not end with such a function.
func StaticMarkup(text string) (string, error) {
	text = staticImports.ReplaceAllString(text, "")
	m := staticBody.FindStringSubmatch(text)
	if m == nil {
		return "", ErrUnparseable
	}
	markup := strings.TrimSpace(m[1])
	markup = strings.ReplaceAll(markup, "className=", "class=")
	markup = staticReturn.ReplaceAllString(markup, "")
	markup = staticTrailing.ReplaceAllString(markup, "")
	return strings.TrimSpace(markup), nil
}

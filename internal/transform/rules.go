package transform

import (
	"regexp"
	"strings"
)

// Rule is one textual rewrite. Replacement may reference capture groups ($1).
// Func, when set, takes precedence and receives each match.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
	Func        func(match string) string
}

// Apply rewrites every non-overlapping match in s.
func (r Rule) Apply(s string) string {
	if r.Func != nil {
		return r.Pattern.ReplaceAllStringFunc(s, r.Func)
	}
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

// Apply runs rules in order.
func Apply(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.Apply(s)
	}
	return s
}

func rule(name, pattern, replacement string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// importRules remove framework imports that have no browser equivalent.
var importRules = []Rule{
	rule("image-import", `import\s+Image\s+from\s+['"]next/image['"];?\n?`, ""),
	rule("link-import", `import\s+Link\s+from\s+['"]next/link['"];?\n?`, ""),
	rule("type-import", `import\s+type\s+.*?from\s+['"]next['"];?\n?`, ""),
	rule("font-import", `import\s+.*?from\s+['"]next/font/google['"];?\n?`, ""),
	rule("stylesheet-import", `import\s+['"]\./globals\.css['"];?\n?`, ""),
}

// elementRules swap framework elements for plain markup, keeping attributes verbatim.
var elementRules = []Rule{
	rule("image-element", `<Image\s+`, "<img "),
	rule("link-open", `<Link\s+`, "<a "),
	rule("link-close", `</Link>`, "</a>"),
}

var fontNamedImport = regexp.MustCompile(`import\s*\{([^}]*)\}\s*from\s*['"]next/font/google['"];?\n?`)

// inlinePreludeRules run before importRules for the inline variant.
var inlinePreludeRules = []Rule{
	rule("use-client", `(?m)^[ \t]*['"]use (?:client|server)['"];?[ \t]*\n?`, ""),
	rule("react-import", `import\s+[\w*\s{},]+?\s+from\s+['"]react['"];?\n?`, ""),
	{Name: "font-stub", Pattern: fontNamedImport, Func: fontStubs},
	{Name: "local-font-stub", Pattern: regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]next/font/local['"];?\n?`), Func: localFontStub},
}

// inlineExportRules turn module declarations into plain declarations.
var inlineExportRules = []Rule{
	rule("default-export", `export\s+default\s+function\s+`, "function "),
	rule("default-export-binding", `(?m)^([ \t]*)export\s+default\s+(\w+)[ \t]*;?[ \t]*$`, "${1}const "+DefaultComponentName+" = ${2};"),
	rule("named-export", `(?m)^([ \t]*)export\s+(const|let|var|function|async\s+function|class)\s+`, "${1}${2} "),
}

// wrapperDocumentRules turn document-level wrapper elements into fragments so the
// wrapper can render beneath the mount element.
var wrapperDocumentRules = []Rule{
	rule("html-open", `<html\b[^>]*>`, "<>"),
	rule("html-close", `</html>`, "</>"),
	rule("head-open", `<head\b[^>]*>`, "<>"),
	rule("head-close", `</head>`, "</>"),
	rule("body-open", `<body\b[^>]*>`, "<>"),
	rule("body-close", `</body>`, "</>"),
}

const fontStubBody = `() => ({ className: "", variable: "", style: {} })`

func fontStubs(match string) string {
	m := fontNamedImport.FindStringSubmatch(match)
	if m == nil {
		return ""
	}
	var b strings.Builder
	for _, spec := range strings.Split(m[1], ",") {
		name := strings.TrimSpace(spec)
		if i := strings.LastIndex(name, " as "); i >= 0 {
			name = strings.TrimSpace(name[i+len(" as "):])
		}
		if name == "" {
			continue
		}
		b.WriteString("const " + name + " = " + fontStubBody + ";\n")
	}
	return b.String()
}

var localFontImport = regexp.MustCompile(`import\s+(\w+)\s+from`)

func localFontStub(match string) string {
	m := localFontImport.FindStringSubmatch(match)
	if m == nil {
		return ""
	}
	return "const " + m[1] + " = " + fontStubBody + ";\n"
}

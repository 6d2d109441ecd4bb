package transform

import (
	"regexp"
	"strings"
)

var (
	utilityImport = regexp.MustCompile(`@import\s+["']tailwindcss["'];?\n?`)
	themeInline   = regexp.MustCompile(`@theme\s+inline\s*\{`)
)

// Stylesheet removes the utility framework import and every `@theme inline { ... }`
// block. Blocks are matched by brace depth so nested braces are removed with them;
// an unterminated block is removed through the end of the text.
func Stylesheet(css string) string {
	css = utilityImport.ReplaceAllString(css, "")

	var b strings.Builder
	for {
		loc := themeInline.FindStringIndex(css)
		if loc == nil {
			b.WriteString(css)
			return b.String()
		}
		b.WriteString(css[:loc[0]])
		css = css[skipBlock(css, loc[1]):]
	}
}

// skipBlock returns the index just past the brace closing the block whose
// opening brace ends at start.
func skipBlock(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// Package synth assembles the standalone document written for each route.
package synth

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"text/template"

	"git.home.luguber.info/inful/bundleless/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Document is the already-transformed input for one route.
type Document struct {
	// Title is the flattened route name.
	Title string
	// Stylesheet is the transformed global stylesheet.
	Stylesheet string
	BodyClass  string

	// React mode.
	Page        string
	PageName    string
	Wrapper     string
	WrapperName string
	HasWrapper  bool

	// Static mode.
	Markup string
}

// Synthesizer renders Documents for one render mode and runtime.
type Synthesizer struct {
	mode    config.RenderMode
	runtime config.Runtime
	tpl     *template.Template
}

// New parses the document template for mode.
func New(mode config.RenderMode, runtime config.Runtime) (*Synthesizer, error) {
	var name string
	switch mode {
	case config.RenderModeReact:
		name = "react.html.tmpl"
	case config.RenderModeStatic:
		name = "static.html.tmpl"
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidRenderMode, mode)
	}
	tpl, err := template.New(name).
		Funcs(template.FuncMap{"attr": html.EscapeString}).
		Option("missingkey=error").
		ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &Synthesizer{mode: mode, runtime: runtime, tpl: tpl}, nil
}

// Mode returns the render mode this Synthesizer was built for.
func (s *Synthesizer) Mode() config.RenderMode { return s.mode }

// Render produces the complete document text.
func (s *Synthesizer) Render(doc Document) (string, error) {
	data := struct {
		Document
		Runtime string
	}{Document: doc, Runtime: string(s.runtime)}

	var buf bytes.Buffer
	if err := s.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s document: %w", s.mode, err)
	}
	return buf.String(), nil
}

package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/bundleless/internal/config"
)

func parse(t *testing.T, doc string) *html.Node {
	t.Helper()
	n, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return n
}

func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRender_ReactWithoutWrapper(t *testing.T) {
	s, err := New(config.RenderModeReact, config.RuntimeUMD)
	require.NoError(t, err)

	out, err := s.Render(Document{
		Title:      "index",
		Stylesheet: ".class{color:red}",
		BodyClass:  "antialiased",
		Page:       "function Home() {\n  return <div>Home Page</div>;\n}",
		PageName:   "Home",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>index</title>")
	assert.Contains(t, out, `<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	assert.Contains(t, out, "Home Page")
	assert.Contains(t, out, "return Home;")
	assert.Contains(t, out, "function Layout({ children })")
	assert.Contains(t, out, "react-dom.development.js")
	assert.Contains(t, out, "ReactDOM.createRoot(document.getElementById('root'))")
	assert.NotContains(t, out, "esm.sh")

	doc := parse(t, out)
	body := find(doc, "body")
	require.NotNil(t, body)
	assert.Equal(t, "antialiased", attr(body, "class"))
	root := find(doc, "div")
	require.NotNil(t, root)
	assert.Equal(t, "root", attr(root, "id"))
	style := find(doc, "style")
	require.NotNil(t, style)
	assert.Contains(t, style.FirstChild.Data, ".class{color:red}")
}

func TestRender_ReactWithWrapper(t *testing.T) {
	s, err := New(config.RenderModeReact, config.RuntimeUMD)
	require.NoError(t, err)

	out, err := s.Render(Document{
		Title:       "about",
		BodyClass:   "min-h-screen",
		Page:        "function About() { return <p>About</p>; }",
		PageName:    "About",
		Wrapper:     "function RootLayout({ children }) { return <>{children}</>; }",
		WrapperName: "RootLayout",
		HasWrapper:  true,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "const Layout = (() => {")
	assert.Contains(t, out, "return RootLayout;")
	assert.NotContains(t, out, "function Layout({ children })")
	assert.Contains(t, out, "<Layout>\n        <Page />\n      </Layout>")
}

func TestRender_ESMRuntime(t *testing.T) {
	s, err := New(config.RenderModeReact, config.RuntimeESM)
	require.NoError(t, err)

	out, err := s.Render(Document{Title: "index", PageName: "Component", BodyClass: "x"})
	require.NoError(t, err)

	assert.Contains(t, out, `<script type="text/babel" data-type="module" data-presets="env,react,tsx">`)
	assert.Contains(t, out, "import React from 'https://esm.sh/react@18.3.1';")
	assert.NotContains(t, out, "umd/react.development.js")
}

func TestRender_RegistersTypeScriptPreset(t *testing.T) {
	for _, rt := range []config.Runtime{config.RuntimeUMD, config.RuntimeESM} {
		t.Run(string(rt), func(t *testing.T) {
			s, err := New(config.RenderModeReact, rt)
			require.NoError(t, err)
			out, err := s.Render(Document{Title: "index", PageName: "Component"})
			require.NoError(t, err)

			register := strings.Index(out, "Babel.registerPreset('tsx'")
			babel := strings.Index(out, "@babel/standalone/babel.min.js")
			source := strings.Index(out, `data-presets="env,react,tsx"`)
			require.NotEqual(t, -1, register)
			require.NotEqual(t, -1, source)
			assert.Less(t, babel, register)
			assert.Less(t, register, source)
			assert.Contains(t, out, "{ allExtensions: true, isTSX: true }")
		})
	}
}

func TestRender_Static(t *testing.T) {
	s, err := New(config.RenderModeStatic, config.RuntimeUMD)
	require.NoError(t, err)

	out, err := s.Render(Document{Title: "blog-post", BodyClass: "antialiased", Markup: `<div class="p-4">Post</div>`})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>blog-post</title>")
	assert.Contains(t, out, `<div class="p-4">Post</div>`)
	assert.NotContains(t, out, "babel")
	assert.NotContains(t, out, "ReactDOM")
}

func TestRender_EscapesAttributes(t *testing.T) {
	s, err := New(config.RenderModeStatic, config.RuntimeUMD)
	require.NoError(t, err)

	out, err := s.Render(Document{Title: "a<b", BodyClass: `x" onload="y`})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>a&lt;b</title>")
	assert.Contains(t, out, `class="x&#34; onload=&#34;y"`)
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := New("ssr", config.RuntimeUMD)
	require.ErrorIs(t, err, config.ErrInvalidRenderMode)
}

package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bundleless/internal/generator"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
	"git.home.luguber.info/inful/bundleless/internal/testutil"
)

func outputTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.Tree{
		"index/index.html":      "<html><body><div id=\"root\"></div></body></html>",
		"about/index.html":      "<html><body>about</body></html>",
		"about/assets/logo.png": "PNG",
		"about/component.jsx":   "export default function About() {}",
	})
	return dir
}

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Result()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestServer_ServesRouteDirectoriesWithInjection(t *testing.T) {
	s := New(Options{Dir: outputTree(t), LiveReload: true})
	h := s.Handler()

	resp := get(t, h, "/about/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := body(t, resp)
	assert.Contains(t, text, "about")
	assert.Contains(t, text, liveReloadTag+"</body>")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp = get(t, h, "/index/index.html")
	// http.FileServer redirects explicit index.html requests to the directory.
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestServer_NonHTMLPassesThrough(t *testing.T) {
	s := New(Options{Dir: outputTree(t), LiveReload: true})
	h := s.Handler()

	resp := get(t, h, "/about/assets/logo.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PNG", body(t, resp))

	resp = get(t, h, "/about/component.jsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body(t, resp), "livereload")
}

func TestServer_WithoutLiveReload(t *testing.T) {
	s := New(Options{Dir: outputTree(t)})
	h := s.Handler()

	resp := get(t, h, "/about/")
	assert.NotContains(t, body(t, resp), "livereload")

	resp = get(t, h, "/livereload.js")
	// Falls through to the file server.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestServer_ServesScriptAndMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	rec.IncRunOutcome("success")

	s := New(Options{Dir: outputTree(t), LiveReload: true, Registry: reg, Recorder: rec})
	h := s.Handler()
	s.OnRun(&generator.Report{RunID: "r1", Outcome: generator.OutcomeSuccess}, nil)

	resp := get(t, h, "/livereload.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/javascript"))
	assert.Contains(t, body(t, resp), "EventSource('/livereload')")

	resp = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metricsText := body(t, resp)
	assert.Contains(t, metricsText, `bundleless_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, metricsText, "bundleless_livereload_broadcasts_total 1")
	assert.Contains(t, metricsText, "bundleless_livereload_clients 0")
}

func TestServer_ServesFreshContentAfterRegeneration(t *testing.T) {
	dir := outputTree(t)
	s := New(Options{Dir: dir})
	h := s.Handler()

	assert.Contains(t, body(t, get(t, h, "/about/")), "about")
	testutil.WriteTree(t, dir, testutil.Tree{"about/index.html": "<html><body>changed</body></html>"})
	assert.Contains(t, body(t, get(t, h, "/about/")), "changed")
	assert.FileExists(t, filepath.Join(dir, "about", "index.html"))
}

func TestServer_OnRunBroadcastsOnlyWrittenRuns(t *testing.T) {
	s := New(Options{Dir: t.TempDir(), LiveReload: true})

	s.OnRun(&generator.Report{RunID: "a", Outcome: generator.OutcomeEmpty}, nil)
	assert.Empty(t, s.hub.lastRun)

	s.OnRun(nil, assert.AnError)
	assert.Empty(t, s.hub.lastRun)

	s.OnRun(&generator.Report{RunID: "b", Outcome: generator.OutcomePartial}, nil)
	assert.Equal(t, "b", s.hub.lastRun)

	s.OnRun(&generator.Report{RunID: "c", Outcome: generator.OutcomeSuccess}, nil)
	assert.Equal(t, "c", s.hub.lastRun)
}

func TestServer_StartStop(t *testing.T) {
	s := New(Options{Dir: outputTree(t), Port: 0, LiveReload: true})
	require.NoError(t, s.Start(t.Context()))
	require.NotEmpty(t, s.Addr())

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + s.Addr() + "/about/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, s.Stop(t.Context()))
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := New(Options{Dir: t.TempDir()})
	assert.NoError(t, s.Stop(t.Context()))
}

// Package preview serves the generated output tree for local development, with
// optional LiveReload and a Prometheus metrics endpoint.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/generator"
	"git.home.luguber.info/inful/bundleless/internal/logfields"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
)

// Options configures a Server.
type Options struct {
	// Dir is the output directory to serve.
	Dir        string
	Port       int
	LiveReload bool
	// Registry, when set, is exposed at /metrics.
	Registry *prom.Registry
	// Recorder receives LiveReload stream metrics; nil disables them.
	Recorder metrics.LiveReloadRecorder
	Logger   *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	opts   Options
	hub    *LiveReloadHub
	logger *slog.Logger
	srv    *http.Server
	addr   string
}

// New returns an unstarted Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{opts: opts, logger: logger}
	if opts.LiveReload {
		s.hub = NewLiveReloadHub(logger, opts.Recorder)
	}
	return s
}

// Handler returns the routing for the preview server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	var files http.Handler = http.FileServer(http.Dir(s.opts.Dir))
	if s.hub != nil {
		mux.Handle("/livereload", s.hub)
		mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			_, _ = w.Write([]byte(LiveReloadScript))
		})
		files = injectLiveReload(files)
	}
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", noCache(files))
	return mux
}

// noCache disables browser caching; the output is rewritten on every run.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return ferrors.PreviewError("listen").WithCause(err).WithContext("port", s.opts.Port).Build()
	}
	s.addr = ln.Addr().String()
	// No write timeout: SSE connections are long lived.
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second, IdleTimeout: 300 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	s.logger.Info("Preview server listening", slog.String("addr", s.addr), slog.Bool("live_reload", s.hub != nil))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string { return s.addr }

// Stop shuts the server down, closing LiveReload streams first.
func (s *Server) Stop(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Shutdown()
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// OnRun is a watch callback that tells browsers to reload after a run that wrote output.
func (s *Server) OnRun(report *generator.Report, err error) {
	if s.hub == nil || err != nil || report == nil {
		return
	}
	if report.Outcome == generator.OutcomeSuccess || report.Outcome == generator.OutcomePartial {
		s.hub.Broadcast(report.RunID)
	}
}

// Package generator runs the route pipeline: discover routes, read shared context,
// then resolve assets, transform and synthesize each route into the output directory.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bundleless/internal/assets"
	"git.home.luguber.info/inful/bundleless/internal/config"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/logfields"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
	"git.home.luguber.info/inful/bundleless/internal/routes"
	"git.home.luguber.info/inful/bundleless/internal/shared"
	"git.home.luguber.info/inful/bundleless/internal/synth"
	"git.home.luguber.info/inful/bundleless/internal/transform"
)

// Output file names written into every route directory.
const (
	DocumentFile  = "index.html"
	ComponentFile = "component.jsx"
)

// ErrRouteNameCollision is reported when two routes flatten to the same output name.
var ErrRouteNameCollision = errors.New("route output name collision")

// Generator turns a source tree into one output directory per route.
type Generator struct {
	cfg        config.Config
	discoverer *routes.Discoverer
	reader     *shared.Reader
	resolver   *assets.Resolver
	synth      *synth.Synthesizer
	cache      *transform.Cache
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder; defaults to metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithCache shares a transform cache between runs.
func WithCache(c *transform.Cache) Option {
	return func(g *Generator) { g.cache = c }
}

// New builds a Generator for cfg. The configuration is copied and not re-read.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, ferrors.InternalError("generator requires a configuration").Build()
	}
	g := &Generator{
		cfg:      *cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	s, err := synth.New(cfg.Render.Mode, cfg.Render.Runtime)
	if err != nil {
		return nil, ferrors.ConfigError("build page synthesizer").WithCause(err).Build()
	}
	g.synth = s
	g.discoverer = routes.NewDiscoverer(cfg.PageFiles, g.logger)
	g.reader = shared.NewReader(cfg.LayoutFiles, cfg.Stylesheet)
	g.resolver = assets.NewResolver(g.logger, cfg.PublicDir, cfg.SourceDir)
	return g, nil
}

// Config returns the configuration the Generator was built with.
func (g *Generator) Config() config.Config { return g.cfg }

// Generate performs one run. A run that finds no routes leaves the output directory
// untouched. Otherwise the output directory is recreated and routes are generated in
// discovery order; unparseable or colliding routes are skipped and recorded in the
// report, while filesystem failures abort the run and are returned.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := g.logger.With(logfields.RunID(runID))
	report := newReport(runID, g.cfg.OutputDir)
	defer func() {
		g.recorder.ObserveRunDuration(report.Duration())
		g.recorder.IncRunOutcome(string(report.Outcome))
	}()

	log.Info("Starting generation", slog.String("source", g.cfg.SourceDir), slog.String("output", g.cfg.OutputDir))

	sc, err := g.reader.Read(g.cfg.SourceDir)
	if err != nil {
		return g.fail(report, err)
	}
	report.HasWrapper = sc.HasWrapper
	if !sc.HasWrapper {
		log.Info("No layout found, using pass-through layout")
	}

	found := g.discoverer.Discover(g.cfg.SourceDir)
	report.Routes = len(found)
	if len(found) == 0 {
		log.Info("No routes found", logfields.Path(g.cfg.SourceDir))
		report.Outcome = OutcomeEmpty
		report.finish()
		return report, nil
	}
	log.Info("Routes discovered", logfields.Stage("discover"), logfields.Count(len(found)))

	if err := ctx.Err(); err != nil {
		return g.fail(report, ferrors.InternalError("generation canceled").WithCause(err).Build())
	}
	if err := resetDir(g.cfg.OutputDir); err != nil {
		return g.fail(report, err)
	}

	run := &routeRun{
		sc:          sc,
		stylesheet:  g.cache.Stylesheet(sc.Stylesheet),
		wrapperRefs: assets.ExtractReferences(sc.Wrapper),
	}
	names := make(map[string]string, len(found))
	for _, r := range found {
		if err := ctx.Err(); err != nil {
			return g.fail(report, ferrors.InternalError("generation canceled").WithCause(err).Build())
		}
		rlog := log.With(logfields.Route(r.Path))

		name := r.Name()
		if prev, ok := names[name]; ok {
			err := fmt.Errorf("%w: %s and %s both map to %q", ErrRouteNameCollision, prev, r.Path, name)
			rlog.Warn("Skipping route", logfields.Error(err))
			report.skip(r.Path, IssueNameCollision, err)
			g.recorder.IncRouteResult(metrics.ResultSkipped)
			continue
		}
		names[name] = r.Path

		res, err := g.generateRoute(rlog, r, run)
		if err != nil {
			if errors.Is(err, transform.ErrUnparseable) {
				rlog.Warn("Skipping route", logfields.Error(err))
				report.skip(r.Path, IssueUnparseable, err)
				g.recorder.IncRouteResult(metrics.ResultSkipped)
				continue
			}
			g.recorder.IncRouteResult(metrics.ResultFailed)
			return g.fail(report, err)
		}
		report.Generated = append(report.Generated, res)
		report.AssetsCopied += res.Assets
		g.recorder.IncRouteResult(metrics.ResultGenerated)
		g.recorder.AddAssetsCopied(res.Assets)
		g.recorder.ObserveRouteDuration(r.Path, res.Duration)
	}

	report.finish()
	log.Info("Generation complete", slog.String("summary", report.Summary()))
	return report, nil
}

func (g *Generator) fail(report *Report, err error) (*Report, error) {
	report.Outcome = OutcomeFailed
	report.finish()
	return report, err
}

// routeRun holds per-run values shared by every route.
type routeRun struct {
	sc          shared.Context
	stylesheet  string
	wrapperRefs []string
}

func (g *Generator) generateRoute(log *slog.Logger, r routes.Route, run *routeRun) (RouteResult, error) {
	start := time.Now()
	name := r.Name()
	log.Info("Generating route", slog.String("name", name), logfields.File(r.SourceFile))

	raw, err := os.ReadFile(r.SourceFile)
	if err != nil {
		return RouteResult{}, ferrors.FileSystemError("read page source").
			WithCause(err).WithRoute(r.Path).WithContext("file", r.SourceFile).Build()
	}
	page := string(raw)

	if g.cfg.Render.Mode == config.RenderModeStatic {
		if _, err := transform.StaticMarkup(page); err != nil {
			return RouteResult{}, ferrors.TransformError("cannot extract page markup").
				WithCause(err).WithRoute(r.Path).WithContext("file", r.SourceFile).Build()
		}
	}

	dir := filepath.Join(g.cfg.OutputDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return RouteResult{}, ferrors.FileSystemError("create route output directory").
			WithCause(err).WithRoute(r.Path).WithContext("path", dir).Build()
	}

	refs := assets.Union(assets.ExtractReferences(page), run.wrapperRefs)
	copied, err := g.resolver.Copy(refs, dir)
	if err != nil {
		return RouteResult{}, err
	}
	if len(copied) > 0 {
		log.Info("Copied assets", logfields.Count(len(copied)))
	}

	page = assets.Rewrite(page, copied)
	wrapper := assets.Rewrite(run.sc.Wrapper, copied)

	doc := synth.Document{
		Title:      name,
		Stylesheet: run.stylesheet,
		BodyClass:  transform.BodyClass(wrapper),
	}
	switch g.cfg.Render.Mode {
	case config.RenderModeStatic:
		doc.Markup, err = transform.StaticMarkup(page)
		if err != nil {
			return RouteResult{}, ferrors.TransformError("cannot extract page markup").
				WithCause(err).WithRoute(r.Path).Build()
		}
	default:
		doc.Page = g.cache.Source(page, transform.Inline)
		doc.PageName = transform.ComponentName(page)
		if run.sc.HasWrapper {
			doc.HasWrapper = true
			doc.Wrapper = g.cache.Wrapper(wrapper)
			doc.WrapperName = transform.ComponentName(wrapper)
		}
	}

	html, err := g.synth.Render(doc)
	if err != nil {
		return RouteResult{}, ferrors.InternalError("render route document").WithCause(err).WithRoute(r.Path).Build()
	}
	if err := writeFile(filepath.Join(dir, DocumentFile), html); err != nil {
		return RouteResult{}, err
	}
	if err := writeFile(filepath.Join(dir, ComponentFile), g.cache.Source(page, transform.Standalone)); err != nil {
		return RouteResult{}, err
	}

	elapsed := time.Since(start)
	log.Debug("Route generated", logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return RouteResult{Route: r, Name: name, Dir: dir, Assets: len(copied), Duration: elapsed}, nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return ferrors.FileSystemError("clear output directory").WithCause(err).WithContext("path", dir).Build()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferrors.FileSystemError("create output directory").WithCause(err).WithContext("path", dir).Build()
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ferrors.FileSystemError("write route output").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

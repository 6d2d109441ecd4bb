package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bundleless/internal/config"
	"git.home.luguber.info/inful/bundleless/internal/generator"
	"git.home.luguber.info/inful/bundleless/internal/logfields"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
	"git.home.luguber.info/inful/bundleless/internal/preview"
	"git.home.luguber.info/inful/bundleless/internal/transform"
	"git.home.luguber.info/inful/bundleless/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ProjectFlags `embed:""`
	RenderFlags  `embed:""`

	Debounce     time.Duration `name:"debounce" help:"Delay before the follow-up run for changes seen during a run (default 100ms)."`
	Serve        bool          `name:"serve" help:"Serve the output directory with LiveReload and /metrics."`
	Port         int           `name:"port" help:"Preview server port (default 3300)."`
	NoLiveReload bool          `name:"no-live-reload" help:"Disable LiveReload SSE and script injection for the preview server."`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, global.logger(), root.Verbose)
}

func (w *WatchCmd) run(ctx context.Context, logger *slog.Logger, verbose bool) error {
	ov := w.overrides(verbose)
	w.apply(&ov)
	ov.Debounce = w.Debounce
	ov.Port = w.Port
	if w.NoLiveReload {
		off := false
		ov.LiveReload = &off
	}
	cfg, err := config.Load(w.Root, ov)
	if err != nil {
		return err
	}

	cache, err := transform.NewCache(transform.DefaultCacheSize)
	if err != nil {
		return err
	}
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		onRun    func(*generator.Report, error)
		server   *preview.Server
	)
	if w.Serve {
		reg := prom.NewRegistry()
		pr := metrics.NewPrometheusRecorder(reg)
		recorder = pr
		server = preview.New(preview.Options{
			Dir:        cfg.OutputDir,
			Port:       cfg.Preview.Port,
			LiveReload: cfg.Preview.LiveReload,
			Registry:   reg,
			Recorder:   pr,
			Logger:     logger,
		})
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := server.Stop(stopCtx); err != nil {
				logger.Warn("Failed to stop preview server", logfields.Error(err))
			}
		}()
		onRun = server.OnRun
	}

	gen, err := generator.New(cfg,
		generator.WithLogger(logger),
		generator.WithRecorder(recorder),
		generator.WithCache(cache),
	)
	if err != nil {
		return err
	}

	opts := []watch.Option{watch.WithLogger(logger), watch.WithRecorder(recorder)}
	if onRun != nil {
		opts = append(opts, watch.WithOnRun(onRun))
	}
	logger.Info("Starting watch mode", slog.String("source", cfg.SourceDir), slog.String("output", cfg.OutputDir))
	if err := watch.New(gen, watch.FromConfig(cfg), opts...).Run(ctx); err != nil {
		return err
	}
	logger.Info("Watch mode stopped")
	return nil
}

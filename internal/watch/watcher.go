package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/bundleless/internal/config"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/generator"
	"git.home.luguber.info/inful/bundleless/internal/logfields"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
)

// Runner performs one generation run.
type Runner interface {
	Generate(ctx context.Context) (*generator.Report, error)
}

// Config selects what is watched.
type Config struct {
	SourceDir string
	// PublicDir is watched when it exists at start.
	PublicDir string
	// OutputDir events are ignored and the directory is never watched.
	OutputDir      string
	Debounce       time.Duration
	RescanInterval time.Duration
}

// FromConfig derives a watch Config from the resolved application configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		SourceDir:      cfg.SourceDir,
		PublicDir:      cfg.PublicDir,
		OutputDir:      cfg.OutputDir,
		Debounce:       cfg.Watch.Debounce,
		RescanInterval: cfg.Watch.RescanInterval,
	}
}

// Watcher drives a Runner from filesystem changes.
type Watcher struct {
	runner   Runner
	cfg      Config
	logger   *slog.Logger
	recorder metrics.Recorder
	onRun    func(*generator.Report, error)
}

// Option customizes a Watcher.
type Option func(*Watcher)

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(w *Watcher) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithOnRun registers a callback invoked on the worker goroutine after every run.
func WithOnRun(fn func(*generator.Report, error)) Option {
	return func(w *Watcher) { w.onRun = fn }
}

// New returns a Watcher for runner.
func New(runner Runner, cfg Config, opts ...Option) *Watcher {
	w := &Watcher{
		runner:   runner,
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs one generation, then regenerates on change until ctx is done.
// A generation in flight at shutdown is allowed to finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WatchError("create filesystem watcher").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addDirsRecursive(fsw, w.cfg.SourceDir); err != nil {
		return ferrors.WatchError("watch source directory").WithCause(err).WithContext("path", w.cfg.SourceDir).Build()
	}
	w.logger.Info("Watching directory", logfields.Path(w.cfg.SourceDir))
	if w.cfg.PublicDir != "" {
		if info, err := os.Stat(w.cfg.PublicDir); err == nil && info.IsDir() {
			if err := w.addDirsRecursive(fsw, w.cfg.PublicDir); err != nil {
				return ferrors.WatchError("watch public directory").WithCause(err).WithContext("path", w.cfg.PublicDir).Build()
			}
			w.logger.Info("Watching directory", logfields.Path(w.cfg.PublicDir))
		}
	}

	rescan := make(chan struct{}, 1)
	if w.cfg.RescanInterval > 0 {
		sched, err := w.startRescan(rescan)
		if err != nil {
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	return w.loop(ctx, fsw, rescan)
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, rescan <-chan struct{}) error {
	var (
		m      Machine
		done   = make(chan struct{}, 1)
		timer  *time.Timer
		timerC <-chan time.Time
	)
	start := func() {
		w.logger.Debug("Starting generation", logfields.State(m.State().String()))
		go func() {
			w.generate(ctx)
			done <- struct{}{}
		}()
	}
	change := func(source string) {
		act, folded := m.Change()
		switch {
		case act == ActionStart:
			w.recorder.IncWatchEvent(source)
			start()
		case folded:
			w.recorder.IncWatchEvent("coalesced")
			w.logger.Debug("Change coalesced", logfields.Event(source), logfields.State(m.State().String()))
		default:
			w.recorder.IncWatchEvent(source)
			w.logger.Info("Generation in progress, queued one more run")
		}
	}

	w.logger.Info("Initial generation")
	if m.Begin() == ActionStart {
		start()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			if s := m.State(); s == StateRunning || s == StateRunningPending {
				<-done
			}
			w.logger.Info("Stopped watching")
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && !w.underOutput(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addDirsRecursive(fsw, ev.Name)
				}
			}
			if !w.relevant(ev) {
				w.recorder.IncWatchEvent("ignored")
				continue
			}
			w.logger.Info("Change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
			change("change")

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))

		case <-rescan:
			w.logger.Debug("Periodic rescan")
			change("rescan")

		case <-done:
			if m.Done() == ActionSchedule {
				timer = time.NewTimer(w.cfg.Debounce)
				timerC = timer.C
			}

		case <-timerC:
			timer, timerC = nil, nil
			if m.Fire() == ActionStart {
				start()
			}
		}
	}
}

// generate runs one generation and contains its failure so the loop keeps going.
func (w *Watcher) generate(ctx context.Context) {
	report, err := w.runner.Generate(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("Generation failed", logfields.Error(err))
		}
	} else if report != nil {
		w.logger.Info("Generation finished", slog.String("summary", report.Summary()))
	}
	if w.onRun != nil {
		w.onRun(report, err)
	}
}

func (w *Watcher) startRescan(rescan chan<- struct{}) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WatchError("create rescan scheduler").WithCause(err).Build()
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.cfg.RescanInterval),
		gocron.NewTask(func() {
			select {
			case rescan <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("bundleless-rescan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, ferrors.WatchError("schedule rescan").WithCause(err).
			WithContext("interval", w.cfg.RescanInterval.String()).Build()
	}
	sched.Start()
	w.logger.Info("Periodic rescan enabled", slog.Duration("interval", w.cfg.RescanInterval))
	return sched, nil
}

// addDirsRecursive watches root and every directory below it except the output
// directory and hidden directories.
func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.underOutput(path) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

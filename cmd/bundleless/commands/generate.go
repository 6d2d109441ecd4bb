package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/bundleless/internal/config"
	"git.home.luguber.info/inful/bundleless/internal/generator"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	ProjectFlags `embed:""`
	RenderFlags  `embed:""`
	Quiet        bool `short:"q" help:"Only log warnings and errors."`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	logger := global.logger()
	if g.Quiet && !root.Verbose {
		logger = NewLogger(os.Stderr, false, true)
	}

	ov := g.overrides(root.Verbose)
	g.apply(&ov)
	cfg, err := config.Load(g.Root, ov)
	if err != nil {
		return err
	}
	logger.Debug("Resolved configuration", slog.String("config", cfg.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := runGenerate(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if !g.Quiet {
		_, _ = fmt.Fprintf(global.stdout(), "Generated %d route(s) into %s\n", len(report.Generated), report.OutputDir)
	}
	return nil
}

// runGenerate performs a single generation. Skipped routes are logged by the
// generator and listed in the Report; they do not produce an error.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*generator.Report, error) {
	gen, err := generator.New(cfg, generator.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx)
}

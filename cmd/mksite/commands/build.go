package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mksite/internal/config"
	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/metrics"
	"git.home.luguber.info/inful/mksite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Content   string `help:"Content directory (overrides content_dir)" type:"path"`
	Output    string `short:"o" help:"Output directory (overrides output_dir)" type:"path"`
	Templates string `short:"t" help:"Template directory (overrides template_dir)" type:"path"`
	Workers   int    `short:"j" help:"Number of pages built in parallel (overrides workers)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	b.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := g.Logger
	if cfg.Log.Level != "" || cfg.Log.Format != "" {
		logger = newLogger(g.Stderr, resolveLogLevel(root.Verbose, cfg.Log.Level), config.NormalizeLogFormat(cfg.Log.Format))
		slog.SetDefault(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, g, *cfg, logger)
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) {
	if b.Content != "" {
		cfg.ContentDir = b.Content
	}
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Templates != "" {
		cfg.TemplateDir = b.Templates
	}
	if b.Workers != 0 {
		cfg.Workers = b.Workers
	}
}

// RunBuild assembles the site described by cfg and exports metrics when a
// textfile is configured.
func RunBuild(ctx context.Context, g *Global, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		registry *prom.Registry
	)
	if cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	logger.Info("Starting site build",
		slog.String("content", cfg.ContentDir),
		slog.String("output", cfg.OutputDir),
		logfields.Workers(cfg.Workers))

	report, err := site.NewAssembler(cfg, site.WithLogger(logger), site.WithRecorder(recorder)).Run(ctx)

	if registry != nil {
		if werr := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); werr != nil {
			logger.Warn("Failed to export metrics", logfields.Path(cfg.Metrics.Textfile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(g.Stdout, "Built %s: %s\n", cfg.OutputDir, report.Summary())
	return nil
}

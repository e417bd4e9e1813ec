// Package site assembles a complete static site: it copies static assets,
// builds every Markdown page and renders the blog index.
package site

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mksite/internal/config"
	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/markdown"
	"git.home.luguber.info/inful/mksite/internal/metrics"
	"git.home.luguber.info/inful/mksite/internal/page"
	"git.home.luguber.info/inful/mksite/internal/templates"
)

// Assembler runs site builds for one configuration.
type Assembler struct {
	cfg      config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	newID    func() string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder; the default is metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Assembler) {
		if r != nil {
			a.recorder = r
		}
	}
}

// NewAssembler creates an Assembler. cfg is copied.
func NewAssembler(cfg config.Config, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// buildState is the mutable state of one build, shared by its stages.
type buildState struct {
	cfg       config.Config
	logger    *slog.Logger
	recorder  metrics.Recorder
	templates *templates.Engine
	builder   *page.Builder
	report    *Report

	pages []*page.Metadata
}

// Run builds the site. It stops at the first failure; files written before
// the failure are left in place.
func (a *Assembler) Run(ctx context.Context) (*Report, error) {
	report := newReport(a.newID())
	logger := a.logger.With(logfields.BuildID(report.BuildID))

	bs, err := a.prepare(logger, report)
	if err == nil {
		err = runStages(ctx, bs, []StageDef{
			{Name: StageCopyStatic, Fn: stageCopyStatic},
			{Name: StageBuildPages, Fn: stageBuildPages},
			{Name: StageBlogIndex, Fn: stageBlogIndex},
		})
	}

	outcome := metrics.BuildOutcomeSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.BuildOutcomeCanceled
	case err != nil:
		outcome = metrics.BuildOutcomeFailed
	}
	report.finish(outcome)
	a.recorder.ObserveBuildDuration(report.Duration())
	a.recorder.IncBuildOutcome(outcome)

	if err != nil {
		return report, err
	}
	logger.Info("Build complete", slog.String("summary", report.Summary()))
	return report, nil
}

func (a *Assembler) prepare(logger *slog.Logger, report *Report) (*buildState, error) {
	info, err := os.Stat(a.cfg.ContentDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, berrors.ConfigInvalid("content_dir", a.cfg.ContentDir+" does not exist")
	case err != nil:
		return nil, berrors.IOFailure("stat", a.cfg.ContentDir, err)
	case !info.IsDir():
		return nil, berrors.ConfigInvalid("content_dir", a.cfg.ContentDir+" is not a directory")
	}

	engine, err := templates.New(a.cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{a.cfg.DefaultTemplate, a.cfg.BlogTemplate} {
		if !engine.Has(name) {
			return nil, berrors.TemplateNotFound(name)
		}
	}

	renderer := markdown.New(markdown.Options{
		HighlightStyle: a.cfg.Highlight.Style,
		LineNumbers:    a.cfg.Highlight.LineNumbers,
		Logger:         logger,
	})
	builder := page.NewBuilder(page.Options{
		ContentDir:      a.cfg.ContentDir,
		OutputDir:       a.cfg.OutputDir,
		ArticleSegment:  a.cfg.ArticleSegment,
		DefaultTemplate: a.cfg.DefaultTemplate,
		ArticleTemplate: a.cfg.ArticleTemplate,
		SiteTitle:       a.cfg.SiteTitle,
		Logger:          logger,
	}, renderer, engine)

	return &buildState{
		cfg:       a.cfg,
		logger:    logger,
		recorder:  a.recorder,
		templates: engine,
		builder:   builder,
		report:    report,
	}, nil
}

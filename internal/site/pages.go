package site

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/page"
)

// discoverSources lists every Markdown file under root in lexical walk order.
func discoverSources(root string, extensions []string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return berrors.IOFailure("walk", p, walkErr)
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(extensions, filepath.Ext(p)) {
			sources = append(sources, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// stageBuildPages builds every discovered source. Metadata is stored by
// discovery index so the result is identical for any worker count. The
// first failure aborts the stage.
func stageBuildPages(ctx context.Context, bs *buildState) error {
	sources, err := discoverSources(bs.cfg.ContentDir, bs.cfg.MarkdownExtensions)
	if err != nil {
		return err
	}
	bs.logger.Info("Generating pages", logfields.Count(len(sources)), logfields.Workers(bs.cfg.Workers))

	results := make([]*page.Metadata, len(sources))
	if bs.cfg.Workers <= 1 {
		for i, src := range sources {
			meta, err := bs.builder.Build(ctx, src)
			if err != nil {
				return err
			}
			results[i] = meta
			bs.recorder.IncPageRendered(meta.IsArticle)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(bs.cfg.Workers)
		for i, src := range sources {
			g.Go(func() error {
				meta, err := bs.builder.Build(gctx, src)
				if err != nil {
					return err
				}
				results[i] = meta
				bs.recorder.IncPageRendered(meta.IsArticle)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	bs.pages = results
	bs.report.Pages = len(results)
	return nil
}

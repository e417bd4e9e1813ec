package site

import (
	"context"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/page"
)

// createdAtLayouts are the date forms compared chronologically. Anything
// else is compared as a raw string.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

const sortKeyLayout = "2006-01-02T15:04:05.000000000Z"

// createdAtKey maps a created_at value to a string whose lexical order is
// chronological for recognised dates.
func createdAtKey(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(sortKeyLayout)
		}
	}
	return raw
}

// SortArticles returns the articles among pages, newest created_at first.
// Articles with equal keys keep their order in pages.
func SortArticles(pages []*page.Metadata) []*page.Metadata {
	articles := make([]*page.Metadata, 0, len(pages))
	for _, p := range pages {
		if p != nil && p.IsArticle {
			articles = append(articles, p)
		}
	}
	slices.SortStableFunc(articles, func(a, b *page.Metadata) int {
		return strings.Compare(createdAtKey(b.CreatedAt), createdAtKey(a.CreatedAt))
	})
	return articles
}

// stageBlogIndex renders the blog template over every article and writes it
// to the blog output path.
func stageBlogIndex(_ context.Context, bs *buildState) error {
	articles := SortArticles(bs.pages)
	entries := make([]map[string]any, len(articles))
	for i, a := range articles {
		entries[i] = a.Context()
	}

	out, err := bs.templates.Render(bs.cfg.BlogTemplate, map[string]any{
		"entries":         entries,
		page.KeyNavPage:   page.BlogNavPage,
		page.KeySiteTitle: bs.cfg.SiteTitle,
	})
	if err != nil {
		return err
	}

	dst, err := page.WriteOutput(bs.cfg.OutputDir, bs.cfg.BlogOutput, []byte(out))
	if err != nil {
		return err
	}
	bs.report.Articles = len(articles)
	bs.recorder.SetArticles(len(articles))
	bs.logger.Info("Blog index written", logfields.Dst(dst), logfields.Count(len(articles)))
	return nil
}

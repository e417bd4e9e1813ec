package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/mksite/internal/page"
)

func titles(pages []*page.Metadata) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Title
	}
	return out
}

func TestSortArticles(t *testing.T) {
	pages := []*page.Metadata{
		{Title: "about", IsArticle: false, CreatedAt: "2030-01-01"},
		{Title: "first", IsArticle: true, CreatedAt: "2024-01-01"},
		{Title: "second", IsArticle: true, CreatedAt: "2024-01-01"},
		{Title: "newest", IsArticle: true, CreatedAt: "2024-06-01 08:00:00"},
		{Title: "third", IsArticle: true, CreatedAt: "2024-01-01"},
		{Title: "oldest", IsArticle: true, CreatedAt: "2019-12-31"},
	}
	assert.Equal(t, []string{"newest", "first", "second", "third", "oldest"}, titles(SortArticles(pages)))
}

func TestSortArticles_Timezones(t *testing.T) {
	pages := []*page.Metadata{
		{Title: "utc-10", IsArticle: true, CreatedAt: "2024-01-01T10:00:00Z"},
		// 09:30 UTC
		{Title: "cet-1030", IsArticle: true, CreatedAt: "2024-01-01T10:30:00+01:00"},
	}
	assert.Equal(t, []string{"utc-10", "cet-1030"}, titles(SortArticles(pages)))
}

func TestCreatedAtKey(t *testing.T) {
	assert.Equal(t, "2024-01-01T00:00:00.000000000Z", createdAtKey("2024-01-01"))
	assert.Equal(t, "2024-01-01T09:30:00.000000000Z", createdAtKey("2024-01-01T10:30:00+01:00"))
	assert.Equal(t, "last spring", createdAtKey("last spring"))
}

// Package page turns one Markdown source file into an HTML page and the
// metadata record used to build derived pages such as the blog index.
package page

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"
	"time"
)

// Metadata keys with a defined meaning.
const (
	KeySrc       = "src"
	KeyDst       = "dst"
	KeyURL       = "url"
	KeyTemplate  = "_template"
	KeyNavPage   = "_nav_page"
	KeyIsArticle = "is_article"
	KeyTitle     = "title"
	KeyCreatedAt = "created_at"
	KeyAuthor    = "author"
	KeySummary   = "summary"
	KeyContent   = "content"
	KeySiteTitle = "site_title"
)

// BlogNavPage is the navigation identifier assigned to every article.
const BlogNavPage = "blog"

// RequiredArticleFields lists the fields every article must define, in
// reporting order.
var RequiredArticleFields = []string{KeyTitle, KeyCreatedAt, KeyAuthor}

// Metadata is the record built for one source document: the frontmatter
// header plus computed fields. Keys the builder does not interpret are
// carried in Extra and passed through to templates verbatim.
type Metadata struct {
	Src string
	Dst string
	// URL is Dst relative to the output root, slash separated.
	URL string

	Template  string
	NavPage   string
	IsArticle bool

	Title     string
	CreatedAt string
	Author    string
	Summary   string

	Extra map[string]any
}

// newMetadata splits raw header fields into typed and pass-through parts.
func newMetadata(fields map[string]any) *Metadata {
	m := &Metadata{Extra: make(map[string]any, len(fields))}
	for k, v := range fields {
		switch k {
		case KeyTemplate:
			m.Template = stringify(v)
		case KeyNavPage:
			m.NavPage = stringify(v)
		case KeyTitle:
			m.Title = stringify(v)
		case KeyCreatedAt:
			m.CreatedAt = stringify(v)
		case KeyAuthor:
			m.Author = stringify(v)
		case KeySummary:
			m.Summary = stringify(v)
		case KeySrc, KeyDst, KeyURL, KeyIsArticle, KeyContent:
			// computed; a header value never wins
		default:
			m.Extra[k] = v
		}
	}
	return m
}

// Context flattens the metadata into a template context. Computed and
// well-known keys override pass-through keys of the same name.
func (m *Metadata) Context() map[string]any {
	ctx := make(map[string]any, len(m.Extra)+10)
	maps.Copy(ctx, m.Extra)

	ctx[KeySrc] = m.Src
	ctx[KeyDst] = m.Dst
	ctx[KeyURL] = m.URL
	ctx[KeyTemplate] = m.Template
	ctx[KeyNavPage] = m.NavPage
	ctx[KeyIsArticle] = m.IsArticle
	ctx[KeyTitle] = m.Title
	setIfPresent(ctx, KeyCreatedAt, m.CreatedAt)
	setIfPresent(ctx, KeyAuthor, m.Author)
	setIfPresent(ctx, KeySummary, m.Summary)
	return ctx
}

func setIfPresent(ctx map[string]any, key, value string) {
	if value != "" {
		ctx[key] = value
	}
}

// IsArticlePath reports whether the content-relative path rel lies under a
// directory named segment at any depth.
func IsArticlePath(rel, segment string) bool {
	return strings.Contains("/"+filepath.ToSlash(rel), "/"+segment+"/")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

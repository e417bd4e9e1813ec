package page

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/frontmatter"
	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/markdown"
)

// DefaultSummaryLength is the rune limit for summaries extracted from the body.
const DefaultSummaryLength = 200

// MarkdownRenderer converts a Markdown body to an HTML fragment.
type MarkdownRenderer interface {
	Render(body []byte) (*markdown.Result, error)
}

// TemplateRenderer renders a named template with a context.
type TemplateRenderer interface {
	Render(name string, data map[string]any) (string, error)
}

// Options configures a Builder.
type Options struct {
	ContentDir string
	OutputDir  string

	ArticleSegment  string
	DefaultTemplate string
	ArticleTemplate string
	SiteTitle       string
	SummaryLength   int

	Logger *slog.Logger
}

// Builder renders single source documents. It is safe for concurrent use
// when its renderers are.
type Builder struct {
	opts     Options
	markdown MarkdownRenderer
	tmpl     TemplateRenderer
	logger   *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options, md MarkdownRenderer, tmpl TemplateRenderer) *Builder {
	if opts.ArticleSegment == "" {
		opts.ArticleSegment = "article"
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = "page.html"
	}
	if opts.ArticleTemplate == "" {
		opts.ArticleTemplate = "article.html"
	}
	if opts.SummaryLength <= 0 {
		opts.SummaryLength = DefaultSummaryLength
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, markdown: md, tmpl: tmpl, logger: logger}
}

// Build renders the document at src, which must lie under the content
// directory, writes the page and returns its metadata. Any failure names src.
func (b *Builder) Build(ctx context.Context, src string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := b.build(src)
	if err != nil {
		return nil, berrors.InSource(src, err)
	}
	return meta, nil
}

func (b *Builder) build(src string) (*Metadata, error) {
	rel, err := filepath.Rel(b.opts.ContentDir, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, berrors.IOFailure("resolve", src, fmt.Errorf("not under %s", b.opts.ContentDir))
	}
	outRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	dst := filepath.Join(b.opts.OutputDir, outRel)
	b.logger.Info("Building page", logfields.Src(src), logfields.Dst(dst))

	// #nosec G304 -- src comes from walking the content directory.
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, berrors.IOFailure("read", src, err)
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, berrors.MalformedDocument(src, err)
	}

	fields := doc.Metadata
	fields[KeySrc] = src
	fields[KeyDst] = dst
	fields[KeyURL] = filepath.ToSlash(outRel)

	isArticle := IsArticlePath(rel, b.opts.ArticleSegment)
	if isArticle {
		fields[KeyNavPage] = BlogNavPage
		if _, set := fields[KeyTemplate]; !set {
			fields[KeyTemplate] = b.opts.ArticleTemplate
		}
		if err := ValidateArticle(fields, src); err != nil {
			return nil, err
		}
	}

	meta := newMetadata(fields)
	meta.Src, meta.Dst, meta.URL = src, dst, filepath.ToSlash(outRel)
	meta.IsArticle = isArticle
	if meta.Template == "" {
		meta.Template = b.opts.DefaultTemplate
	}
	if meta.Title == "" && !meta.IsArticle {
		meta.Title = TitleFromPath(rel)
	}

	rendered, err := b.markdown.Render(doc.Body)
	if err != nil {
		return nil, err
	}
	for _, w := range rendered.Warnings {
		b.logger.Warn("Rendered with degraded output", logfields.Src(src), logfields.Error(w))
	}
	if meta.Summary == "" && meta.IsArticle {
		meta.Summary = markdown.Summary(rendered.HTML, b.opts.SummaryLength)
	}

	data := meta.Context()
	// #nosec G203 -- the fragment is trusted site content.
	data[KeyContent] = template.HTML(rendered.HTML)
	data[KeySiteTitle] = b.opts.SiteTitle

	out, err := b.tmpl.Render(meta.Template, data)
	if err != nil {
		return nil, err
	}

	if _, err := WriteOutput(b.opts.OutputDir, outRel, []byte(out)); err != nil {
		return nil, err
	}
	b.logger.Debug("Page written", logfields.Dst(dst), logfields.URL(meta.URL), logfields.Template(meta.Template))
	return meta, nil
}

// TitleFromPath derives a display title from a file name: my-page.md
// becomes "My Page".
func TitleFromPath(rel string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

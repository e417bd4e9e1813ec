// Package markdown renders Markdown bodies into HTML fragments.
//
// The renderer is goldmark with strikethrough, footnotes, tables, linkify and
// raw HTML passthrough, plus three block/inline constructs of its own:
// RST-style admonition directives (`.. note:: Title`), `:::` fenced divs and
// `>!spoiler!<` text. Fenced code blocks tagged with a language are
// highlighted with chroma.
package markdown

import (
	"bytes"
	"log/slog"

	fences "github.com/stefanfritsch/goldmark-fences"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/logfields"
)

// Options configures the renderer.
type Options struct {
	// HighlightStyle names the chroma style used for CSS generation.
	HighlightStyle string
	LineNumbers    bool
	TabWidth       int
	Logger         *slog.Logger
}

// Result is a rendered fragment and the recoverable problems found while rendering it.
type Result struct {
	HTML     string
	Warnings []error
}

// Renderer converts Markdown bodies to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	hl     *Highlighter
	logger *slog.Logger
}

// New builds a Renderer with the full extension set.
func New(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hl := NewHighlighter(opts.HighlightStyle, opts.LineNumbers, opts.TabWidth)
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Footnote,
			extension.Table,
			extension.Linkify,
			&fences.Extender{},
			Admonitions,
			Spoilers,
			hl,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	return &Renderer{md: md, hl: hl, logger: logger}
}

// Render converts body to an HTML fragment. Code blocks with an unrecognized
// language are emitted as escaped literals and reported as UnknownLanguage warnings.
func (r *Renderer) Render(body []byte) (*Result, error) {
	doc := r.md.Parser().Parse(text.NewReader(body))

	res := &Result{}
	for _, lang := range fencedLanguages(doc, body) {
		if !r.hl.Supports(lang) {
			r.logger.Warn("Unknown code block language, emitting plain code", logfields.Language(lang))
			res.Warnings = append(res.Warnings, berrors.UnknownLanguage(lang))
		}
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, berrors.InternalError("render markdown", err)
	}
	res.HTML = buf.String()
	return res, nil
}

func fencedLanguages(doc gmast.Node, source []byte) []string {
	var langs []string
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if fc, ok := n.(*gmast.FencedCodeBlock); ok {
			if lang := string(fc.Language(source)); lang != "" {
				langs = append(langs, lang)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return langs
}

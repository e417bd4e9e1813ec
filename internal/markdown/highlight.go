package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const defaultHighlightStyle = "github"

// Highlighter renders fenced code blocks. Blocks with a known language go
// through chroma inside a `<div class="highlight">` wrapper; everything else
// becomes an escaped `<pre><code>` block.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a Highlighter using class-based chroma output.
func NewHighlighter(styleName string, lineNumbers bool, tabWidth int) *Highlighter {
	if styleName == "" {
		styleName = defaultHighlightStyle
	}
	opts := []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(lineNumbers),
	}
	if tabWidth > 0 {
		opts = append(opts, chromahtml.TabWidth(tabWidth))
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(opts...),
	}
}

// Supports reports whether lang resolves to a chroma lexer.
func (h *Highlighter) Supports(lang string) bool {
	return lexerFor(lang) != nil
}

// WriteCSS writes the stylesheet matching the highlighter's classes.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// Extend implements goldmark.Extender.
func (h *Highlighter) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(h, 200),
	))
}

// RegisterFuncs implements renderer.NodeRenderer.
func (h *Highlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, h.renderFencedCodeBlock)
}

func (h *Highlighter) renderFencedCodeBlock(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lang := string(n.Language(source))
	if lexer := lexerFor(lang); lexer != nil {
		if err := h.highlight(w, lexer, code.String()); err == nil {
			return gmast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code>")
	_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	_, _ = w.WriteString("</code></pre>\n")
	return gmast.WalkSkipChildren, nil
}

func (h *Highlighter) highlight(w util.BufWriter, lexer chroma.Lexer, code string) error {
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := h.formatter.Format(&out, h.style, iterator); err != nil {
		return err
	}
	_, _ = w.WriteString(`<div class="highlight">`)
	_, _ = w.Write(out.Bytes())
	_, _ = w.WriteString("</div>\n")
	return nil
}

func lexerFor(lang string) chroma.Lexer {
	if lang == "" {
		return nil
	}
	return lexers.Get(lang)
}

// WriteHighlightCSS writes the chroma stylesheet for styleName.
func WriteHighlightCSS(w io.Writer, styleName string) error {
	return NewHighlighter(styleName, false, 0).WriteCSS(w)
}

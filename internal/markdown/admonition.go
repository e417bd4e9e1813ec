package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Admonition is a directive callout:
//
//	.. note:: Optional title
//
//	   Indented body, parsed as regular Markdown blocks.
type Admonition struct {
	gmast.BaseBlock
	Name  string
	Title string
}

// KindAdmonition is the NodeKind of Admonition.
var KindAdmonition = gmast.NewNodeKind("Admonition")

func (n *Admonition) Kind() gmast.NodeKind { return KindAdmonition }

func (n *Admonition) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Title": n.Title}, nil)
}

// AdmonitionNames lists the directive names recognized as admonitions.
var AdmonitionNames = map[string]bool{
	"attention": true,
	"caution":   true,
	"danger":    true,
	"error":     true,
	"hint":      true,
	"important": true,
	"note":      true,
	"tip":       true,
	"warning":   true,
}

var directiveLine = regexp.MustCompile(`^\.\.[ \t]+([A-Za-z0-9_-]+)::[ \t]*(.*?)[ \t]*\r?\n?$`)

const (
	// Body lines need at least this much indentation to belong to the directive.
	admonitionMinIndent = 2
	// Indentation stripped from body lines.
	admonitionBodyIndent = 3
)

type admonitionParser struct{}

func (admonitionParser) Trigger() []byte { return []byte{'.'} }

func (admonitionParser) Open(_ gmast.Node, reader text.Reader, pc parser.Context) (gmast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) {
		return nil, parser.NoChildren
	}
	m := directiveLine.FindSubmatch(line[pos:])
	if m == nil {
		return nil, parser.NoChildren
	}
	name := strings.ToLower(string(m[1]))
	if !AdmonitionNames[name] {
		return nil, parser.NoChildren
	}
	title := string(m[2])
	if title == "" {
		title = strings.ToUpper(name[:1]) + name[1:]
	}

	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	reader.Advance(n)
	return &Admonition{Name: name, Title: title}, parser.HasChildren
}

func (admonitionParser) Continue(_ gmast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		if len(line) > 0 {
			reader.Advance(len(line) - 1)
		}
		return parser.Continue | parser.HasChildren
	}
	indent, _ := util.IndentWidth(line, reader.LineOffset())
	if indent < admonitionMinIndent {
		return parser.Close
	}
	pos, padding := util.IndentPosition(line, reader.LineOffset(), min(indent, admonitionBodyIndent))
	reader.AdvanceAndSetPadding(pos, padding)
	return parser.Continue | parser.HasChildren
}

func (admonitionParser) Close(gmast.Node, text.Reader, parser.Context) {}

func (admonitionParser) CanInterruptParagraph() bool { return false }

func (admonitionParser) CanAcceptIndentedLine() bool { return false }

type admonitionRenderer struct{}

func (admonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, renderAdmonition)
}

func renderAdmonition(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*Admonition)
	if entering {
		_, _ = w.WriteString(`<section class="admonition `)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Name)))
		_, _ = w.WriteString("\">\n")
		_, _ = w.WriteString(`<p class="admonition-title">`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Title)))
		_, _ = w.WriteString("</p>\n")
		return gmast.WalkContinue, nil
	}
	_, _ = w.WriteString("</section>\n")
	return gmast.WalkContinue, nil
}

type admonitions struct{}

// Admonitions is the goldmark extension enabling admonition directives.
var Admonitions goldmark.Extender = admonitions{}

func (admonitions) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(admonitionParser{}, 750),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(admonitionRenderer{}, 500),
	))
}

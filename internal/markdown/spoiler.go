package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Spoiler hides its content until revealed. Inline spoilers are written
// `>!text!<`; block spoilers prefix every line with `>!`.
type Spoiler struct {
	gmast.BaseInline
}

// SpoilerBlock is the block form of Spoiler.
type SpoilerBlock struct {
	gmast.BaseBlock
}

var (
	KindSpoiler      = gmast.NewNodeKind("Spoiler")
	KindSpoilerBlock = gmast.NewNodeKind("SpoilerBlock")
)

func (n *Spoiler) Kind() gmast.NodeKind { return KindSpoiler }

func (n *Spoiler) Dump(source []byte, level int) { gmast.DumpHelper(n, source, level, nil, nil) }

func (n *SpoilerBlock) Kind() gmast.NodeKind { return KindSpoilerBlock }

func (n *SpoilerBlock) Dump(source []byte, level int) { gmast.DumpHelper(n, source, level, nil, nil) }

var (
	spoilerOpen  = []byte(">!")
	spoilerClose = []byte("!<")
)

type spoilerInlineParser struct{}

func (spoilerInlineParser) Trigger() []byte { return []byte{'>'} }

func (spoilerInlineParser) Parse(_ gmast.Node, block text.Reader, _ parser.Context) gmast.Node {
	line, seg := block.PeekLine()
	if !bytes.HasPrefix(line, spoilerOpen) {
		return nil
	}
	end := bytes.Index(line[len(spoilerOpen):], spoilerClose)
	if end <= 0 {
		return nil
	}
	n := &Spoiler{}
	inner := text.NewSegment(seg.Start+len(spoilerOpen), seg.Start+len(spoilerOpen)+end)
	n.AppendChild(n, gmast.NewTextSegment(inner))
	block.Advance(len(spoilerOpen) + end + len(spoilerClose))
	return n
}

type spoilerBlockParser struct{}

func (spoilerBlockParser) Trigger() []byte { return []byte{'>'} }

// consume advances past the `>!` marker (and one following space) of the
// current line, reporting whether the line carried one.
func (spoilerBlockParser) consume(reader text.Reader, pos int) bool {
	line, _ := reader.PeekLine()
	if pos < 0 || pos+len(spoilerOpen) > len(line) || !bytes.HasPrefix(line[pos:], spoilerOpen) {
		return false
	}
	reader.Advance(pos + len(spoilerOpen))
	line, _ = reader.PeekLine()
	if len(line) > 0 && line[0] == ' ' {
		reader.Advance(1)
	}
	return true
}

func (p spoilerBlockParser) Open(_ gmast.Node, reader text.Reader, pc parser.Context) (gmast.Node, parser.State) {
	if !p.consume(reader, pc.BlockOffset()) {
		return nil, parser.NoChildren
	}
	return &SpoilerBlock{}, parser.HasChildren
}

func (p spoilerBlockParser) Continue(_ gmast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || !p.consume(reader, pos) {
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (spoilerBlockParser) Close(gmast.Node, text.Reader, parser.Context) {}

func (spoilerBlockParser) CanInterruptParagraph() bool { return true }

func (spoilerBlockParser) CanAcceptIndentedLine() bool { return false }

type spoilerRenderer struct{}

func (spoilerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSpoiler, func(w util.BufWriter, _ []byte, _ gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(`<span class="spoiler">`)
		} else {
			_, _ = w.WriteString("</span>")
		}
		return gmast.WalkContinue, nil
	})
	reg.Register(KindSpoilerBlock, func(w util.BufWriter, _ []byte, _ gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString("<div class=\"spoiler\">\n")
		} else {
			_, _ = w.WriteString("</div>\n")
		}
		return gmast.WalkContinue, nil
	})
}

type spoilers struct{}

// Spoilers is the goldmark extension enabling inline and block spoilers.
var Spoilers goldmark.Extender = spoilers{}

func (spoilers) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(spoilerBlockParser{}, 790)),
		parser.WithInlineParsers(util.Prioritized(spoilerInlineParser{}, 500)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(spoilerRenderer{}, 500),
	))
}

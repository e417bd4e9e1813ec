// Package frontmatter splits content files into a structured metadata header and
// a Markdown body. YAML (`---`) and TOML (`+++`) headers are supported.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the header syntax of a document.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Delimiter returns the fence line used for the format.
func (f Format) Delimiter() string {
	switch f {
	case FormatYAML:
		return "---"
	case FormatTOML:
		return "+++"
	default:
		return ""
	}
}

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and does not
// attempt to preserve original header formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Document is a parsed content file.
type Document struct {
	Format   Format
	Metadata map[string]any
	Body     []byte
}

// ErrMissingClosingDelimiter indicates the document started with a header
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates the header block from the Markdown body.
//
// If the document does not start with a known delimiter, format is FormatNone
// and body is the full input.
func Split(content []byte) (header []byte, body []byte, format Format, style Style, err error) {
	style = detectStyle(content)

	for _, f := range []Format{FormatYAML, FormatTOML} {
		header, body, had, splitErr := splitFenced(content, f.Delimiter(), style.Newline)
		if splitErr != nil {
			return nil, nil, FormatNone, style, splitErr
		}
		if had {
			return header, body, f, style, nil
		}
	}
	return nil, content, FormatNone, style, nil
}

func splitFenced(content []byte, delim, nl string) (header []byte, body []byte, had bool, err error) {
	open := []byte(delim + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	headerStart := len(open)
	closeLine := []byte(delim + nl)
	if bytes.HasPrefix(content[headerStart:], closeLine) {
		return []byte{}, content[headerStart+len(closeLine):], true, nil
	}

	rest := content[headerStart:]
	closeSeq := []byte(nl + delim + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing fence on the last line without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+delim)) {
			end := len(rest) - len(delim)
			return rest[:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	headerEnd := headerStart + idx + len(nl)
	bodyStart := headerStart + idx + len(closeSeq)
	return content[headerStart:headerEnd], content[bodyStart:], true, nil
}

// Join reassembles a document from a raw header and body.
//
// If format is FormatNone, Join returns body as-is.
func Join(header []byte, body []byte, format Format, style Style) []byte {
	if format == FormatNone {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	fence := []byte(format.Delimiter() + nl)

	out := make([]byte, 0, 2*len(fence)+len(header)+len(body))
	out = append(out, fence...)
	out = append(out, header...)
	out = append(out, fence...)
	out = append(out, body...)
	return out
}

// Parse splits content and decodes its header. A document without a header
// yields empty metadata and the full content as body.
func Parse(content []byte) (*Document, error) {
	header, body, format, _, err := Split(content)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	switch format {
	case FormatYAML:
		fields, err = ParseYAML(header)
	case FormatTOML:
		fields, err = ParseTOML(header)
	default:
		fields = map[string]any{}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s header: %w", format, err)
	}

	return &Document{Format: format, Metadata: fields, Body: body}, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return map[string]any{}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(header, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return map[string]any{}, nil
	}
	keepTimestampText(&root)

	var fields map[string]any
	if err := root.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// keepTimestampText retags timestamp scalars as strings so dates reach
// templates exactly as written.
func keepTimestampText(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
		return
	}
	for _, c := range n.Content {
		keepTimestampText(c)
	}
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
func ParseTOML(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}

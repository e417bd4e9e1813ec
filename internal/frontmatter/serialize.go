package frontmatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Compose renders fields as a header in the given format followed by body.
// Compose with FormatNone returns body unchanged.
func Compose(format Format, fields map[string]any, body []byte) ([]byte, error) {
	style := Style{Newline: "\n"}

	var (
		header []byte
		err    error
	)
	switch format {
	case FormatNone:
		return body, nil
	case FormatYAML:
		header, err = SerializeYAML(fields, style)
	case FormatTOML:
		header, err = SerializeTOML(fields)
	default:
		return nil, fmt.Errorf("unsupported frontmatter format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return Join(header, body, format, style), nil
}

// SerializeTOML serializes a frontmatter map into TOML bytes (without delimiters).
func SerializeTOML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	return toml.Marshal(fields)
}

// SerializeYAML serializes a frontmatter map into YAML bytes (without delimiters).
// Keys are sorted at every level and strings are double quoted, so the output
// is stable and date-like strings read back as strings.
func SerializeYAML(fields map[string]any, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := yamlNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	if nl := style.Newline; nl != "" && nl != "\n" {
		return bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte(nl)), nil
	}
	return buf.Bytes(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv, Style: yaml.DoubleQuotedStyle}, nil
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range slices.Sorted(maps.Keys(vv)) {
			val, err := yamlNode(vv[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
		}
		return n, nil
	case []any:
		return yamlSequence(vv)
	case []string:
		items := make([]any, len(vv))
		for i, item := range vv {
			items[i] = item
		}
		return yamlSequence(items)
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, fmt.Errorf("unsupported frontmatter value type %T: %w", v, err)
		}
		return n, nil
	}
}

func yamlSequence(items []any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		val, err := yamlNode(item)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, val)
	}
	return n, nil
}

package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_DeterministicOrder(t *testing.T) {
	fields := map[string]any{
		"title":      "Hello",
		"created_at": "2024-01-01",
		"draft":      false,
	}

	out1, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	out2, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))

	require.Equal(t, "created_at: \"2024-01-01\"\ndraft: false\ntitle: \"Hello\"\n", string(out1))
}

func TestSerializeYAML_NewlineStyle_CRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"n": 1}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "n: 1\r\n", string(out))
}

func TestSerializeYAML_UnsupportedType_ReturnsError(t *testing.T) {
	_, err := SerializeYAML(map[string]any{"ch": make(chan int)}, Style{})
	require.Error(t, err)
}

func TestCompose_RoundTripsThroughParse(t *testing.T) {
	fields := map[string]any{"title": "A", "created_at": "2024-01-01", "author": "X"}

	for _, format := range []Format{FormatYAML, FormatTOML} {
		raw, err := Compose(format, fields, []byte("# Hi\n"))
		require.NoError(t, err)

		doc, err := Parse(raw)
		require.NoError(t, err)
		require.Equal(t, format, doc.Format)
		require.Equal(t, fields, doc.Metadata)
		require.Equal(t, "# Hi\n", string(doc.Body))
	}
}

func TestSerializeYAML_NestedValues(t *testing.T) {
	out, err := SerializeYAML(map[string]any{
		"tags":  []string{"go", "web"},
		"extra": map[string]any{"b": 2, "a": nil},
	}, Style{})
	require.NoError(t, err)
	require.Equal(t, "extra:\n  a: null\n  b: 2\ntags:\n  - \"go\"\n  - \"web\"\n", string(out))
}

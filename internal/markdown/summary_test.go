package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		limit    int
		expected string
	}{
		{"first paragraph", "<h1>T</h1>\n<p>First <em>para</em>.</p><p>Second</p>", 200, "First para."},
		{"collapses whitespace", "<p>a\n   b</p>", 200, "a b"},
		{"truncates", "<p>abcdef</p>", 3, "abc…"},
		{"skips nested paragraphs", `<section class="admonition note"><p>x</p></section><p>y</p>`, 200, "y"},
		{"no paragraph", "<h1>T</h1>", 200, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Summary(tc.fragment, tc.limit))
		})
	}
}

package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

func TestWriteOutput(t *testing.T) {
	root := t.TempDir()

	full, err := WriteOutput(root, filepath.Join("a", "b", "c.html"), []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "c.html"), full)

	_, err = WriteOutput(root, filepath.Join("a", "b", "c.html"), []byte("two"))
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestWriteOutput_RejectsEscapes(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"", "..", filepath.Join("..", "x.html"), "/abs.html"} {
		_, err := WriteOutput(root, rel, []byte("x"))
		require.Error(t, err, rel)
		assert.True(t, berrors.IsKind(err, berrors.KindIOFailure), rel)
	}
}

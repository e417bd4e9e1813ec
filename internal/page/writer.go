package page

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

var errEscapesRoot = errors.New("output path escapes output directory")

// WriteOutput writes content to rel under root, creating parent directories
// and overwriting any existing file. It returns the full path written.
func WriteOutput(root, rel string, content []byte) (string, error) {
	cleanRel := filepath.Clean(rel)
	if cleanRel == "." || filepath.IsAbs(cleanRel) || cleanRel == ".." ||
		strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", berrors.IOFailure("write", rel, errEscapesRoot)
	}

	fullPath := filepath.Join(root, cleanRel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", berrors.IOFailure("create directory", filepath.Dir(fullPath), err)
	}

	// #nosec G306 -- generated pages are meant to be world readable.
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", berrors.IOFailure("write", fullPath, err)
	}
	return fullPath, nil
}

package page

import (
	"strings"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

// ValidateArticle checks that fields defines every required article field
// with a non-blank value. All missing fields are reported in one error
// naming path.
func ValidateArticle(fields map[string]any, path string) error {
	var missing []string
	for _, key := range RequiredArticleFields {
		v, ok := fields[key]
		if !ok || strings.TrimSpace(stringify(v)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return berrors.MissingRequiredFields(path, missing)
	}
	return nil
}

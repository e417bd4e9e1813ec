package templates

import (
	"html/template"
	"strings"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		// default returns value unless it is empty, in which case fallback.
		"default": func(fallback, value any) any {
			if value == nil {
				return fallback
			}
			if s, ok := value.(string); ok && s == "" {
				return fallback
			}
			return value
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// safeHTML marks s as trusted markup.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) // #nosec G203 -- template authors opt in explicitly
		},
	}
}

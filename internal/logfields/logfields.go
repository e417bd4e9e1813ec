package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeySrc        = "src"
	KeyDst        = "dst"
	KeyURL        = "url"
	KeyTemplate   = "template"
	KeyLanguage   = "language"
	KeyCount      = "count"
	KeyWorkers    = "workers"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Src(p string) slog.Attr          { return slog.String(KeySrc, p) }
func Dst(p string) slog.Attr          { return slog.String(KeyDst, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Language(lang string) slog.Attr  { return slog.String(KeyLanguage, lang) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

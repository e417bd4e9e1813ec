package errors

import (
	"fmt"
	"strings"
)

// Convenience functions for the build pipeline's error kinds

// MalformedDocument reports a header block that could not be decoded.
func MalformedDocument(path string, cause error) *BuildError {
	return Wrap(cause, KindMalformedDocument, SeverityFatal,
		fmt.Sprintf("malformed document header in %s", path)).
		WithContext("path", path)
}

// MissingRequiredFields reports every required metadata field absent from path, in
// the order given.
func MissingRequiredFields(path string, fields []string) *BuildError {
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, fmt.Sprintf("Invalid metadata in %s:", path))
	for _, f := range fields {
		lines = append(lines, "Missing "+f)
	}
	return New(KindMissingRequiredField, SeverityFatal, strings.Join(lines, "\n")).
		WithContext("path", path).
		WithContext("fields", append([]string(nil), fields...))
}

// UnknownLanguage reports a fenced code block language with no matching lexer.
func UnknownLanguage(lang string) *BuildError {
	return New(KindUnknownLanguage, SeverityWarning,
		fmt.Sprintf("no lexer for language %q", lang)).
		WithContext("language", lang)
}

func TemplateNotFound(name string) *BuildError {
	return New(KindTemplateNotFound, SeverityFatal,
		fmt.Sprintf("template %q not found", name)).
		WithContext("template", name)
}

func TemplateRender(name string, cause error) *BuildError {
	return Wrap(cause, KindTemplateRenderError, SeverityFatal,
		fmt.Sprintf("render template %q", name)).
		WithContext("template", name)
}

// IOFailure wraps a filesystem error with the operation and path involved.
func IOFailure(op, path string, cause error) *BuildError {
	return Wrap(cause, KindIOFailure, SeverityFatal,
		fmt.Sprintf("%s %s", op, path)).
		WithContext("operation", op).
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *BuildError {
	return New(KindConfig, SeverityFatal,
		fmt.Sprintf("invalid configuration: %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// InSource attaches the offending source file to a page build failure. BuildErrors
// keep their kind; other errors become KindInternal.
func InSource(path string, err error) error {
	if err == nil {
		return nil
	}
	if be, ok := As(err); ok {
		if _, set := be.Context["path"]; !set {
			be.WithContext("path", path)
		}
		if strings.Contains(be.Error(), path) {
			return be
		}
		return Wrap(be, be.Kind, be.Severity, fmt.Sprintf("build %s", path)).
			WithContext("path", path)
	}
	return Wrap(err, KindInternal, SeverityFatal, fmt.Sprintf("build %s", path)).
		WithContext("path", path)
}

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, KindInternal, SeverityFatal, message)
}

// Package errors provides the structured error type (BuildError) used across the
// site build pipeline for kind-based classification and CLI exit codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorKind classifies a build failure.
type ErrorKind string

const (
	// Document input errors
	KindMalformedDocument    ErrorKind = "malformed_document"
	KindMissingRequiredField ErrorKind = "missing_required_field"

	// Rendering errors
	KindUnknownLanguage     ErrorKind = "unknown_language"
	KindTemplateNotFound    ErrorKind = "template_not_found"
	KindTemplateRenderError ErrorKind = "template_render_error"

	// Environment errors
	KindIOFailure ErrorKind = "io_failure"
	KindConfig    ErrorKind = "config"
	KindInternal  ErrorKind = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the build
	SeverityWarning ErrorSeverity = "warning" // Build continues with degraded output
)

// ContextFields carries structured context for BuildError
type ContextFields map[string]any

// BuildError is a structured error with a kind, severity and context.
type BuildError struct {
	Kind     ErrorKind     `json:"kind"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuildError
func New(kind ErrorKind, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Kind:     kind,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error
func Wrap(err error, kind ErrorKind, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Kind:     kind,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the outermost BuildError in err's chain.
func As(err error) (*BuildError, bool) {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsKind reports whether any BuildError in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var be *BuildError
		if !stderrors.As(err, &be) {
			return false
		}
		if be.Kind == kind {
			return true
		}
		err = be.Cause
	}
	return false
}

// KindOf extracts the kind from an error, or returns KindInternal if err is not a BuildError
func KindOf(err error) ErrorKind {
	if be, ok := As(err); ok {
		return be.Kind
	}
	return KindInternal
}

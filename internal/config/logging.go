package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type enum[T comparable] struct {
	values   map[string]T
	fallback T
}

func (e enum[T]) normalize(raw string) T {
	if v, ok := e.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return e.fallback
}

func (e enum[T]) parse(raw string) (T, error) {
	v, ok := e.values[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		keys := make([]string, 0, len(e.values))
		for k := range e.values {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return v, fmt.Errorf("invalid value %q, valid options: %v", raw, keys)
	}
	return v, nil
}

var logLevels = enum[LogLevel]{
	values: map[string]LogLevel{
		"debug":   LogLevelDebug,
		"info":    LogLevelInfo,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	},
	fallback: LogLevelInfo,
}

var logFormats = enum[LogFormat]{
	values: map[string]LogFormat{
		"json": LogFormatJSON,
		"text": LogFormatText,
	},
	fallback: LogFormatText,
}

// NormalizeLogLevel maps raw to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevels.normalize(raw)
}

// NormalizeLogFormat maps raw to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormats.normalize(raw)
}

// SlogLevel converts the level to its slog equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

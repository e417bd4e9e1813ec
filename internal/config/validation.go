package config

import (
	"fmt"
	"path/filepath"
	"strings"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	dirs := []struct {
		field string
		value string
	}{
		{"content_dir", c.ContentDir},
		{"output_dir", c.OutputDir},
		{"template_dir", c.TemplateDir},
		{"static_dir", c.StaticDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.value) == "" {
			return berrors.ConfigInvalid(d.field, "must not be empty")
		}
	}
	if filepath.IsAbs(c.StaticDir) {
		return berrors.ConfigInvalid("static_dir", "must be relative to content_dir")
	}

	if strings.TrimSpace(c.ArticleSegment) == "" || strings.ContainsAny(c.ArticleSegment, `/\`) {
		return berrors.ConfigInvalid("article_segment", "must be a single path segment")
	}

	for _, ext := range c.MarkdownExtensions {
		if !strings.HasPrefix(ext, ".") {
			return berrors.ConfigInvalid("markdown_extensions", fmt.Sprintf("%q must start with a dot", ext))
		}
	}

	if c.Workers < 1 {
		return berrors.ConfigInvalid("workers", fmt.Sprintf("must be at least 1, got %d", c.Workers))
	}

	if c.Log.Level != "" {
		if _, err := logLevels.parse(c.Log.Level); err != nil {
			return berrors.ConfigInvalid("log.level", err.Error())
		}
	}
	if c.Log.Format != "" {
		if _, err := logFormats.parse(c.Log.Format); err != nil {
			return berrors.ConfigInvalid("log.format", err.Error())
		}
	}
	return nil
}

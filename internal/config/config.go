package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "mksite.yaml"

// Config represents the site configuration.
type Config struct {
	ContentDir  string `yaml:"content_dir"`
	OutputDir   string `yaml:"output_dir"`
	TemplateDir string `yaml:"template_dir"`
	// StaticDir is relative to ContentDir.
	StaticDir string `yaml:"static_dir"`
	SiteTitle string `yaml:"site_title"`

	ArticleSegment     string   `yaml:"article_segment"`
	DefaultTemplate    string   `yaml:"default_template"`
	ArticleTemplate    string   `yaml:"article_template"`
	BlogTemplate       string   `yaml:"blog_template"`
	BlogOutput         string   `yaml:"blog_output"`
	MarkdownExtensions []string `yaml:"markdown_extensions"`

	Highlight HighlightConfig `yaml:"highlight"`
	Workers   int             `yaml:"workers"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// HighlightConfig controls code block highlighting.
type HighlightConfig struct {
	Style       string `yaml:"style"`
	LineNumbers bool   `yaml:"line_numbers"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig controls build metrics export.
type MetricsConfig struct {
	// Textfile is the Prometheus textfile path; empty disables export.
	Textfile string `yaml:"textfile,omitempty"`
}

var envFiles = []string{".env", ".env.local"}

// Load reads configuration from path. A missing file yields the defaults.
// Environment variables from .env files are loaded first and ${VAR}
// references are expanded before decoding.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, berrors.IOFailure("read config", path, err)
	}

	if err := decode(data, cfg); err != nil {
		return nil, berrors.Wrap(err, berrors.KindConfig, berrors.SeverityFatal, fmt.Sprintf("parse config %s", path)).
			WithContext("path", path)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadEnvFiles loads the optional .env files. godotenv never overrides
// variables already present in the process environment.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

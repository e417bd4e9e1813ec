package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mksite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "nodata.science", cfg.SiteTitle)
	assert.Equal(t, "article", cfg.ArticleSegment)
	assert.Equal(t, []string{".md"}, cfg.MarkdownExtensions)
	assert.Equal(t, "github", cfg.Highlight.Style)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad_EmptyFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
content_dir: src
site_title: Example
markdown_extensions: [".md", ".markdown"]
highlight:
  style: monokai
  line_numbers: true
workers: 4
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.ContentDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "Example", cfg.SiteTitle)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.MarkdownExtensions)
	assert.Equal(t, "monokai", cfg.Highlight.Style)
	assert.True(t, cfg.Highlight.LineNumbers)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(cfg.Log.Level))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(cfg.Log.Format))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("MKSITE_TEST_OUT", "public")
	cfg, err := Load(writeConfig(t, "output_dir: ${MKSITE_TEST_OUT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.OutputDir)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MKSITE_TEST_TITLE=from-file\nMKSITE_TEST_DIR=dotenv\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mksite.yaml"),
		[]byte("site_title: ${MKSITE_TEST_TITLE}\ntemplate_dir: ${MKSITE_TEST_DIR}\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("MKSITE_TEST_TITLE", "from-env")
	t.Setenv("MKSITE_TEST_DIR", "")
	require.NoError(t, os.Unsetenv("MKSITE_TEST_DIR"))

	cfg, err := Load("mksite.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SiteTitle)
	assert.Equal(t, "dotenv", cfg.TemplateDir)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "contnet_dir: typo\n"))
	require.Error(t, err)
	assert.True(t, berrors.IsKind(err, berrors.KindConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"blank output", func(c *Config) { c.OutputDir = "  " }, "output_dir"},
		{"absolute static", func(c *Config) { c.StaticDir = "/abs" }, "static_dir"},
		{"nested segment", func(c *Config) { c.ArticleSegment = "a/b" }, "article_segment"},
		{"extension without dot", func(c *Config) { c.MarkdownExtensions = []string{"md"} }, "markdown_extensions"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			be, ok := berrors.As(err)
			require.True(t, ok)
			assert.Equal(t, berrors.KindConfig, be.Kind)
			assert.Equal(t, tt.field, be.Context["field"])
		})
	}

	require.NoError(t, Default().Validate())
}

func TestLogLevelNormalization(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
	assert.Equal(t, slog.LevelDebug, LogLevelDebug.SlogLevel())
	assert.Equal(t, slog.LevelError, LogLevelError.SlogLevel())
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.SiteTitle = "Round Trip"
	data, err := Marshal(cfg)
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

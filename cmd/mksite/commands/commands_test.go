package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mksite/internal/config"
	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/frontmatter"
)

func testGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Stdout: &out,
		Stderr: &bytes.Buffer{},
	}, &out
}

func TestParseFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"-c", "site.yaml", "build", "--output", "public", "-j", "4"})
	require.NoError(t, err)
	assert.Equal(t, "build", kctx.Command())
	assert.Equal(t, "public", filepath.Base(cli.Build.Output))
	assert.Equal(t, "site.yaml", filepath.Base(cli.Config))
	assert.Equal(t, 4, cli.Build.Workers)

	kctx, err = parser.Parse([]string{"init", "--force", "mysite"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(kctx.Command(), "init"), kctx.Command())
	assert.True(t, cli.Init.Force)
	assert.Equal(t, "mysite", filepath.Base(cli.Init.Dir))
}

func TestScaffold_BuildsCleanly(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	written, err := Scaffold(dir, false, now)
	require.NoError(t, err)
	assert.Contains(t, written, filepath.Join(dir, "mksite.yaml"))
	assert.Contains(t, written, filepath.Join(dir, "templates", "_base.html"))
	assert.Contains(t, written, filepath.Join(dir, "content", "static", "highlight.css"))

	hello, err := os.ReadFile(filepath.Join(dir, "content", "article", "hello-world.md"))
	require.NoError(t, err)
	doc, err := frontmatter.Parse(hello)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", doc.Metadata["created_at"])
	assert.Equal(t, "Hello, world", doc.Metadata["title"])

	index, err := os.ReadFile(filepath.Join(dir, "content", "index.md"))
	require.NoError(t, err)
	indexDoc, err := frontmatter.Parse(index)
	require.NoError(t, err)
	assert.Equal(t, frontmatter.FormatTOML, indexDoc.Format)
	assert.Equal(t, "home", indexDoc.Metadata["_nav_page"])

	t.Chdir(dir)
	g, out := testGlobal()
	root := &CLI{Config: "mksite.yaml"}
	require.NoError(t, (&BuildCmd{}).Run(g, root))
	assert.Contains(t, out.String(), "pages=2 articles=1")

	blog, err := os.ReadFile(filepath.Join("out", "blog.html"))
	require.NoError(t, err)
	assert.Contains(t, string(blog), `<a href="/article/hello-world.html">Hello, world</a>`)
	assert.Contains(t, string(blog), `class="active">Blog</a>`)

	article, err := os.ReadFile(filepath.Join("out", "article", "hello-world.html"))
	require.NoError(t, err)
	assert.Contains(t, string(article), `<section class="admonition tip">`)
	assert.Contains(t, string(article), `<div class="highlight">`)

	home, err := os.ReadFile(filepath.Join("out", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="/index.html" class="active"`)

	_, err = os.Stat(filepath.Join("out", "static", "style.css"))
	require.NoError(t, err)
}

func TestScaffold_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "templates", "page.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o750))
	require.NoError(t, os.WriteFile(existing, []byte("mine"), 0o600))

	_, err := Scaffold(dir, false, time.Now())
	require.Error(t, err)
	assert.Equal(t, berrors.KindConfig, berrors.KindOf(err))
	assert.Contains(t, err.Error(), "--force")

	_, statErr := os.Stat(filepath.Join(dir, "mksite.yaml"))
	assert.True(t, os.IsNotExist(statErr), "nothing may be written when refusing")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))

	_, err = Scaffold(dir, true, time.Now())
	require.NoError(t, err)
	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotEqual(t, "mine", string(data))
}

func TestBuildCmd_OverridesAndValidation(t *testing.T) {
	dir := t.TempDir()
	_, err := Scaffold(dir, false, time.Now())
	require.NoError(t, err)

	g, _ := testGlobal()
	root := &CLI{Config: filepath.Join(dir, "mksite.yaml")}
	cmd := &BuildCmd{
		Content:   filepath.Join(dir, "content"),
		Templates: filepath.Join(dir, "templates"),
		Output:    filepath.Join(dir, "public"),
		Workers:   3,
	}
	require.NoError(t, cmd.Run(g, root))
	_, err = os.Stat(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)

	cmd.Workers = -1
	err = cmd.Run(g, root)
	require.Error(t, err)
	assert.Equal(t, berrors.KindConfig, berrors.KindOf(err))
}

func TestRunBuild_WritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	_, err := Scaffold(dir, false, time.Now())
	require.NoError(t, err)

	cfg := *config.Default()
	cfg.ContentDir = filepath.Join(dir, "content")
	cfg.TemplateDir = filepath.Join(dir, "templates")
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Metrics.Textfile = filepath.Join(dir, "metrics", "mksite.prom")

	g, _ := testGlobal()
	require.NoError(t, RunBuild(context.Background(), g, cfg, g.Logger))

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mksite_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), `mksite_pages_rendered_total{kind="article"} 1`)
}

func TestResolveLogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	assert.Equal(t, slog.LevelInfo, resolveLogLevel(false, ""))
	assert.Equal(t, slog.LevelWarn, resolveLogLevel(false, "warn"))
	assert.Equal(t, slog.LevelDebug, resolveLogLevel(true, "error"))

	t.Setenv(LogLevelEnv, "error")
	assert.Equal(t, slog.LevelError, resolveLogLevel(false, "debug"))
	assert.Equal(t, slog.LevelDebug, resolveLogLevel(true, ""))
}

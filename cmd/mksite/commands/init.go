package commands

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/mksite/internal/config"
	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/frontmatter"
	"git.home.luguber.info/inful/mksite/internal/markdown"
)

//go:embed all:scaffold
var scaffoldFS embed.FS

const indexBody = `Welcome to your new site. Pages live under ` + "`content/`" + ` and are
rendered with the templates in ` + "`templates/`" + `.

Read the [blog](blog.html).
`

const helloBody = `This is the first article. Articles live under ` + "`content/article/`" + `
and must define a title, a creation date and an author.

.. tip:: Code blocks

   Fenced code blocks tagged with a language are highlighted.

` + "```go" + `
fmt.Println("hello, world")
` + "```" + `
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" default:"." help:"Directory to scaffold" type:"path"`
	Force bool   `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	written, err := Scaffold(i.Dir, i.Force, time.Now())
	if err != nil {
		return err
	}
	for _, p := range written {
		_, _ = fmt.Fprintf(g.Stdout, "created %s\n", p)
	}
	_, _ = fmt.Fprintf(g.Stdout, "Site initialized in %s; run 'mksite build' there\n", i.Dir)
	return nil
}

// Scaffold writes a minimal buildable site into dir and returns the paths
// written. Existing files are only replaced when force is set, and nothing
// is written if any would be refused.
func Scaffold(dir string, force bool, now time.Time) ([]string, error) {
	files, err := scaffoldFiles(now)
	if err != nil {
		return nil, err
	}

	if !force {
		for _, f := range files {
			target := filepath.Join(dir, filepath.FromSlash(f.path))
			if _, err := os.Stat(target); err == nil {
				return nil, berrors.New(berrors.KindConfig, berrors.SeverityFatal,
					fmt.Sprintf("%s already exists (use --force to overwrite)", target)).
					WithContext("path", target)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, berrors.IOFailure("stat", target, err)
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		target := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return written, berrors.IOFailure("create directory", filepath.Dir(target), err)
		}
		// #nosec G306 -- scaffolded site sources are not secret.
		if err := os.WriteFile(target, f.data, 0o644); err != nil {
			return written, berrors.IOFailure("write", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}

type scaffoldFile struct {
	path string
	data []byte
}

func scaffoldFiles(now time.Time) ([]scaffoldFile, error) {
	cfg := config.Default()
	cfgData, err := config.Marshal(cfg)
	if err != nil {
		return nil, berrors.InternalError("render scaffold config", err)
	}
	files := []scaffoldFile{{path: config.DefaultPath, data: cfgData}}

	err = fs.WalkDir(scaffoldFS, "scaffold", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		data, err := scaffoldFS.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, scaffoldFile{path: strings.TrimPrefix(p, "scaffold/"), data: data})
		return nil
	})
	if err != nil {
		return nil, berrors.InternalError("read scaffold assets", err)
	}

	var css bytes.Buffer
	if err := markdown.WriteHighlightCSS(&css, cfg.Highlight.Style); err != nil {
		return nil, berrors.InternalError("render highlight css", err)
	}
	files = append(files, scaffoldFile{
		path: path.Join(cfg.ContentDir, cfg.StaticDir, "highlight.css"),
		data: css.Bytes(),
	})

	// The home page uses a TOML header to show both header styles.
	index, err := frontmatter.Compose(frontmatter.FormatTOML, map[string]any{
		"title":     "Home",
		"_nav_page": "home",
	}, []byte(indexBody))
	if err != nil {
		return nil, berrors.InternalError("render scaffold index", err)
	}
	hello, err := frontmatter.Compose(frontmatter.FormatYAML, map[string]any{
		"title":      "Hello, world",
		"created_at": now.Format(time.DateOnly),
		"author":     "Site Author",
	}, []byte(helloBody))
	if err != nil {
		return nil, berrors.InternalError("render scaffold article", err)
	}
	files = append(files,
		scaffoldFile{path: path.Join(cfg.ContentDir, "index.md"), data: index},
		scaffoldFile{path: path.Join(cfg.ContentDir, cfg.ArticleSegment, "hello-world.md"), data: hello},
	)
	return files, nil
}

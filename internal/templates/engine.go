// Package templates resolves named page templates from a template directory and
// renders them with html/template.
//
// Files whose base name starts with "_" (for example `_base.html`) and files under
// `partials/` are layouts: they are parsed into every page template, so a page
// can inherit from a layout with `{{template "_base.html" .}}` and fill its
// `{{block}}`s with `{{define}}`.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
)

const partialsDir = "partials"

// Engine renders templates by name. It is safe for concurrent use.
type Engine struct {
	root    string
	layouts *template.Template

	mu    sync.Mutex
	cache map[string]*template.Template
}

// New loads the layouts under root.
func New(root string) (*Engine, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, berrors.IOFailure("stat template directory", root, err)
	}
	if !info.IsDir() {
		return nil, berrors.ConfigInvalid("template_dir", root+" is not a directory")
	}

	layouts := template.New("").Funcs(funcMap()).Option("missingkey=error")
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !isLayout(name) {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return berrors.IOFailure("read template", p, err)
		}
		if _, err := layouts.New(name).Parse(string(content)); err != nil {
			return berrors.TemplateRender(name, err)
		}
		return nil
	})
	if err != nil {
		if _, ok := berrors.As(err); ok {
			return nil, err
		}
		return nil, berrors.IOFailure("walk template directory", root, err)
	}

	return &Engine{
		root:    root,
		layouts: layouts,
		cache:   make(map[string]*template.Template),
	}, nil
}

func isLayout(name string) bool {
	return strings.HasPrefix(path.Base(name), "_") || strings.HasPrefix(name, partialsDir+"/")
}

// Render executes the template called name with data.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	tpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", berrors.TemplateRender(name, err)
	}
	return buf.String(), nil
}

// Has reports whether name resolves to a template file.
func (e *Engine) Has(name string) bool {
	_, err := e.resolve(name)
	return err == nil
}

func (e *Engine) resolve(name string) (string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if name == "" || clean == "." || path.IsAbs(clean) || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", berrors.TemplateNotFound(name)
	}
	full := filepath.Join(e.root, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", berrors.TemplateNotFound(name)
	}
	return full, nil
}

func (e *Engine) lookup(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.cache[name]; ok {
		return tpl, nil
	}

	full, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, berrors.IOFailure("read template", full, err)
	}

	set, err := e.layouts.Clone()
	if err != nil {
		return nil, berrors.InternalError(fmt.Sprintf("clone layouts for %s", name), err)
	}
	// Clone drops exec options.
	set.Option("missingkey=error")
	tpl, err := set.New(name).Parse(string(content))
	if err != nil {
		return nil, berrors.TemplateRender(name, err)
	}

	e.cache[name] = tpl
	return tpl, nil
}

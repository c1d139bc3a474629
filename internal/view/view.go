// Package view renders the HTML pages. Every page template is parsed together
// with the shared layout once, at first use, and cached.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
)

//go:embed templates/*.html
var files embed.FS

var cache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

func lookup(name string) (*template.Template, error) {
	cache.RLock()
	tpl, ok := cache.m[name]
	cache.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := template.ParseFS(files, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	cache.Lock()
	cache.m[name] = tpl
	cache.Unlock()
	return tpl, nil
}

// Render writes the named page wrapped in the layout. The page is rendered to
// a buffer first so a template error never leaves a half-written response.
func Render(w http.ResponseWriter, name string, data any) error {
	tpl, err := lookup(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

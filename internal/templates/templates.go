// Package templates holds the HTML pages rendered by the web UI.
//
// Every page file defines a template named by its path relative to this
// directory (for example "admin/dataset.html"); shared fragments live in
// layout.html. The set is embedded in the binary and can be replaced by a
// directory with the same layout on disk.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
)

//go:embed *.html admin/*.html annotation/*.html demo/*.html auth/*.html
var files embed.FS

var patterns = []string{
	"*.html",
	"admin/*.html",
	"annotation/*.html",
	"demo/*.html",
	"auth/*.html",
}

// FuncMap returns the helper functions available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"subtract": func(a, b int) int {
			return a - b
		},
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "…"
		},
		"lower": strings.ToLower,
	}
}

// Load parses the embedded templates, or the ones under overrideDir when it is set.
func Load(overrideDir string) (*template.Template, error) {
	if overrideDir == "" {
		return Parse(files)
	}
	if _, err := os.Stat(overrideDir); err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	return Parse(os.DirFS(overrideDir))
}

// Parse builds the template set from fsys.
func Parse(fsys fs.FS) (*template.Template, error) {
	tmpl := template.New("").Funcs(FuncMap())

	parsed := 0
	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("bad template pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFS(fsys, matches...); err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}
		parsed += len(matches)
	}

	if parsed == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	return tmpl, nil
}

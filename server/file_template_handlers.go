package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*
var templateFiles embed.FS

const baseTemplate = "base.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

// pageTemplates holds every embedded template parsed once at startup.
type pageTemplates struct {
	byName map[string]*template.Template
}

func loadPageTemplates() (*pageTemplates, error) {
	names, err := fs.Glob(TemplateFilesFS(), "*.html")
	if err != nil {
		return nil, err
	}
	pt := &pageTemplates{byName: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pt.byName[strings.TrimSuffix(name, ".html")] = tmpl
	}
	if _, ok := pt.byName[strings.TrimSuffix(baseTemplate, ".html")]; !ok {
		return nil, fmt.Errorf("missing %s", baseTemplate)
	}
	return pt, nil
}

// execute renders the named template into a fragment that can be nested
// inside another template.
func (pt *pageTemplates) execute(name string, data any) (template.HTML, error) {
	tmpl, ok := pt.byName[name]
	if !ok {
		return "", fmt.Errorf("no template named %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

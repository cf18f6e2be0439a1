package roles

import (
	_ "embed"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRegistryYAML []byte

// NavEntry is a single item of a role's navigation menu. It is presentation
// only; access is decided by the route table.
type NavEntry struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// IsActive reports whether the entry should be highlighted for the current path.
// The role root entry also covers the dashboard page.
func (e NavEntry) IsActive(current string) bool {
	current = strings.TrimSuffix(current, "/")
	if strings.Count(e.Path, "/") == 1 {
		return current == e.Path || current == e.Path+"/dashboard"
	}
	return current == e.Path || strings.HasPrefix(current, e.Path+"/")
}

// DisplayMeta is how a role presents itself on the welcome and login pages.
type DisplayMeta struct {
	Label       string `yaml:"label"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tagline     string `yaml:"tagline"`
	Color       string `yaml:"color"`
	AccentColor string `yaml:"accent_color"`
}

type roleDocument struct {
	Display  DisplayMeta `yaml:"display"`
	Pages    []string    `yaml:"pages"`
	Nav      []NavEntry  `yaml:"nav"`
	Landing  string      `yaml:"landing"`
	Greeting string      `yaml:"greeting"`
}

type registryDocument struct {
	Roles map[string]roleDocument `yaml:"roles"`
}

// Registry is the static role lookup, populated once at startup.
type Registry struct {
	roles map[ID]roleDocument
}

// DefaultRegistry loads the registry embedded in the binary.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultRegistryYAML)
}

// LoadRegistry parses a YAML registry document. Every role of the closed set
// must be described exactly once and nothing else may be.
func LoadRegistry(data []byte) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse role registry: %w", err)
	}

	r := &Registry{roles: make(map[ID]roleDocument, len(doc.Roles))}
	for name, rd := range doc.Roles {
		id, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("role registry: %w", err)
		}
		if rd.Landing == "" {
			rd.Landing = "dashboard"
		}
		if !containsPage(rd.Pages, rd.Landing) {
			return nil, fmt.Errorf("role registry: %s landing page %q is not one of its pages", id, rd.Landing)
		}
		for _, e := range rd.Nav {
			if e.Path != "/"+name && !strings.HasPrefix(e.Path, "/"+name+"/") {
				return nil, fmt.Errorf("role registry: %s nav entry %q leaves the role tree", id, e.Path)
			}
		}
		r.roles[id] = rd
	}
	for _, id := range All() {
		if _, ok := r.roles[id]; !ok {
			return nil, fmt.Errorf("role registry: %w: %s is not described", apperrors.ErrUnknownRole, id)
		}
	}
	return r, nil
}

func (r *Registry) lookup(id ID) (roleDocument, error) {
	rd, ok := r.roles[id]
	if !ok {
		return roleDocument{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, id)
	}
	return rd, nil
}

// NavEntries returns a copy of the role's ordered navigation menu.
func (r *Registry) NavEntries(id ID) ([]NavEntry, error) {
	rd, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]NavEntry(nil), rd.Nav...), nil
}

func (r *Registry) DisplayMeta(id ID) (DisplayMeta, error) {
	rd, err := r.lookup(id)
	if err != nil {
		return DisplayMeta{}, err
	}
	return rd.Display, nil
}

// Pages returns the sub-page segments mounted under /{role}.
func (r *Registry) Pages(id ID) ([]string, error) {
	rd, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), rd.Pages...), nil
}

// LandingPage is the child segment used when /{role} is requested exactly.
func (r *Registry) LandingPage(id ID) (string, error) {
	rd, err := r.lookup(id)
	if err != nil {
		return "", err
	}
	return rd.Landing, nil
}

func (r *Registry) Greeting(id ID) string {
	rd, err := r.lookup(id)
	if err != nil {
		return ""
	}
	return rd.Greeting
}

func containsPage(pages []string, page string) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}

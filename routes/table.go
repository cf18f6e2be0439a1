package routes

import (
	"fmt"
	"path"
	"strings"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
)

// LandingPath is the public entry point every redirect falls back to.
const LandingPath = "/"

// Table is a validated, immutable route tree.
type Table struct {
	routes []*Spec
}

// NewTable validates specs and builds a Table. Validation failures wrap
// errors.ErrInvalidRouteSpec.
func NewTable(specs ...*Spec) (*Table, error) {
	if err := validateSiblings(specs, "", true); err != nil {
		return nil, err
	}

	var landing *Spec
	for _, s := range specs {
		if len(segments(s.Pattern)) == 0 {
			landing = s
		}
	}
	if landing == nil {
		return nil, fmt.Errorf("%w: no route for landing path %q", apperrors.ErrInvalidRouteSpec, LandingPath)
	}
	if !landing.Access.IsPublic() {
		return nil, fmt.Errorf("%w: landing path %q must be public", apperrors.ErrInvalidRouteSpec, LandingPath)
	}

	return &Table{routes: specs}, nil
}

func validateSiblings(specs []*Spec, parent string, topLevel bool) error {
	seen := make(map[string]string, len(specs))
	for _, s := range specs {
		if s == nil {
			return fmt.Errorf("%w: nil route under %q", apperrors.ErrInvalidRouteSpec, parent)
		}
		full := joinPattern(parent, s.Pattern)
		if topLevel != strings.HasPrefix(s.Pattern, "/") {
			if topLevel {
				return fmt.Errorf("%w: top-level pattern %q must be absolute", apperrors.ErrInvalidRouteSpec, s.Pattern)
			}
			return fmt.Errorf("%w: child pattern %q under %q must be relative", apperrors.ErrInvalidRouteSpec, s.Pattern, parent)
		}
		if !s.Access.IsPublic() && s.Access.Roles().Empty() {
			return fmt.Errorf("%w: %q is protected but allows no role", apperrors.ErrInvalidRouteSpec, full)
		}

		shape, err := patternShape(s.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", apperrors.ErrInvalidRouteSpec, full, err)
		}
		if other, dup := seen[shape]; dup {
			return fmt.Errorf("%w: %q duplicates sibling %q", apperrors.ErrInvalidRouteSpec, s.Pattern, other)
		}
		seen[shape] = s.Pattern

		if s.Index != "" && !hasChild(s, s.Index) {
			return fmt.Errorf("%w: %q index %q is not a child", apperrors.ErrInvalidRouteSpec, full, s.Index)
		}
		if err := validateSiblings(s.Children, full, false); err != nil {
			return err
		}
	}
	return nil
}

// patternShape normalises parameter names so "{a}" and "{b}" collide.
func patternShape(pattern string) (string, error) {
	segs := segments(pattern)
	for i, seg := range segs {
		if strings.HasPrefix(seg, "{") || strings.HasSuffix(seg, "}") {
			name, ok := paramName(seg)
			if !ok || name == "" {
				return "", fmt.Errorf("malformed parameter %q", seg)
			}
			segs[i] = "{}"
		}
	}
	return strings.Join(segs, "/"), nil
}

func hasChild(s *Spec, pattern string) bool {
	for _, c := range s.Children {
		if c != nil && c.Pattern == pattern {
			return true
		}
	}
	return false
}

// Walk visits every spec depth-first with its absolute pattern.
func (t *Table) Walk(fn func(pattern string, spec *Spec, depth int)) {
	var walk func(specs []*Spec, parent string, depth int)
	walk = func(specs []*Spec, parent string, depth int) {
		for _, s := range specs {
			full := joinPattern(parent, s.Pattern)
			fn(full, s, depth)
			walk(s.Children, full, depth+1)
		}
	}
	walk(t.routes, "", 0)
}

func segments(p string) []string {
	parts := strings.Split(p, "/")
	segs := parts[:0]
	for _, part := range parts {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

func paramName(seg string) (string, bool) {
	if len(seg) < 2 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	return seg[1 : len(seg)-1], true
}

func joinPattern(parent, child string) string {
	if parent == "" {
		return child
	}
	return path.Join(parent, child)
}

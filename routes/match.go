package routes

import (
	"path"
)

// Match is the result of resolving a URL path against the table.
type Match struct {
	// Chain holds the matched specs from the top-level route down to the leaf.
	Chain  []*Spec
	Params map[string]string
	// Path is the cleaned request path.
	Path string
	// IndexPath is set when the leaf was requested exactly and names an index child.
	IndexPath string
}

// Leaf is the innermost matched spec.
func (m Match) Leaf() *Spec {
	if len(m.Chain) == 0 {
		return nil
	}
	return m.Chain[len(m.Chain)-1]
}

// Pattern is the absolute pattern of the leaf, e.g. "/buyer/cart".
func (m Match) Pattern() string {
	pattern := ""
	for _, s := range m.Chain {
		pattern = joinPattern(pattern, s.Pattern)
	}
	return pattern
}

// Param returns a captured path parameter.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Match resolves p with a single recursive walk. Siblings are tried in
// declaration order and a leaf must consume the whole path.
func (t *Table) Match(p string) (Match, bool) {
	clean := path.Clean("/" + p)
	segs := segments(clean)

	chain, params, ok := matchAmong(t.routes, segs)
	if !ok {
		return Match{Path: clean}, false
	}

	m := Match{Chain: chain, Params: params, Path: clean}
	if leaf := m.Leaf(); leaf.Index != "" {
		m.IndexPath = path.Join(clean, leaf.Index)
	}
	return m, true
}

func matchAmong(specs []*Spec, segs []string) ([]*Spec, map[string]string, bool) {
	for _, s := range specs {
		n, captured, ok := consume(s.Pattern, segs)
		if !ok {
			continue
		}
		rest := segs[n:]
		if len(rest) == 0 {
			return []*Spec{s}, captured, true
		}
		tail, tailParams, ok := matchAmong(s.Children, rest)
		if !ok {
			continue
		}
		for k, v := range tailParams {
			captured[k] = v
		}
		return append([]*Spec{s}, tail...), captured, true
	}
	return nil, nil, false
}

// consume matches pattern against the head of segs and reports how many
// segments it used.
func consume(pattern string, segs []string) (int, map[string]string, bool) {
	want := segments(pattern)
	if len(want) > len(segs) {
		return 0, nil, false
	}
	captured := make(map[string]string)
	for i, w := range want {
		if name, ok := paramName(w); ok {
			captured[name] = segs[i]
			continue
		}
		if w != segs[i] {
			return 0, nil, false
		}
	}
	return len(want), captured, true
}

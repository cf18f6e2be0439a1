package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jrsteele09/bunai/auth"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/routes"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/rs/zerolog/log"
)

// view is everything a page, layout or base template may read.
type view struct {
	AppName string
	Title   string
	Path    string
	Session sessions.Session
	Role    roles.ID
	Meta    roles.DisplayMeta
	Content template.HTML

	// welcome
	RoleCards []roleCard

	// login and signup
	Error       string
	Email       string
	Name        string
	Fields      []signupField
	FieldErrors auth.FieldErrors

	// shell and role pages
	Nav      []navItem
	Greeting string

	// admin users
	Accounts []accountRow
}

type roleCard struct {
	ID         roles.ID
	Meta       roles.DisplayMeta
	LoginPath  string
	SignupPath string
}

type navItem struct {
	Label  string
	Path   string
	Active bool
}

type accountRow struct {
	Name   string
	Email  string
	Role   string
	Joined string
}

type signupField struct {
	auth.Field
	Value string
}

// pageRequest is the input to a page builder: the admitted match plus the
// request it came from.
type pageRequest struct {
	r       *http.Request
	match   routes.Match
	session sessions.Session
}

// renderMatch renders the leaf page, wraps it in every ancestor layout from
// the innermost outwards and finally in the base document.
func (s *Server) renderMatch(w http.ResponseWriter, status int, pr pageRequest, v view) {
	leaf := pr.match.Leaf()
	if leaf == nil || leaf.Page == "" {
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		return
	}

	content, err := s.templates.execute(leaf.Page, v)
	if err != nil {
		s.renderFailure(w, pr, err)
		return
	}

	chain := pr.match.Chain
	for i := len(chain) - 2; i >= 0; i-- {
		if chain[i].Layout == "" {
			continue
		}
		v.Content = content
		content, err = s.templates.execute(chain[i].Layout, v)
		if err != nil {
			s.renderFailure(w, pr, err)
			return
		}
	}

	v.Content = content
	doc, err := s.templates.execute(strings.TrimSuffix(baseTemplate, ".html"), v)
	if err != nil {
		s.renderFailure(w, pr, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(doc))
}

func (s *Server) renderFailure(w http.ResponseWriter, pr pageRequest, err error) {
	log.Err(err).Str("path", pr.match.Path).Msg("Failed to render page")
	http.Error(w, "Failed to render page", http.StatusInternalServerError)
}

// buildView fills the view for the admitted leaf page.
func (s *Server) buildView(pr pageRequest) (view, error) {
	v := view{
		AppName: s.config.GetAppName(),
		Path:    pr.match.Path,
		Session: pr.session,
		Error:   pr.r.URL.Query().Get("error"),
	}

	leaf := pr.match.Leaf()
	switch leaf.Page {
	case PageWelcome:
		v.Title = "Welcome"
		for _, id := range roles.All() {
			meta, err := s.registry.DisplayMeta(id)
			if err != nil {
				return view{}, err
			}
			v.RoleCards = append(v.RoleCards, roleCard{ID: id, Meta: meta, LoginPath: loginPath(id), SignupPath: signupPath(id)})
		}
		return v, nil

	case PageLogin, PageSignup:
		role, err := roles.Parse(pr.match.Param("role"))
		if err != nil {
			return view{}, err
		}
		if err := s.withRole(&v, role); err != nil {
			return view{}, err
		}
		if leaf.Page == PageLogin {
			v.Title = v.Meta.Title
			v.Email = pr.r.URL.Query().Get("email")
			return v, nil
		}
		v.Title = v.Meta.Label + " Sign Up"
		for _, f := range auth.SignupFields(role) {
			v.Fields = append(v.Fields, signupField{Field: f})
		}
		return v, nil
	}

	// Pages inside a role subtree take the role from the top of the chain.
	role, err := roles.Parse(strings.TrimPrefix(pr.match.Chain[0].Pattern, "/"))
	if err != nil {
		return view{}, fmt.Errorf("page %q outside a role tree: %w", leaf.Page, err)
	}
	if err := s.withRole(&v, role); err != nil {
		return view{}, err
	}
	entries, err := s.registry.NavEntries(role)
	if err != nil {
		return view{}, err
	}
	for _, e := range entries {
		item := navItem{Label: e.Label, Path: e.Path, Active: e.IsActive(pr.match.Path)}
		v.Nav = append(v.Nav, item)
		if e.Path == pr.match.Path {
			v.Title = e.Label
		}
	}
	v.Greeting = s.registry.Greeting(role)
	if v.Title == "" {
		v.Title = titleCase(leaf.Pattern)
	}
	if leaf.Page == PageUsers {
		if v.Accounts, err = s.accountRows(); err != nil {
			return view{}, err
		}
	}
	return v, nil
}

// accountRows lists every account grouped by role.
func (s *Server) accountRows() ([]accountRow, error) {
	var rows []accountRow
	for _, id := range roles.All() {
		list, err := s.users.List(id)
		if err != nil {
			return nil, fmt.Errorf("list %s accounts: %w", id, err)
		}
		label := id.String()
		if meta, err := s.registry.DisplayMeta(id); err == nil {
			label = meta.Label
		}
		for _, u := range list {
			rows = append(rows, accountRow{
				Name:   u.Name,
				Email:  u.Email,
				Role:   label,
				Joined: u.DateJoined.Format("2 Jan 2006"),
			})
		}
	}
	return rows, nil
}

func (s *Server) withRole(v *view, role roles.ID) error {
	meta, err := s.registry.DisplayMeta(role)
	if err != nil {
		return err
	}
	v.Role = role
	v.Meta = meta
	return nil
}

func loginPath(role roles.ID) string {
	return "/login/" + role.String()
}

func signupPath(role roles.ID) string {
	return "/signup/" + role.String()
}

func titleCase(segment string) string {
	r, size := utf8.DecodeRuneInString(segment)
	if r == utf8.RuneError {
		return segment
	}
	return string(unicode.ToUpper(r)) + segment[size:]
}

// Package server is the HTTP front end: it resolves every browser request
// through the route table and the access gate and renders the admitted pages.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/bunai/auth"
	"github.com/jrsteele09/bunai/internal/config"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/routes"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/jrsteele09/bunai/token"
	"github.com/jrsteele09/bunai/users"
	"github.com/rs/zerolog/log"
)

// Dependencies are the long lived collaborators the server is built from.
type Dependencies struct {
	Store    *sessions.Store
	Users    users.Repo
	Registry *roles.Registry
}

type Server struct {
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	store     *sessions.Store
	users     users.Repo
	registry  *roles.Registry
	auth      *auth.Service
	composer  *Composer
	tokens    *token.SessionTokens
	metrics   *Metrics
	templates *pageTemplates

	untrack func()
}

func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil || deps.Users == nil || deps.Registry == nil {
		return nil, errors.New("[Server New] store, users and registry are required")
	}

	authService, err := auth.NewService(deps.Store, deps.Users)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}

	signer, err := token.NewHMACSigner(cfg.GetSessionSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session signer: %w", err)
	}

	table, err := BuildTable(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to build route table: %w", err)
	}

	templates, err := loadPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to load templates: %w", err)
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		store:     deps.Store,
		users:     deps.Users,
		registry:  deps.Registry,
		auth:      authService,
		composer:  NewComposer(table),
		tokens:    token.NewSessionTokens(signer, cfg.GetAppName()),
		metrics:   NewMetrics(),
		templates: templates,
	}
	s.composer.OnOutcome(s.metrics.ObserveOutcome)
	s.untrack = s.metrics.TrackSessions(deps.Store)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Close detaches the server from the session store.
func (s *Server) Close() {
	if s.untrack != nil {
		s.untrack()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// logRoutes prints the mux patterns and the page tree in DEV.
func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
	}
	s.composer.Table().Walk(func(pattern string, spec *routes.Spec, depth int) {
		log.Info().Msgf("%s%s %s", strings.Repeat("  ", depth+1), pattern, Gray+spec.Access.String()+ResetColor)
	})
}

// getScheme determines the scheme (http/https) the client used.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

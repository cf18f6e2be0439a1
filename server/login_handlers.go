package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/bunai/auth"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/routes"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/rs/zerolog/log"
)

// LoginSubmissionHandler signs the browser in as the role named in the URL
// (POST /login/{role}). Every sign in starts a new session ID.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roles.Parse(r.PathValue("role"))
		if err != nil {
			redirectSuccess(w, r, routes.LandingPath)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		creds := auth.Credentials{
			Identifier: r.FormValue("email"),
			Secret:     r.FormValue("password"),
		}

		sessionID := sessions.NewID()
		if _, err := s.auth.Submit(r.Context(), sessionID, role, creds); err != nil {
			if errors.Is(err, apperrors.ErrLoginValidation) {
				query := url.Values{"error": {"Please enter both email and password"}}
				if email := emailFromForm(r); email != "" {
					query.Set("email", email)
				}
				redirectSuccess(w, r, loginPath(role)+"?"+query.Encode())
				return
			}
			log.Err(err).Str("role", role.String()).Msg("Failed to sign in")
			http.Error(w, "Failed to sign in", http.StatusInternalServerError)
			return
		}

		if err := s.setSessionCookie(w, r, sessionID); err != nil {
			log.Err(err).Msg("Failed to issue session cookie")
			if err := s.auth.Logout(r.Context(), sessionID); err != nil {
				log.Warn().Err(err).Msg("Failed to discard unissued session")
			}
			http.Error(w, "Failed to sign in", http.StatusInternalServerError)
			return
		}

		// The previous session is retired only once the new cookie is set.
		if previous := sessionIDFromContext(r.Context()); previous != "" {
			if err := s.auth.Logout(r.Context(), previous); err != nil {
				log.Warn().Err(err).Msg("Failed to retire previous session")
			}
		}
		redirectSuccess(w, r, auth.LandingPath(role))
	}
}

// LogoutHandler signs the browser out and returns it to the landing page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID := sessionIDFromContext(r.Context()); sessionID != "" {
			if err := s.auth.Logout(r.Context(), sessionID); err != nil {
				log.Err(err).Msg("Failed to sign out")
				http.Error(w, "Failed to sign out", http.StatusInternalServerError)
				return
			}
		}
		s.clearSessionCookie(w, r)
		redirectSuccess(w, r, routes.LandingPath)
	}
}

// emailFromForm keeps what the user typed when a form is shown again.
func emailFromForm(r *http.Request) string {
	return strings.TrimSpace(r.FormValue("email"))
}

package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/bunai/sessions"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySessionID stores the verified session ID, empty for new visitors
	ContextKeySessionID ContextKey = "session_id"
	// ContextKeySession stores the session snapshot read for this request
	ContextKeySession ContextKey = "session"
)

// SessionMiddleware resolves the signed session cookie into a session
// snapshot. A missing, tampered or expired cookie reads as anonymous.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
			id, err := s.tokens.SessionID(cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("ignoring session cookie")
			} else {
				sessionID = id
			}
		}

		session := s.store.Get(r.Context(), sessionID)
		ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
		ctx = context.WithValue(ctx, ContextKeySession, session)
		next(w, r.WithContext(ctx))
	}
}

func sessionFromContext(ctx context.Context) sessions.Session {
	if session, ok := ctx.Value(ContextKeySession).(sessions.Session); ok {
		return session
	}
	return sessions.Anonymous()
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeySessionID).(string)
	return id
}

// setSessionCookie signs sessionID and hands it to the browser.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	ttl := s.store.TTL()
	signed, err := s.tokens.Issue(sessionID, ttl)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

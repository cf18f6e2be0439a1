package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// NavigateHandler serves every page of the route tree. The composer decides
// between rendering and redirecting; redirects replace the requested URL.
func (s *Server) NavigateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		out := s.composer.Navigate(r.URL.Path, session)

		if s.config.IsDev() {
			log.Debug().Msgf("[%-19s] %s %s %s", colourMethod(r.Method), r.URL.Path, colourOutcome(out.State), out.Location)
		}

		if out.State == Redirected {
			redirectSuccess(w, r, out.Location)
			return
		}

		pr := pageRequest{r: r, match: out.Match, session: session}
		v, err := s.buildView(pr)
		if err != nil {
			s.renderFailure(w, pr, err)
			return
		}
		s.renderMatch(w, http.StatusOK, pr, v)
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

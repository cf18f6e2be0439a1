package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/bunai/auth"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
	"github.com/rs/zerolog/log"
)

// SignupSubmissionHandler registers an account for the role in the URL
// (POST /signup/{role}). It is gated exactly like the signup page.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		out := s.composer.Navigate(r.URL.Path, session)
		if out.State == Redirected {
			redirectSuccess(w, r, out.Location)
			return
		}

		role, err := roles.Parse(r.PathValue("role"))
		if err != nil {
			redirectSuccess(w, r, "/")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := auth.SignupForm{
			Name:     r.FormValue("name"),
			Email:    emailFromForm(r),
			Password: r.FormValue("password"),
			Fields:   make(map[string]string),
		}
		for _, f := range auth.SignupFields(role) {
			form.Fields[f.Name] = r.FormValue(f.Name)
		}

		_, err = s.auth.Register(r.Context(), role, form)
		if err == nil {
			redirectSuccess(w, r, "/"+role.String()+"/dashboard")
			return
		}

		var fieldErrors auth.FieldErrors
		switch {
		case errors.As(err, &fieldErrors):
		case errors.Is(err, apperrors.ErrUserExists):
			fieldErrors = auth.FieldErrors{"email": "An account with this email already exists"}
		default:
			log.Err(err).Str("role", role.String()).Msg("Failed to register user")
			http.Error(w, "Failed to sign up", http.StatusInternalServerError)
			return
		}

		pr := pageRequest{r: r, match: out.Match, session: session}
		v, err := s.buildView(pr)
		if err != nil {
			s.renderFailure(w, pr, err)
			return
		}
		v.Name = form.Name
		v.Email = form.Email
		v.FieldErrors = fieldErrors
		for i := range v.Fields {
			v.Fields[i].Value = form.Fields[v.Fields[i].Name]
		}
		s.renderMatch(w, http.StatusUnprocessableEntity, pr, v)
	}
}

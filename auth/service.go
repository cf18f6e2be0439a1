// Package auth turns login and signup form submissions into session and
// user records.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/jrsteele09/bunai/users"
	"github.com/rs/zerolog/log"
)

// Credentials is the submitted login form.
type Credentials struct {
	Identifier string
	Secret     string
}

// Service runs the login and signup flows against the session store.
type Service struct {
	store   *sessions.Store
	users   users.Repo
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(store *sessions.Store, userRepo users.Repo, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] session store is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewService] users repo is required")
	}

	s := &Service{
		store:   store,
		users:   userRepo,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// LandingPath is where a freshly signed-in role is sent.
func LandingPath(role roles.ID) string {
	return "/" + string(role)
}

// Submit signs sessionID in as role. Any non-empty identifier and secret
// are accepted; nothing is checked against stored users. A validation
// failure leaves the session untouched.
func (s *Service) Submit(ctx context.Context, sessionID string, role roles.ID, creds Credentials) (sessions.Session, error) {
	if !role.Valid() {
		return sessions.Session{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, role)
	}

	identifier := strings.TrimSpace(creds.Identifier)
	if identifier == "" {
		return sessions.Session{}, fmt.Errorf("%w: email is required", apperrors.ErrLoginValidation)
	}
	if strings.TrimSpace(creds.Secret) == "" {
		return sessions.Session{}, fmt.Errorf("%w: password is required", apperrors.ErrLoginValidation)
	}

	principal := sessions.Principal{
		ID:          uuid.New().String(),
		Identifier:  identifier,
		DisplayName: s.displayName(role, identifier),
		SignedInAt:  s.nowTime().UTC(),
	}
	next := sessions.Authenticated(role, principal)
	if err := s.store.Set(ctx, sessionID, next); err != nil {
		return sessions.Session{}, apperrors.Wrapf(err, "[Submit] failed to sign in as %s", role)
	}

	log.Debug().Str("role", role.String()).Str("principal", principal.ID).Msg("session signed in")
	return next, nil
}

// displayName prefers the name given at signup for the same role.
func (s *Service) displayName(role roles.ID, identifier string) string {
	if u, err := s.users.GetByEmail(role, identifier); err == nil && u.Name != "" {
		return u.Name
	}
	return identifier
}

// Logout signs sessionID out. Logging out twice is harmless.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Logout(ctx, sessionID); err != nil {
		return apperrors.Wrapf(err, "[Logout] failed to sign out")
	}
	return nil
}

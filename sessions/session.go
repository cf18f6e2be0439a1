// Package sessions holds the authentication state of every browser session
// and is the single owner of that state.
package sessions

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
)

// Principal is the authenticated identity behind a session. It is a
// placeholder: no credential has been verified to produce it.
type Principal struct {
	ID          string    `json:"id"`
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name,omitempty"`
	SignedInAt  time.Time `json:"signed_in_at"`
}

// Session is an immutable snapshot of who is signed in and as what role.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	Role          roles.ID   `json:"role,omitempty"`
	Principal     *Principal `json:"principal,omitempty"`
}

// Anonymous is the initial, signed-out session.
func Anonymous() Session {
	return Session{}
}

// Authenticated builds a signed-in session for role.
func Authenticated(role roles.ID, principal Principal) Session {
	return Session{Authenticated: true, Role: role, Principal: &principal}
}

// Validate enforces the session invariants: a signed-out session carries
// neither role nor principal, a signed-in one carries a known role and a principal.
func (s Session) Validate() error {
	if !s.Authenticated {
		if s.Role != "" || s.Principal != nil {
			return fmt.Errorf("%w: signed-out session carries role or principal", apperrors.ErrInvalidSession)
		}
		return nil
	}
	if !s.Role.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, s.Role)
	}
	if s.Principal == nil {
		return fmt.Errorf("%w: signed-in session without principal", apperrors.ErrInvalidSession)
	}
	return nil
}

// clone returns a copy that shares no memory with s.
func (s Session) clone() Session {
	if s.Principal != nil {
		p := *s.Principal
		s.Principal = &p
	}
	return s
}

// NewID returns a fresh opaque session identifier.
func NewID() string {
	return uuid.New().String()
}

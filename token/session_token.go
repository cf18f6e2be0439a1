package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// SessionTokens wraps session IDs in signed, expiring tokens so a cookie
// cannot be forged to point at another session.
type SessionTokens struct {
	signer Signer
	issuer string
}

// NewSessionTokens creates a codec for session cookies.
func NewSessionTokens(signer Signer, issuer string) *SessionTokens {
	return &SessionTokens{signer: signer, issuer: issuer}
}

// Issue returns a token carrying sessionID that expires after ttl.
func (t *SessionTokens) Issue(sessionID string, ttl time.Duration) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("%w: empty session id", apperrors.ErrInvalidToken)
	}
	now := NowTimeFunc()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return t.signer.Sign(claims)
}

// SessionID verifies raw and returns the session ID it carries.
func (t *SessionTokens) SessionID(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, t.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{t.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing session id", apperrors.ErrInvalidToken)
	}
	return claims.ID, nil
}

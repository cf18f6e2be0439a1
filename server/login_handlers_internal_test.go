package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/bunai/internal/config"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/jrsteele09/bunai/token"
	"github.com/jrsteele09/bunai/users"
	"github.com/stretchr/testify/require"
)

// brokenSigner verifies existing cookies but cannot sign new ones.
type brokenSigner struct {
	*token.HMACSigner
}

func (brokenSigner) Sign(jwt.Claims) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestLoginCookieFailureKeepsPreviousSession(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("SESSION_STORE", "memory")
	cfg, err := config.Parse()
	require.NoError(t, err)
	registry, err := roles.DefaultRegistry()
	require.NoError(t, err)

	store := sessions.NewStore(sessions.NewMemoryRepo(), time.Hour)
	s, err := New(cfg, Dependencies{Store: store, Users: users.NewMemoryRepo(), Registry: registry})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	var changes []sessions.Change
	unsubscribe := store.Subscribe(func(c sessions.Change) { changes = append(changes, c) })
	defer unsubscribe()

	login := func(role roles.ID, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		form := url.Values{"email": {"a@x.com"}, "password": {"pw"}}
		req := httptest.NewRequest(http.MethodPost, "/login/"+role.String(), strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec
	}

	rec := login(roles.Buyer)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Len(t, changes, 1)
	previousID := changes[0].SessionID

	signer, err := token.NewHMACSigner(cfg.GetSessionSecret())
	require.NoError(t, err)
	s.tokens = token.NewSessionTokens(brokenSigner{signer}, cfg.GetAppName())

	rec = login(roles.Artisan, cookies...)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Result().Cookies())

	ctx := context.Background()
	require.Equal(t, roles.Buyer, store.Get(ctx, previousID).Role, "previous session still signed in")

	// The new session was written and then discarded.
	require.Len(t, changes, 3)
	newID := changes[1].SessionID
	require.NotEqual(t, previousID, newID)
	require.True(t, changes[1].Current.Authenticated)
	require.Equal(t, newID, changes[2].SessionID)
	require.False(t, changes[2].Current.Authenticated)
	require.False(t, store.Get(ctx, newID).Authenticated)
}

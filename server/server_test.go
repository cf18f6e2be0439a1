package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/bunai/internal/config"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/server"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/jrsteele09/bunai/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	store  *sessions.Store
	users  *users.MemoryRepo
	server *httptest.Server
	client *http.Client
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("SESSION_STORE", "memory")

	cfg, err := config.Parse()
	require.NoError(t, err)

	registry, err := roles.DefaultRegistry()
	require.NoError(t, err)

	store := sessions.NewStore(sessions.NewMemoryRepo(), time.Hour)
	userRepo := users.NewMemoryRepo()
	srv, err := server.New(cfg, server.Dependencies{Store: store, Users: userRepo, Registry: registry})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testFixture{
		store:  store,
		users:  userRepo,
		server: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (f *testFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *testFixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *testFixture) login(t *testing.T, role roles.ID) {
	t.Helper()
	resp, _ := f.post(t, "/login/"+role.String(), url.Values{"email": {"a@x.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/"+role.String(), resp.Header.Get("Location"))
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}

func TestWelcomePage(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	for _, id := range roles.All() {
		require.Contains(t, body, `href="/login/`+id.String()+`"`)
	}
}

func TestAnonymousIsRedirectedFromRolePages(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.get(t, "/buyer")
	requireRedirect(t, resp, "/")

	resp, _ = f.get(t, "/admin/settings")
	requireRedirect(t, resp, "/")
}

func TestLoginDashboardLogout(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Artisan)

	resp, _ := f.get(t, "/artisan")
	requireRedirect(t, resp, "/artisan/dashboard")

	resp, body := f.get(t, "/artisan/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Your workshop")
	require.Contains(t, body, `href="/artisan" class="active"`)
	require.Contains(t, body, `action="/logout"`)

	resp, body = f.get(t, "/artisan/earnings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `href="/artisan/earnings" class="active"`)

	resp, _ = f.get(t, "/admin")
	requireRedirect(t, resp, "/")

	resp, _ = f.post(t, "/logout", nil)
	requireRedirect(t, resp, "/")

	resp, _ = f.get(t, "/artisan/dashboard")
	requireRedirect(t, resp, "/")

	resp, _ = f.post(t, "/logout", nil)
	requireRedirect(t, resp, "/")
}

func TestLogoutIgnoresGet(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Buyer)

	// GET /logout is just an unmatched page, not a sign out.
	resp, _ := f.get(t, "/logout")
	requireRedirect(t, resp, "/")

	resp, _ = f.get(t, "/buyer/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.post(t, "/login/buyer", url.Values{"email": {"a@x.com"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/login/buyer?"), location)
	require.Contains(t, location, "email=a%40x.com")

	resp, body := f.get(t, location)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Please enter both email and password")
	require.Contains(t, body, "Buyer Login")

	resp, _ = f.get(t, "/buyer")
	requireRedirect(t, resp, "/")
}

func TestLoginUnknownRole(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.get(t, "/login/pirate")
	requireRedirect(t, resp, "/")

	resp, _ = f.post(t, "/login/pirate", url.Values{"email": {"a"}, "password": {"b"}})
	requireRedirect(t, resp, "/")
}

func TestLoginIssuesFreshSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Buyer)

	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)
	first := f.client.Jar.Cookies(u)
	require.Len(t, first, 1)

	f.login(t, roles.Volunteer)
	second := f.client.Jar.Cookies(u)
	require.Len(t, second, 1)
	require.NotEqual(t, first[0].Value, second[0].Value)

	resp, _ := f.get(t, "/buyer/cart")
	requireRedirect(t, resp, "/")
	resp, _ = f.get(t, "/volunteer/deliveries")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Admin)

	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)
	cookie := f.client.Jar.Cookies(u)[0]
	cookie.Value += "x"
	f.client.Jar.SetCookies(u, []*http.Cookie{cookie})

	resp, _ := f.get(t, "/admin/dashboard")
	requireRedirect(t, resp, "/")
}

func TestHTMXRedirect(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/nonexistent", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("HX-Redirect"))
}

func TestSignup(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"name":             {"Meera"},
		"email":            {"meera@bunai.test"},
		"password":         {"secret1"},
		"shipping_address": {"12 Market Road"},
	}

	resp, _ := f.post(t, "/signup/buyer", form)
	requireRedirect(t, resp, "/")

	f.login(t, roles.Admin)

	resp, body := f.get(t, "/signup/buyer")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `name="shipping_address"`)

	resp, _ = f.post(t, "/signup/buyer", form)
	requireRedirect(t, resp, "/buyer/dashboard")

	user, err := f.users.GetByEmail(roles.Buyer, "meera@bunai.test")
	require.NoError(t, err)
	require.Equal(t, "12 Market Road", user.Profile["shipping_address"])

	resp, body = f.post(t, "/signup/buyer", form)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "An account with this email already exists")

	resp, body = f.post(t, "/signup/volunteer", url.Values{"name": {"Meera"}, "email": {"bad"}, "password": {"123"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Invalid email address")
	require.Contains(t, body, "Password must be at least 6 characters")
	require.Contains(t, body, "Vehicle Type is required")
	require.Contains(t, body, `value="Meera"`)
}

func TestAdminUsersListsAccounts(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Admin)

	resp, body := f.get(t, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "No accounts yet.")
	require.Contains(t, body, `href="/admin/users" class="active"`)

	resp, _ = f.post(t, "/signup/artisan", url.Values{
		"name":      {"Ravi"},
		"email":     {"ravi@bunai.test"},
		"password":  {"secret1"},
		"portfolio": {"https://ravi.example"},
	})
	requireRedirect(t, resp, "/artisan/dashboard")

	resp, body = f.get(t, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `<table class="accounts">`)
	require.Contains(t, body, "<td>Ravi</td><td>ravi@bunai.test</td><td>Artisan</td>")
	require.NotContains(t, body, "No accounts yet.")

	// Other admin sections keep the placeholder page.
	_, body = f.get(t, "/admin/products")
	require.Contains(t, body, "Nothing to show here yet.")
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.login(t, roles.Buyer)
	f.get(t, "/buyer/cart")
	f.get(t, "/nonexistent")

	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `bunai_gate_decisions_total{decision="admitted",route="/buyer/cart"} 1`)
	require.Contains(t, body, `bunai_gate_decisions_total{decision="redirected",route="unmatched"} 1`)
	require.Contains(t, body, `bunai_sessions_active{role="buyer"} 1`)

	f.post(t, "/logout", nil)
	_, body = f.get(t, "/metrics")
	require.Contains(t, body, `bunai_sessions_active{role="buyer"} 0`)
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Cache-Control"), "max-age=300")
	require.Contains(t, body, "--mustard")

	resp, _ = f.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}

func TestStoreSeesLogin(t *testing.T) {
	f := newFixture(t)

	var changes []sessions.Change
	unsubscribe := f.store.Subscribe(func(c sessions.Change) { changes = append(changes, c) })
	defer unsubscribe()

	f.login(t, roles.Volunteer)
	require.Len(t, changes, 1)
	require.Equal(t, roles.Volunteer, changes[0].Current.Role)
	require.Equal(t, roles.Volunteer, f.store.Get(context.Background(), changes[0].SessionID).Role)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/auth/provider"
	"portfolio-api/internal/auth/resolver"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	identity *auth.Identity
	err      error
	verifier string
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func (f *fakeProvider) AuthCodeURL(state string, codeChallenge string) string {
	return "https://idp.example.com/auth?" + url.Values{
		"state":          {state},
		"code_challenge": {codeChallenge},
	}.Encode()
}

func (f *fakeProvider) ExchangeCode(_ context.Context, _ string, codeVerifier string) (*auth.Identity, error) {
	f.verifier = codeVerifier
	return f.identity, f.err
}

type resolverFunc func(*auth.Identity) (string, error)

func (f resolverFunc) Resolve(_ context.Context, id *auth.Identity) (string, error) {
	return f(id)
}

type flow struct {
	router   *gin.Engine
	provider *fakeProvider
	store    *session.MemoryStore
}

func newFlow(t *testing.T, res resolver.Resolver) *flow {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore()
	codec, err := session.NewCookieCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	sessions := session.NewManager(store, codec, session.Options{TTL: time.Hour})

	p := &fakeProvider{identity: &auth.Identity{Provider: "fake", ProviderUserID: "sub", Email: "me@example.com", EmailVerified: true}}

	r := gin.New()
	r.Use(middleware.ErrorBoundary(false))
	NewHandler(provider.NewRegistry(p), sessions, res, false).RegisterRoutes(r)

	return &flow{router: r, provider: p, store: store}
}

func (f *flow) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// start runs the login leg and returns the state and flow cookies.
func (f *flow) start(t *testing.T) (string, []*http.Cookie) {
	t.Helper()

	w := f.get("/oauth/login/fake")
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	state := cookieNamed(w, stateCookieName)
	verifier := cookieNamed(w, pkceCookieName)
	require.NotNil(t, state)
	require.NotNil(t, verifier)
	assert.True(t, state.HttpOnly)

	assert.Equal(t, state.Value, loc.Query().Get("state"))
	assert.Equal(t, pkceChallenge(verifier.Value), loc.Query().Get("code_challenge"))

	return state.Value, []*http.Cookie{state, verifier}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Message
}

func TestUnknownProvider(t *testing.T) {
	f := newFlow(t, resolverFunc(func(*auth.Identity) (string, error) { return "u1", nil }))

	w := f.get("/oauth/login/github")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgUnknownProvider, message(t, w))

	w = f.get("/oauth/callback/github?state=x&code=y")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_CreatesSession(t *testing.T) {
	f := newFlow(t, resolverFunc(func(id *auth.Identity) (string, error) {
		assert.Equal(t, "sub", id.ProviderUserID)
		return "u1", nil
	}))

	state, cookies := f.start(t)

	w := f.get("/oauth/callback/fake?code=abc&state="+url.QueryEscape(state), cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, msgSignedIn, message(t, w))
	assert.Equal(t, cookies[1].Value, f.provider.verifier)

	require.NotNil(t, cookieNamed(w, session.DefaultCookieName))
	assert.Equal(t, 1, f.store.Len())

	cleared := cookieNamed(w, stateCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestCallback_StateMismatch(t *testing.T) {
	f := newFlow(t, resolverFunc(func(*auth.Identity) (string, error) { return "u1", nil }))

	_, cookies := f.start(t)

	w := f.get("/oauth/callback/fake?code=abc&state=forged", cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgInvalidState, message(t, w))
	assert.Equal(t, 0, f.store.Len())
}

func TestCallback_MissingCodeAndProviderError(t *testing.T) {
	f := newFlow(t, resolverFunc(func(*auth.Identity) (string, error) { return "u1", nil }))

	state, cookies := f.start(t)
	w := f.get("/oauth/callback/fake?state="+url.QueryEscape(state), cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.get("/oauth/callback/fake?error=access_denied&state="+url.QueryEscape(state), cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgAuthFailed, message(t, w))
}

func TestCallback_UnknownUserIs401(t *testing.T) {
	f := newFlow(t, resolverFunc(func(*auth.Identity) (string, error) { return "", resolver.ErrUnknownUser }))

	state, cookies := f.start(t)
	w := f.get("/oauth/callback/fake?code=abc&state="+url.QueryEscape(state), cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgNoAccount, message(t, w))
	assert.Nil(t, cookieNamed(w, session.DefaultCookieName))
}

func TestCallback_ExchangeAndResolverFailures(t *testing.T) {
	f := newFlow(t, resolverFunc(func(*auth.Identity) (string, error) { return "", errors.New("db down") }))

	state, cookies := f.start(t)
	w := f.get("/oauth/callback/fake?code=abc&state="+url.QueryEscape(state), cookies...)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	f.provider.err = errors.New("bad code")
	w = f.get("/oauth/callback/fake?code=abc&state="+url.QueryEscape(state), cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

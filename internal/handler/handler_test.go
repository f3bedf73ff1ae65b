package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"portfolio-api/internal/auth/credentials"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/service"
	"portfolio-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testEmail    = "me@example.com"
	testPassword = "correct horse"
	missingID    = "6f1c1f5e-8a9e-4c54-9a43-2f0f1b1c0d11"
)

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

type failingSessions struct{ session.Store }

func (failingSessions) Set(context.Context, session.Session) error {
	return errors.New("session store down")
}

type testServer struct {
	router *gin.Engine
	cookie *http.Cookie
}

func newTestServer(t *testing.T, store session.Store) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repository.Schema()...))

	users := repository.NewUserRepository(db)
	creds := credentials.NewService(users, credentials.NewHasher(bcrypt.MinCost))
	_, err = creds.Register(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	codec, err := session.NewCookieCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	sessions := session.NewManager(store, codec, session.Options{TTL: time.Hour})
	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(sessions))

	r := gin.New()
	r.Use(middleware.Recovery(false), middleware.ErrorBoundary(false))
	api := r.Group("/api")
	NewHealthHandler(service.NewHealthService(time.Now())).RegisterRoutes(api)
	NewUserHandler(service.NewUserService(creds, users), sessions).RegisterRoutes(api, requireAuth)
	NewEducationHandler(service.NewEducationService(repository.NewEducationRepository(db))).RegisterRoutes(api, requireAuth)
	NewExperienceHandler(service.NewExperienceService(repository.NewExperienceRepository(db))).RegisterRoutes(api, requireAuth)
	NewProjectHandler(service.NewProjectService(repository.NewProjectRepository(db))).RegisterRoutes(api, requireAuth)

	return &testServer{router: r}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.StatusCode, "HTTP status mirrors the envelope")
	return w, env
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/users/login",
		`{"email":"`+testEmail+`","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, service.MsgLoggedIn, env.Message)

	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			s.cookie = c
		}
	}
	require.NotNil(t, s.cookie)
}

type fieldErrors struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func problemOf(t *testing.T, env envelope) fieldErrors {
	t.Helper()
	var p fieldErrors
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

const educationBody = `{"school":"X","degree":"BS","fieldOfStudy":"CS","description":"d",` +
	`"startDate":"2020-01-01T00:00:00Z","endDate":"2024-01-01T00:00:00Z"}`

func TestHealth(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	w, env := s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Health check successful", env.Message)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`), env.Timestamp)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	wrongPw, a := s.do(t, http.MethodPost, "/api/users/login", `{"email":"`+testEmail+`","password":"nope"}`)
	unknown, b := s.do(t, http.MethodPost, "/api/users/login", `{"email":"who@example.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, service.MsgInvalidCredentials, a.Message)

	a.Timestamp, b.Timestamp = "", ""
	assert.Equal(t, a, b)
	assert.Empty(t, wrongPw.Result().Cookies())
}

func TestLogin_ValidationBeforeAnythingElse(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	w, env := s.do(t, http.MethodPost, "/api/users/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := problemOf(t, env)
	assert.Equal(t, "Validation error", p.Message)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "Invalid email", p.Errors[0].Message)
	assert.Equal(t, "Password is required", p.Errors[1].Message)
}

func TestLogin_SessionWriteFailureIsNotSuccess(t *testing.T) {
	s := newTestServer(t, failingSessions{session.NewMemoryStore()})

	w, env := s.do(t, http.MethodPost, "/api/users/login",
		`{"email":"`+testEmail+`","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutTwiceAndMe(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())
	s.login(t)

	w, env := s.do(t, http.MethodGet, "/api/users/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+mustJSON(t, idOf(t, env))+`,"email":"`+testEmail+`"}`, string(env.Data))

	w, env = s.do(t, http.MethodPost, "/api/users/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgLoggedOut, env.Message)

	w, _ = s.do(t, http.MethodPost, "/api/users/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func idOf(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v.ID
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestEducation_AuthAndValidationOrder(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	w, _ := s.do(t, http.MethodPost, "/api/education", educationBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "valid body, no session")

	bad := strings.Replace(educationBody, "2020-01-01T00:00:00Z", "2020-01-01T00:00:00+00:00", 1)
	w, env := s.do(t, http.MethodPost, "/api/education", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code, "shape is checked before the session")
	p := problemOf(t, env)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "startDate", p.Errors[0].Field)
	assert.Equal(t, "Start date must be in UTC timezone", p.Errors[0].Message)
}

func TestEducation_CRUD(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())
	s.login(t)

	w, env := s.do(t, http.MethodPost, "/api/education", educationBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var id string
	require.NoError(t, json.Unmarshal(env.Data, &id))

	s.cookie = nil // reads are open

	w, env = s.do(t, http.MethodGet, "/api/education/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","school":"X","degree":"BS","fieldOfStudy":"CS","description":"d",`+
		`"startDate":"2020-01-01T00:00:00Z","endDate":"2024-01-01T00:00:00Z"}`, string(env.Data))

	w, env = s.do(t, http.MethodGet, "/api/education", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Education history fetched successfully", env.Message)

	s.login(t)

	w, env = s.do(t, http.MethodPatch, "/api/education/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := problemOf(t, env)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "body", p.Errors[0].Field)
	assert.Equal(t, msgAtLeastOne, p.Errors[0].Message)

	w, env = s.do(t, http.MethodPatch, "/api/education/"+id, `{"degree":"MS"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"degree":"MS"`)
	assert.Contains(t, string(env.Data), `"school":"X"`)

	w, _ = s.do(t, http.MethodDelete, "/api/education/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodDelete, "/api/education/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Education history not found", env.Message)
}

func TestEducation_InvalidID(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	w, env := s.do(t, http.MethodGet, "/api/education/42", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", problemOf(t, env).Errors[0].Message)

	w, _ = s.do(t, http.MethodGet, "/api/education/"+missingID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExperience_EmptySkillsReplaces(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())
	s.login(t)

	w, env := s.do(t, http.MethodPost, "/api/experiences",
		`{"company":"Acme","position":"Eng","bulletPoints":["a","b"],"skills":["go","sql"],"startDate":"2021-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))
	var id string
	require.NoError(t, json.Unmarshal(env.Data, &id))

	w, env = s.do(t, http.MethodPatch, "/api/experiences/"+id, `{"skills":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var exp repository.Experience
	require.NoError(t, json.Unmarshal(env.Data, &exp))
	assert.Equal(t, []string{}, exp.Skills)
	assert.Equal(t, []string{"a", "b"}, exp.BulletPoints)
	assert.Nil(t, exp.EndDate)
}

func TestExperience_ItemErrors(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())

	w, env := s.do(t, http.MethodPost, "/api/experiences",
		`{"company":"Acme","position":"Eng","bulletPoints":["a"],"skills":["go",1],"startDate":"2021-01-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := problemOf(t, env)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "skills[1]", p.Errors[0].Field)
}

func TestProject_URLRules(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())
	s.login(t)

	w, env := s.do(t, http.MethodPost, "/api/projects",
		`{"name":"site","description":"d","skills":[],"githubUrl":"github.com/me/repo"}`)
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))

	for _, bad := range []string{"javascript:alert(1)", "data:text/html,<script>", "mailto:me@x.com"} {
		w, env = s.do(t, http.MethodPost, "/api/projects",
			`{"name":"site","description":"d","skills":[],"websiteUrl":`+mustJSON(t, bad)+`}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		p := problemOf(t, env)
		require.Len(t, p.Errors, 1, bad)
		assert.Equal(t, "websiteUrl", p.Errors[0].Field)
	}
}

func TestProject_CreateUpdateDelete(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore())
	s.login(t)

	w, env := s.do(t, http.MethodPost, "/api/projects",
		`{"name":"site","description":"d","skills":["go"],"githubUrl":"https://github.com/me/site"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var id string
	require.NoError(t, json.Unmarshal(env.Data, &id))

	w, env = s.do(t, http.MethodPatch, "/api/projects/"+id, `{"websiteUrl":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Website URL must be a valid URL", problemOf(t, env).Errors[0].Message)

	w, env = s.do(t, http.MethodPatch, "/api/projects/"+id, `{"name":"site v2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var p repository.Project
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "site v2", p.Name)
	assert.Equal(t, []string{"go"}, p.Skills)
	require.NotNil(t, p.GithubURL)

	w, env = s.do(t, http.MethodDelete, "/api/projects/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))

	w, _ = s.do(t, http.MethodPatch, "/api/projects/"+id, `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

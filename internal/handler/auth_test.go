package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/auth"
	"github.com/BuzzLyutic/mileapp-task-api/internal/middleware"
	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

type authEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    service.AuthResult `json:"data"`
}

type meEnvelope struct {
	Message string           `json:"message"`
	Data    model.PublicUser `json:"data"`
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "new@x.com",
		"password": "secret1",
		"name":     "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[authEnvelope](t, w)
	assert.Equal(t, "Registration successful", registered.Message)
	assert.NotEmpty(t, registered.Data.Token)
	assert.Equal(t, "new@x.com", registered.Data.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "new@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	loggedIn := decode[authEnvelope](t, w)
	assert.Equal(t, "Login successful", loggedIn.Message)
	assert.Equal(t, registered.Data.User, loggedIn.Data.User)

	w = env.do(t, http.MethodGet, "/api/auth/me", loggedIn.Data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[meEnvelope](t, w)
	assert.Equal(t, "User data retrieved", me.Message)
	assert.Equal(t, registered.Data.User, me.Data)
	assert.NotContains(t, w.Body.String(), `"user"`)
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupRouter(t)
	env.login(t, "taken@x.com")

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{name: "duplicate email", body: map[string]string{"email": "taken@x.com", "password": "p", "name": "n"}, wantCode: http.StatusConflict, wantMsg: "User already exists with this email"},
		{name: "missing name", body: map[string]string{"email": "a@x.com", "password": "p"}, wantCode: http.StatusBadRequest, wantMsg: "Please provide all required fields"},
		{name: "empty body", body: nil, wantCode: http.StatusBadRequest, wantMsg: "empty request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, tt.wantCode, w.Code)
			body := decode[respond.ErrorEnvelope](t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupRouter(t)
	env.login(t, "a@x.com")

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		wantMsg  string
	}{
		{name: "wrong password", body: map[string]string{"email": "a@x.com", "password": "nope"}, wantCode: http.StatusUnauthorized, wantMsg: "Invalid credentials"},
		{name: "unknown email", body: map[string]string{"email": "ghost@x.com", "password": "password1"}, wantCode: http.StatusUnauthorized, wantMsg: "Invalid credentials"},
		{name: "missing password", body: map[string]string{"email": "a@x.com"}, wantCode: http.StatusBadRequest, wantMsg: "Please provide email and password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/login", "", tt.body)
			require.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, decode[respond.ErrorEnvelope](t, w).Error.Message)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupRouter(t)

	t.Run("no token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		token, err := env.tokens.Issue(404, "gone@x.com")
		require.NoError(t, err)
		w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode[respond.ErrorEnvelope](t, w).Error.Message)
	})
}

func TestRouter_RateLimitsAuth(t *testing.T) {
	tokens, err := auth.NewTokenService("secret", time.Hour)
	require.NoError(t, err)
	creds := service.NewCredentialStore(repo.NewMemoryUserRepo(), auth.NewPasswordHasher(4))

	router := NewRouter(RouterDeps{
		Auth:     service.NewAuthService(creds, tokens),
		Tasks:    service.NewTaskService(repo.NewMemoryTaskRepo()),
		Verifier: tokens,
		Limiter:  middleware.NewRateLimiter(0.001, 2),
		Logger:   zap.NewNop(),
	})
	env := &testEnv{router: router}

	body := map[string]string{"email": "a@x.com", "password": "p"}
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodPost, "/api/auth/login", "", body).Code)

	// Health не под лимитером.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_PublicRoutes(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Welcome to MileApp API","version":"1.0.0"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

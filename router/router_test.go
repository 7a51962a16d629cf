package router_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"videotube-api/handler"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/repository"
	"videotube-api/router"
	"videotube-api/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.SetLevel("error")
	os.Exit(m.Run())
}

// memUsers keeps the session state of a handful of users in memory.
// Methods outside the token lifecycle are left to the embedded nil interface.
type memUsers struct {
	repository.IUserRepository
	mu    sync.Mutex
	users map[int]*model.User
}

func (m *memUsers) snapshot(u *model.User) *model.User {
	c := *u
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		c.RefreshToken = &t
	}
	return &c
}

func (m *memUsers) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return m.snapshot(u), nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return m.snapshot(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) SetRefreshToken(ctx context.Context, userID int, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = &token
	return nil
}

func (m *memUsers) SwapRefreshToken(ctx context.Context, userID int, current, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = &next
	return true, nil
}

func (m *memUsers) ClearRefreshToken(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = nil
	return nil
}

const (
	testOrigin       = "http://localhost:3000"
	testAccessSecret = "router-access-secret"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("p@ss1"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &memUsers{users: map[int]*model.User{
		1: {ID: 1, Username: "alice", Email: "alice@example.com", FullName: "Alice", Password: string(hash)},
	}}

	tokens := service.TokenConfig{
		AccessSecret:  testAccessSecret,
		AccessExpiry:  15 * time.Minute,
		RefreshSecret: "router-refresh-secret",
		RefreshExpiry: 240 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	auth := service.NewAuthService(users, tokens)
	cookies := handler.CookieConfig{Secure: true, AccessTTL: tokens.AccessExpiry, RefreshTTL: tokens.RefreshExpiry}

	h := router.Handlers{
		Users:         handler.NewUserHandler(service.NewUserService(users, auth, nil, nil), auth, cookies),
		Videos:        handler.NewVideoHandler(nil),
		Comments:      handler.NewCommentHandler(nil),
		Likes:         handler.NewLikeHandler(nil),
		Tweets:        handler.NewTweetHandler(nil),
		Playlists:     handler.NewPlaylistHandler(nil),
		Subscriptions: handler.NewSubscriptionHandler(nil),
	}
	return router.NewRouter(h, auth, testOrigin)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func login(t *testing.T, r http.Handler) (model.TokenPair, *httptest.ResponseRecorder) {
	t.Helper()
	rr, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"email": "Alice@Example.com", "password": "p@ss1"}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair, rr
}

func refresh(t *testing.T, r http.Handler, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: token})
	}
	return do(t, r, req)
}

func TestHealthCheck(t *testing.T) {
	rr, _ := do(t, newTestRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestSwaggerDocument(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "VideoTube API")
	assert.Contains(t, rr.Body.String(), "/api/v1/users/refresh-token")
}

func TestLogin_ReturnsSanitizedUserAndCookies(t *testing.T) {
	r := newTestRouter(t)
	pair, rr := login(t, r)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data["user"], &user))
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "refreshToken")

	cookies := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, handler.AccessTokenCookie)
	require.Contains(t, cookies, handler.RefreshTokenCookie)
	assert.Equal(t, pair.AccessToken, cookies[handler.AccessTokenCookie].Value)
	assert.Equal(t, pair.RefreshToken, cookies[handler.RefreshTokenCookie].Value)
	assert.True(t, cookies[handler.RefreshTokenCookie].HttpOnly)
	assert.True(t, cookies[handler.RefreshTokenCookie].Secure)
}

func TestLogin_Failures(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"no identifier", `{"password": "p@ss1"}`, http.StatusBadRequest, "username or email is required"},
		{"unknown user", `{"username": "mallory", "password": "p@ss1"}`, http.StatusNotFound, "User does not exist"},
		{"wrong password", `{"username": "alice", "password": "nope"}`, http.StatusUnauthorized, "Invalid user credentials"},
		{"malformed body", `{"username":`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/login", tc.body))
			assert.Equal(t, tc.code, rr.Code)
			assert.Equal(t, tc.message, env.Message)
			assert.False(t, env.Success)
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func TestProtectedRoute_AccessToken(t *testing.T) {
	r := newTestRouter(t)
	pair, _ := login(t, r)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rr, env := do(t, r, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(env.Data), `"username":"alice"`)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.AddCookie(&http.Cookie{Name: handler.AccessTokenCookie, Value: "garbage"})
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rr, env := do(t, r, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid access token", env.Message)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rr, _ := do(t, r, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rr, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Access token missing", env.Message)
	})
}

func TestRefreshToken_RotatesOnce(t *testing.T) {
	r := newTestRouter(t)
	first, _ := login(t, r)

	rr, env := refresh(t, r, first.RefreshToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var second model.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	rr, env = refresh(t, r, first.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Refresh token is expired or used", env.Message)

	rr, _ = refresh(t, r, second.RefreshToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRefreshToken_FromBody(t *testing.T) {
	r := newTestRouter(t)
	pair, _ := login(t, r)

	rr, _ := do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshToken": "`+pair.RefreshToken+`"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRefreshToken_Missing(t *testing.T) {
	rr, env := refresh(t, newTestRouter(t), "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Refresh token missing", env.Message)
}

func TestRefreshToken_UnreadableBodyIsMissingToken(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader("refreshToken=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr, env := do(t, r, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Refresh token missing", env.Message)
	assert.Empty(t, rr.Result().Cookies())
}

func TestProtectedRoute_ExpiredAccessToken(t *testing.T) {
	r := newTestRouter(t)
	issued := time.Now().Add(-time.Hour)
	claims := model.AccessClaims{
		UserID:   1,
		Email:    "alice@example.com",
		Username: "alice",
		FullName: "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(15 * time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rr, env := do(t, r, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid access token", env.Message)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	r := newTestRouter(t)
	pair, _ := login(t, r)

	rr, env := refresh(t, r, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid refresh token", env.Message)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	r := newTestRouter(t)
	pair, _ := login(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessTokenCookie, Value: pair.AccessToken})
	rr, _ := do(t, r, req)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, c := range rr.Result().Cookies() {
		assert.Empty(t, c.Value, c.Name)
		assert.Less(t, c.MaxAge, 0, c.Name)
	}

	rr, env := refresh(t, r, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Refresh token is expired or used", env.Message)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/login", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/refresh-token", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	newTestRouter(t).ServeHTTP(rr, req)

	assert.Equal(t, testOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

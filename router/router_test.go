package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dompet/config"
	"dompet/middleware"
	"dompet/repository"
	"dompet/service"
	"dompet/session"
	"dompet/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode, AllowedOrigins: []string{"http://app.local"}},
		JWT:       config.JWTConfig{Secret: "router-secret", ExpireTime: time.Hour},
		Session:   config.SessionConfig{TimeoutMinutes: 60, WarningMinutes: 5},
		RateLimit: config.RateLimitConfig{LoginAttempts: 5, LoginWindowMinute: 1},
	}
	config.GlobalConfig = cfg
	t.Cleanup(func() { config.GlobalConfig = nil })
	middleware.InitJWT(cfg)

	hub := websocket.NewHub()
	sessions := session.NewManager(session.NewMemoryStore(), session.DefaultPolicy(), nil, hub)
	t.Cleanup(sessions.Close)
	limiter := middleware.NewRateLimiter(600, 50)
	t.Cleanup(limiter.Stop)

	repo := repository.New(repository.NewMemoryStore(), time.Now)
	r, err := SetupRouter(cfg, Deps{
		Finance:  service.NewFinance(repo, hub, nil, service.Options{}),
		Sessions: sessions,
		Hub:      hub,
		Limiter:  limiter,
	})
	require.NoError(t, err)
	return r, sessions
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest("GET", "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login-form")

	w = serve(r, httptest.NewRequest("GET", "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest("GET", "/api/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SessionBoundToken(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := t.Context()

	sess, err := sessions.Begin(ctx, 1, "uid-1")
	require.NoError(t, err)
	token, err := middleware.GenerateSessionToken(1, "sari", "uid-1", sess.ID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/dashboard?month=2025-10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"monthKey":"2025-10"`)

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 登出后 token 仍未过期，但会话已不存在
	require.NoError(t, sessions.End(ctx, sess.ID))
	req = httptest.NewRequest("GET", "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "http://app.local")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

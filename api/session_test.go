package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"dompet/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setSessionMiddleware 模拟 JWTAuth 写入的会话 id
func setSessionMiddleware(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("sessionID", id)
		c.Next()
	}
}

func newSessionRouter(sessions SessionTracker, id string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSessionHandler(sessions)
	router := gin.New()
	g := router.Group("/api/v1/session", setSessionMiddleware(id))
	g.GET("", h.Status)
	g.POST("/activity", h.Activity)
	g.POST("/extend", h.Extend)
	g.POST("/visible", h.Visible)
	return router
}

func TestSessionHandler_StatusAndActivity(t *testing.T) {
	sessions := newTestSessions(t)
	sess, err := sessions.Begin(context.Background(), 1, "uid-1")
	require.NoError(t, err)
	router := newSessionRouter(sessions, sess.ID)

	w := doJSON(router, "GET", "/api/v1/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, sess.ID, data["sessionId"])
	assert.Equal(t, "active", data["state"])
	assert.Equal(t, float64(3600), data["timeoutSeconds"])

	w = doJSON(router, "POST", "/api/v1/session/activity", `{"event":"keydown"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/v1/session/activity", `{"event":"resize"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Jenis aktivitas tidak dikenal", decodeResponse(t, w)["message"])

	w = doJSON(router, "POST", "/api/v1/session/activity", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/v1/session/extend", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.MessageExtended, decodeResponse(t, w)["message"])

	w = doJSON(router, "POST", "/api/v1/session/visible", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	router := newSessionRouter(newTestSessions(t), "missing")

	w := doJSON(router, "GET", "/api/v1/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")
}

func TestSessionHandler_ExpiredSession(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore(), session.NewPolicy(50*time.Millisecond, 10*time.Millisecond), nil, nil)
	t.Cleanup(sessions.Close)
	sess, err := sessions.Begin(context.Background(), 1, "uid-1")
	require.NoError(t, err)
	router := newSessionRouter(sessions, sess.ID)

	require.Eventually(t, func() bool {
		return sessions.Validate(context.Background(), sess.ID) != nil
	}, time.Second, 10*time.Millisecond)

	w := doJSON(router, "POST", "/api/v1/session/activity", `{"event":"click"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, session.MessageExpired, decodeResponse(t, w)["message"])
}

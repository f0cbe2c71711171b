package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dompet/config"
	"dompet/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCookieOptions(t *testing.T) {
	defer func() { config.GlobalConfig = nil }()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	secure, sameSite := getCookieOptions()
	assert.False(t, secure)
	assert.Equal(t, http.SameSiteLaxMode, sameSite)

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	secure, _ = getCookieOptions()
	assert.True(t, secure)

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}, Session: config.SessionConfig{SecureCookie: true}}
	secure, _ = getCookieOptions()
	assert.True(t, secure)
}

func TestSetTokenCookie(t *testing.T) {
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setTokenCookie(c, "abc", 60)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dompet/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.GET("/ok", func(c *gin.Context) { SuccessWithMessage(c, "Tersimpan", gin.H{"n": 1}) })
	r.GET("/conflict", func(c *gin.Context) { Conflict(c, msgCategoryInUse) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Tersimpan", resp.Message)
	assert.Equal(t, "req-42", resp.RequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, msgCategoryInUse, resp.Message)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.RequestID)
}

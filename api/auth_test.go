package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dompet/config"
	"dompet/database"
	"dompet/middleware"
	"dompet/models"
	"dompet/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var userColumns = []string{"id", "uid", "username", "password", "display_name", "email", "photo_url", "status", "created_at", "updated_at", "deleted_at"}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func newAuthTestConfig() *config.Config {
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Session: config.SessionConfig{TimeoutMinutes: 60, WarningMinutes: 5},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	return cfg
}

func newTestSessions(t *testing.T) *session.Manager {
	m := session.NewManager(session.NewMemoryStore(), session.DefaultPolicy(), nil, nil)
	t.Cleanup(m.Close)
	return m
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 检查用户名不存在：SELECT 返回无记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	// GORM Create 使用事务
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg, newTestSessions(t))
	router.POST("/register", h.Register)

	w := postJSON(router, "/register", `{"username":"newuser","password":"password123","email":"test@example.com"}`)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, "Registrasi berhasil", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["uid"])
	assert.Equal(t, models.UserStatusActive, data["status"])
	assert.NotContains(t, w.Body.String(), "password123")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_UsernameExists(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// SELECT 返回已有用户
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("existinguser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "uid-1", "existinguser", "hash", "", "e@x.com", "", models.UserStatusActive, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg, newTestSessions(t)).Register)

	w := postJSON(router, "/register", `{"username":"existinguser","password":"password123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Nama pengguna sudah digunakan", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg, newTestSessions(t)).Register)

	w := postJSON(router, "/register", `{"username":"ab","password":"1"}`)
	assert.Equal(t, 400, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// SELECT 用户（username OR email）
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("loginuser", "loginuser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "uid-login", "loginuser", string(hashed), "Login", "login@x.com", "", models.UserStatusActive, time.Now(), time.Now(), nil))

	sessions := newTestSessions(t)
	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, sessions).Login)

	w := postJSON(router, "/login", `{"username":"loginuser","password":"password123"}`)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Berhasil masuk", resp["message"])
	data := resp["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, float64(3600), data["timeoutSeconds"])

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-login", claims.UID)
	assert.Equal(t, data["sessionId"], claims.SessionID)
	require.NoError(t, sessions.Validate(context.Background(), claims.SessionID))

	// 页面使用的 HttpOnly Cookie
	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.TokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nouser", "nouser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, newTestSessions(t)).Login)

	w := postJSON(router, "/login", `{"username":"nouser","password":"any"}`)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPasswordAndLocked(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("sari", "sari").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "uid-1", "sari", string(hashed), "", "", "", models.UserStatusActive, time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("budi", "budi").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "uid-2", "budi", string(hashed), "", "", "", models.UserStatusLocked, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, newTestSessions(t)).Login)

	w := postJSON(router, "/login", `{"username":"sari","password":"wrong"}`)
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, "Nama pengguna atau kata sandi salah", decodeResponse(t, w)["message"])

	w = postJSON(router, "/login", `{"username":"budi","password":"password123"}`)
	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	cfg := newAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	sessions := newTestSessions(t)
	sess, err := sessions.Begin(context.Background(), 1, "uid-1")
	require.NoError(t, err)
	token, err := middleware.GenerateSessionToken(1, "sari", "uid-1", sess.ID, time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/logout", middleware.JWTAuth(), NewAuthHandler(cfg, sessions).Logout)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Berhasil logout", decodeResponse(t, w)["message"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.TokenCookie+"=;")
	assert.ErrorIs(t, sessions.Validate(context.Background(), sess.ID), session.ErrNotFound)
}

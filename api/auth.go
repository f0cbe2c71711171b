package api

import (
	"context"
	"errors"
	"strings"

	"dompet/config"
	"dompet/database"
	"dompet/middleware"
	"dompet/models"
	"dompet/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionStarter 登录时创建会话，登出时结束会话
type SessionStarter interface {
	Begin(ctx context.Context, userID uint, uid string) (models.Session, error)
	End(ctx context.Context, id string) error
}

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg      *config.Config
	sessions SessionStarter
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, sessions SessionStarter) *AuthHandler {
	return &AuthHandler{cfg: cfg, sessions: sessions}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50" example:"sari"`
	Password    string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email       string `json:"email" binding:"omitempty,email" example:"sari@example.com"`
	DisplayName string `json:"displayName" binding:"max=100" example:"Sari"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"sari"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token          string      `json:"token"`
	SessionID      string      `json:"sessionId"`
	TimeoutSeconds int         `json:"timeoutSeconds"`
	UserInfo       models.User `json:"user_info"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，注册后即可登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, msgInvalidRequest)
		return
	}

	// 检查用户名是否已存在
	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "Nama pengguna sudah digunakan")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Gagal memproses kata sandi")
		return
	}

	user := models.User{
		Username:    req.Username,
		Password:    string(hashed),
		Email:       req.Email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Status:      models.UserStatusActive,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, "Gagal membuat akun: "+SafeErrorMessage(err, "kesalahan server"))
		return
	}

	SuccessWithMessage(c, "Registrasi berhasil", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验密码后创建闲置超时会话，返回 JWT 并写入 token Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Failure 403 {object} Response "账号已锁定"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, msgInvalidRequest)
		return
	}

	// 查找用户（支持用户名或邮箱）
	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("查询用户失败")
		}
		Unauthorized(c, "Nama pengguna atau kata sandi salah")
		return
	}

	// 仅正常用户可登录
	if user.Status != models.UserStatusActive {
		Forbidden(c, "Akun dikunci")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Nama pengguna atau kata sandi salah")
		return
	}

	sess, err := h.sessions.Begin(c.Request.Context(), user.ID, user.UID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("创建会话失败")
		InternalError(c, "Gagal memulai sesi")
		return
	}

	token, err := middleware.GenerateSessionToken(user.ID, user.Username, user.UID, sess.ID, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "Gagal membuat token")
		return
	}
	setTokenCookie(c, token, int(h.cfg.JWT.ExpireTime.Seconds()))

	log.Info().Str("uid", user.UID).Str("session", sess.ID).Msg("用户登录")
	SuccessWithMessage(c, "Berhasil masuk", LoginResponse{
		Token:          token,
		SessionID:      sess.ID,
		TimeoutSeconds: int(h.cfg.SessionTimeout().Seconds()),
		UserInfo:       user,
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 结束当前会话并清除 token Cookie
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "退出成功"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if id := middleware.GetSessionID(c); id != "" {
		if err := h.sessions.End(c.Request.Context(), id); err != nil && !errors.Is(err, session.ErrNotFound) {
			log.Error().Err(err).Str("session", id).Msg("结束会话失败")
			InternalError(c, "Gagal logout")
			return
		}
	}
	middleware.ClearTokenCookie(c)
	SuccessWithMessage(c, "Berhasil logout", nil)
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, middleware.GetCurrentUserID(c)).Error; err != nil {
		NotFound(c, "Pengguna tidak ditemukan")
		return
	}
	Success(c, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, msgInvalidRequest)
		return
	}

	var user models.User
	if err := database.DB.First(&user, middleware.GetCurrentUserID(c)).Error; err != nil {
		NotFound(c, "Pengguna tidak ditemukan")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "Kata sandi lama salah")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Gagal memproses kata sandi")
		return
	}
	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		InternalError(c, "Gagal mengubah kata sandi: "+SafeErrorMessage(err, "kesalahan server"))
		return
	}
	SuccessWithMessage(c, "Kata sandi berhasil diubah", nil)
}

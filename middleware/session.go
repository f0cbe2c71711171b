package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"dompet/session"

	"github.com/gin-gonic/gin"
)

// SessionValidator 检查会话是否仍有效
type SessionValidator interface {
	Validate(ctx context.Context, id string) error
}

// LoginPath 页面未登录时跳转的地址
const LoginPath = "/login"

// ClearTokenCookie 删除登录 Cookie
func ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
}

// sessionMessage 会话错误对应的提示
func sessionMessage(err error) string {
	if errors.Is(err, session.ErrExpired) {
		return session.MessageExpired
	}
	return "Sesi tidak ditemukan, silakan masuk kembali"
}

// SessionGuard 在 JWTAuth 之后使用，拒绝已过期或不存在的会话
// 任一标签页超时后，其他标签页的下一次请求都会在这里被拒绝
func SessionGuard(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetSessionID(c)
		if id == "" {
			abortUnauthorized(c, "Sesi tidak ditemukan, silakan masuk kembali")
			return
		}
		if err := validator.Validate(c.Request.Context(), id); err != nil {
			ClearTokenCookie(c)
			abortUnauthorized(c, sessionMessage(err))
			return
		}
		c.Next()
	}
}

// PageAuth 页面路由的认证：token 或会话无效时跳转到登录页
func PageAuth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirect := func(reason string) {
			target := LoginPath
			if reason != "" {
				target += "?" + url.Values{"reason": {reason}}.Encode()
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
		}

		tokenString, ok := extractToken(c)
		if !ok {
			redirect("")
			return
		}
		claims, err := ParseToken(tokenString)
		if err != nil || claims.SessionID == "" {
			ClearTokenCookie(c)
			redirect("")
			return
		}
		if err := validator.Validate(c.Request.Context(), claims.SessionID); err != nil {
			ClearTokenCookie(c)
			if errors.Is(err, session.ErrExpired) {
				redirect("idle")
				return
			}
			redirect("")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

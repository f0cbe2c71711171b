package api

import (
	"net/http"

	"dompet/config"
	"dompet/middleware"

	"github.com/gin-gonic/gin"
)

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式或显式配置时启用 Secure，SameSite=Lax 防止跨站 POST 携带 Cookie
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	if cfg := config.GlobalConfig; cfg != nil {
		secure = cfg.Server.Mode == "release" || cfg.Session.SecureCookie
	}
	sameSite = http.SameSiteLaxMode
	return
}

// setTokenCookie 页面使用的登录 Cookie，HttpOnly
func setTokenCookie(c *gin.Context, token string, maxAge int) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", secure, true)
}

package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dompet/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie 页面登录后保存 token 的 Cookie 名
const TokenCookie = "token"

// 上下文中的键
const (
	ctxUserID    = "userID"
	ctxUsername  = "username"
	ctxUID       = "uid"
	ctxSessionID = "sessionID"
)

var jwtSecret []byte

// Claims JWT 载荷，UID 为数据命名空间，SessionID 对应闲置超时会话
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	UID       string `json:"uid,omitempty"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// InitJWT 初始化签名密钥
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken 生成不绑定会话的 token
func GenerateToken(userID uint, username string, expire time.Duration) (string, error) {
	return GenerateSessionToken(userID, username, "", "", expire)
}

// GenerateSessionToken 生成携带 uid 与会话 id 的 token
func GenerateSessionToken(userID uint, username, uid, sessionID string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		UID:       uid,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "dompet",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 校验签名与有效期
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token 为空")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("不支持的签名算法")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token 无效")
	}
	return claims, nil
}

// extractToken 优先读取 Authorization 头，其次读取 Cookie
func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// abortUnauthorized 与 api.Response 结构一致
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

// setClaims 写入上下文
func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxUID, claims.UID)
	c.Set(ctxSessionID, claims.SessionID)
}

// JWTAuth JWT 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			abortUnauthorized(c, "Silakan masuk terlebih dahulu")
			return
		}
		claims, err := ParseToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token tidak valid atau sudah kedaluwarsa")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// GetCurrentUserID 当前用户 ID，未登录返回 0
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentUsername 当前用户名
func GetCurrentUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// GetCurrentUID 当前用户的数据命名空间
func GetCurrentUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

// GetSessionID 当前会话 id
func GetSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

package api

import (
	"net/http"

	"dompet/middleware"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
// requestId 与请求日志中的 request_id 相同，页面提示失败时可据此查日志
type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func reply(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Code:      status,
		Message:   message,
		Data:      data,
		RequestID: c.Writer.Header().Get(middleware.RequestIDHeader),
	})
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	reply(c, http.StatusOK, "success", data)
}

// SuccessWithMessage 带提示的成功响应，页面用 message 显示 toast
func SuccessWithMessage(c *gin.Context, message string, data any) {
	reply(c, http.StatusOK, message, data)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	reply(c, status, message, nil)
}

func BadRequest(c *gin.Context, message string) { Error(c, http.StatusBadRequest, message) }
func Unauthorized(c *gin.Context, message string) { Error(c, http.StatusUnauthorized, message) }
func Forbidden(c *gin.Context, message string) { Error(c, http.StatusForbidden, message) }
func NotFound(c *gin.Context, message string) { Error(c, http.StatusNotFound, message) }
func Conflict(c *gin.Context, message string) { Error(c, http.StatusConflict, message) }
func TooLarge(c *gin.Context, message string) { Error(c, http.StatusRequestEntityTooLarge, message) }
func InternalError(c *gin.Context, message string) { Error(c, http.StatusInternalServerError, message) }

package api

import (
	"context"
	"errors"

	"dompet/middleware"
	"dompet/session"

	"github.com/gin-gonic/gin"
)

// SessionTracker 会话闲置状态机的操作
type SessionTracker interface {
	Status(ctx context.Context, id string) (session.Status, error)
	Activity(ctx context.Context, id, event string) (session.Status, error)
	Extend(ctx context.Context, id string) (session.Status, error)
	Visible(ctx context.Context, id string) (session.Status, error)
}

// SessionHandler 会话接口
type SessionHandler struct {
	sessions SessionTracker
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessions SessionTracker) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// ActivityRequest 交互事件
type ActivityRequest struct {
	Event string `json:"event" binding:"required" example:"keydown"`
}

// respondSession 会话结果
func respondSession(c *gin.Context, st session.Status, err error, message string) {
	switch {
	case err == nil:
		if message == "" {
			Success(c, st)
			return
		}
		SuccessWithMessage(c, message, st)
	case errors.Is(err, session.ErrUnknownEvent):
		BadRequest(c, "Jenis aktivitas tidak dikenal")
	case errors.Is(err, session.ErrExpired):
		middleware.ClearTokenCookie(c)
		Unauthorized(c, session.MessageExpired)
	case errors.Is(err, session.ErrNotFound):
		middleware.ClearTokenCookie(c)
		Unauthorized(c, "Sesi tidak ditemukan, silakan masuk kembali")
	default:
		respondError(c, err, "", "Gagal memperbarui sesi")
	}
}

// Status 当前会话状态
// @Summary 会话状态
// @Description 剩余时间与倒计时文本，不计为活动
// @Tags 会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=session.Status} "获取成功"
// @Failure 401 {object} Response "会话已结束"
// @Router /api/v1/session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	st, err := h.sessions.Status(c.Request.Context(), middleware.GetSessionID(c))
	respondSession(c, st, err, "")
}

// Activity 上报交互事件
// @Summary 上报活动
// @Description mousedown、mousemove、keydown、scroll、touchstart、click、focus 会重置闲置计时
// @Tags 会话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ActivityRequest true "事件"
// @Success 200 {object} Response{data=session.Status} "成功"
// @Failure 400 {object} Response "未知事件"
// @Failure 401 {object} Response "会话已结束"
// @Router /api/v1/session/activity [post]
func (h *SessionHandler) Activity(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, msgInvalidRequest)
		return
	}
	st, err := h.sessions.Activity(c.Request.Context(), middleware.GetSessionID(c), req.Event)
	respondSession(c, st, err, "")
}

// Extend 延长会话
// @Summary 延长会话
// @Description 提醒弹窗中的“继续”按钮
// @Tags 会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=session.Status} "成功"
// @Failure 401 {object} Response "会话已结束"
// @Router /api/v1/session/extend [post]
func (h *SessionHandler) Extend(c *gin.Context) {
	st, err := h.sessions.Extend(c.Request.Context(), middleware.GetSessionID(c))
	respondSession(c, st, err, session.MessageExtended)
}

// Visible 页面重新可见
// @Summary 页面重新可见
// @Description 按持久化的最后活动时间检查，已超时则立即结束会话
// @Tags 会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=session.Status} "成功"
// @Failure 401 {object} Response "会话已结束"
// @Router /api/v1/session/visible [post]
func (h *SessionHandler) Visible(c *gin.Context) {
	st, err := h.sessions.Visible(c.Request.Context(), middleware.GetSessionID(c))
	respondSession(c, st, err, "")
}

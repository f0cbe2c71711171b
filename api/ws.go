package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dompet/middleware"
	"dompet/session"
	ws "dompet/websocket"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// EventTypeSessionStatus 回复给发送方标签页的会话状态
const EventTypeSessionStatus = "session.status"

// wsMessageTimeout 处理单条页面消息的超时
const wsMessageTimeout = 5 * time.Second

// WebSocketHandler 页面的 WebSocket 连接
type WebSocketHandler struct {
	hub            *ws.Hub
	sessions       SessionTracker
	validator      middleware.SessionValidator
	allowedOrigins map[string]bool
	upgrader       gws.Upgrader
}

// NewWebSocketHandler 创建 WebSocket 处理器；allowedOrigins 为空时只接受同源请求
func NewWebSocketHandler(hub *ws.Hub, sessions SessionTracker, validator middleware.SessionValidator, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	h := &WebSocketHandler{
		hub:            hub,
		sessions:       sessions,
		validator:      validator,
		allowedOrigins: origins,
	}
	h.upgrader = gws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin 没有 Origin 头或与 Host 相同时放行
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigins[origin] {
		return true
	}
	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	log.Warn().Str("origin", origin).Msg("WebSocket 连接被拒绝：来源不允许")
	return false
}

// tokenFrom 浏览器无法为 WebSocket 设置请求头，允许 query 参数或 Cookie
func tokenFrom(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	if t, err := c.Cookie(middleware.TokenCookie); err == nil {
		return t
	}
	return ""
}

// HandleWS 建立连接
// @Summary WebSocket
// @Description 推送 session.warning、session.expired、month.updated 等事件；页面发送 {type: activity|visible|extend}
// @Tags 会话
// @Param token query string false "JWT，未提供时读取 Cookie"
// @Router /ws [get]
func (h *WebSocketHandler) HandleWS(c *gin.Context) {
	claims, err := middleware.ParseToken(tokenFrom(c))
	if err != nil || claims.UID == "" || claims.SessionID == "" {
		Unauthorized(c, msgLoginRequired)
		return
	}
	if err := h.validator.Validate(c.Request.Context(), claims.SessionID); err != nil {
		Unauthorized(c, session.MessageExpired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket 升级失败")
		return
	}

	client := ws.NewClient(conn, claims.UID, claims.SessionID, h.hub, h.onMessage)
	h.hub.Register(client)
	log.Info().Str("uid", claims.UID).Str("client_id", client.ID()).Msg("WebSocket 已连接")

	go client.WritePump()
	go client.ReadPump()
}

// onMessage 把页面消息交给会话状态机
func (h *WebSocketHandler) onMessage(client *ws.Client, data []byte) {
	msg, err := ws.ParseInbound(data)
	if err != nil {
		log.Debug().Err(err).Str("client_id", client.ID()).Msg("无法解析页面消息")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), wsMessageTimeout)
	defer cancel()

	var (
		st    session.Status
		reply bool
	)
	switch msg.Type {
	case ws.InboundActivity:
		_, err = h.sessions.Activity(ctx, client.SessionID(), msg.Event)
	case ws.InboundVisible:
		st, err = h.sessions.Visible(ctx, client.SessionID())
		reply = true
	case ws.InboundExtend:
		st, err = h.sessions.Extend(ctx, client.SessionID())
		reply = true
	default:
		log.Debug().Str("type", msg.Type).Msg("未知的页面消息类型")
		return
	}

	switch {
	case errors.Is(err, session.ErrUnknownEvent):
		return
	case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrNotFound):
		// 过期事件已经由会话管理器广播
		return
	case err != nil:
		log.Warn().Err(err).Str("session", client.SessionID()).Msg("处理页面消息失败")
		return
	}
	if !reply {
		return
	}
	payload, err := ws.NewEvent(EventTypeSessionStatus, st).ToJSON()
	if err != nil {
		return
	}
	if err := client.Send(payload); err != nil {
		log.Debug().Err(err).Str("client_id", client.ID()).Msg("回复会话状态失败")
	}
}

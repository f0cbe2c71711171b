package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait 单次写入的超时
	writeWait = 10 * time.Second

	// pongWait 等待 pong 的超时
	pongWait = 60 * time.Second

	// pingPeriod 必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize 页面消息上限
	maxMessageSize = 512
)

// MessageHandler 处理页面发来的消息
type MessageHandler func(c *Client, data []byte)

// Client 单个 WebSocket 连接
type Client struct {
	id        string
	uid       string
	sessionID string
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	onMessage MessageHandler
	closed    bool
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewClient 创建连接
func NewClient(conn *websocket.Conn, uid, sessionID string, hub *Hub, onMessage MessageHandler) *Client {
	return &Client{
		id:        uuid.New().String(),
		uid:       uid,
		sessionID: sessionID,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, 256),
		onMessage: onMessage,
	}
}

func (c *Client) ID() string        { return c.id }
func (c *Client) UID() string       { return c.uid }
func (c *Client) SessionID() string { return c.sessionID }

// Send 放入发送队列；队列满视为客户端过慢
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close 可重复调用
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// ReadPump 读取页面消息，需在独立 goroutine 中运行
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Str("uid", c.uid).Msg("WebSocket 异常关闭")
			}
			return
		}
		if c.onMessage != nil {
			c.onMessage(c, data)
		}
	}
}

// WritePump 发送队列中的消息与心跳，需在独立 goroutine 中运行
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Str("uid", c.uid).Msg("WebSocket 写入失败")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed 向已关闭的连接发送
var ErrClientClosed = errors.New("client is closed")

// ClientInterface 连接的最小接口
type ClientInterface interface {
	ID() string
	UID() string
	Send(data []byte) error
	Close() error
}

// Hub 按用户 uid 管理连接，并发安全
type Hub struct {
	users map[string]map[string]ClientInterface
	mu    sync.RWMutex
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[string]ClientInterface),
	}
}

// Register 注册连接
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	uid := client.UID()
	if h.users[uid] == nil {
		h.users[uid] = make(map[string]ClientInterface)
	}
	h.users[uid][client.ID()] = client

	log.Debug().Str("uid", uid).Str("client_id", client.ID()).Msg("WebSocket 连接已注册")
}

// Unregister 移除连接
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	uid := client.UID()
	clients, ok := h.users[uid]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.users, uid)
	}
	log.Debug().Str("uid", uid).Str("client_id", client.ID()).Msg("WebSocket 连接已移除")
}

// Broadcast 按调用顺序发送给该用户的所有连接；Client.Send 不阻塞，缓冲满时丢弃
func (h *Hub) Broadcast(uid string, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("uid", uid).Str("event_type", event.Type).Msg("事件序列化失败")
		return
	}

	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.users[uid]))
	for _, c := range h.users[uid] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	// 发送时不持有锁
	for _, c := range clients {
		if err := c.Send(data); err != nil {
			log.Warn().Err(err).Str("uid", uid).Str("client_id", c.ID()).Msg("推送失败")
		}
	}

	log.Debug().Str("uid", uid).Str("event_type", event.Type).Int("client_count", len(clients)).Msg("已推送事件")
}

// Publish 构造事件并推送
func (h *Hub) Publish(uid, eventType string, payload any) {
	h.Broadcast(uid, NewEvent(eventType, payload))
}

// ClientCount 用户的连接数
func (h *Hub) ClientCount(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[uid])
}

// TotalClientCount 全部连接数
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.users {
		total += len(clients)
	}
	return total
}

// CloseUser 关闭用户的所有连接（登出时）
func (h *Hub) CloseUser(uid string) {
	h.mu.Lock()
	clients := h.users[uid]
	delete(h.users, uid)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}

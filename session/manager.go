package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"dompet/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// 推送给页面的会话事件
const (
	EventTypeWarning  = "session.warning"
	EventTypeResumed  = "session.resumed"
	EventTypeExtended = "session.extended"
	EventTypeExpired  = "session.expired"
)

// 页面提示文案
const (
	MessageExpired  = "Sesi berakhir karena tidak ada aktivitas"
	MessageExtended = "Sesi berhasil diperpanjang"
)

// Publisher 把事件推送给用户的所有标签页
type Publisher interface {
	Publish(uid, eventType string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, any) {}

// Manager 管理所有会话的状态机
type Manager struct {
	store  Store
	policy Policy
	clock  Clock
	pub    Publisher

	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewManager 创建会话管理器
func NewManager(store Store, policy Policy, clock Clock, pub Publisher) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Manager{
		store:    store,
		policy:   policy,
		clock:    clock,
		pub:      pub,
		trackers: make(map[string]*Tracker),
	}
}

// Policy 超时策略
func (m *Manager) Policy() Policy { return m.policy }

// Begin 登录时创建会话记录并开始计时
func (m *Manager) Begin(ctx context.Context, userID uint, uid string) (models.Session, error) {
	now := m.clock.Now()
	rec := models.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		UID:          uid,
		LoginAt:      now,
		LastActivity: &now,
	}
	if err := m.store.Create(ctx, &rec); err != nil {
		return models.Session{}, err
	}
	if _, err := m.tracker(ctx, rec.ID); err != nil {
		return models.Session{}, err
	}
	return rec, nil
}

// tracker 取得会话状态机；进程重启后按持久化记录恢复
func (m *Manager) tracker(ctx context.Context, id string) (*Tracker, error) {
	m.mu.Lock()
	if t, ok := m.trackers[id]; ok {
		m.mu.Unlock()
		return t, nil
	}
	m.mu.Unlock()

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Expired() {
		return nil, ErrExpired
	}

	t := NewTracker(id, m.policy, m.clock, m.store, m.hooksFor(rec))
	if err := t.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.trackers[id]; ok {
		t.Stop()
		return existing, nil
	}
	m.trackers[id] = t
	return t, nil
}

func (m *Manager) hooksFor(rec models.Session) Hooks {
	id, uid := rec.ID, rec.UID
	return Hooks{
		OnWarning: func(remaining time.Duration) {
			m.pub.Publish(uid, EventTypeWarning, map[string]any{
				"sessionId":        id,
				"remainingSeconds": int(remaining / time.Second),
				"countdown":        FormatCountdown(remaining),
			})
		},
		OnResume: func(extended bool) {
			if extended {
				m.pub.Publish(uid, EventTypeExtended, map[string]any{"sessionId": id, "message": MessageExtended})
				return
			}
			m.pub.Publish(uid, EventTypeResumed, map[string]any{"sessionId": id})
		},
		OnExpired: func(reason ExpireReason) {
			m.mu.Lock()
			delete(m.trackers, id)
			m.mu.Unlock()
			m.pub.Publish(uid, EventTypeExpired, map[string]any{
				"sessionId": id,
				"reason":    string(reason),
				"message":   MessageExpired,
			})
		},
	}
}

// Activity 记录一次交互事件
func (m *Manager) Activity(ctx context.Context, id, event string) (Status, error) {
	kind, ok := ParseEvent(event)
	if !ok {
		return Status{}, ErrUnknownEvent
	}
	t, err := m.tracker(ctx, id)
	if err != nil {
		return Status{}, err
	}
	if err := t.Activity(ctx, kind); err != nil {
		return Status{}, err
	}
	return t.Snapshot(), nil
}

// Extend 延长会话
func (m *Manager) Extend(ctx context.Context, id string) (Status, error) {
	t, err := m.tracker(ctx, id)
	if err != nil {
		return Status{}, err
	}
	if err := t.Extend(ctx); err != nil {
		return Status{}, err
	}
	return t.Snapshot(), nil
}

// Visible 页面重新可见
func (m *Manager) Visible(ctx context.Context, id string) (Status, error) {
	t, err := m.tracker(ctx, id)
	if err != nil {
		return Status{}, err
	}
	if err := t.HandleVisible(ctx); err != nil {
		return Status{}, err
	}
	return t.Snapshot(), nil
}

// Status 当前状态，不计为活动
func (m *Manager) Status(ctx context.Context, id string) (Status, error) {
	m.mu.Lock()
	t, ok := m.trackers[id]
	m.mu.Unlock()
	if ok {
		return t.Snapshot(), nil
	}
	if err := m.Validate(ctx, id); err != nil {
		return Status{}, err
	}
	t, err := m.tracker(ctx, id)
	if err != nil {
		return Status{}, err
	}
	return t.Snapshot(), nil
}

// Validate 请求鉴权时检查会话：不存在、已过期或按持久化时间已超时均返回错误
func (m *Manager) Validate(ctx context.Context, id string) error {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Expired() {
		return ErrExpired
	}
	if m.policy.IsActive(rec, m.clock.Now()) {
		// 重启后恢复计时，提醒与强制登出才能推送到已连接的标签页
		if _, err := m.tracker(ctx, id); err != nil {
			return err
		}
		return nil
	}

	m.mu.Lock()
	t, ok := m.trackers[id]
	m.mu.Unlock()
	if ok {
		t.expire(ReasonStale)
		return ErrExpired
	}
	first, err := m.store.MarkExpired(ctx, id, m.clock.Now())
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("标记会话过期失败")
	}
	if first {
		m.hooksFor(rec).OnExpired(ReasonStale)
	}
	return ErrExpired
}

// End 主动登出：停止计时并删除记录
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	t, ok := m.trackers[id]
	delete(m.trackers, id)
	m.mu.Unlock()
	if ok {
		t.Stop()
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Close 停止所有计时器
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.trackers {
		t.Stop()
		delete(m.trackers, id)
	}
}

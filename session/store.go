package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dompet/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 会话不存在
	ErrNotFound = errors.New("session not found")
	// ErrExpired 会话已因闲置结束
	ErrExpired = errors.New("session expired")
	// ErrUnknownEvent 不计入活动的事件
	ErrUnknownEvent = errors.New("unknown activity event")
)

// Store 会话记录的持久化
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (models.Session, error)
	// Touch 更新最后活动时间，已过期的会话不更新
	Touch(ctx context.Context, id string, at time.Time) error
	// MarkExpired 标记过期，只有第一个调用者返回 true
	MarkExpired(ctx context.Context, id string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

// GormStore 基于 sessions 表
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建会话表存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, rec *models.Session) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("创建会话失败: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (models.Session, error) {
	var rec models.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("读取会话失败: %w", err)
	}
	return rec, nil
}

func (s *GormStore) Touch(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND expired_at IS NULL", id).
		Update("last_activity", at).Error
	if err != nil {
		return fmt.Errorf("更新会话活动时间失败: %w", err)
	}
	return nil
}

func (s *GormStore) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND expired_at IS NULL", id).
		Update("expired_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("标记会话过期失败: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}

// MemoryStore 进程内会话存储
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

// NewMemoryStore 创建空存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

func (s *MemoryStore) Create(_ context.Context, rec *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Touch(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok || rec.Expired() {
		return nil
	}
	rec.LastActivity = &at
	s.sessions[id] = rec
	return nil
}

func (s *MemoryStore) MarkExpired(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok || rec.Expired() {
		return false, nil
	}
	rec.ExpiredAt = &at
	s.sessions[id] = rec
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

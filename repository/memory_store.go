package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore 进程内文档存储，用于测试与命令行导出
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore 创建空存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func docPath(uid, collection, docID string) string {
	return "users/" + uid + "/" + collection + "/" + docID
}

// Get 读取文档
func (s *MemoryStore) Get(_ context.Context, uid, collection, docID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.docs[docPath(uid, collection, docID)]
	if !ok {
		return nil, ErrDocNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Set 写入文档
func (s *MemoryStore) Set(_ context.Context, uid, collection, docID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docPath(uid, collection, docID)] = append([]byte(nil), payload...)
	return nil
}

// List 列出集合内的文档 id
func (s *MemoryStore) List(_ context.Context, uid, collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := docPath(uid, collection, "")
	ids := []string{}
	for path := range s.docs {
		if strings.HasPrefix(path, prefix) {
			ids = append(ids, strings.TrimPrefix(path, prefix))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

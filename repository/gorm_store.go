package repository

import (
	"context"
	"errors"
	"fmt"

	"dompet/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 以 documents 表保存文档
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 文档存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get 读取文档内容
func (s *GormStore) Get(ctx context.Context, uid, collection, docID string) ([]byte, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("uid = ? AND collection = ? AND doc_id = ?", uid, collection, docID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取文档 %s/%s 失败: %w", collection, docID, err)
	}
	return []byte(doc.Payload), nil
}

// Set 写入文档，存在则覆盖
func (s *GormStore) Set(ctx context.Context, uid, collection, docID string, payload []byte) error {
	doc := models.Document{
		UID:        uid,
		Collection: collection,
		DocID:      docID,
		Payload:    string(payload),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("保存文档 %s/%s 失败: %w", collection, docID, err)
	}
	return nil
}

// List 列出集合内的文档 id
func (s *GormStore) List(ctx context.Context, uid, collection string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("uid = ? AND collection = ?", uid, collection).
		Order("doc_id").
		Pluck("doc_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("列出文档 %s 失败: %w", collection, err)
	}
	return ids, nil
}

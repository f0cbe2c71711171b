package models

import "time"

// Document 文档存储行，路径为 users/{uid}/{collection}/{doc_id}
type Document struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UID        string    `json:"uid" gorm:"size:36;not null;uniqueIndex:idx_document_path"`
	Collection string    `json:"collection" gorm:"size:32;not null;uniqueIndex:idx_document_path"`
	DocID      string    `json:"doc_id" gorm:"size:64;not null;uniqueIndex:idx_document_path"`
	Payload    string    `json:"payload" gorm:"type:longtext;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Document) TableName() string {
	return "documents"
}

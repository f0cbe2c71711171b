// Package repository 每个用户的文档树：users/{uid}/{collection}/{docID}。
// 读写时统一规整金额与日期，旧格式在读取时迁移。
package repository

import (
	"context"
	"errors"
)

// 文档集合与固定文档 id
const (
	CollectionCategories  = "categories"
	CollectionTemplates   = "templates"
	CollectionMonths      = "months"
	CollectionPreferences = "preferences"

	DocCategories  = "main"
	DocTemplates   = "recurring"
	DocPreferences = "tables"
)

var (
	// ErrDocNotFound 文档不存在
	ErrDocNotFound = errors.New("document not found")
	// ErrNoUser 未登录时的读写
	ErrNoUser = errors.New("no signed-in user")
)

// DocumentStore 按路径读写 JSON 文档，最后写入者胜出
type DocumentStore interface {
	Get(ctx context.Context, uid, collection, docID string) ([]byte, error)
	Set(ctx context.Context, uid, collection, docID string, payload []byte) error
	// List 返回集合内的文档 id，升序
	List(ctx context.Context, uid, collection string) ([]string, error)
}

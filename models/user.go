package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// UserStatusLocked 锁定：不可登录
	UserStatusLocked = "locked"
	// UserStatusActive 正常：可登录
	UserStatusActive = "active"
)

// User 用户模型，UID 为文档树的命名空间
type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UID         string         `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	Username    string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password    string         `json:"-" gorm:"size:255;not null"`
	DisplayName string         `json:"displayName" gorm:"size:100"`
	Email       string         `json:"email" gorm:"size:100;index"`
	PhotoURL    string         `json:"photoURL" gorm:"size:255"`
	Status      string         `json:"status" gorm:"size:20;default:active;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 自动生成 UID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	return nil
}

// Initial 头像占位字符
func (u User) Initial() string {
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	for _, r := range name {
		return string(r)
	}
	return "?"
}

package models

import "time"

// Session 登录会话，记录最后活动时间，跨标签页共享
type Session struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	UID          string     `json:"uid" gorm:"size:36;index;not null"`
	LoginAt      time.Time  `json:"login_at" gorm:"not null"`
	LastActivity *time.Time `json:"last_activity"`
	ExpiredAt    *time.Time `json:"expired_at" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName 设置表名
func (Session) TableName() string {
	return "sessions"
}

// Expired 是否已被强制登出
func (s Session) Expired() bool {
	return s.ExpiredAt != nil
}

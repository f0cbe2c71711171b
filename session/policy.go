// Package session 闲置超时：Active → Warning → Expired。
// 最后活动时间持久化到会话表，多个标签页与多个实例共享同一记录。
package session

import (
	"fmt"
	"time"

	"dompet/models"
)

// 默认超时与提前提醒
const (
	DefaultTimeout     = 60 * time.Minute
	DefaultWarningLead = 5 * time.Minute
)

// Policy 超时策略
type Policy struct {
	Timeout     time.Duration
	WarningLead time.Duration
}

// DefaultPolicy 60 分钟超时，提前 5 分钟提醒
func DefaultPolicy() Policy {
	return Policy{Timeout: DefaultTimeout, WarningLead: DefaultWarningLead}
}

// WithTimeout 自定义超时，提醒提前量为 min(5 分钟, 超时的一半)
func WithTimeout(timeout time.Duration) Policy {
	if timeout <= 0 {
		return DefaultPolicy()
	}
	lead := DefaultWarningLead
	if half := timeout / 2; half < lead {
		lead = half
	}
	return Policy{Timeout: timeout, WarningLead: lead}
}

// NewPolicy 由配置构造；warning 超出合法范围时按 WithTimeout 计算
func NewPolicy(timeout, warning time.Duration) Policy {
	p := WithTimeout(timeout)
	if warning > 0 && warning < p.Timeout {
		p.WarningLead = warning
	}
	return p
}

// WarningAfter 最后一次活动后多久显示提醒
func (p Policy) WarningAfter() time.Duration {
	return p.Timeout - p.WarningLead
}

// reference 判断用的参考时间：最后活动，否则登录时间
func reference(rec models.Session) (time.Time, bool) {
	if rec.LastActivity != nil && !rec.LastActivity.IsZero() {
		return *rec.LastActivity, true
	}
	if !rec.LoginAt.IsZero() {
		return rec.LoginAt, true
	}
	return time.Time{}, false
}

// IsActive 会话是否仍在有效期内；没有任何时间记录时视为有效
func (p Policy) IsActive(rec models.Session, now time.Time) bool {
	if rec.Expired() {
		return false
	}
	ref, ok := reference(rec)
	if !ok {
		return true
	}
	return now.Sub(ref) <= p.Timeout
}

// Remaining 距离超时的剩余时间，不小于 0
func (p Policy) Remaining(rec models.Session, now time.Time) time.Duration {
	if rec.Expired() {
		return 0
	}
	ref, ok := reference(rec)
	if !ok {
		return p.Timeout
	}
	if left := p.Timeout - now.Sub(ref); left > 0 {
		return left
	}
	return 0
}

// FormatCountdown m:ss 倒计时文本
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

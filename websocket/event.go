// Package websocket 把会话与数据变更推送给同一用户打开的所有标签页
package websocket

import (
	"encoding/json"
	"time"
)

// 数据变更事件
const (
	EventMonthUpdated      = "month.updated"
	EventCategoriesUpdated = "categories.updated"
	EventTemplatesUpdated  = "templates.updated"
	EventBudgetAlert       = "budget.alert"
)

// Event 推送消息，格式 { type, payload, timestamp }
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent 创建事件
func NewEvent(eventType string, payload any) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON 序列化
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Inbound 页面发来的消息：活动上报、页面可见、延长会话
type Inbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
}

// 页面消息类型
const (
	InboundActivity = "activity"
	InboundVisible  = "visible"
	InboundExtend   = "extend"
)

// ParseInbound 解析页面消息
func ParseInbound(data []byte) (Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return Inbound{}, err
	}
	return msg, nil
}

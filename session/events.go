package session

import "strings"

// EventKind 页面上报的交互事件
type EventKind string

// 计入活动的事件
const (
	EventMouseDown  EventKind = "mousedown"
	EventMouseMove  EventKind = "mousemove"
	EventKeyPress   EventKind = "keypress"
	EventKeyDown    EventKind = "keydown"
	EventScroll     EventKind = "scroll"
	EventTouchStart EventKind = "touchstart"
	EventTouchMove  EventKind = "touchmove"
	EventClick      EventKind = "click"
	EventFocus      EventKind = "focus"
	EventBlur       EventKind = "blur"
)

var qualifying = map[EventKind]bool{
	EventMouseDown:  true,
	EventMouseMove:  true,
	EventKeyPress:   true,
	EventKeyDown:    true,
	EventScroll:     true,
	EventTouchStart: true,
	EventTouchMove:  true,
	EventClick:      true,
	EventFocus:      true,
	EventBlur:       true,
}

// ParseEvent 规整事件名并判断是否计入活动
func ParseEvent(name string) (EventKind, bool) {
	kind := EventKind(strings.ToLower(strings.TrimSpace(name)))
	return kind, qualifying[kind]
}

// QualifyingEvents 页面需要监听的事件列表
func QualifyingEvents() []EventKind {
	return []EventKind{
		EventMouseDown, EventMouseMove, EventKeyPress, EventScroll,
		EventTouchStart, EventTouchMove, EventClick, EventKeyDown,
		EventFocus, EventBlur,
	}
}

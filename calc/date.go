package calc

import (
	"encoding/json"
	"strings"
	"time"
)

// DateKind 日期输入的来源形态
type DateKind int

const (
	// DateMissing 缺失或空值
	DateMissing DateKind = iota
	// DateTime 原生时间值
	DateTime
	// DateTimestamp {seconds, nanoseconds} 形式的时间戳对象
	DateTimestamp
	// DateText ISO 风格字符串
	DateText
	// DateUnsupported 无法识别的形态（数字、布尔等）
	DateUnsupported
)

// DateValue 已接受的日期输入的标签联合，只在持久化边界解析一次
type DateValue struct {
	Kind    DateKind
	Time    time.Time
	Seconds int64
	Nanos   int64
	Text    string
}

// dateConverter 任何能给出 time.Time 的值（如存储 SDK 的时间戳类型）
type dateConverter interface {
	ToDate() time.Time
}

// DateFrom 把任意 Go 值归类为 DateValue
func DateFrom(v any) DateValue {
	switch d := v.(type) {
	case nil:
		return DateValue{Kind: DateMissing}
	case DateValue:
		return d
	case time.Time:
		if d.IsZero() {
			return DateValue{Kind: DateMissing}
		}
		return DateValue{Kind: DateTime, Time: d}
	case *time.Time:
		if d == nil || d.IsZero() {
			return DateValue{Kind: DateMissing}
		}
		return DateValue{Kind: DateTime, Time: *d}
	case dateConverter:
		return DateValue{Kind: DateTime, Time: d.ToDate()}
	case string:
		if d == "" {
			return DateValue{Kind: DateMissing}
		}
		return DateValue{Kind: DateText, Text: d}
	case map[string]any:
		return timestampFromMap(d)
	default:
		return DateValue{Kind: DateUnsupported}
	}
}

func timestampFromMap(m map[string]any) DateValue {
	sec, ok := m["seconds"]
	if !ok {
		sec, ok = m["_seconds"]
	}
	if !ok {
		return DateValue{Kind: DateUnsupported}
	}
	out := DateValue{Kind: DateTimestamp, Seconds: int64(NormalizeAmount(sec))}
	if n, ok := m["nanoseconds"]; ok {
		out.Nanos = int64(NormalizeAmount(n))
	} else if n, ok := m["_nanoseconds"]; ok {
		out.Nanos = int64(NormalizeAmount(n))
	}
	return out
}

// UnmarshalJSON 接受 null、字符串、时间戳对象；其余形态标记为不支持，不报错
func (d *DateValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*d = DateValue{Kind: DateUnsupported}
		return nil
	}
	*d = DateFrom(raw)
	return nil
}

// MarshalJSON 输出 RFC3339 字符串，缺失时为 null
func (d DateValue) MarshalJSON() ([]byte, error) {
	if d.Kind == DateMissing {
		return []byte("null"), nil
	}
	return json.Marshal(ConvertDate(d, time.Now()))
}

var textLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ConvertDate 总是返回合法时间，无法解析时退回 now
// 不带时区的字符串按 now 的时区解释
func ConvertDate(d DateValue, now time.Time) time.Time {
	switch d.Kind {
	case DateTime:
		if d.Time.IsZero() {
			return now
		}
		return d.Time
	case DateTimestamp:
		if d.Seconds == 0 {
			return now
		}
		return time.Unix(d.Seconds, d.Nanos).In(now.Location())
	case DateText:
		if t, ok := ParseDateText(d.Text, now.Location()); ok {
			return t
		}
		return now
	default:
		return now
	}
}

// ParseDateText 解析常见 ISO 风格日期字符串
func ParseDateText(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range textLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

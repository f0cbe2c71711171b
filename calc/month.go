package calc

import (
	"errors"
	"time"
)

// ErrInvalidMonthKey 月份键不是 YYYY-MM
var ErrInvalidMonthKey = errors.New("invalid month key")

const monthKeyLayout = "2006-01"

// MonthKey YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ParseMonthKey 返回该月第一天 00:00
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(monthKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, ErrInvalidMonthKey
	}
	return t, nil
}

// ValidMonthKey 是否为合法月份键
func ValidMonthKey(key string) bool {
	_, err := ParseMonthKey(key, time.UTC)
	return err == nil
}

// ShiftMonth 相对月份键偏移 delta 个月
func ShiftMonth(key string, delta int) (string, error) {
	t, err := ParseMonthKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, delta, 0)), nil
}

// DefaultEntryDate 新条目的默认日期：当月为 now，其他月份为该月第一天
func DefaultEntryDate(key string, now time.Time) time.Time {
	start, err := ParseMonthKey(key, now.Location())
	if err != nil {
		return now
	}
	if start.Year() == now.Year() && start.Month() == now.Month() {
		return now
	}
	return start
}

// InMonth 时间是否落在该月
func InMonth(t time.Time, key string) bool {
	return MonthKey(t) == key
}

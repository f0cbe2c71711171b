package calc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatCurrency 印尼盾格式，不带小数：Rp 12.000，负数为 -Rp 12.000
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(finite(amount)).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "Rp " + groupThousands(d.String())
}

// FormatNumber 千分位用 "." 分隔的整数，如 1.250.000
func FormatNumber(amount float64) string {
	d := decimal.NewFromFloat(finite(amount)).Round(0)
	if d.IsNegative() {
		return "-" + groupThousands(d.Abs().String())
	}
	return groupThousands(d.String())
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercentage 取整百分比文本，如 "37%"
func FormatPercentage(value float64) string {
	return strconv.FormatFloat(decimal.NewFromFloat(finite(value)).Round(0).InexactFloat64(), 'f', 0, 64) + "%"
}

// FormatShortDate dd/mm/yyyy
func FormatShortDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateForInput yyyy-mm-dd，零值为空串
func FormatDateForInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseDateInput 解析 yyyy-mm-dd 表单值，空或非法时返回 now
// 缺失的月、日按 1 处理
func ParseDateInput(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return now
	}
	parts := strings.Split(value, "-")
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return now
	}
	month, day := 1, 1
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m > 0 {
			month = m
		} else if err != nil {
			return now
		}
	}
	if len(parts) > 2 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d > 0 {
			day = d
		} else if err != nil {
			return now
		}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
}

// FormatMonth 印尼语月份标签，如 "Oktober 2025"
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

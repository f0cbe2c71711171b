// Package calc 记账数据的纯函数推导：金额与日期规整、支出状态、
// 月度汇总、预算进度、表格排序。不依赖存储与 HTTP。
package calc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeAmount 把任意输入规整为有限数值
// 数字原样返回（NaN/Inf 为 0）；字符串去掉数字与 "-" 以外的字符后解析；其他为 0
func NormalizeAmount(v any) float64 {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case string:
		return parseAmountText(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseAmountText "Rp 12.000" -> 12000，"abc" -> 0
func parseAmountText(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// Amount 可从任意 JSON 值解码的金额
type Amount float64

// UnmarshalJSON 解码时即规整，永不报错
func (a *Amount) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(NormalizeAmount(raw))
	return nil
}

// Float64 转为 float64
func (a Amount) Float64() float64 {
	return float64(a)
}

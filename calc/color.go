package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dompet/models"
)

// BadgePalette 类别徽章配色
type BadgePalette struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

// DefaultBadgePalette 颜色无效时的徽章配色
var DefaultBadgePalette = BadgePalette{
	Background: "rgba(11, 87, 208, 0.12)",
	Text:       "var(--primary-color-strong)",
	Border:     "var(--primary-color-strong)",
}

// NormalizeHexColor "#abc" / "abc" / "#aabbcc" -> "#AABBCC"，无效返回 false
func NormalizeHexColor(color string) (string, bool) {
	v := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(v, 16, 32); err != nil {
		return "", false
	}
	return "#" + strings.ToUpper(v), true
}

// LightenHexColor 按 intensity（0..1）向白色提亮
func LightenHexColor(color string, intensity float64) (string, bool) {
	normalized, ok := NormalizeHexColor(color)
	if !ok {
		return "", false
	}
	n, _ := strconv.ParseUint(normalized[1:], 16, 32)
	k := math.Min(math.Max(intensity, 0), 1)
	channel := func(c uint64) int {
		v := float64(c) / 255
		ratio := k + (1-k)*v
		l := v + (1-v)*ratio
		return int(math.Round(math.Min(l, 1) * 255))
	}
	r, g, b := channel((n>>16)&0xff), channel((n>>8)&0xff), channel(n&0xff)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), true
}

// CategoryBadgePalette 由类别颜色派生徽章配色
func CategoryBadgePalette(color string) BadgePalette {
	normalized, ok := NormalizeHexColor(color)
	if !ok {
		return DefaultBadgePalette
	}
	bg, ok := LightenHexColor(normalized, 0.85)
	if !ok {
		bg = DefaultBadgePalette.Background
	}
	return BadgePalette{Background: bg, Text: normalized, Border: normalized}
}

// CategoryTotal 图表用的类别支出合计
type CategoryTotal struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Total      float64 `json:"total"`
}

// CategoryTotals 按类别合计支出，顺序同类别列表，未知类别追加在后
func CategoryTotals(expenses []models.Expense, categories []models.Category) []CategoryTotal {
	sums := map[string]float64{}
	order := []string{}
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount
	}
	out := make([]CategoryTotal, 0, len(sums))
	used := map[string]bool{}
	for _, c := range categories {
		if total, ok := sums[c.ID]; ok && total != 0 {
			out = append(out, CategoryTotal{CategoryID: c.ID, Name: c.Name, Color: c.Color, Total: total})
		}
		used[c.ID] = true
	}
	for _, id := range order {
		if used[id] || sums[id] == 0 {
			continue
		}
		out = append(out, CategoryTotal{CategoryID: id, Name: CategoryName(categories, id), Total: sums[id]})
	}
	return out
}

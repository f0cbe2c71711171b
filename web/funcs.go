package web

import (
	"fmt"
	"html/template"
	"math"
	"strconv"

	"dompet/calc"
	"dompet/models"
)

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"currency":      calc.FormatCurrency,
		"number":        calc.FormatNumber,
		"percent":       calc.FormatPercentage,
		"shortDate":     calc.FormatShortDate,
		"inputDate":     calc.FormatDateForInput,
		"plain":         plain,
		"barWidth":      barWidth,
		"badgeStyle":    badgeStyle,
		"categoryBadge": categoryBadge,
		"categoryName":  calc.CategoryName,
		"isDone":        calc.IsExpenseDone,
		"statusLabel":   statusLabel,
	}
}

// plain 表单回填用的数字文本，不带千分位
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// barWidth 进度条宽度，超出 100% 时截断
func barWidth(percent float64) template.CSS {
	return template.CSS(fmt.Sprintf("width: %.0f%%", math.Min(calc.ClampDisplayPercent(percent), 100)))
}

// badgeStyle 类别徽章的内联样式
func badgeStyle(color string) template.CSS {
	p := calc.CategoryBadgePalette(color)
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s; border-color: %s", p.Background, p.Text, p.Border))
}

// categoryBadge 按类别 id 取徽章样式，未知类别用默认配色
func categoryBadge(categories []models.Category, id string) template.CSS {
	c, _ := models.FindCategory(categories, id)
	return badgeStyle(c.Color)
}

func statusLabel(e models.Expense) string {
	if calc.IsExpenseDone(e) {
		return "Selesai"
	}
	return "Rencana"
}

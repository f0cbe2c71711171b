package calc

import (
	"math"
	"sort"

	"dompet/models"
)

// 预算状态
const (
	BudgetOver    = "over"
	BudgetWarning = "warning"
	BudgetNormal  = "normal"
	BudgetNoLimit = "no-limit"
)

// DefaultWarningPercent 接近上限的提醒阈值
const DefaultWarningPercent = 80.0

// DisplayPercentCap 进度条显示上限
const DisplayPercentCap = 150.0

// BudgetItem 单个类别的预算进度
type BudgetItem struct {
	CategoryID     string  `json:"categoryId"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Limit          float64 `json:"limit"`
	ActualSpent    float64 `json:"actualSpent"`
	PlannedSpent   float64 `json:"plannedSpent"`
	ActualPercent  float64 `json:"actualPercent"`
	PlannedPercent float64 `json:"plannedPercent"`
	Remaining      float64 `json:"remaining"`
	Status         string  `json:"status"`
	Orphan         bool    `json:"orphan,omitempty"`
}

// SanitizeBudgets 规整金额并去掉 <= 0 的上限
func SanitizeBudgets(raw map[string]float64) models.Budgets {
	out := models.Budgets{}
	for id, limit := range raw {
		v := finite(limit)
		if id == "" || v <= 0 {
			continue
		}
		out[id] = v
	}
	return out
}

// BudgetProgress 计算每个类别的预算进度
// 已删除但仍被预算或支出引用的类别 id 追加在已知类别之后；
// 无上限且无支出的类别不出现在结果中
func BudgetProgress(categories []models.Category, expenses []models.Expense, budgets models.Budgets, warnPercent float64) []BudgetItem {
	if warnPercent <= 0 {
		warnPercent = DefaultWarningPercent
	}

	actual := map[string]float64{}
	planned := map[string]float64{}
	for _, e := range expenses {
		planned[e.Category] += e.Amount
		if IsExpenseDone(e) {
			actual[e.Category] += e.Amount
		}
	}

	known := map[string]bool{}
	items := make([]BudgetItem, 0, len(categories))
	for _, c := range categories {
		known[c.ID] = true
		items = append(items, buildBudgetItem(c.ID, c.Name, c.Color, budgets[c.ID], actual[c.ID], planned[c.ID], warnPercent))
	}

	orphans := map[string]bool{}
	for id := range budgets {
		if !known[id] {
			orphans[id] = true
		}
	}
	for id := range planned {
		if !known[id] {
			orphans[id] = true
		}
	}
	ids := make([]string, 0, len(orphans))
	for id := range orphans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		item := buildBudgetItem(id, orphanName(id), "", budgets[id], actual[id], planned[id], warnPercent)
		item.Orphan = true
		items = append(items, item)
	}

	visible := items[:0]
	for _, item := range items {
		if item.Limit > 0 || item.PlannedSpent > 0 || item.ActualSpent > 0 {
			visible = append(visible, item)
		}
	}
	return visible
}

func orphanName(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

func buildBudgetItem(id, name, color string, limit, actualSpent, plannedSpent, warnPercent float64) BudgetItem {
	item := BudgetItem{
		CategoryID:   id,
		Name:         name,
		Color:        color,
		Limit:        math.Max(finite(limit), 0),
		ActualSpent:  actualSpent,
		PlannedSpent: plannedSpent,
	}
	if item.Limit <= 0 {
		item.Status = BudgetNoLimit
		return item
	}
	item.ActualPercent = actualSpent / item.Limit * 100
	item.PlannedPercent = plannedSpent / item.Limit * 100
	item.Remaining = item.Limit - actualSpent
	switch {
	case actualSpent > item.Limit:
		item.Status = BudgetOver
	case item.ActualPercent >= warnPercent:
		item.Status = BudgetWarning
	default:
		item.Status = BudgetNormal
	}
	return item
}

// ClampDisplayPercent 进度条宽度，截断到 [0, 150]
func ClampDisplayPercent(p float64) float64 {
	return math.Min(math.Max(p, 0), DisplayPercentCap)
}

// StatusLabel 状态文案
func (b BudgetItem) StatusLabel() string {
	if b.Limit <= 0 {
		return "Tidak ada batas"
	}
	switch b.Status {
	case BudgetOver:
		return "Melebihi batas"
	case BudgetWarning:
		return "Hampir penuh"
	case BudgetNormal:
		return "Terkendali"
	default:
		return ""
	}
}

// RemainingText 剩余额度文案
func (b BudgetItem) RemainingText() string {
	if b.Limit <= 0 {
		return "Tanpa batas"
	}
	if b.Remaining < 0 {
		return "Melebihi: " + FormatCurrency(math.Abs(b.Remaining))
	}
	return "Sisa: " + FormatCurrency(b.Remaining)
}

// ShowPlannedOverlay 计划进度超出实际进度时叠加显示
func (b BudgetItem) ShowPlannedOverlay() bool {
	return ClampDisplayPercent(b.PlannedPercent) > ClampDisplayPercent(b.ActualPercent)
}

// OverBudget 处于超支状态的类别 id 集合
func OverBudget(items []BudgetItem) map[string]BudgetItem {
	out := map[string]BudgetItem{}
	for _, item := range items {
		if item.Status == BudgetOver {
			out[item.CategoryID] = item
		}
	}
	return out
}

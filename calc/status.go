package calc

import (
	"strings"

	"dompet/models"
)

// DeriveExpenseStatus 从可能缺失的状态与描述推导支出状态
//  1. 规整后为 planned/done 时返回规整值
//  2. 给出但为空白时为 planned
//  3. 给出但无法识别时原样返回
//  4. 描述中含 "done"（忽略大小写）时为 done
//  5. 否则为 planned
func DeriveExpenseStatus(status *string, description string) string {
	if status != nil {
		normalized := strings.ToLower(strings.TrimSpace(*status))
		switch normalized {
		case models.ExpenseStatusPlanned, models.ExpenseStatusDone:
			return normalized
		case "":
			return models.ExpenseStatusPlanned
		default:
			return *status
		}
	}
	if strings.Contains(strings.ToLower(description), "done") {
		return models.ExpenseStatusDone
	}
	return models.ExpenseStatusPlanned
}

// ExpenseStatus 规范化后的支出状态
func ExpenseStatus(e models.Expense) string {
	return DeriveExpenseStatus(&e.Status, e.Description)
}

// IsExpenseDone 状态是否为 done
func IsExpenseDone(e models.Expense) bool {
	return strings.EqualFold(ExpenseStatus(e), models.ExpenseStatusDone)
}

// ToggleStatus done 与 planned 互换，其他值切换为 done
func ToggleStatus(status string) string {
	if strings.EqualFold(status, models.ExpenseStatusDone) {
		return models.ExpenseStatusPlanned
	}
	return models.ExpenseStatusDone
}

// IsSavingsCategory 支出类别是否为储蓄：id 为 savings 或名称含 "tabungan"
// 类别不存在时返回 false
func IsSavingsCategory(e models.Expense, categories []models.Category) bool {
	cat, ok := models.FindCategory(categories, e.Category)
	if !ok {
		return false
	}
	return cat.ID == models.SavingsCategoryID || strings.Contains(strings.ToLower(cat.Name), "tabungan")
}

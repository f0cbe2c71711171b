package calc

import "dompet/models"

// Summary 月度汇总
type Summary struct {
	TotalIncome         float64  `json:"totalIncome"`
	TotalPlannedExpense float64  `json:"totalPlannedExpense"`
	TotalActualExpense  float64  `json:"totalActualExpense"`
	ActualBalance       float64  `json:"actualBalance"`
	PlannedRemaining    float64  `json:"plannedRemaining"`
	TotalSavings        float64  `json:"totalSavings"`
	SavingsRate         *float64 `json:"savingsRate"`
}

// Tone 卡片色调
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// Summarize 计算月度汇总；总收入为 0 时 SavingsRate 为 nil
func Summarize(incomes []models.Income, expenses []models.Expense, categories []models.Category) Summary {
	var s Summary
	for _, in := range incomes {
		s.TotalIncome += in.Amount
	}
	for _, e := range expenses {
		s.TotalPlannedExpense += e.Amount
		if IsExpenseDone(e) {
			s.TotalActualExpense += e.Amount
		}
		if IsSavingsCategory(e, categories) {
			s.TotalSavings += e.Amount
		}
	}
	s.ActualBalance = s.TotalIncome - s.TotalActualExpense
	s.PlannedRemaining = s.TotalIncome - s.TotalPlannedExpense
	if s.TotalIncome != 0 {
		rate := s.TotalSavings / s.TotalIncome * 100
		s.SavingsRate = &rate
	}
	return s
}

// SavingsTone 储蓄率 >= 20 为 success，>= 10 为 warning，无收入为 neutral
func (s Summary) SavingsTone() Tone {
	if s.SavingsRate == nil {
		return ToneNeutral
	}
	switch {
	case *s.SavingsRate >= 20:
		return ToneSuccess
	case *s.SavingsRate >= 10:
		return ToneWarning
	default:
		return ToneDanger
	}
}

// SavingsRateText 无收入时显示占位符而不是 0%
func (s Summary) SavingsRateText() string {
	if s.SavingsRate == nil {
		return "—"
	}
	return FormatPercentage(*s.SavingsRate)
}

// BalanceTone 余额色调
func BalanceTone(balance float64) Tone {
	if balance < 0 {
		return ToneDanger
	}
	return ToneSuccess
}

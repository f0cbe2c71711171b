package calc

import (
	"testing"

	"dompet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cats := models.DefaultCategories()
	incomes := []models.Income{{Amount: 8000000}, {Amount: 2000000}}
	expenses := []models.Expense{
		{Category: "savings", Amount: 2000000, Status: "done"},
		{Category: "needs", Amount: 1500000, Status: "planned"},
		{Category: "transport", Amount: 500000, Status: "done"},
	}

	s := Summarize(incomes, expenses, cats)
	assert.Equal(t, 10000000.0, s.TotalIncome)
	assert.Equal(t, 4000000.0, s.TotalPlannedExpense)
	assert.Equal(t, 2500000.0, s.TotalActualExpense)
	assert.Equal(t, 7500000.0, s.ActualBalance)
	assert.Equal(t, 6000000.0, s.PlannedRemaining)
	require.NotNil(t, s.SavingsRate)
	assert.InDelta(t, 20.0, *s.SavingsRate, 1e-9)
	assert.Equal(t, ToneSuccess, s.SavingsTone())
	assert.Equal(t, "20%", s.SavingsRateText())
}

func TestSummarize_NoIncome(t *testing.T) {
	s := Summarize(nil, []models.Expense{{Category: "savings", Amount: 100, Status: "done"}}, models.DefaultCategories())
	assert.Nil(t, s.SavingsRate)
	assert.Equal(t, ToneNeutral, s.SavingsTone())
	assert.Equal(t, "—", s.SavingsRateText())
	assert.Equal(t, -100.0, s.ActualBalance)
	assert.Equal(t, ToneDanger, BalanceTone(s.ActualBalance))
}

func TestSummary_SavingsTone(t *testing.T) {
	rate := func(v float64) Summary { return Summary{SavingsRate: &v} }
	assert.Equal(t, ToneWarning, rate(10).SavingsTone())
	assert.Equal(t, ToneDanger, rate(9.9).SavingsTone())
}

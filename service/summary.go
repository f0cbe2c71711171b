package service

import "dompet/calc"

// SummaryCard 汇总卡片：标签、金额文本、色调与说明
type SummaryCard struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Value       float64   `json:"value"`
	Text        string    `json:"text"`
	Tone        calc.Tone `json:"tone"`
	Description string    `json:"description"`
}

// SummaryCards 月度汇总的六张卡片，顺序固定
func SummaryCards(s calc.Summary) []SummaryCard {
	var rate float64
	if s.SavingsRate != nil {
		rate = *s.SavingsRate
	}
	return []SummaryCard{
		{
			Key:         "income",
			Label:       "Total Pemasukan",
			Value:       s.TotalIncome,
			Text:        calc.FormatCurrency(s.TotalIncome),
			Tone:        calc.ToneSuccess,
			Description: "Jumlah seluruh pemasukan yang sudah kamu catat untuk bulan ini.",
		},
		{
			Key:         "expensePlanned",
			Label:       "Pengeluaran Rencana",
			Value:       s.TotalPlannedExpense,
			Text:        calc.FormatCurrency(s.TotalPlannedExpense),
			Tone:        calc.ToneNeutral,
			Description: "Total semua pengeluaran yang direncanakan atau sudah diinput tanpa melihat status selesai.",
		},
		{
			Key:         "expenseActual",
			Label:       "Pengeluaran Aktual",
			Value:       s.TotalActualExpense,
			Text:        calc.FormatCurrency(s.TotalActualExpense),
			Tone:        calc.ToneNeutral,
			Description: "Total pengeluaran yang sudah ditandai selesai (status \"done\") pada bulan ini.",
		},
		{
			Key:         "balanceActual",
			Label:       "Saldo Aktual",
			Value:       s.ActualBalance,
			Text:        calc.FormatCurrency(s.ActualBalance),
			Tone:        calc.BalanceTone(s.ActualBalance),
			Description: "Selisih antara total pemasukan dan pengeluaran aktual, menunjukkan uang yang benar-benar tersisa saat ini.",
		},
		{
			Key:         "balancePlanned",
			Label:       "Sisa Rencana",
			Value:       s.PlannedRemaining,
			Text:        calc.FormatCurrency(s.PlannedRemaining),
			Tone:        calc.BalanceTone(s.PlannedRemaining),
			Description: "Perkiraan sisa uang jika semua pengeluaran yang direncanakan terealisasi (pemasukan dikurangi seluruh pengeluaran).",
		},
		{
			Key:         "savingsRatio",
			Label:       "Rasio Tabungan",
			Value:       rate,
			Text:        s.SavingsRateText(),
			Tone:        s.SavingsTone(),
			Description: "Persentase pemasukan yang dialokasikan ke kategori Tabungan dibandingkan total pemasukan bulan ini.",
		},
	}
}

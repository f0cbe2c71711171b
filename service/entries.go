package service

import (
	"context"
	"strings"
	"time"

	"dompet/calc"
	"dompet/models"

	"github.com/google/uuid"
)

// IncomeInput 收入表单
type IncomeInput struct {
	Amount      calc.Amount `json:"amount"`
	Source      string      `json:"source"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// ExpenseInput 支出表单
type ExpenseInput struct {
	Category    string      `json:"category"`
	Amount      calc.Amount `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	IsRecurring bool        `json:"isRecurring"`
	Status      string      `json:"status"`
	Tags        []string    `json:"tags"`
}

// defaultExpenseCategory 未选择类别时的取值
const defaultExpenseCategory = "other"

// entryDate 表单日期为空时使用该月默认日期
func (w *Workspace) entryDate(value, monthKey string) time.Time {
	now := w.f.now()
	if strings.TrimSpace(value) == "" {
		return calc.DefaultEntryDate(monthKey, now)
	}
	return calc.ParseDateInput(value, now)
}

// SplitTags 逗号分隔的标签，去空白与空项
func SplitTags(raw string) []string {
	return cleanTags(strings.Split(raw, ","))
}

// cleanTags 没有标签时返回 nil
func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (in IncomeInput) apply(dst *models.Income, date time.Time) {
	dst.Amount = in.Amount.Float64()
	dst.Source = strings.TrimSpace(in.Source)
	dst.Description = strings.TrimSpace(in.Description)
	dst.Date = date
}

func (in ExpenseInput) apply(dst *models.Expense, date time.Time) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultExpenseCategory
	}
	description := strings.TrimSpace(in.Description)
	status := in.Status
	dst.Category = category
	dst.Amount = in.Amount.Float64()
	dst.Description = description
	dst.Date = date
	dst.IsRecurring = in.IsRecurring
	dst.Status = calc.DeriveExpenseStatus(&status, description)
	dst.Tags = cleanTags(in.Tags)
}

func findIncome(incomes []models.Income, id string) int {
	for i, in := range incomes {
		if in.ID == id {
			return i
		}
	}
	return -1
}

func findExpense(expenses []models.Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// AddIncome 新增收入
func (w *Workspace) AddIncome(ctx context.Context, monthKey string, in IncomeInput) (AppState, error) {
	return w.updateMonth(ctx, monthKey, func(draft *models.MonthRecord) error {
		income := models.Income{ID: uuid.NewString()}
		in.apply(&income, w.entryDate(in.Date, w.keyOf(monthKey)))
		draft.Incomes = append(draft.Incomes, income)
		return nil
	})
}

// UpdateIncome 修改收入
func (w *Workspace) UpdateIncome(ctx context.Context, monthKey, id string, in IncomeInput) (AppState, error) {
	return w.updateMonth(ctx, monthKey, func(draft *models.MonthRecord) error {
		i := findIncome(draft.Incomes, id)
		if i < 0 {
			return ErrNotFound
		}
		in.apply(&draft.Incomes[i], w.entryDate(in.Date, w.keyOf(monthKey)))
		return nil
	})
}

// DeleteIncome 删除收入
func (w *Workspace) DeleteIncome(ctx context.Context, monthKey, id string) (AppState, error) {
	return w.updateMonth(ctx, monthKey, func(draft *models.MonthRecord) error {
		i := findIncome(draft.Incomes, id)
		if i < 0 {
			return ErrNotFound
		}
		draft.Incomes = append(draft.Incomes[:i], draft.Incomes[i+1:]...)
		return nil
	})
}

// AddExpense 新增支出；周期性支出同时登记为模板
func (w *Workspace) AddExpense(ctx context.Context, monthKey string, in ExpenseInput) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.updateMonthWithLocked(ctx, monthKey, nil, func(draft *models.MonthRecord, side *sideDocs) error {
		added := models.Expense{ID: uuid.NewString()}
		in.apply(&added, w.entryDate(in.Date, w.keyOf(monthKey)))
		draft.Expenses = append(draft.Expenses, added)
		side.templates = w.recurringTemplatesLocked(added)
		return nil
	})
}

// UpdateExpense 修改支出
func (w *Workspace) UpdateExpense(ctx context.Context, monthKey, id string, in ExpenseInput) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.updateMonthWithLocked(ctx, monthKey, nil, func(draft *models.MonthRecord, side *sideDocs) error {
		i := findExpense(draft.Expenses, id)
		if i < 0 {
			return ErrNotFound
		}
		in.apply(&draft.Expenses[i], w.entryDate(in.Date, w.keyOf(monthKey)))
		side.templates = w.recurringTemplatesLocked(draft.Expenses[i])
		return nil
	})
}

// recurringTemplatesLocked 周期性支出没有相同模板时返回追加后的模板列表，否则返回 nil
func (w *Workspace) recurringTemplatesLocked(e models.Expense) []models.Template {
	if !e.IsRecurring {
		return nil
	}
	for _, t := range w.state.templates {
		if t.Matches(e.Category, e.Amount, e.Description) {
			return nil
		}
	}
	return append(w.state.Templates(), models.Template{
		ID:          uuid.NewString(),
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
	})
}

// DeleteExpense 删除支出
func (w *Workspace) DeleteExpense(ctx context.Context, monthKey, id string) (AppState, error) {
	return w.updateMonth(ctx, monthKey, func(draft *models.MonthRecord) error {
		i := findExpense(draft.Expenses, id)
		if i < 0 {
			return ErrNotFound
		}
		draft.Expenses = append(draft.Expenses[:i], draft.Expenses[i+1:]...)
		return nil
	})
}

// ToggleExpenseStatus 在 planned 与 done 之间切换，返回新状态
func (w *Workspace) ToggleExpenseStatus(ctx context.Context, monthKey, id string) (AppState, string, error) {
	var status string
	st, err := w.updateMonth(ctx, monthKey, func(draft *models.MonthRecord) error {
		i := findExpense(draft.Expenses, id)
		if i < 0 {
			return ErrNotFound
		}
		status = calc.ToggleStatus(calc.ExpenseStatus(draft.Expenses[i]))
		draft.Expenses[i].Status = status
		return nil
	})
	if err != nil {
		return AppState{}, "", err
	}
	return st, status, nil
}

// keyOf 在已持锁的回调中解析月份键
func (w *Workspace) keyOf(monthKey string) string {
	key, err := w.resolveKeyLocked(monthKey)
	if err != nil {
		return monthKey
	}
	return key
}

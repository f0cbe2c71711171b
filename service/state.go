package service

import (
	"time"

	"dompet/calc"
	"dompet/models"
)

// AppState 单个用户工作区的显式状态：当前月份与已加载的集合
// 只能由所属 Workspace 修改，对外返回的都是副本
type AppState struct {
	monthKey    string
	month       models.MonthRecord
	monthExists bool
	categories  []models.Category
	templates   []models.Template
	preferences models.Preferences
}

// MonthKey 当前月份 YYYY-MM
func (s AppState) MonthKey() string { return s.monthKey }

// MonthExists 当前月份是否已有文档
func (s AppState) MonthExists() bool { return s.monthExists }

// Month 当前月份记录
func (s AppState) Month() models.MonthRecord { return s.month.Clone() }

// Categories 类别列表
func (s AppState) Categories() []models.Category {
	return append([]models.Category{}, s.categories...)
}

// Templates 模板列表
func (s AppState) Templates() []models.Template {
	return append([]models.Template{}, s.templates...)
}

// Preferences 表格偏好
func (s AppState) Preferences() models.Preferences { return s.preferences }

// Clone 深拷贝
func (s AppState) Clone() AppState {
	return AppState{
		monthKey:    s.monthKey,
		month:       s.month.Clone(),
		monthExists: s.monthExists,
		categories:  s.Categories(),
		templates:   s.Templates(),
		preferences: s.preferences,
	}
}

// Dashboard 页面渲染所需的全部派生数据
type Dashboard struct {
	MonthKey           string               `json:"monthKey"`
	MonthLabel         string               `json:"monthLabel"`
	PrevMonth          string               `json:"prevMonth"`
	NextMonth          string               `json:"nextMonth"`
	HasData            bool                 `json:"hasData"`
	Summary            calc.Summary         `json:"summary"`
	SummaryCards       []SummaryCard        `json:"summaryCards"`
	Incomes            []models.Income      `json:"incomes"`
	Expenses           []models.Expense     `json:"expenses"`
	Categories         []models.Category    `json:"categories"`
	Templates          []models.Template    `json:"templates"`
	Budgets            models.Budgets       `json:"budgets"`
	BudgetProgress     []calc.BudgetItem    `json:"budgetProgress"`
	CategoryTotals     []calc.CategoryTotal `json:"categoryTotals"`
	Preferences        models.Preferences   `json:"preferences"`
	IncomeSortColumns  []calc.SortIndicator `json:"incomeSortColumns"`
	ExpenseSortColumns []calc.SortIndicator `json:"expenseSortColumns"`
	DefaultEntryDate   string               `json:"defaultEntryDate"`
}

// Dashboard 由状态计算页面数据；表格按偏好排序与筛选
func (s AppState) Dashboard(warnPercent float64, now time.Time) Dashboard {
	month := s.month.Clone()
	prefs := s.preferences.WithDefaults()

	start, err := calc.ParseMonthKey(s.monthKey, now.Location())
	if err != nil {
		start = now
	}
	prev, _ := calc.ShiftMonth(s.monthKey, -1)
	next, _ := calc.ShiftMonth(s.monthKey, 1)

	expenses := calc.FilterExpensesByCategory(month.Expenses, prefs.ExpenseCategoryFilter)
	summary := calc.Summarize(month.Incomes, month.Expenses, s.categories)

	return Dashboard{
		MonthKey:           s.monthKey,
		MonthLabel:         calc.FormatMonth(start),
		PrevMonth:          prev,
		NextMonth:          next,
		HasData:            !month.IsEmpty(),
		Summary:            summary,
		SummaryCards:       SummaryCards(summary),
		Incomes:            calc.SortIncomes(month.Incomes, prefs.IncomeSort),
		Expenses:           calc.SortExpenses(expenses, s.categories, prefs.ExpenseSort),
		Categories:         s.Categories(),
		Templates:          s.Templates(),
		Budgets:            month.Budgets,
		BudgetProgress:     calc.BudgetProgress(s.categories, month.Expenses, month.Budgets, warnPercent),
		CategoryTotals:     calc.CategoryTotals(month.Expenses, s.categories),
		Preferences:        prefs,
		IncomeSortColumns:  calc.SortIndicators(calc.TableIncome, prefs.IncomeSort),
		ExpenseSortColumns: calc.SortIndicators(calc.TableExpense, prefs.ExpenseSort),
		DefaultEntryDate:   calc.FormatDateForInput(calc.DefaultEntryDate(s.monthKey, now)),
	}
}

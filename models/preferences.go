package models

// 默认表格偏好
const (
	DefaultSortOption     = "date-desc"
	DefaultCategoryFilter = "all"
)

// Preferences 表格排序与筛选偏好，刷新后保留
type Preferences struct {
	IncomeSort            string `json:"incomeSort"`
	ExpenseSort           string `json:"expenseSort"`
	ExpenseCategoryFilter string `json:"expenseCategoryFilter"`
}

// DefaultPreferences 默认偏好
func DefaultPreferences() Preferences {
	return Preferences{
		IncomeSort:            DefaultSortOption,
		ExpenseSort:           DefaultSortOption,
		ExpenseCategoryFilter: DefaultCategoryFilter,
	}
}

// WithDefaults 空字段回填默认值
func (p Preferences) WithDefaults() Preferences {
	d := DefaultPreferences()
	if p.IncomeSort == "" {
		p.IncomeSort = d.IncomeSort
	}
	if p.ExpenseSort == "" {
		p.ExpenseSort = d.ExpenseSort
	}
	if p.ExpenseCategoryFilter == "" {
		p.ExpenseCategoryFilter = d.ExpenseCategoryFilter
	}
	return p
}

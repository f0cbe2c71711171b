package models

import "time"

// 支出状态
const (
	ExpenseStatusPlanned = "planned"
	ExpenseStatusDone    = "done"
)

// Income 收入条目
type Income struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// Expense 支出条目，Category 为类别 id 的弱引用
type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	IsRecurring bool      `json:"isRecurring"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
}

// Budgets 类别 id 到月度上限，<= 0 表示无上限
type Budgets map[string]float64

// MonthMetadata 月度记录元数据
type MonthMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MonthRecord 某用户某月（YYYY-MM）的全部记账数据
type MonthRecord struct {
	Incomes  []Income      `json:"incomes"`
	Expenses []Expense     `json:"expenses"`
	Budgets  Budgets       `json:"budgets"`
	Metadata MonthMetadata `json:"metadata"`
}

// NewMonthRecord 空月度记录
func NewMonthRecord(now time.Time) MonthRecord {
	return MonthRecord{
		Incomes:  []Income{},
		Expenses: []Expense{},
		Budgets:  Budgets{},
		Metadata: MonthMetadata{CreatedAt: now, UpdatedAt: now},
	}
}

// IsEmpty 没有任何条目与预算
func (m MonthRecord) IsEmpty() bool {
	return len(m.Incomes) == 0 && len(m.Expenses) == 0 && len(m.Budgets) == 0
}

// Clone 深拷贝，事务草稿使用
func (m MonthRecord) Clone() MonthRecord {
	out := MonthRecord{
		Incomes:  append([]Income{}, m.Incomes...),
		Expenses: make([]Expense, len(m.Expenses)),
		Budgets:  make(Budgets, len(m.Budgets)),
		Metadata: m.Metadata,
	}
	for i, e := range m.Expenses {
		if e.Tags != nil {
			e.Tags = append([]string{}, e.Tags...)
		}
		out.Expenses[i] = e
	}
	for k, v := range m.Budgets {
		out.Budgets[k] = v
	}
	return out
}

// Template 周期性支出模板
type Template struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Matches 类别、金额、描述均相同
func (t Template) Matches(category string, amount float64, description string) bool {
	return t.Category == category && t.Amount == amount && t.Description == description
}

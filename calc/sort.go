package calc

import (
	"errors"
	"sort"
	"strings"

	"dompet/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Table 可排序的表格
type Table string

const (
	TableIncome  Table = "income"
	TableExpense Table = "expense"
)

// ErrUnknownSortKey 表格没有该排序列
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortColumn 排序列配置
type SortColumn struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Asc       string `json:"asc"`
	Desc      string `json:"desc"`
	DefaultUp bool   `json:"defaultAsc"`
}

// Default 首次点击该列时的排序
func (c SortColumn) Default() string {
	if c.DefaultUp {
		return c.Asc
	}
	return c.Desc
}

var sortColumns = map[Table][]SortColumn{
	TableIncome: {
		{Key: "date", Label: "Tanggal", Asc: "date-asc", Desc: "date-desc"},
		{Key: "amount", Label: "Jumlah", Asc: "amount-asc", Desc: "amount-desc"},
		{Key: "source", Label: "Sumber", Asc: "alpha-asc", Desc: "alpha-desc", DefaultUp: true},
	},
	TableExpense: {
		{Key: "date", Label: "Tanggal", Asc: "date-asc", Desc: "date-desc"},
		{Key: "amount", Label: "Jumlah", Asc: "amount-asc", Desc: "amount-desc"},
		{Key: "description", Label: "Keterangan", Asc: "alpha-asc", Desc: "alpha-desc", DefaultUp: true},
		{Key: "category", Label: "Kategori", Asc: "category-asc", Desc: "category-desc", DefaultUp: true},
	},
}

// SortColumns 表格的排序列
func SortColumns(table Table) []SortColumn {
	return append([]SortColumn(nil), sortColumns[table]...)
}

// ValidSortOption 排序值是否属于该表格
func ValidSortOption(table Table, option string) bool {
	for _, c := range sortColumns[table] {
		if option == c.Asc || option == c.Desc {
			return true
		}
	}
	return false
}

// NextSortOption 点击列头后的排序：当前为该列升序则降序，降序则升序，否则为该列默认方向
func NextSortOption(table Table, key, current string) (string, error) {
	for _, c := range sortColumns[table] {
		if c.Key != key {
			continue
		}
		switch current {
		case c.Asc:
			return c.Desc, nil
		case c.Desc:
			return c.Asc, nil
		default:
			return c.Default(), nil
		}
	}
	return "", ErrUnknownSortKey
}

// SortIndicator 列头指示：active 表示当前排序列，desc 表示降序
type SortIndicator struct {
	SortColumn
	Active bool `json:"active"`
	IsDesc bool `json:"desc"`
}

// SortIndicators 当前排序下各列的指示状态
func SortIndicators(table Table, current string) []SortIndicator {
	cols := sortColumns[table]
	out := make([]SortIndicator, 0, len(cols))
	for _, c := range cols {
		out = append(out, SortIndicator{
			SortColumn: c,
			Active:     current == c.Asc || current == c.Desc,
			IsDesc:     current == c.Desc,
		})
	}
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.Indonesian, collate.IgnoreCase)
}

// SortIncomes 返回排序后的副本，未知排序按 date-desc
func SortIncomes(incomes []models.Income, option string) []models.Income {
	out := append([]models.Income(nil), incomes...)
	col := newCollator()
	var less func(a, b models.Income) bool
	switch option {
	case "date-asc":
		less = func(a, b models.Income) bool { return a.Date.Before(b.Date) }
	case "amount-desc":
		less = func(a, b models.Income) bool { return a.Amount > b.Amount }
	case "amount-asc":
		less = func(a, b models.Income) bool { return a.Amount < b.Amount }
	case "alpha-desc":
		less = func(a, b models.Income) bool { return col.CompareString(b.Source, a.Source) < 0 }
	case "alpha-asc":
		less = func(a, b models.Income) bool { return col.CompareString(a.Source, b.Source) < 0 }
	default:
		less = func(a, b models.Income) bool { return a.Date.After(b.Date) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// CategoryName 类别名称，未知类别退回 id，空 id 为 "-"
func CategoryName(categories []models.Category, id string) string {
	if c, ok := models.FindCategory(categories, id); ok {
		return c.Name
	}
	if id == "" {
		return "-"
	}
	return id
}

// SortExpenses 返回排序后的副本；文本排序时描述为空则用类别名称
func SortExpenses(expenses []models.Expense, categories []models.Category, option string) []models.Expense {
	out := append([]models.Expense(nil), expenses...)
	col := newCollator()
	label := func(e models.Expense) string {
		if strings.TrimSpace(e.Description) != "" {
			return e.Description
		}
		return CategoryName(categories, e.Category)
	}
	var less func(a, b models.Expense) bool
	switch option {
	case "date-asc":
		less = func(a, b models.Expense) bool { return a.Date.Before(b.Date) }
	case "amount-desc":
		less = func(a, b models.Expense) bool { return a.Amount > b.Amount }
	case "amount-asc":
		less = func(a, b models.Expense) bool { return a.Amount < b.Amount }
	case "alpha-desc":
		less = func(a, b models.Expense) bool { return col.CompareString(label(b), label(a)) < 0 }
	case "alpha-asc":
		less = func(a, b models.Expense) bool { return col.CompareString(label(a), label(b)) < 0 }
	case "category-desc":
		less = func(a, b models.Expense) bool {
			return col.CompareString(CategoryName(categories, b.Category), CategoryName(categories, a.Category)) < 0
		}
	case "category-asc":
		less = func(a, b models.Expense) bool {
			return col.CompareString(CategoryName(categories, a.Category), CategoryName(categories, b.Category)) < 0
		}
	default:
		less = func(a, b models.Expense) bool { return a.Date.After(b.Date) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FilterExpensesByCategory "all" 或空值返回全部
func FilterExpensesByCategory(expenses []models.Expense, categoryID string) []models.Expense {
	if categoryID == "" || categoryID == models.DefaultCategoryFilter {
		return append([]models.Expense(nil), expenses...)
	}
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == categoryID {
			out = append(out, e)
		}
	}
	return out
}

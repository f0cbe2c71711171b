package models

import "strings"

// SavingsCategoryID 储蓄类别固定 id
const SavingsCategoryID = "savings"

// Category 支出类别，名称大小写不敏感唯一
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// DefaultCategories 新用户的内置类别
func DefaultCategories() []Category {
	return []Category{
		{ID: SavingsCategoryID, Name: "💰 Tabungan & Investasi", Color: "#4CAF50", IsDefault: true},
		{ID: "family", Name: "👨‍👩‍👧‍👦 Keluarga", Color: "#E91E63", IsDefault: true},
		{ID: "subscriptions", Name: "📱 Langganan", Color: "#2196F3", IsDefault: true},
		{ID: "debt", Name: "💳 Hutang & Paylater", Color: "#F44336", IsDefault: true},
		{ID: "needs", Name: "🛒 Kebutuhan Pokok", Color: "#FF9800", IsDefault: true},
		{ID: "lifestyle", Name: "🎉 Gaya Hidup", Color: "#9C27B0", IsDefault: true},
		{ID: "transport", Name: "🚗 Transportasi", Color: "#607D8B", IsDefault: true},
		{ID: "shopping", Name: "🛍️ Belanja", Color: "#795548", IsDefault: true},
	}
}

// FindCategory 按 id 查找
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryNameTaken 名称（忽略大小写与首尾空白）是否已被其他类别占用
func CategoryNameTaken(categories []Category, name, exceptID string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, c := range categories {
		if c.ID == exceptID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(c.Name)) == key {
			return true
		}
	}
	return false
}

// CategoryIDFromName 由名称生成 id：小写，空白替换为 "-"
func CategoryIDFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}

package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"dompet/calc"
	"dompet/models"

	"github.com/google/uuid"
)

var jsonNull = []byte("null")

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), jsonNull)
}

// looseString 接受字符串、数字、布尔，其余为空串
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = ""
		return nil
	}
	switch v := raw.(type) {
	case string:
		*s = looseString(v)
	case float64:
		*s = looseString(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*s = looseString(strconv.FormatBool(v))
	default:
		*s = ""
	}
	return nil
}

// looseBool 按真值解释：true、非零数字、非空字符串
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*v = false
		return nil
	}
	switch x := raw.(type) {
	case bool:
		*v = looseBool(x)
	case float64:
		*v = x != 0
	case string:
		*v = x != ""
	default:
		*v = false
	}
	return nil
}

// optionalString 只有 JSON 字符串才算给出，null 与其他类型视为缺失
type optionalString struct {
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Value = nil
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	o.Value = &s
	return nil
}

// looseTags 只保留字符串标签
type looseTags []string

func (t *looseTags) UnmarshalJSON(b []byte) error {
	*t = nil
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, item := range raw {
		if s, ok := item.(string); ok {
			*t = append(*t, s)
		}
	}
	return nil
}

type rawIncome struct {
	ID          looseString    `json:"id"`
	Amount      calc.Amount    `json:"amount"`
	Source      looseString    `json:"source"`
	Description looseString    `json:"description"`
	Date        calc.DateValue `json:"date"`
}

type rawExpense struct {
	ID          looseString    `json:"id"`
	Category    looseString    `json:"category"`
	Amount      calc.Amount    `json:"amount"`
	Description looseString    `json:"description"`
	Date        calc.DateValue `json:"date"`
	IsRecurring looseBool      `json:"isRecurring"`
	Status      optionalString `json:"status"`
	Tags        looseTags      `json:"tags"`
}

type rawCategory struct {
	ID        looseString `json:"id"`
	Name      looseString `json:"name"`
	Color     looseString `json:"color"`
	IsDefault looseBool   `json:"isDefault"`
}

type rawTemplate struct {
	ID          looseString `json:"id"`
	Category    looseString `json:"category"`
	Amount      calc.Amount `json:"amount"`
	Description looseString `json:"description"`
}

type rawMetadata struct {
	CreatedAt calc.DateValue `json:"createdAt"`
	UpdatedAt calc.DateValue `json:"updatedAt"`
}

// decodeEntries 逐条解码数组，跳过 null 与无法解码的条目；非数组返回空
func decodeEntries[T any](b []byte) []T {
	if len(b) == 0 || isNull(b) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func entryID(id looseString) string {
	if s := strings.TrimSpace(string(id)); s != "" {
		return s
	}
	return uuid.NewString()
}

// NormalizeIncomes 把任意形态的收入数组规整为标准条目
func NormalizeIncomes(b []byte, now time.Time) []models.Income {
	raws := decodeEntries[rawIncome](b)
	out := make([]models.Income, 0, len(raws))
	for _, r := range raws {
		out = append(out, models.Income{
			ID:          entryID(r.ID),
			Amount:      r.Amount.Float64(),
			Source:      string(r.Source),
			Description: string(r.Description),
			Date:        calc.ConvertDate(r.Date, now),
		})
	}
	return out
}

// NormalizeExpenses 把任意形态的支出数组规整为标准条目，缺失状态由描述推导
func NormalizeExpenses(b []byte, now time.Time) []models.Expense {
	raws := decodeEntries[rawExpense](b)
	out := make([]models.Expense, 0, len(raws))
	for _, r := range raws {
		out = append(out, models.Expense{
			ID:          entryID(r.ID),
			Category:    string(r.Category),
			Amount:      r.Amount.Float64(),
			Description: string(r.Description),
			Date:        calc.ConvertDate(r.Date, now),
			IsRecurring: bool(r.IsRecurring),
			Status:      calc.DeriveExpenseStatus(r.Status.Value, string(r.Description)),
			Tags:        []string(r.Tags),
		})
	}
	return out
}

// NormalizeCategories 规整类别数组
func NormalizeCategories(b []byte) []models.Category {
	raws := decodeEntries[rawCategory](b)
	out := make([]models.Category, 0, len(raws))
	for _, r := range raws {
		out = append(out, models.Category{
			ID:        string(r.ID),
			Name:      string(r.Name),
			Color:     string(r.Color),
			IsDefault: bool(r.IsDefault),
		})
	}
	return out
}

// NormalizeTemplates 规整模板数组
func NormalizeTemplates(b []byte) []models.Template {
	raws := decodeEntries[rawTemplate](b)
	out := make([]models.Template, 0, len(raws))
	for _, r := range raws {
		out = append(out, models.Template{
			ID:          entryID(r.ID),
			Category:    string(r.Category),
			Amount:      r.Amount.Float64(),
			Description: string(r.Description),
		})
	}
	return out
}

// NormalizeBudgets 规整预算表，非对象返回空表
func NormalizeBudgets(b []byte) models.Budgets {
	out := models.Budgets{}
	if len(b) == 0 || isNull(b) {
		return out
	}
	var raw map[string]calc.Amount
	if err := json.Unmarshal(b, &raw); err != nil {
		return out
	}
	for id, limit := range raw {
		out[id] = limit.Float64()
	}
	return out
}

// decodedMonth 月度文档解码结果，LegacyIncome > 0 表示需要迁移
type decodedMonth struct {
	Record       models.MonthRecord
	LegacyIncome float64
}

// decodeMonth 解码月度文档；顶层不是对象时报错
func decodeMonth(payload []byte, now time.Time) (decodedMonth, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return decodedMonth{}, err
	}

	var meta rawMetadata
	if b, ok := top["metadata"]; ok {
		_ = json.Unmarshal(b, &meta)
	}

	out := decodedMonth{
		Record: models.MonthRecord{
			Incomes:  NormalizeIncomes(top["incomes"], now),
			Expenses: NormalizeExpenses(top["expenses"], now),
			Budgets:  NormalizeBudgets(top["budgets"]),
			Metadata: models.MonthMetadata{
				CreatedAt: calc.ConvertDate(meta.CreatedAt, now),
				UpdatedAt: calc.ConvertDate(meta.UpdatedAt, now),
			},
		},
	}

	// 旧版本只有一个数字 income 字段
	if b, ok := top["income"]; ok {
		var legacy any
		if err := json.Unmarshal(b, &legacy); err == nil {
			if n, ok := legacy.(float64); ok && n > 0 {
				out.LegacyIncome = n
			}
		}
	}
	return out, nil
}

// DecodeMonth 把任意来源（如导入文件）的月度数据规整为 MonthRecord
func DecodeMonth(payload []byte, now time.Time) (models.MonthRecord, error) {
	decoded, err := decodeMonth(payload, now)
	if err != nil {
		return models.MonthRecord{}, err
	}
	return decoded.Record, nil
}

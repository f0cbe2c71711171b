package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dompet/calc"
	"dompet/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// 旧版单一收入迁移后的条目
const (
	migratedIncomeSource      = "Migrated Income"
	migratedIncomeDescription = "Data pemasukan lama"
)

type categoriesDoc struct {
	Categories []models.Category `json:"categories"`
}

type templatesDoc struct {
	Templates []models.Template `json:"templates"`
}

// Repository 用户文档的读写
type Repository struct {
	store DocumentStore
	now   func() time.Time
}

// New 创建仓库，now 为空时使用 time.Now
func New(store DocumentStore, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{store: store, now: now}
}

func requireUser(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return ErrNoUser
	}
	return nil
}

func (r *Repository) setJSON(ctx context.Context, uid, collection, docID string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("编码文档 %s/%s 失败: %w", collection, docID, err)
	}
	return r.store.Set(ctx, uid, collection, docID, payload)
}

// fieldOf 读取文档中的单个字段
func fieldOf(payload []byte, field string) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, err
	}
	return top[field], nil
}

// LoadCategories 读取类别；文档不存在时写入默认类别
func (r *Repository) LoadCategories(ctx context.Context, uid string) ([]models.Category, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	payload, err := r.store.Get(ctx, uid, CollectionCategories, DocCategories)
	if errors.Is(err, ErrDocNotFound) {
		defaults := models.DefaultCategories()
		if err := r.SaveCategories(ctx, uid, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	field, err := fieldOf(payload, "categories")
	if err != nil {
		return nil, fmt.Errorf("解析类别文档失败: %w", err)
	}
	return NormalizeCategories(field), nil
}

// SaveCategories 覆盖保存类别
func (r *Repository) SaveCategories(ctx context.Context, uid string, categories []models.Category) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return r.setJSON(ctx, uid, CollectionCategories, DocCategories, categoriesDoc{Categories: categories})
}

// LoadTemplates 读取周期模板，不存在时为空
func (r *Repository) LoadTemplates(ctx context.Context, uid string) ([]models.Template, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	payload, err := r.store.Get(ctx, uid, CollectionTemplates, DocTemplates)
	if errors.Is(err, ErrDocNotFound) {
		return []models.Template{}, nil
	}
	if err != nil {
		return nil, err
	}
	field, err := fieldOf(payload, "templates")
	if err != nil {
		return nil, fmt.Errorf("解析模板文档失败: %w", err)
	}
	return NormalizeTemplates(field), nil
}

// SaveTemplates 覆盖保存周期模板
func (r *Repository) SaveTemplates(ctx context.Context, uid string, templates []models.Template) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	out := make([]models.Template, 0, len(templates))
	for _, t := range templates {
		t.Amount = calc.NormalizeAmount(t.Amount)
		out = append(out, t)
	}
	return r.setJSON(ctx, uid, CollectionTemplates, DocTemplates, templatesDoc{Templates: out})
}

// LoadMonth 读取月度记录；不存在时返回未保存的空记录与 false
// 旧版数字 income 字段迁移为 incomes 数组并立即写回
func (r *Repository) LoadMonth(ctx context.Context, uid, monthKey string) (models.MonthRecord, bool, error) {
	if err := requireUser(uid); err != nil {
		return models.MonthRecord{}, false, err
	}
	if !calc.ValidMonthKey(monthKey) {
		return models.MonthRecord{}, false, fmt.Errorf("%w: %q", calc.ErrInvalidMonthKey, monthKey)
	}
	now := r.now()
	payload, err := r.store.Get(ctx, uid, CollectionMonths, monthKey)
	if errors.Is(err, ErrDocNotFound) {
		return models.NewMonthRecord(now), false, nil
	}
	if err != nil {
		return models.MonthRecord{}, false, err
	}

	decoded, err := decodeMonth(payload, now)
	if err != nil {
		return models.MonthRecord{}, false, fmt.Errorf("解析月度文档 %s 失败: %w", monthKey, err)
	}
	if decoded.LegacyIncome <= 0 {
		return decoded.Record, true, nil
	}

	record := decoded.Record
	record.Incomes = []models.Income{{
		ID:          uuid.NewString(),
		Amount:      decoded.LegacyIncome,
		Source:      migratedIncomeSource,
		Description: migratedIncomeDescription,
		Date:        calc.DefaultEntryDate(monthKey, now),
	}}
	saved, err := r.SaveMonth(ctx, uid, monthKey, record)
	if err != nil {
		return models.MonthRecord{}, false, err
	}
	log.Info().Str("uid", uid).Str("month", monthKey).Float64("income", decoded.LegacyIncome).Msg("已迁移旧版收入字段")
	return saved, true, nil
}

// NormalizeMonth 写入前的规整：金额、状态、空集合，createdAt 缺失时补当前时间
func NormalizeMonth(record models.MonthRecord, now time.Time) models.MonthRecord {
	out := record.Clone()
	for i := range out.Incomes {
		in := &out.Incomes[i]
		in.Amount = calc.NormalizeAmount(in.Amount)
		if in.Date.IsZero() {
			in.Date = now
		}
	}
	for i := range out.Expenses {
		e := &out.Expenses[i]
		e.Amount = calc.NormalizeAmount(e.Amount)
		e.Status = calc.ExpenseStatus(*e)
		if e.Date.IsZero() {
			e.Date = now
		}
	}
	for id, limit := range out.Budgets {
		out.Budgets[id] = calc.NormalizeAmount(limit)
	}
	if out.Metadata.CreatedAt.IsZero() {
		out.Metadata.CreatedAt = now
	}
	out.Metadata.UpdatedAt = now
	return out
}

// SaveMonth 规整并覆盖保存月度记录，返回实际写入的记录
func (r *Repository) SaveMonth(ctx context.Context, uid, monthKey string, record models.MonthRecord) (models.MonthRecord, error) {
	if err := requireUser(uid); err != nil {
		return models.MonthRecord{}, err
	}
	if !calc.ValidMonthKey(monthKey) {
		return models.MonthRecord{}, fmt.Errorf("%w: %q", calc.ErrInvalidMonthKey, monthKey)
	}
	out := NormalizeMonth(record, r.now())
	if err := r.setJSON(ctx, uid, CollectionMonths, monthKey, out); err != nil {
		return models.MonthRecord{}, err
	}
	return out, nil
}

// ListMonthKeys 已有文档的月份，升序
func (r *Repository) ListMonthKeys(ctx context.Context, uid string) ([]string, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	ids, err := r.store.List(ctx, uid, CollectionMonths)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if calc.ValidMonthKey(id) {
			keys = append(keys, id)
		}
	}
	return keys, nil
}

// FirstMonthWithData 最早有文档的月份
func (r *Repository) FirstMonthWithData(ctx context.Context, uid string) (string, bool, error) {
	keys, err := r.ListMonthKeys(ctx, uid)
	if err != nil {
		return "", false, err
	}
	if len(keys) == 0 {
		return "", false, nil
	}
	return keys[0], true, nil
}

// LoadPreferences 读取表格偏好，缺失字段回填默认值
func (r *Repository) LoadPreferences(ctx context.Context, uid string) (models.Preferences, error) {
	if err := requireUser(uid); err != nil {
		return models.Preferences{}, err
	}
	payload, err := r.store.Get(ctx, uid, CollectionPreferences, DocPreferences)
	if errors.Is(err, ErrDocNotFound) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, err
	}
	var prefs models.Preferences
	if err := json.Unmarshal(payload, &prefs); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("表格偏好文档损坏，使用默认值")
		return models.DefaultPreferences(), nil
	}
	return prefs.WithDefaults(), nil
}

// SavePreferences 保存表格偏好
func (r *Repository) SavePreferences(ctx context.Context, uid string, prefs models.Preferences) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	return r.setJSON(ctx, uid, CollectionPreferences, DocPreferences, prefs.WithDefaults())
}

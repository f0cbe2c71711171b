package service

import (
	"context"
	"fmt"
	"strings"

	"dompet/calc"
	"dompet/models"

	"github.com/google/uuid"
)

// defaultCategoryColor 颜色无效时的取值
const defaultCategoryColor = "#607D8B"

// CategoryInput 类别表单
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TemplateInput 模板表单
type TemplateInput struct {
	Category    string      `json:"category"`
	Amount      calc.Amount `json:"amount"`
	Description string      `json:"description"`
}

func (in CategoryInput) normalized() (string, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", ErrEmptyName
	}
	color, ok := calc.NormalizeHexColor(in.Color)
	if !ok {
		color = defaultCategoryColor
	}
	return name, color, nil
}

func findCategory(categories []models.Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCategory 新增类别，id 由名称生成
func (w *Workspace) AddCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Category{}, err
	}
	name, color, err := in.normalized()
	if err != nil {
		return models.Category{}, err
	}
	id := models.CategoryIDFromName(name)
	if models.CategoryNameTaken(w.state.categories, name, "") || findCategory(w.state.categories, id) >= 0 {
		return models.Category{}, ErrDuplicateCategory
	}

	category := models.Category{ID: id, Name: name, Color: color, IsDefault: false}
	categories := append(w.state.Categories(), category)
	if err := w.saveCategoriesLocked(ctx, categories); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// UpdateCategory 修改类别名称与颜色，id 不变
func (w *Workspace) UpdateCategory(ctx context.Context, id string, in CategoryInput) (models.Category, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Category{}, err
	}
	name, color, err := in.normalized()
	if err != nil {
		return models.Category{}, err
	}
	if models.CategoryNameTaken(w.state.categories, name, id) {
		return models.Category{}, ErrDuplicateCategory
	}
	categories := w.state.Categories()
	i := findCategory(categories, id)
	if i < 0 {
		return models.Category{}, ErrNotFound
	}
	categories[i].Name = name
	categories[i].Color = color
	if err := w.saveCategoriesLocked(ctx, categories); err != nil {
		return models.Category{}, err
	}
	return categories[i], nil
}

// DeleteCategory 删除类别；任一月份仍有支出引用时拒绝
// 删除后去掉当前月份中该类别的预算
func (w *Workspace) DeleteCategory(ctx context.Context, id string) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, err
	}
	categories := w.state.Categories()
	i := findCategory(categories, id)
	if i < 0 {
		return AppState{}, ErrNotFound
	}
	used, err := w.categoryInUseLocked(ctx, id)
	if err != nil {
		return AppState{}, err
	}
	if used {
		return AppState{}, ErrCategoryInUse
	}

	categories = append(categories[:i], categories[i+1:]...)
	if _, ok := w.state.month.Budgets[id]; ok && w.state.monthKey != "" {
		return w.updateMonthWithLocked(ctx, w.state.monthKey, &sideDocs{categories: categories}, func(draft *models.MonthRecord, _ *sideDocs) error {
			delete(draft.Budgets, id)
			return nil
		})
	}
	if err := w.saveCategoriesLocked(ctx, categories); err != nil {
		return AppState{}, err
	}
	return w.state.Clone(), nil
}

// categoryInUseLocked 检查当前月份与所有已保存月份
func (w *Workspace) categoryInUseLocked(ctx context.Context, id string) (bool, error) {
	uses := func(expenses []models.Expense) bool {
		for _, e := range expenses {
			if e.Category == id {
				return true
			}
		}
		return false
	}
	if uses(w.state.month.Expenses) {
		return true, nil
	}
	keys, err := w.f.repo.ListMonthKeys(ctx, w.uid)
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		m, err := w.f.loadMonth(ctx, w.uid, key)
		if err != nil {
			return false, fmt.Errorf("检查月份 %s 失败: %w", key, err)
		}
		if uses(m.record.Expenses) {
			return true, nil
		}
	}
	return false, nil
}

// AddTemplate 新增模板
func (w *Workspace) AddTemplate(ctx context.Context, in TemplateInput) (models.Template, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Template{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultExpenseCategory
	}
	tpl := models.Template{
		ID:          uuid.NewString(),
		Category:    category,
		Amount:      in.Amount.Float64(),
		Description: strings.TrimSpace(in.Description),
	}
	if err := w.saveTemplatesLocked(ctx, append(w.state.Templates(), tpl)); err != nil {
		return models.Template{}, err
	}
	return tpl, nil
}

// DeleteTemplate 删除模板
func (w *Workspace) DeleteTemplate(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	templates := w.state.Templates()
	for i, t := range templates {
		if t.ID == id {
			return w.saveTemplatesLocked(ctx, append(templates[:i], templates[i+1:]...))
		}
	}
	return ErrNotFound
}

// ApplyTemplates 按模板批量生成计划中的周期性支出，返回生成数量
func (w *Workspace) ApplyTemplates(ctx context.Context, monthKey string) (AppState, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, 0, err
	}
	templates := w.state.Templates()
	if len(templates) == 0 {
		return AppState{}, 0, ErrNoTemplates
	}
	st, err := w.updateMonthLocked(ctx, monthKey, func(draft *models.MonthRecord) error {
		date := calc.DefaultEntryDate(w.keyOf(monthKey), w.f.now())
		for _, t := range templates {
			draft.Expenses = append(draft.Expenses, models.Expense{
				ID:          uuid.NewString(),
				Category:    t.Category,
				Amount:      calc.NormalizeAmount(t.Amount),
				Description: t.Description,
				Date:        date,
				IsRecurring: true,
				Status:      models.ExpenseStatusPlanned,
			})
		}
		return nil
	})
	if err != nil {
		return AppState{}, 0, err
	}
	return st, len(templates), nil
}

// SaveBudgets 保存当前类别的预算上限，未列出的类别与 <= 0 的上限被去掉
func (w *Workspace) SaveBudgets(ctx context.Context, monthKey string, limits map[string]calc.Amount) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, err
	}
	if len(w.state.categories) == 0 {
		return AppState{}, ErrNoCategories
	}
	raw := map[string]float64{}
	for _, c := range w.state.categories {
		if v, ok := limits[c.ID]; ok {
			raw[c.ID] = v.Float64()
		}
	}
	budgets := calc.SanitizeBudgets(raw)
	return w.updateMonthLocked(ctx, monthKey, func(draft *models.MonthRecord) error {
		draft.Budgets = budgets
		return nil
	})
}

// savePreferencesLocked 持久化成功后提交偏好
func (w *Workspace) savePreferencesLocked(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	if err := w.f.repo.SavePreferences(ctx, w.uid, prefs); err != nil {
		return models.Preferences{}, err
	}
	w.state.preferences = prefs
	return prefs, nil
}

func tableOf(table string) (calc.Table, error) {
	switch calc.Table(table) {
	case calc.TableIncome, calc.TableExpense:
		return calc.Table(table), nil
	default:
		return "", fmt.Errorf("%w: table %q", ErrInvalidInput, table)
	}
}

// ToggleSort 点击列头切换排序
func (w *Workspace) ToggleSort(ctx context.Context, table, key string) (models.Preferences, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Preferences{}, err
	}
	t, err := tableOf(table)
	if err != nil {
		return models.Preferences{}, err
	}
	prefs := w.state.preferences.WithDefaults()
	current := prefs.IncomeSort
	if t == calc.TableExpense {
		current = prefs.ExpenseSort
	}
	next, err := calc.NextSortOption(t, key, current)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if t == calc.TableExpense {
		prefs.ExpenseSort = next
	} else {
		prefs.IncomeSort = next
	}
	return w.savePreferencesLocked(ctx, prefs)
}

// SetSort 直接选择排序方式
func (w *Workspace) SetSort(ctx context.Context, table, option string) (models.Preferences, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Preferences{}, err
	}
	t, err := tableOf(table)
	if err != nil {
		return models.Preferences{}, err
	}
	if !calc.ValidSortOption(t, option) {
		return models.Preferences{}, fmt.Errorf("%w: sort %q", ErrInvalidInput, option)
	}
	prefs := w.state.preferences.WithDefaults()
	if t == calc.TableExpense {
		prefs.ExpenseSort = option
	} else {
		prefs.IncomeSort = option
	}
	return w.savePreferencesLocked(ctx, prefs)
}

// SetCategoryFilter 支出表按类别筛选，空值表示全部
func (w *Workspace) SetCategoryFilter(ctx context.Context, categoryID string) (models.Preferences, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return models.Preferences{}, err
	}
	prefs := w.state.preferences.WithDefaults()
	prefs.ExpenseCategoryFilter = strings.TrimSpace(categoryID)
	return w.savePreferencesLocked(ctx, prefs.WithDefaults())
}

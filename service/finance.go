package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dompet/calc"
	"dompet/models"
	"dompet/repository"
	"dompet/websocket"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Publisher 推送数据变更事件
type Publisher interface {
	Publish(uid, eventType string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, any) {}

type nopNotifier struct{}

func (nopNotifier) BudgetExceeded(context.Context, string, string, []calc.BudgetItem) error {
	return nil
}

// Options Finance 可选参数
type Options struct {
	CacheSize   int
	CacheTTL    time.Duration
	WarnPercent float64
	Now         func() time.Time
}

// cachedMonth 缓存的月度记录，exists 表示文档已存在
type cachedMonth struct {
	record models.MonthRecord
	exists bool
}

// Finance 记账业务入口，按用户分配 Workspace
type Finance struct {
	repo        *repository.Repository
	months      *LRUCache[cachedMonth]
	publisher   Publisher
	notifier    Notifier
	warnPercent float64
	now         func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewFinance 创建业务入口；publisher、notifier 可为 nil
func NewFinance(repo *repository.Repository, publisher Publisher, notifier Notifier, opts Options) *Finance {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.WarnPercent <= 0 {
		opts.WarnPercent = calc.DefaultWarningPercent
	}
	months := NewLRUCache[cachedMonth](opts.CacheSize, opts.CacheTTL)
	months.now = opts.Now
	return &Finance{
		repo:        repo,
		months:      months,
		publisher:   publisher,
		notifier:    notifier,
		warnPercent: opts.WarnPercent,
		now:         opts.Now,
		workspaces:  make(map[string]*Workspace),
	}
}

// WarnPercent 预算提醒阈值
func (f *Finance) WarnPercent() float64 { return f.warnPercent }

// Now 业务时钟
func (f *Finance) Now() time.Time { return f.now() }

// DashboardOf 指定状态的页面数据
func (f *Finance) DashboardOf(st AppState) Dashboard {
	return st.Dashboard(f.warnPercent, f.now())
}

// Workspace 返回用户的工作区，同一用户共享同一个实例
func (f *Finance) Workspace(uid string) (*Workspace, error) {
	if uid == "" {
		return nil, repository.ErrNoUser
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workspaces[uid]
	if !ok {
		w = &Workspace{f: f, uid: uid}
		f.workspaces[uid] = w
	}
	return w, nil
}

// Forget 丢弃用户的工作区（登出时），下次访问重新加载
func (f *Finance) Forget(uid string) {
	f.mu.Lock()
	delete(f.workspaces, uid)
	f.mu.Unlock()
}

// StartJanitor 定期清理过期缓存，ctx 取消后退出
func (f *Finance) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := f.months.CleanExpired(); n > 0 {
					log.Debug().Int("count", n).Msg("已清理过期月度缓存")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func monthCacheKey(uid, monthKey string) string {
	return uid + "/" + monthKey
}

// loadMonth 先查缓存，再读仓库
func (f *Finance) loadMonth(ctx context.Context, uid, monthKey string) (cachedMonth, error) {
	key := monthCacheKey(uid, monthKey)
	if m, ok := f.months.Get(key); ok {
		return cachedMonth{record: m.record.Clone(), exists: m.exists}, nil
	}
	record, exists, err := f.repo.LoadMonth(ctx, uid, monthKey)
	if err != nil {
		return cachedMonth{}, err
	}
	f.months.Set(key, cachedMonth{record: record.Clone(), exists: exists})
	return cachedMonth{record: record, exists: exists}, nil
}

// Workspace 单个用户的控制器，持有 AppState，所有写操作串行
// 每次修改：复制草稿 -> 修改 -> 持久化 -> 成功后才提交到状态与缓存
type Workspace struct {
	f   *Finance
	uid string

	mu     sync.Mutex
	state  AppState
	loaded bool
	opened bool
}

// UID 所属用户
func (w *Workspace) UID() string { return w.uid }

// State 当前状态副本
func (w *Workspace) State() AppState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// Dashboard 当前状态的页面数据
func (w *Workspace) Dashboard() Dashboard {
	return w.State().Dashboard(w.f.warnPercent, w.f.now())
}

// ensureLoadedLocked 首次访问时并行加载类别、模板与偏好
func (w *Workspace) ensureLoadedLocked(ctx context.Context) error {
	if w.loaded {
		return nil
	}
	var (
		categories []models.Category
		templates  []models.Template
		prefs      models.Preferences
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = w.f.repo.LoadCategories(gctx, w.uid)
		return err
	})
	g.Go(func() error {
		var err error
		templates, err = w.f.repo.LoadTemplates(gctx, w.uid)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = w.f.repo.LoadPreferences(gctx, w.uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	w.state.categories = categories
	w.state.templates = templates
	w.state.preferences = prefs.WithDefaults()
	w.loaded = true
	return nil
}

// resolveKeyLocked 空月份键表示当前打开的月份
func (w *Workspace) resolveKeyLocked(monthKey string) (string, error) {
	if monthKey == "" {
		monthKey = w.state.monthKey
	}
	if monthKey == "" {
		monthKey = calc.MonthKey(w.f.now())
	}
	if !calc.ValidMonthKey(monthKey) {
		return "", fmt.Errorf("%w: %q", calc.ErrInvalidMonthKey, monthKey)
	}
	return monthKey, nil
}

// Open 打开月份；首次打开且未指定月份时，本月没有数据则跳到最早有数据的月份
func (w *Workspace) Open(ctx context.Context, monthKey string) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, err
	}
	explicit := monthKey != ""
	key, err := w.resolveKeyLocked(monthKey)
	if err != nil {
		return AppState{}, err
	}
	m, err := w.f.loadMonth(ctx, w.uid, key)
	if err != nil {
		return AppState{}, err
	}

	if !explicit && !w.opened && !m.exists {
		first, ok, err := w.f.repo.FirstMonthWithData(ctx, w.uid)
		if err != nil {
			return AppState{}, err
		}
		if ok && first != key {
			key = first
			if m, err = w.f.loadMonth(ctx, w.uid, key); err != nil {
				return AppState{}, err
			}
		}
	}

	w.state.monthKey = key
	w.state.month = m.record
	w.state.monthExists = m.exists
	w.opened = true
	return w.state.Clone(), nil
}

// ChangeMonth 相对当前月份前后移动
func (w *Workspace) ChangeMonth(ctx context.Context, delta int) (AppState, error) {
	w.mu.Lock()
	key, err := w.resolveKeyLocked("")
	w.mu.Unlock()
	if err != nil {
		return AppState{}, err
	}
	next, err := calc.ShiftMonth(key, delta)
	if err != nil {
		return AppState{}, err
	}
	return w.Open(ctx, next)
}

// Reload 丢弃内存状态，下次访问重新读取
func (w *Workspace) Reload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.monthKey != "" {
		w.f.months.Delete(monthCacheKey(w.uid, w.state.monthKey))
	}
	w.loaded = false
}

// updateMonth 事务式修改月度记录，mutate 返回错误时不写入
func (w *Workspace) updateMonth(ctx context.Context, monthKey string, mutate func(draft *models.MonthRecord) error) (AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateMonthLocked(ctx, monthKey, mutate)
}

func (w *Workspace) updateMonthLocked(ctx context.Context, monthKey string, mutate func(draft *models.MonthRecord) error) (AppState, error) {
	return w.updateMonthWithLocked(ctx, monthKey, nil, func(draft *models.MonthRecord, _ *sideDocs) error {
		return mutate(draft)
	})
}

// sideDocs 与月度记录一起保存的类别、模板；nil 字段表示不修改
type sideDocs struct {
	categories []models.Category
	templates  []models.Template
}

// updateMonthWithLocked 先写类别、模板，再写月度记录；任一步失败都回滚已写入的文档，
// 全部成功后才提交到可见状态
func (w *Workspace) updateMonthWithLocked(ctx context.Context, monthKey string, side *sideDocs, mutate func(draft *models.MonthRecord, side *sideDocs) error) (AppState, error) {
	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, err
	}
	key, err := w.resolveKeyLocked(monthKey)
	if err != nil {
		return AppState{}, err
	}
	current, err := w.f.loadMonth(ctx, w.uid, key)
	if err != nil {
		return AppState{}, err
	}

	if side == nil {
		side = &sideDocs{}
	}
	draft := current.record.Clone()
	if err := mutate(&draft, side); err != nil {
		return AppState{}, err
	}

	rollback, err := w.persistSideLocked(ctx, side)
	if err != nil {
		return AppState{}, err
	}
	saved, err := w.f.repo.SaveMonth(ctx, w.uid, key, draft)
	if err != nil {
		rollback()
		return AppState{}, err
	}

	// 提交
	w.commitSideLocked(side)
	w.f.months.Set(monthCacheKey(w.uid, key), cachedMonth{record: saved.Clone(), exists: true})
	w.state.monthKey = key
	w.state.month = saved
	w.state.monthExists = true
	w.opened = true

	w.f.publisher.Publish(w.uid, websocket.EventMonthUpdated, map[string]any{"month": key})
	w.alertNewlyOver(ctx, key, current.record, saved)
	return w.state.Clone(), nil
}

// rollbackTimeout 回滚写入的超时，与请求是否取消无关
const rollbackTimeout = 5 * time.Second

// persistSideLocked 写入类别与模板，返回恢复为当前可见版本的回滚函数
func (w *Workspace) persistSideLocked(ctx context.Context, side *sideDocs) (func(), error) {
	var undo []func(ctx context.Context)
	rollback := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i](rctx)
		}
	}

	if side.categories != nil {
		if err := w.f.repo.SaveCategories(ctx, w.uid, side.categories); err != nil {
			return nil, err
		}
		prev := w.state.Categories()
		undo = append(undo, func(ctx context.Context) {
			if err := w.f.repo.SaveCategories(ctx, w.uid, prev); err != nil {
				log.Error().Err(err).Str("uid", w.uid).Msg("回滚类别失败")
			}
		})
	}
	if side.templates != nil {
		if err := w.f.repo.SaveTemplates(ctx, w.uid, side.templates); err != nil {
			rollback()
			return nil, err
		}
		prev := w.state.Templates()
		undo = append(undo, func(ctx context.Context) {
			if err := w.f.repo.SaveTemplates(ctx, w.uid, prev); err != nil {
				log.Error().Err(err).Str("uid", w.uid).Msg("回滚模板失败")
			}
		})
	}
	return rollback, nil
}

// commitSideLocked 持久化全部成功后提交类别与模板
func (w *Workspace) commitSideLocked(side *sideDocs) {
	if side.categories != nil {
		w.state.categories = side.categories
		w.f.publisher.Publish(w.uid, websocket.EventCategoriesUpdated, map[string]any{"count": len(side.categories)})
	}
	if side.templates != nil {
		w.state.templates = side.templates
		w.f.publisher.Publish(w.uid, websocket.EventTemplatesUpdated, map[string]any{"count": len(side.templates)})
	}
}

// alertNewlyOver 本次保存后新进入超支状态的类别发送提醒
func (w *Workspace) alertNewlyOver(ctx context.Context, key string, before, after models.MonthRecord) {
	prev := calc.OverBudget(calc.BudgetProgress(w.state.categories, before.Expenses, before.Budgets, w.f.warnPercent))
	items := calc.BudgetProgress(w.state.categories, after.Expenses, after.Budgets, w.f.warnPercent)

	var fresh []calc.BudgetItem
	for _, item := range items {
		if item.Status != calc.BudgetOver {
			continue
		}
		if _, was := prev[item.CategoryID]; was {
			continue
		}
		fresh = append(fresh, item)
	}
	if len(fresh) == 0 {
		return
	}

	w.f.publisher.Publish(w.uid, websocket.EventBudgetAlert, map[string]any{"month": key, "items": fresh})
	if err := w.f.notifier.BudgetExceeded(ctx, w.uid, key, fresh); err != nil {
		log.Warn().Err(err).Str("uid", w.uid).Str("month", key).Msg("预算提醒发送失败")
	}
}

// saveCategoriesLocked 持久化成功后提交类别
func (w *Workspace) saveCategoriesLocked(ctx context.Context, categories []models.Category) error {
	if err := w.f.repo.SaveCategories(ctx, w.uid, categories); err != nil {
		return err
	}
	w.state.categories = categories
	w.f.publisher.Publish(w.uid, websocket.EventCategoriesUpdated, map[string]any{"count": len(categories)})
	return nil
}

// saveTemplatesLocked 持久化成功后提交模板
func (w *Workspace) saveTemplatesLocked(ctx context.Context, templates []models.Template) error {
	if err := w.f.repo.SaveTemplates(ctx, w.uid, templates); err != nil {
		return err
	}
	w.state.templates = templates
	w.f.publisher.Publish(w.uid, websocket.EventTemplatesUpdated, map[string]any{"count": len(templates)})
	return nil
}

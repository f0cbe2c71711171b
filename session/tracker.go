package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State 会话状态
type State int

const (
	StateActive State = iota
	StateWarning
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ExpireReason 过期原因
type ExpireReason string

const (
	// ReasonTimeout 计时器到期
	ReasonTimeout ExpireReason = "timeout"
	// ReasonHidden 页面重新可见时发现已超时
	ReasonHidden ExpireReason = "visibility"
	// ReasonStale 恢复会话时记录已超时或已被其他实例结束
	ReasonStale ExpireReason = "stale"
)

// storeTimeout 定时器回调里访问存储的超时
const storeTimeout = 5 * time.Second

// Hooks 状态变化回调，均在锁外调用
type Hooks struct {
	OnWarning func(remaining time.Duration)
	OnResume  func(extended bool)
	OnExpired func(reason ExpireReason)
}

// Status 会话当前状态快照
type Status struct {
	SessionID        string    `json:"sessionId"`
	State            string    `json:"state"`
	LastActivity     time.Time `json:"lastActivity"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Countdown        string    `json:"countdown"`
	TimeoutSeconds   int       `json:"timeoutSeconds"`
	WarningSeconds   int       `json:"warningSeconds"`
}

type action int

const (
	actNone action = iota
	actWarn
	actResume
	actExpire
)

// Tracker 单个会话的闲置状态机
// 两个定时器（提醒、登出）在每次活动时清除并重新设置；
// 回调触发时先与持久化的最后活动时间对齐，旧的定时器通过 gen 失效
type Tracker struct {
	id     string
	policy Policy
	clock  Clock
	store  Store
	hooks  Hooks

	// emitMu 让状态变化与对应回调按相同顺序发生
	emitMu sync.Mutex

	mu           sync.Mutex
	state        State
	lastActivity time.Time
	warnTimer    Timer
	expireTimer  Timer
	gen          uint64

	expireOnce sync.Once
}

// NewTracker 创建状态机，调用 Start 后开始计时
func NewTracker(id string, policy Policy, clock Clock, store Store, hooks Hooks) *Tracker {
	if clock == nil {
		clock = RealClock()
	}
	return &Tracker{
		id:     id,
		policy: policy,
		clock:  clock,
		store:  store,
		hooks:  hooks,
	}
}

// ID 会话 id
func (t *Tracker) ID() string { return t.id }

// Start 读取持久化记录并按最后活动时间开始计时；恢复本身不计为活动
func (t *Tracker) Start(ctx context.Context) error {
	rec, err := t.store.Get(ctx, t.id)
	if err != nil {
		return err
	}
	now := t.clock.Now()
	if !t.policy.IsActive(rec, now) {
		t.expire(ReasonStale)
		return ErrExpired
	}

	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()
	t.lastActivity = now
	if ref, ok := reference(rec); ok {
		t.lastActivity = ref
	}
	act := t.alignLocked(now)
	t.mu.Unlock()

	t.run(act, now)
	if act == actExpire {
		return ErrExpired
	}
	return nil
}

// Activity 记录一次交互事件
func (t *Tracker) Activity(ctx context.Context, kind EventKind) error {
	if !qualifying[kind] {
		return ErrUnknownEvent
	}
	return t.touch(ctx, false)
}

// Extend 用户点击“延长会话”
func (t *Tracker) Extend(ctx context.Context) error {
	return t.touch(ctx, true)
}

func (t *Tracker) touch(ctx context.Context, extended bool) error {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()
	if t.state == StateExpired {
		t.mu.Unlock()
		return ErrExpired
	}
	now := t.clock.Now()
	if err := t.store.Touch(ctx, t.id, now); err != nil {
		t.mu.Unlock()
		return err
	}
	wasWarning := t.state == StateWarning
	t.state = StateActive
	t.lastActivity = now
	t.scheduleLocked(t.policy.WarningAfter(), t.policy.Timeout)
	t.mu.Unlock()

	if (wasWarning || extended) && t.hooks.OnResume != nil {
		t.hooks.OnResume(extended)
	}
	return nil
}

// HandleVisible 页面重新可见：以持久化的最后活动时间判断是否已超时
func (t *Tracker) HandleVisible(ctx context.Context) error {
	rec, err := t.store.Get(ctx, t.id)
	if err != nil {
		return err
	}
	now := t.clock.Now()
	if !t.policy.IsActive(rec, now) {
		t.expire(ReasonHidden)
		return ErrExpired
	}

	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()
	if t.state == StateExpired {
		t.mu.Unlock()
		return ErrExpired
	}
	if ref, ok := reference(rec); ok && ref.After(t.lastActivity) {
		t.lastActivity = ref
	}
	act := t.alignLocked(now)
	t.mu.Unlock()

	t.run(act, now)
	if act == actExpire {
		return ErrExpired
	}
	return nil
}

// Snapshot 当前状态
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.policy.Timeout - t.clock.Now().Sub(t.lastActivity)
	if remaining < 0 || t.state == StateExpired {
		remaining = 0
	}
	return Status{
		SessionID:        t.id,
		State:            t.state.String(),
		LastActivity:     t.lastActivity,
		RemainingSeconds: int(remaining / time.Second),
		Countdown:        FormatCountdown(remaining),
		TimeoutSeconds:   int(t.policy.Timeout / time.Second),
		WarningSeconds:   int(t.policy.WarningLead / time.Second),
	}
}

// State 当前状态
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop 停止计时（登出），不标记过期
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimersLocked()
}

func (t *Tracker) stopTimersLocked() {
	if t.warnTimer != nil {
		t.warnTimer.Stop()
		t.warnTimer = nil
	}
	if t.expireTimer != nil {
		t.expireTimer.Stop()
		t.expireTimer = nil
	}
	t.gen++
}

// scheduleLocked warnIn <= 0 时不设置提醒定时器
func (t *Tracker) scheduleLocked(warnIn, expireIn time.Duration) {
	t.stopTimersLocked()
	gen := t.gen
	if warnIn > 0 {
		t.warnTimer = t.clock.AfterFunc(warnIn, func() { t.fire(gen) })
	}
	t.expireTimer = t.clock.AfterFunc(expireIn, func() { t.fire(gen) })
}

// alignLocked 按 lastActivity 计算应处的状态并重新设置定时器
func (t *Tracker) alignLocked(now time.Time) action {
	elapsed := now.Sub(t.lastActivity)
	switch {
	case elapsed >= t.policy.Timeout:
		return actExpire
	case elapsed >= t.policy.WarningAfter():
		t.scheduleLocked(0, t.policy.Timeout-elapsed)
		if t.state == StateWarning {
			return actNone
		}
		t.state = StateWarning
		return actWarn
	default:
		t.scheduleLocked(t.policy.WarningAfter()-elapsed, t.policy.Timeout-elapsed)
		if t.state == StateWarning {
			t.state = StateActive
			return actResume
		}
		return actNone
	}
}

// fire 定时器回调：先与存储对齐，其他标签页或实例的活动会推迟提醒与登出
func (t *Tracker) fire(gen uint64) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	t.mu.Lock()
	if gen != t.gen || t.state == StateExpired {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	rec, err := t.store.Get(ctx, t.id)
	cancel()
	if err == nil {
		if rec.Expired() {
			t.mu.Unlock()
			t.expire(ReasonStale)
			return
		}
		if ref, ok := reference(rec); ok && ref.After(t.lastActivity) {
			t.lastActivity = ref
		}
	} else {
		log.Warn().Err(err).Str("session", t.id).Msg("读取会话记录失败，按本地时间判断")
	}
	now := t.clock.Now()
	act := t.alignLocked(now)
	t.mu.Unlock()

	t.run(act, now)
}

func (t *Tracker) run(act action, now time.Time) {
	switch act {
	case actWarn:
		if t.hooks.OnWarning != nil {
			t.mu.Lock()
			remaining := t.policy.Timeout - now.Sub(t.lastActivity)
			t.mu.Unlock()
			t.hooks.OnWarning(remaining)
		}
	case actResume:
		if t.hooks.OnResume != nil {
			t.hooks.OnResume(false)
		}
	case actExpire:
		t.expire(ReasonTimeout)
	}
}

// expire 进入终态，强制登出回调只触发一次
func (t *Tracker) expire(reason ExpireReason) {
	t.expireOnce.Do(func() {
		t.mu.Lock()
		t.state = StateExpired
		t.stopTimersLocked()
		t.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, err := t.store.MarkExpired(ctx, t.id, t.clock.Now()); err != nil {
			log.Warn().Err(err).Str("session", t.id).Msg("标记会话过期失败")
		}
		log.Info().Str("session", t.id).Str("reason", string(reason)).Msg("会话因闲置结束")
		if t.hooks.OnExpired != nil {
			t.hooks.OnExpired(reason)
		}
	})
}

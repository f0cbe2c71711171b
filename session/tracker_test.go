package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"dompet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 10, 18, 8, 0, 0, 0, time.UTC)

type hookRecorder struct {
	mu       sync.Mutex
	warnings []time.Duration
	resumes  []bool
	expiries []ExpireReason
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		OnWarning: func(d time.Duration) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.warnings = append(h.warnings, d)
		},
		OnResume: func(extended bool) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.resumes = append(h.resumes, extended)
		},
		OnExpired: func(r ExpireReason) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.expiries = append(h.expiries, r)
		},
	}
}

func (h *hookRecorder) counts() (int, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.warnings), len(h.resumes), len(h.expiries)
}

func startTracker(t *testing.T) (*Tracker, *fakeClock, *MemoryStore, *hookRecorder) {
	t.Helper()
	clock := newFakeClock(t0)
	store := NewMemoryStore()
	now := clock.Now()
	require.NoError(t, store.Create(context.Background(), &models.Session{ID: "s1", UID: "u1", LoginAt: now, LastActivity: &now}))

	rec := &hookRecorder{}
	tr := NewTracker("s1", DefaultPolicy(), clock, store, rec.hooks())
	require.NoError(t, tr.Start(context.Background()))
	return tr, clock, store, rec
}

func TestTracker_WarningThenExpiry(t *testing.T) {
	tr, clock, store, rec := startTracker(t)

	clock.Advance(54 * time.Minute)
	assert.Equal(t, StateActive, tr.State())

	clock.Advance(time.Minute)
	assert.Equal(t, StateWarning, tr.State())
	warnings, _, _ := rec.counts()
	require.Equal(t, 1, warnings)
	assert.Equal(t, 5*time.Minute, rec.warnings[0])
	assert.Equal(t, "5:00", tr.Snapshot().Countdown)

	clock.Advance(5 * time.Minute)
	assert.Equal(t, StateExpired, tr.State())
	_, _, expiries := rec.counts()
	assert.Equal(t, 1, expiries)
	assert.Equal(t, ReasonTimeout, rec.expiries[0])

	stored, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, stored.Expired())

	// 终态：活动不再生效，回调不重复
	assert.ErrorIs(t, tr.Activity(context.Background(), EventClick), ErrExpired)
	assert.ErrorIs(t, tr.Extend(context.Background()), ErrExpired)
	clock.Advance(2 * time.Hour)
	_, _, expiries = rec.counts()
	assert.Equal(t, 1, expiries)
	assert.Zero(t, clock.pending())
}

func TestTracker_ActivityResetsTimers(t *testing.T) {
	tr, clock, store, rec := startTracker(t)
	ctx := context.Background()

	clock.Advance(55 * time.Minute)
	require.Equal(t, StateWarning, tr.State())

	require.NoError(t, tr.Activity(ctx, EventKeyDown))
	assert.Equal(t, StateActive, tr.State())
	_, resumes, _ := rec.counts()
	require.Equal(t, 1, resumes)
	assert.False(t, rec.resumes[0])

	// 活动时间已持久化
	stored, _ := store.Get(ctx, "s1")
	require.NotNil(t, stored.LastActivity)
	assert.True(t, clock.Now().Equal(*stored.LastActivity))

	// 旧的登出定时器已失效
	clock.Advance(30 * time.Minute)
	assert.Equal(t, StateActive, tr.State())
	clock.Advance(25 * time.Minute)
	assert.Equal(t, StateWarning, tr.State())
	warnings, _, expiries := rec.counts()
	assert.Equal(t, 2, warnings)
	assert.Zero(t, expiries)

	// 每次活动最多只有两个定时器
	require.NoError(t, tr.Activity(ctx, EventScroll))
	require.NoError(t, tr.Activity(ctx, EventMouseMove))
	assert.Equal(t, 2, clock.pending())
}

func TestTracker_Extend(t *testing.T) {
	tr, clock, _, rec := startTracker(t)

	clock.Advance(56 * time.Minute)
	require.NoError(t, tr.Extend(context.Background()))
	assert.Equal(t, StateActive, tr.State())
	require.Len(t, rec.resumes, 1)
	assert.True(t, rec.resumes[0])
	assert.Equal(t, 3600, tr.Snapshot().RemainingSeconds)
}

func TestTracker_UnknownEvent(t *testing.T) {
	tr, _, _, _ := startTracker(t)
	assert.ErrorIs(t, tr.Activity(context.Background(), EventKind("resize")), ErrUnknownEvent)
}

func TestTracker_ActivityFromOtherTabDelaysWarning(t *testing.T) {
	tr, clock, store, rec := startTracker(t)
	ctx := context.Background()

	clock.Advance(30 * time.Minute)
	// 另一个实例更新了共享记录
	require.NoError(t, store.Touch(ctx, "s1", clock.Now()))

	clock.Advance(25 * time.Minute)
	assert.Equal(t, StateActive, tr.State())
	warnings, _, _ := rec.counts()
	assert.Zero(t, warnings)

	clock.Advance(29 * time.Minute)
	assert.Equal(t, StateActive, tr.State())
	clock.Advance(time.Minute)
	assert.Equal(t, StateWarning, tr.State())
}

func TestTracker_VisibleAfterTimeoutExpiresOnce(t *testing.T) {
	tr, clock, _, rec := startTracker(t)

	// 标签页被挂起，定时器没有执行
	clock.Jump(61 * time.Minute)
	assert.ErrorIs(t, tr.HandleVisible(context.Background()), ErrExpired)
	assert.Equal(t, StateExpired, tr.State())

	// 迟到的定时器与重复检测都不会再次登出
	clock.Advance(time.Minute)
	assert.ErrorIs(t, tr.HandleVisible(context.Background()), ErrExpired)
	_, _, expiries := rec.counts()
	assert.Equal(t, 1, expiries)
	assert.Equal(t, ReasonHidden, rec.expiries[0])
}

func TestTracker_VisibleWithinTimeout(t *testing.T) {
	tr, clock, _, rec := startTracker(t)

	clock.Jump(57 * time.Minute)
	require.NoError(t, tr.HandleVisible(context.Background()))
	assert.Equal(t, StateWarning, tr.State())
	warnings, _, _ := rec.counts()
	assert.Equal(t, 1, warnings)

	clock.Advance(3 * time.Minute)
	assert.Equal(t, StateExpired, tr.State())
}

func TestTracker_StartWithStaleRecord(t *testing.T) {
	clock := newFakeClock(t0)
	store := NewMemoryStore()
	old := t0.Add(-2 * time.Hour)
	require.NoError(t, store.Create(context.Background(), &models.Session{ID: "s1", LoginAt: old, LastActivity: &old}))

	rec := &hookRecorder{}
	tr := NewTracker("s1", DefaultPolicy(), clock, store, rec.hooks())
	assert.ErrorIs(t, tr.Start(context.Background()), ErrExpired)
	_, _, expiries := rec.counts()
	assert.Equal(t, 1, expiries)
	assert.Equal(t, ReasonStale, rec.expiries[0])
}

func TestTracker_StartFromPersistedActivity(t *testing.T) {
	clock := newFakeClock(t0)
	store := NewMemoryStore()
	last := t0.Add(-57 * time.Minute)
	require.NoError(t, store.Create(context.Background(), &models.Session{ID: "s1", LoginAt: last, LastActivity: &last}))

	rec := &hookRecorder{}
	tr := NewTracker("s1", DefaultPolicy(), clock, store, rec.hooks())
	require.NoError(t, tr.Start(context.Background()))
	assert.Equal(t, StateWarning, tr.State())
	assert.Equal(t, 180, tr.Snapshot().RemainingSeconds)

	// 恢复不写入活动时间
	stored, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, last.Equal(*stored.LastActivity))

	clock.Advance(3 * time.Minute)
	assert.Equal(t, StateExpired, tr.State())
	_, _, expiries := rec.counts()
	assert.Equal(t, 1, expiries)
}

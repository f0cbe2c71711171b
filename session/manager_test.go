package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"dompet/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type published struct {
	uid       string
	eventType string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(uid, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{uid, eventType, payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

func newTestManager() (*Manager, *fakeClock, *MemoryStore, *recordingPublisher) {
	clock := newFakeClock(t0)
	store := NewMemoryStore()
	pub := &recordingPublisher{}
	return NewManager(store, DefaultPolicy(), clock, pub), clock, store, pub
}

func TestManager_Lifecycle(t *testing.T) {
	m, clock, store, pub := newTestManager()
	ctx := context.Background()

	rec, err := m.Begin(ctx, 7, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.NoError(t, m.Validate(ctx, rec.ID))

	clock.Advance(55 * time.Minute)
	status, err := m.Status(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "warning", status.State)

	_, err = m.Activity(ctx, rec.ID, "click")
	require.NoError(t, err)
	_, err = m.Extend(ctx, rec.ID)
	require.NoError(t, err)

	_, err = m.Activity(ctx, rec.ID, "resize")
	assert.ErrorIs(t, err, ErrUnknownEvent)

	clock.Advance(time.Hour)
	assert.Equal(t, []string{EventTypeWarning, EventTypeResumed, EventTypeExtended, EventTypeWarning, EventTypeExpired}, pub.types())
	for _, e := range pub.events {
		assert.Equal(t, "u1", e.uid)
	}

	stored, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.Expired())
	assert.ErrorIs(t, m.Validate(ctx, rec.ID), ErrExpired)
	_, err = m.Activity(ctx, rec.ID, "click")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestManager_ValidateStaleRecordWithoutTracker(t *testing.T) {
	m, _, store, pub := newTestManager()
	ctx := context.Background()

	old := t0.Add(-61 * time.Minute)
	require.NoError(t, store.Create(ctx, &models.Session{ID: "s9", UID: "u1", LoginAt: old, LastActivity: &old}))

	assert.ErrorIs(t, m.Validate(ctx, "s9"), ErrExpired)
	assert.ErrorIs(t, m.Validate(ctx, "s9"), ErrExpired)
	assert.Equal(t, []string{EventTypeExpired}, pub.types())
}

func TestManager_RestoresTrackerAfterRestart(t *testing.T) {
	m, clock, store, _ := newTestManager()
	ctx := context.Background()

	last := t0.Add(-10 * time.Minute)
	require.NoError(t, store.Create(ctx, &models.Session{ID: "s2", UID: "u1", LoginAt: last, LastActivity: &last}))

	status, err := m.Visible(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "active", status.State)
	// 页面可见不计为活动
	assert.True(t, last.Equal(status.LastActivity))
	assert.Equal(t, 50*60, status.RemainingSeconds)

	clock.Advance(45 * time.Minute)
	status, err = m.Status(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "warning", status.State)
}

func TestManager_StatusAfterRestartKeepsIdleClock(t *testing.T) {
	m, _, store, pub := newTestManager()
	ctx := context.Background()

	last := t0.Add(-56 * time.Minute)
	require.NoError(t, store.Create(ctx, &models.Session{ID: "s1", UID: "u1", LoginAt: last, LastActivity: &last}))

	status, err := m.Status(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "warning", status.State)
	assert.Equal(t, "4:00", status.Countdown)
	assert.Equal(t, []string{EventTypeWarning}, pub.types())

	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastActivity)
	assert.True(t, last.Equal(*stored.LastActivity))
}

func TestManager_ValidateResumesTimers(t *testing.T) {
	m, clock, store, pub := newTestManager()
	ctx := context.Background()

	last := t0.Add(-30 * time.Minute)
	require.NoError(t, store.Create(ctx, &models.Session{ID: "s3", UID: "u1", LoginAt: last, LastActivity: &last}))

	require.NoError(t, m.Validate(ctx, "s3"))
	assert.Equal(t, 2, clock.pending())

	clock.Advance(25 * time.Minute)
	clock.Advance(5 * time.Minute)
	assert.Equal(t, []string{EventTypeWarning, EventTypeExpired}, pub.types())
	assert.ErrorIs(t, m.Validate(ctx, "s3"), ErrExpired)
}

func TestManager_ActivityDuringWarningResumes(t *testing.T) {
	m, clock, _, pub := newTestManager()
	ctx := context.Background()

	rec, err := m.Begin(ctx, 7, "u1")
	require.NoError(t, err)

	clock.Advance(55 * time.Minute)
	require.Equal(t, []string{EventTypeWarning}, pub.types())

	status, err := m.Activity(ctx, rec.ID, "mousemove")
	require.NoError(t, err)
	assert.Equal(t, "active", status.State)
	assert.Equal(t, []string{EventTypeWarning, EventTypeResumed}, pub.types())

	pub.mu.Lock()
	payload := pub.events[1].payload.(map[string]any)
	pub.mu.Unlock()
	assert.Equal(t, rec.ID, payload["sessionId"])

	// 计时从这次活动重新开始
	clock.Advance(54 * time.Minute)
	assert.Len(t, pub.types(), 2)
}

func TestManager_End(t *testing.T) {
	m, clock, _, pub := newTestManager()
	ctx := context.Background()

	rec, err := m.Begin(ctx, 1, "u1")
	require.NoError(t, err)
	require.NoError(t, m.End(ctx, rec.ID))
	assert.ErrorIs(t, m.Validate(ctx, rec.ID), ErrNotFound)

	clock.Advance(2 * time.Hour)
	assert.Empty(t, pub.types())
	assert.Zero(t, clock.pending())
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGormStore_MarkExpired_FirstCallerWins(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sessions` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sessions` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	first, err := store.MarkExpired(ctx, "s1", t0)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkExpired(ctx, "s1", t0)
	require.NoError(t, err)
	assert.False(t, again)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `sessions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormStore(db).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Touch(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sessions` SET `last_activity`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGormStore(db).Touch(context.Background(), "s1", t0))
	require.NoError(t, mock.ExpectationsWereMet())
}

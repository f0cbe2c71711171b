package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dompet/calc"
	"dompet/repository"
	"dompet/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNetworkDown = errors.New("network down")

// flakyStore 指定集合的写入失败
type flakyStore struct {
	*repository.MemoryStore
	mu   sync.Mutex
	fail map[string]bool
}

func (s *flakyStore) failOn(collections ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = make(map[string]bool)
	for _, c := range collections {
		s.fail[c] = true
	}
}

func (s *flakyStore) Set(ctx context.Context, uid, collection, docID string, payload []byte) error {
	s.mu.Lock()
	failed := s.fail[collection]
	s.mu.Unlock()
	if failed {
		return errNetworkDown
	}
	return s.MemoryStore.Set(ctx, uid, collection, docID, payload)
}

func newFlakyFixture(t *testing.T) (*fixture, *flakyStore) {
	t.Helper()
	now := func() time.Time { return testNow }
	mem := repository.NewMemoryStore()
	store := &flakyStore{MemoryStore: mem}
	repo := repository.New(store, now)
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	f := NewFinance(repo, pub, notifier, Options{Now: now})
	ws, err := f.Workspace("u1")
	require.NoError(t, err)
	_, err = ws.Open(context.Background(), "2025-10")
	require.NoError(t, err)
	return &fixture{store: mem, repo: repo, finance: f, pub: pub, notifier: notifier, ws: ws}, store
}

func TestWorkspace_RecurringExpenseTemplateFailureWritesNothing(t *testing.T) {
	fx, store := newFlakyFixture(t)
	ctx := context.Background()
	in := ExpenseInput{Category: "subscriptions", Amount: 54000, Description: "Netflix", IsRecurring: true}

	store.failOn(repository.CollectionTemplates)
	_, err := fx.ws.AddExpense(ctx, "2025-10", in)
	assert.ErrorIs(t, err, errNetworkDown)

	assert.Empty(t, fx.ws.State().Month().Expenses)
	assert.Empty(t, fx.ws.State().Templates())
	record, _, err := fx.repo.LoadMonth(ctx, "u1", "2025-10")
	require.NoError(t, err)
	assert.Empty(t, record.Expenses)
	assert.NotContains(t, fx.pub.types(), websocket.EventMonthUpdated)

	// 重试成功后只有一条支出和一个模板
	store.failOn()
	st, err := fx.ws.AddExpense(ctx, "2025-10", in)
	require.NoError(t, err)
	assert.Len(t, st.Month().Expenses, 1)
	assert.Len(t, st.Templates(), 1)
}

func TestWorkspace_RecurringExpenseMonthFailureRestoresTemplates(t *testing.T) {
	fx, store := newFlakyFixture(t)
	ctx := context.Background()

	store.failOn(repository.CollectionMonths)
	_, err := fx.ws.AddExpense(ctx, "2025-10", ExpenseInput{Category: "needs", Amount: 100, Description: "Listrik", IsRecurring: true})
	assert.ErrorIs(t, err, errNetworkDown)

	templates, err := fx.repo.LoadTemplates(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, templates)
	assert.Empty(t, fx.ws.State().Templates())
	assert.Empty(t, fx.ws.State().Month().Expenses)
}

func TestWorkspace_ImportMonthFailureRestoresCatalog(t *testing.T) {
	fx, store := newFlakyFixture(t)
	ctx := context.Background()

	_, err := fx.ws.AddTemplate(ctx, TemplateInput{Category: "needs", Amount: 1, Description: "Air"})
	require.NoError(t, err)

	payload := `{
		"data": {"incomes": [{"id": "i1", "amount": 1000, "source": "Gaji"}]},
		"categories": [{"id": "pets", "name": "Hewan", "color": "#FF0000"}],
		"templates": []
	}`
	store.failOn(repository.CollectionMonths)
	_, err = fx.ws.Import(ctx, "2025-10", []byte(payload))
	assert.ErrorIs(t, err, errNetworkDown)

	categories, err := fx.repo.LoadCategories(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, categories, 8)
	templates, err := fx.repo.LoadTemplates(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	st := fx.ws.State()
	assert.Len(t, st.Categories(), 8)
	assert.Len(t, st.Templates(), 1)
	assert.Empty(t, st.Month().Incomes)
}

func TestWorkspace_DeleteCategoryBudgetFailureKeepsCategory(t *testing.T) {
	fx, store := newFlakyFixture(t)
	ctx := context.Background()

	_, err := fx.ws.AddCategory(ctx, CategoryInput{Name: "Hobi", Color: "#123456"})
	require.NoError(t, err)
	_, err = fx.ws.SaveBudgets(ctx, "2025-10", map[string]calc.Amount{"hobi": 50000})
	require.NoError(t, err)

	store.failOn(repository.CollectionMonths)
	_, err = fx.ws.DeleteCategory(ctx, "hobi")
	assert.ErrorIs(t, err, errNetworkDown)

	categories, err := fx.repo.LoadCategories(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, categories, 9)
	assert.Len(t, fx.ws.State().Categories(), 9)
	assert.Equal(t, 50000.0, fx.ws.State().Month().Budgets["hobi"])
}

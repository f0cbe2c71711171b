package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dompet/calc"
	"dompet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestRepo() (*Repository, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, func() time.Time { return fixedNow }), store
}

func TestRepository_RequiresUser(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	_, err := repo.LoadCategories(ctx, "")
	assert.ErrorIs(t, err, ErrNoUser)
	_, _, err = repo.LoadMonth(ctx, " ", "2025-10")
	assert.ErrorIs(t, err, ErrNoUser)
	_, err = repo.SaveMonth(ctx, "", "2025-10", models.NewMonthRecord(fixedNow))
	assert.ErrorIs(t, err, ErrNoUser)
	assert.ErrorIs(t, repo.SaveTemplates(ctx, "", nil), ErrNoUser)
	assert.ErrorIs(t, repo.SavePreferences(ctx, "", models.Preferences{}), ErrNoUser)

	// 没有任何部分写入
	ids, _ := store.List(ctx, "", CollectionMonths)
	assert.Empty(t, ids)
}

func TestRepository_LoadCategories_SeedsDefaults(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	cats, err := repo.LoadCategories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories(), cats)

	payload, err := store.Get(ctx, "u1", CollectionCategories, DocCategories)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"savings"`)

	custom := append(cats, models.Category{ID: "hobi", Name: "Hobi", Color: "#123456"})
	require.NoError(t, repo.SaveCategories(ctx, "u1", custom))
	loaded, err := repo.LoadCategories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, custom, loaded)
}

func TestRepository_LoadTemplates_Normalizes(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	templates, err := repo.LoadTemplates(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, templates)

	require.NoError(t, store.Set(ctx, "u1", CollectionTemplates, DocTemplates,
		[]byte(`{"templates":[null,{"category":"needs","amount":"Rp 5.000","description":"Air"}]}`)))
	templates, err = repo.LoadTemplates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, 5000.0, templates[0].Amount)
	assert.NotEmpty(t, templates[0].ID)
}

func TestRepository_LoadMonth_Missing(t *testing.T) {
	repo, _ := newTestRepo()

	rec, exists, err := repo.LoadMonth(context.Background(), "u1", "2025-10")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.True(t, rec.IsEmpty())
	assert.NotNil(t, rec.Incomes)

	_, _, err = repo.LoadMonth(context.Background(), "u1", "2025/10")
	assert.True(t, errors.Is(err, calc.ErrInvalidMonthKey))
}

func TestRepository_LoadMonth_NormalizesLegacyShapes(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	doc := `{
		"expenses": [
			null,
			{"id":"e1","category":"needs","amount":"Rp 12.000","description":"Bayar listrik (Done)","date":{"seconds":1759305600}},
			{"id":"e2","category":"needs","amount":"abc","description":"done","status":"Paid","date":"2025-10-02"},
			{"id":"e3","category":"needs","amount":1,"description":"Done","status":5},
			{"id":"e4","category":"needs","amount":1,"description":"x","status":null,"isRecurring":1,"tags":["a",2]}
		],
		"budgets": {"needs":"500000","bad":"x"},
		"metadata": {"createdAt":"2025-10-01T00:00:00Z"}
	}`
	require.NoError(t, store.Set(ctx, "u1", CollectionMonths, "2025-10", []byte(doc)))

	rec, exists, err := repo.LoadMonth(ctx, "u1", "2025-10")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, rec.Expenses, 4)

	assert.Equal(t, 12000.0, rec.Expenses[0].Amount)
	assert.Equal(t, "done", rec.Expenses[0].Status)
	assert.True(t, time.Unix(1759305600, 0).Equal(rec.Expenses[0].Date))

	assert.Zero(t, rec.Expenses[1].Amount)
	assert.Equal(t, "Paid", rec.Expenses[1].Status)
	assert.True(t, time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC).Equal(rec.Expenses[1].Date))

	// 非字符串状态视为缺失
	assert.Equal(t, "done", rec.Expenses[2].Status)
	// 缺失日期为当前时间
	assert.True(t, fixedNow.Equal(rec.Expenses[2].Date))

	assert.Equal(t, "planned", rec.Expenses[3].Status)
	assert.True(t, rec.Expenses[3].IsRecurring)
	assert.Equal(t, []string{"a"}, rec.Expenses[3].Tags)

	assert.Equal(t, models.Budgets{"needs": 500000, "bad": 0}, rec.Budgets)
	assert.Empty(t, rec.Incomes)
	assert.True(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC).Equal(rec.Metadata.CreatedAt))
}

func TestRepository_LoadMonth_MigratesScalarIncome(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", CollectionMonths, "2025-09",
		[]byte(`{"income":6000000,"incomes":[{"id":"old","amount":1}],"expenses":[]}`)))

	rec, exists, err := repo.LoadMonth(ctx, "u1", "2025-09")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, rec.Incomes, 1)
	assert.Equal(t, 6000000.0, rec.Incomes[0].Amount)
	assert.Equal(t, "Migrated Income", rec.Incomes[0].Source)
	assert.Equal(t, "Data pemasukan lama", rec.Incomes[0].Description)
	// 非当月使用该月第一天
	assert.True(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).Equal(rec.Incomes[0].Date))

	// 已写回，且不再有 income 字段
	payload, err := store.Get(ctx, "u1", CollectionMonths, "2025-09")
	require.NoError(t, err)
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &top))
	assert.NotContains(t, top, "income")

	again, _, err := repo.LoadMonth(ctx, "u1", "2025-09")
	require.NoError(t, err)
	require.Len(t, again.Incomes, 1)
	assert.Equal(t, rec.Incomes[0].ID, again.Incomes[0].ID)
}

func TestRepository_LoadMonth_ZeroScalarIncomeNotMigrated(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", CollectionMonths, "2025-09", []byte(`{"income":0}`)))
	rec, _, err := repo.LoadMonth(ctx, "u1", "2025-09")
	require.NoError(t, err)
	assert.Empty(t, rec.Incomes)
}

func TestRepository_SaveMonth_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	created := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	rec := models.MonthRecord{
		Incomes: []models.Income{{ID: "i1", Amount: 8000000, Source: "Gaji", Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}},
		Expenses: []models.Expense{
			{ID: "e1", Category: "needs", Amount: 150000, Description: "Beras", Date: time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC), Status: "done"},
			{ID: "e2", Category: "savings", Amount: 1000000, Date: time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), IsRecurring: true},
		},
		Budgets:  models.Budgets{"needs": 2000000},
		Metadata: models.MonthMetadata{CreatedAt: created},
	}

	saved, err := repo.SaveMonth(ctx, "u1", "2025-10", rec)
	require.NoError(t, err)
	assert.Equal(t, "planned", saved.Expenses[1].Status)
	assert.True(t, created.Equal(saved.Metadata.CreatedAt))
	assert.True(t, fixedNow.Equal(saved.Metadata.UpdatedAt))

	loaded, exists, err := repo.LoadMonth(ctx, "u1", "2025-10")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, loaded.Incomes, 1)
	require.Len(t, loaded.Expenses, 2)
	assert.Equal(t, saved.Incomes[0].ID, loaded.Incomes[0].ID)
	assert.Equal(t, saved.Incomes[0].Amount, loaded.Incomes[0].Amount)
	assert.True(t, saved.Incomes[0].Date.Equal(loaded.Incomes[0].Date))
	for i := range saved.Expenses {
		assert.Equal(t, saved.Expenses[i].ID, loaded.Expenses[i].ID)
		assert.Equal(t, saved.Expenses[i].Amount, loaded.Expenses[i].Amount)
		assert.Equal(t, saved.Expenses[i].Status, loaded.Expenses[i].Status)
		assert.Equal(t, saved.Expenses[i].IsRecurring, loaded.Expenses[i].IsRecurring)
		assert.True(t, saved.Expenses[i].Date.Equal(loaded.Expenses[i].Date))
	}
	assert.Equal(t, saved.Budgets, loaded.Budgets)
	assert.True(t, created.Equal(loaded.Metadata.CreatedAt))
}

func TestRepository_MonthKeys(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	_, ok, err := repo.FirstMonthWithData(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, key := range []string{"2025-10", "2024-12", "notes"} {
		require.NoError(t, store.Set(ctx, "u1", CollectionMonths, key, []byte(`{}`)))
	}
	require.NoError(t, store.Set(ctx, "u2", CollectionMonths, "2020-01", []byte(`{}`)))

	keys, err := repo.ListMonthKeys(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12", "2025-10"}, keys)

	first, ok, err := repo.FirstMonthWithData(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-12", first)
}

func TestRepository_Preferences(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	prefs, err := repo.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)

	require.NoError(t, repo.SavePreferences(ctx, "u1", models.Preferences{IncomeSort: "amount-asc"}))
	prefs, err = repo.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "amount-asc", prefs.IncomeSort)
	assert.Equal(t, "date-desc", prefs.ExpenseSort)
	assert.Equal(t, "all", prefs.ExpenseCategoryFilter)

	require.NoError(t, store.Set(ctx, "u1", CollectionPreferences, DocPreferences, []byte(`[1,2]`)))
	prefs, err = repo.LoadPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEntry(user int64, label, amount, category string, d core.Date) core.Entry {
	return core.Entry{
		UserID:   user,
		Label:    label,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     d,
	}
}

func TestCreateAndGetEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.KindExpense,
		testEntry(1, "Groceries", "50.25", "Food", core.NewDate(2024, 1, 2)))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetEntry(ctx, 1, core.KindExpense, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Label)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("50.25")))
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, core.NewDate(2024, 1, 2), got.Date)
}

func TestGetEntryScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.KindIncome,
		testEntry(1, "Salary", "1000", "Salary", core.NewDate(2024, 1, 1)))
	require.NoError(t, err)

	_, err = repo.GetEntry(ctx, 2, core.KindIncome, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetEntry(ctx, 1, core.KindIncome, created.ID+999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.KindExpense,
		testEntry(1, "Rent", "900", "Housing", core.NewDate(2024, 1, 1)))
	require.NoError(t, err)

	// Wrong owner must not delete.
	assert.ErrorIs(t, repo.DeleteEntry(ctx, 2, core.KindExpense, created.ID), ErrNotFound)

	require.NoError(t, repo.DeleteEntry(ctx, 1, core.KindExpense, created.ID))
	_, err = repo.GetEntry(ctx, 1, core.KindExpense, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteEntry(ctx, 1, core.KindExpense, created.ID), ErrNotFound)
}

func TestGetOrCreateCategoryIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateCategory(ctx, "Food")
	require.NoError(t, err)
	second, err := repo.GetOrCreateCategory(ctx, "Food")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].Name)
}

func TestListCategoriesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Salary", "Food", "Travel"} {
		_, err := repo.GetOrCreateCategory(ctx, name)
		require.NoError(t, err)
	}

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Salary", "Food", "Travel"}, names)
}

func TestDeleteCategoryCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.KindExpense,
		testEntry(1, "Flight", "400", "Travel", core.NewDate(2024, 1, 3)))
	require.NoError(t, err)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	require.NoError(t, repo.DeleteCategory(ctx, categories[0].ID))

	_, err = repo.GetEntry(ctx, 1, core.KindExpense, created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "entries must cascade with category removal")
}

func TestEntriesOrderAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []core.Entry{
		testEntry(1, "Groceries", "50", "Food", core.NewDate(2024, 1, 2)),
		testEntry(1, "Lunch", "20", "Food", core.NewDate(2024, 1, 5)),
		testEntry(1, "Flight", "400", "Travel", core.NewDate(2024, 2, 1)),
		testEntry(2, "Coffee", "3", "Food", core.NewDate(2024, 1, 5)),
	}
	for _, e := range seed {
		_, err := repo.CreateEntry(ctx, core.KindExpense, e)
		require.NoError(t, err)
	}

	all, err := repo.Entries(ctx, 1, core.KindExpense, core.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Flight", all[0].Label)
	assert.Equal(t, "Lunch", all[1].Label)
	assert.Equal(t, "Groceries", all[2].Label)

	food, err := repo.Entries(ctx, 1, core.KindExpense, core.EntryFilter{Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	january, err := repo.Entries(ctx, 1, core.KindExpense, core.EntryFilter{
		Range: core.DateRange{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31)},
	})
	require.NoError(t, err)
	assert.Len(t, january, 2)

	// One-sided range is treated as absent.
	halfOpen, err := repo.Entries(ctx, 1, core.KindExpense, core.EntryFilter{
		Range: core.DateRange{From: core.NewDate(2024, 2, 1)},
	})
	require.NoError(t, err)
	assert.Len(t, halfOpen, 3)

	limited, err := repo.Entries(ctx, 1, core.KindExpense, core.EntryFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "Flight", limited[0].Label)
}

func TestCategoryCountsAndSums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Travel is created through an income so it exists in the catalog but
	// has no expense entries, and must not appear in expense aggregates.
	seedExpenses := []core.Entry{
		testEntry(1, "Groceries", "50", "Food", core.NewDate(2024, 1, 2)),
		testEntry(1, "Lunch", "20", "Food", core.NewDate(2024, 1, 5)),
		testEntry(1, "Gym", "35.50", "Health", core.NewDate(2024, 1, 7)),
		testEntry(2, "Coffee", "3", "Food", core.NewDate(2024, 1, 5)),
	}
	for _, e := range seedExpenses {
		_, err := repo.CreateEntry(ctx, core.KindExpense, e)
		require.NoError(t, err)
	}
	_, err := repo.CreateEntry(ctx, core.KindIncome,
		testEntry(1, "Refund", "12", "Travel", core.NewDate(2024, 1, 9)))
	require.NoError(t, err)

	counts, err := repo.CategoryCounts(ctx, 1, core.KindExpense)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Food", counts[0].Name)
	assert.EqualValues(t, 2, counts[0].Count)
	assert.Equal(t, "Health", counts[1].Name)
	assert.EqualValues(t, 1, counts[1].Count)

	sums, err := repo.CategorySums(ctx, 1, core.KindExpense)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.True(t, sums[0].Sum.Equal(decimal.RequireFromString("70")))
	assert.True(t, sums[1].Sum.Equal(decimal.RequireFromString("35.50")))
}

func TestSumAmounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, core.KindIncome,
		testEntry(1, "Salary", "1000", "Salary", core.NewDate(2024, 1, 1)))
	require.NoError(t, err)
	_, err = repo.CreateEntry(ctx, core.KindIncome,
		testEntry(1, "Bonus", "250.75", "Salary", core.NewDate(2024, 2, 1)))
	require.NoError(t, err)

	total, err := repo.SumAmounts(ctx, 1, core.KindIncome, core.DateRange{})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1250.75")))

	january, err := repo.SumAmounts(ctx, 1, core.KindIncome, core.DateRange{
		From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31),
	})
	require.NoError(t, err)
	assert.True(t, january.Equal(decimal.RequireFromString("1000")))

	empty, err := repo.SumAmounts(ctx, 42, core.KindExpense, core.DateRange{})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestUnknownKindRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Entries(ctx, 1, core.Kind("savings"), core.EntryFilter{})
	assert.ErrorIs(t, err, core.ErrUnknownKind)

	_, err = repo.CreateEntry(ctx, core.Kind(""), testEntry(1, "x", "1", "c", core.NewDate(2024, 1, 1)))
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

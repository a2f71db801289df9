package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func entry(label, amount string, d core.Date) core.Entry {
	return core.Entry{
		Label:    label,
		Amount:   decimal.RequireFromString(amount),
		Category: "Misc",
		Date:     d,
	}
}

func TestNormalizeSigns(t *testing.T) {
	e := entry("Groceries", "50", core.NewDate(2024, 1, 2))

	out := Normalize(core.KindExpense, e)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("-50")), "expense must negate")

	in := Normalize(core.KindIncome, e)
	assert.True(t, in.Amount.Equal(decimal.RequireFromString("50")), "income must pass through")
	assert.Equal(t, "Groceries", in.Label)
}

func TestMergeWorkedExample(t *testing.T) {
	expenses := []core.Entry{
		entry("Lunch", "20", core.NewDate(2024, 1, 5)),
		entry("Groceries", "50", core.NewDate(2024, 1, 2)),
	}
	incomes := []core.Entry{
		entry("Salary", "1000", core.NewDate(2024, 1, 1)),
	}

	feed := Merge(incomes, expenses, MergeOptions{Limit: 10})
	require.Len(t, feed, 3)

	assert.True(t, feed[0].Amount.Equal(decimal.RequireFromString("-20")))
	assert.Equal(t, core.NewDate(2024, 1, 5), feed[0].Date)
	assert.True(t, feed[1].Amount.Equal(decimal.RequireFromString("-50")))
	assert.Equal(t, core.NewDate(2024, 1, 2), feed[1].Date)
	assert.True(t, feed[2].Amount.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, core.NewDate(2024, 1, 1), feed[2].Date)
}

func TestMergeIsDateDescending(t *testing.T) {
	incomes := []core.Entry{
		entry("Bonus", "10", core.NewDate(2024, 3, 1)),
		entry("Salary", "10", core.NewDate(2024, 1, 1)),
	}
	expenses := []core.Entry{
		entry("Rent", "10", core.NewDate(2024, 2, 1)),
		entry("Coffee", "10", core.NewDate(2024, 1, 15)),
	}

	feed := Merge(incomes, expenses, MergeOptions{})
	require.Len(t, feed, 4)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].Date.After(feed[i-1].Date), "feed must be non-increasing by date")
	}
}

func TestMergeGlobalLimit(t *testing.T) {
	// Three recent incomes and one older expense: a per-ledger cut of 2
	// would already be fine here, but the limit must bound the merged
	// stream, so only the two newest rows overall survive.
	incomes := []core.Entry{
		entry("A", "1", core.NewDate(2024, 1, 10)),
		entry("B", "1", core.NewDate(2024, 1, 9)),
		entry("C", "1", core.NewDate(2024, 1, 8)),
	}
	expenses := []core.Entry{
		entry("D", "1", core.NewDate(2024, 1, 1)),
	}

	feed := Merge(incomes, expenses, MergeOptions{Limit: 2})
	require.Len(t, feed, 2)
	assert.Equal(t, "A", feed[0].Label)
	assert.Equal(t, "B", feed[1].Label)
}

func TestMergeTiesPreferIncome(t *testing.T) {
	d := core.NewDate(2024, 1, 5)
	incomes := []core.Entry{entry("Salary", "100", d)}
	expenses := []core.Entry{entry("Rent", "40", d)}

	feed := Merge(incomes, expenses, MergeOptions{})
	require.Len(t, feed, 2)
	assert.Equal(t, "Salary", feed[0].Label)
	assert.Equal(t, "Rent", feed[1].Label)
}

func TestMergeBoundedRange(t *testing.T) {
	incomes := []core.Entry{
		entry("Old", "1", core.NewDate(2023, 12, 31)),
		entry("In", "1", core.NewDate(2024, 1, 15)),
	}
	expenses := []core.Entry{
		entry("Late", "1", core.NewDate(2024, 2, 1)),
	}

	rng := core.DateRange{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31)}
	feed := Merge(incomes, expenses, MergeOptions{Range: rng})
	require.Len(t, feed, 1)
	assert.Equal(t, "In", feed[0].Label)
}

func TestMergeOneSidedRangeIsIgnored(t *testing.T) {
	incomes := []core.Entry{entry("Old", "1", core.NewDate(2020, 1, 1))}

	rng := core.DateRange{From: core.NewDate(2024, 1, 1)} // no To
	feed := Merge(incomes, nil, MergeOptions{Range: rng})
	require.Len(t, feed, 1, "one-sided range must not filter")
}

func TestMergeEmptyLedgers(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, MergeOptions{Limit: 10}))

	// Single-ledger merge: the other side is simply empty.
	feed := Merge(nil, []core.Entry{entry("Rent", "40", core.NewDate(2024, 1, 1))}, MergeOptions{})
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Amount.IsNegative())
}

func TestMergeResortsUnorderedInput(t *testing.T) {
	expenses := []core.Entry{
		entry("Older", "1", core.NewDate(2024, 1, 1)),
		entry("Newer", "1", core.NewDate(2024, 1, 20)),
	}
	feed := Merge(nil, expenses, MergeOptions{})
	require.Len(t, feed, 2)
	assert.Equal(t, "Newer", feed[0].Label)
}

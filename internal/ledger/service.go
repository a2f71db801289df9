package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/core"
)

// Store is the slice of the ledger store the aggregation service consumes.
// Entries returns one ledger's rows newest first; the grouped category and
// sum queries push the accumulation into the database.
type Store interface {
	Entries(ctx context.Context, userID int64, kind core.Kind, f core.EntryFilter) ([]core.Entry, error)
	CategoryCounts(ctx context.Context, userID int64, kind core.Kind) ([]CategoryCount, error)
	CategorySums(ctx context.Context, userID int64, kind core.Kind) ([]CategorySum, error)
	SumAmounts(ctx context.Context, userID int64, kind core.Kind, rng core.DateRange) (decimal.Decimal, error)
}

// Service derives the merged views for one user per request. It holds no
// state beyond the store handle and is safe for concurrent use.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// RecentTransactions returns the merged feed, newest first, capped at n
// entries. n <= 0 means unbounded.
func (s *Service) RecentTransactions(ctx context.Context, userID int64, rng core.DateRange, n int) ([]SignedTransaction, error) {
	incomes, expenses, err := s.fetchBoth(ctx, userID, rng, n)
	if err != nil {
		return nil, err
	}
	return Merge(incomes, expenses, MergeOptions{Range: rng, Limit: n}), nil
}

// Transactions returns the unbounded feed. An empty kind merges both
// ledgers; a concrete kind restricts the feed to that ledger alone.
func (s *Service) Transactions(ctx context.Context, userID int64, kind core.Kind, rng core.DateRange) ([]SignedTransaction, error) {
	if kind == "" {
		incomes, expenses, err := s.fetchBoth(ctx, userID, rng, 0)
		if err != nil {
			return nil, err
		}
		return Merge(incomes, expenses, MergeOptions{Range: rng}), nil
	}

	if err := kind.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.store.Entries(ctx, userID, kind, core.EntryFilter{Range: rng})
	if err != nil {
		return nil, fmt.Errorf("fetch %s entries: %w", kind, err)
	}
	if kind == core.KindIncome {
		return Merge(entries, nil, MergeOptions{Range: rng}), nil
	}
	return Merge(nil, entries, MergeOptions{Range: rng}), nil
}

// BalanceTrend returns the running balance over the full merged history,
// oldest to newest, trimmed to the most recent BalanceTrendPoints points.
func (s *Service) BalanceTrend(ctx context.Context, userID int64, rng core.DateRange) ([]BalancePoint, error) {
	txs, err := s.Transactions(ctx, userID, "", rng)
	if err != nil {
		return nil, err
	}
	return Trend(txs, BalanceTrendPoints), nil
}

// Totals reports the unsigned per-ledger sums and their difference.
func (s *Service) Totals(ctx context.Context, userID int64, rng core.DateRange) (Totals, error) {
	var income, expense decimal.Decimal

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.store.SumAmounts(ctx, userID, core.KindIncome, rng)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.store.SumAmounts(ctx, userID, core.KindExpense, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return Totals{}, fmt.Errorf("sum amounts: %w", err)
	}

	return Totals{
		Income:  income,
		Expense: expense,
		Total:   income.Sub(expense),
	}, nil
}

// CategoryFrequency counts one ledger's entries per category. Only
// categories with at least one matching entry appear, in catalog insertion
// order.
func (s *Service) CategoryFrequency(ctx context.Context, userID int64, kind core.Kind) (CategoryFrequency, error) {
	if err := kind.Validate(); err != nil {
		return CategoryFrequency{}, err
	}
	rows, err := s.store.CategoryCounts(ctx, userID, kind)
	if err != nil {
		return CategoryFrequency{}, fmt.Errorf("category counts: %w", err)
	}
	return FrequencyBreakdown(rows), nil
}

// CategoryValue sums one ledger's stored (unsigned) amounts per category,
// with the same inclusion and ordering rules as CategoryFrequency.
func (s *Service) CategoryValue(ctx context.Context, userID int64, kind core.Kind) (CategoryValue, error) {
	if err := kind.Validate(); err != nil {
		return CategoryValue{}, err
	}
	rows, err := s.store.CategorySums(ctx, userID, kind)
	if err != nil {
		return CategoryValue{}, fmt.Errorf("category sums: %w", err)
	}
	return ValueBreakdown(rows), nil
}

// ExportCSV writes the feed selected by kind and range to w in the fixed
// five-column export format.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, userID int64, kind core.Kind, rng core.DateRange) error {
	txs, err := s.Transactions(ctx, userID, kind, rng)
	if err != nil {
		return err
	}
	return WriteCSV(w, txs)
}

// fetchBoth reads the two ledgers concurrently. limit is a per-ledger fetch
// bound only; every member of the global top-N lies within its own ledger's
// top-N, so the real cut happens after the merge.
func (s *Service) fetchBoth(ctx context.Context, userID int64, rng core.DateRange, limit int) (incomes, expenses []core.Entry, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.store.Entries(ctx, userID, core.KindIncome, core.EntryFilter{Range: rng, Limit: limit})
		if err != nil {
			return fmt.Errorf("fetch incomes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.Entries(ctx, userID, core.KindExpense, core.EntryFilter{Range: rng, Limit: limit})
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return incomes, expenses, nil
}

// Package ledger derives the cross-cutting views of a user's two ledgers:
// the merged transaction feed, the running balance trend, per-category
// breakdowns and the CSV export. Everything here is computed per request
// from already-fetched rows; nothing is cached or shared.
package ledger

import (
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

type (
	// SignedTransaction is one row of the merged feed. Amount carries the
	// single monetary convention used downstream: incomes positive,
	// expenses negative.
	SignedTransaction struct {
		Label    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Date     core.Date       `json:"date"`
		Notes    string          `json:"notes"`
	}

	// BalancePoint is one step of the running balance trend. Total is the
	// prefix sum of signed amounts up to and including this transaction,
	// ordered oldest first.
	BalancePoint struct {
		Amount decimal.Decimal `json:"amount"`
		Date   core.Date       `json:"date"`
		Total  decimal.Decimal `json:"total"`
	}

	// Totals is the final-number view: unsigned per-ledger sums and their
	// difference.
	Totals struct {
		Income  decimal.Decimal `json:"total_income"`
		Expense decimal.Decimal `json:"total_expense"`
		Total   decimal.Decimal `json:"total_amount"`
	}

	// CategoryCount is a grouped occurrence count for one category.
	CategoryCount struct {
		Name  string
		Count int64
	}

	// CategorySum is a grouped unsigned amount sum for one category.
	CategorySum struct {
		Name string
		Sum  decimal.Decimal
	}

	// CategoryFrequency is the parallel-slice form of the frequency
	// variant, in catalog insertion order.
	CategoryFrequency struct {
		Labels []string `json:"labels"`
		Counts []int64  `json:"data"`
	}

	// CategoryValue is the parallel-slice form of the value variant.
	CategoryValue struct {
		Labels []string          `json:"labels"`
		Totals []decimal.Decimal `json:"data"`
	}
)

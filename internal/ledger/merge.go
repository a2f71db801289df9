package ledger

import (
	"sort"

	"expensetracker/internal/core"
)

// MergeOptions controls the merged feed. A bounded Range filters both
// ledgers before merging; a one-sided range is ignored. Limit > 0 caps the
// merged result; the cap is applied to the merged stream, so the result is
// the true global top-N by date, not a per-ledger approximation.
type MergeOptions struct {
	Range core.DateRange
	Limit int
}

// Merge combines both ledgers into one signed feed sorted by date
// descending. Entries with equal dates are emitted income side first,
// preserving each ledger's own ordering within the tie.
func Merge(incomes, expenses []core.Entry, opts MergeOptions) []SignedTransaction {
	inc := prepare(core.KindIncome, incomes, opts.Range)
	exp := prepare(core.KindExpense, expenses, opts.Range)

	out := make([]SignedTransaction, 0, len(inc)+len(exp))
	i, j := 0, 0
	for i < len(inc) || j < len(exp) {
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
		switch {
		case i == len(inc):
			out = append(out, exp[j])
			j++
		case j == len(exp):
			out = append(out, inc[i])
			i++
		case exp[j].Date.After(inc[i].Date):
			out = append(out, exp[j])
			j++
		default:
			out = append(out, inc[i])
			i++
		}
	}
	return out
}

// prepare filters one ledger, normalizes it and guarantees date-descending
// order. The store already returns rows newest first; the stable re-sort
// only matters for callers that hand in unsorted slices.
func prepare(kind core.Kind, entries []core.Entry, rng core.DateRange) []SignedTransaction {
	txs := make([]SignedTransaction, 0, len(entries))
	for _, e := range entries {
		if !rng.Contains(e.Date) {
			continue
		}
		txs = append(txs, Normalize(kind, e))
	}
	sort.SliceStable(txs, func(a, b int) bool {
		return txs[a].Date.After(txs[b].Date)
	})
	return txs
}

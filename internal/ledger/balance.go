package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceTrendPoints is how many balance points the trend view keeps.
const BalanceTrendPoints = 10

// Trend computes the running balance over a merged feed: transactions are
// ordered oldest first, each point carries the cumulative sum of signed
// amounts up to it, and only the last n points survive, still oldest to
// newest. n <= 0 keeps every point. Zero transactions yield an empty trend.
func Trend(txs []SignedTransaction, n int) []BalancePoint {
	ordered := make([]SignedTransaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Date.Before(ordered[b].Date)
	})

	points := make([]BalancePoint, 0, len(ordered))
	total := decimal.Zero
	for _, tx := range ordered {
		total = total.Add(tx.Amount)
		points = append(points, BalancePoint{
			Amount: tx.Amount,
			Date:   tx.Date,
			Total:  total,
		})
	}
	if n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	return points
}

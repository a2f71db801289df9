package ledger

import "expensetracker/internal/core"

// Normalize maps a stored entry to its signed view. This is the only place
// the "expense is an outflow" convention is encoded: expense amounts negate,
// income amounts pass through. Downstream code must never re-interpret kind.
func Normalize(kind core.Kind, e core.Entry) SignedTransaction {
	amount := e.Amount
	if kind == core.KindExpense {
		amount = amount.Neg()
	}
	return SignedTransaction{
		Label:    e.Label,
		Amount:   amount,
		Category: e.Category,
		Date:     e.Date,
		Notes:    e.Notes,
	}
}

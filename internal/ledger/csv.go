package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"expensetracker/internal/core"
)

// Header is the fixed column set of every transaction export.
var Header = []string{"title", "amount", "category", "date", "notes"}

// WriteCSV renders a transaction feed as CSV: one header row, then one row
// per transaction with the signed amount at fixed two-decimal scale and the
// date in ISO form.
func WriteCSV(w io.Writer, txs []SignedTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, tx := range txs {
		row := []string{
			tx.Label,
			tx.Amount.StringFixed(2),
			tx.Category,
			tx.Date.String(),
			tx.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename is the download name for an export: transactions.csv for
// the combined feed, transactions-<kind>.csv for a single ledger.
func ExportFilename(kind core.Kind) string {
	if kind == "" {
		return "transactions.csv"
	}
	return fmt.Sprintf("transactions-%s.csv", kind)
}

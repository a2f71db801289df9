package ledger

import "github.com/shopspring/decimal"

// The store hands back per-category aggregates already grouped (one
// GROUP BY pass, catalog insertion order, zero-entry categories absent).
// These helpers flatten the rows into the parallel label/value slices the
// chart consumers take.

func FrequencyBreakdown(rows []CategoryCount) CategoryFrequency {
	out := CategoryFrequency{
		Labels: make([]string, 0, len(rows)),
		Counts: make([]int64, 0, len(rows)),
	}
	for _, row := range rows {
		out.Labels = append(out.Labels, row.Name)
		out.Counts = append(out.Counts, row.Count)
	}
	return out
}

func ValueBreakdown(rows []CategorySum) CategoryValue {
	out := CategoryValue{
		Labels: make([]string, 0, len(rows)),
		Totals: make([]decimal.Decimal, 0, len(rows)),
	}
	for _, row := range rows {
		out.Labels = append(out.Labels, row.Name)
		out.Totals = append(out.Totals, row.Sum)
	}
	return out
}

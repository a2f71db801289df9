package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/ledger"
)

func newTransactionsCommand(a *app) *cobra.Command {
	var kindFlag string
	var from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Show the merged transaction feed, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindFlag)
			if err != nil {
				return err
			}
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}

			var txs []ledger.SignedTransaction
			if kind == "" && limit > 0 {
				txs, err = a.reports.RecentTransactions(cmd.Context(), a.userID, rng, limit)
			} else {
				txs, err = a.reports.Transactions(cmd.Context(), a.userID, kind, rng)
				if err == nil && limit > 0 && len(txs) > limit {
					txs = txs[:limit]
				}
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTITLE\tAMOUNT\tCATEGORY\tNOTES")
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.Date, tx.Label, tx.Amount.StringFixed(2), tx.Category, tx.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "restrict to one ledger: expense or income")
	cmd.Flags().StringVar(&from, "from", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "range end YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the feed at the n most recent entries")

	return cmd
}

func newBalanceCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the running balance trend, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}

			points, err := a.reports.BalanceTrend(cmd.Context(), a.userID, rng)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tAMOUNT\tBALANCE")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Date, p.Amount.StringFixed(2), p.Total.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "range end YYYY-MM-DD")

	return cmd
}

func newTotalsCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show total income, total expenses and the balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}

			totals, err := a.reports.Totals(cmd.Context(), a.userID, rng)
			if err != nil {
				return err
			}

			fmt.Printf("Income:  %s\n", totals.Income.StringFixed(2))
			fmt.Printf("Expense: %s\n", totals.Expense.StringFixed(2))
			fmt.Printf("Balance: %s\n", totals.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "range end YYYY-MM-DD")

	return cmd
}

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category catalog and per-category breakdowns",
	}

	cmd.AddCommand(newCategoriesListCommand(a))
	cmd.AddCommand(newCategoriesFrequencyCommand(a))
	cmd.AddCommand(newCategoriesValueCommand(a))

	return cmd
}

func newCategoriesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the category catalog in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.entries.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Printf("%d\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newCategoriesFrequencyCommand(a *app) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "frequency",
		Short: "Count one ledger's entries per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindFlag)
			if err != nil {
				return err
			}

			breakdown, err := a.reports.CategoryFrequency(cmd.Context(), a.userID, kind)
			if err != nil {
				return err
			}
			for i, label := range breakdown.Labels {
				fmt.Printf("%s\t%d\n", label, breakdown.Counts[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "ledger to count: expense or income (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func newCategoriesValueCommand(a *app) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Sum one ledger's amounts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindFlag)
			if err != nil {
				return err
			}

			breakdown, err := a.reports.CategoryValue(cmd.Context(), a.userID, kind)
			if err != nil {
				return err
			}
			for i, label := range breakdown.Labels {
				fmt.Printf("%s\t%s\n", label, breakdown.Totals[i].StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "ledger to sum: expense or income (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var kindFlag string
	var from, to string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the transaction feed to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindFlag)
			if err != nil {
				return err
			}
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}

			if out == "" {
				out = ledger.ExportFilename(kind)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}

			if err := a.reports.ExportCSV(cmd.Context(), f, a.userID, kind, rng); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Printf("Exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "restrict the export to one ledger")
	cmd.Flags().StringVar(&from, "from", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "range end YYYY-MM-DD")
	cmd.Flags().StringVar(&out, "out", "", "output file (default derived from kind)")

	return cmd
}

package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

func newAddCommand(a *app, kind core.Kind) *cobra.Command {
	var amount string
	var category string
	var date string
	var notes string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("add-%s <%s>", kind, kind.Label()),
		Short: fmt.Sprintf("Record a new %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := core.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}

			var when core.Date
			if date != "" {
				when, err = core.ParseDate(date)
				if err != nil {
					return fmt.Errorf("parsing date: %w", err)
				}
			}

			entry, err := a.entries.CreateEntry(cmd.Context(), kind, services.CreateEntryParams{
				UserID:   a.userID,
				Label:    args[0],
				Amount:   amt,
				Category: category,
				Date:     when,
				Notes:    notes,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Recorded %s %d: %s %s (%s) on %s\n",
				kind, entry.ID, entry.Label, entry.Amount.StringFixed(2), entry.Category, entry.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50 (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&date, "date", "", "calendar date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var kindFlag string
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one ledger's entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := core.Kind(kindFlag)
			if err := kind.Validate(); err != nil {
				return err
			}

			entries, err := a.entries.ListEntries(cmd.Context(), a.userID, kind, category)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tDATE\t%s\tAMOUNT\tCATEGORY\tNOTES\n", kind.Label())
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Date, e.Label, e.Amount.StringFixed(2), e.Category, e.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "ledger to list: expense or income (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVar(&category, "category", "", "only entries in this category")

	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := core.Kind(kindFlag)
			if err := kind.Validate(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing id %q: %w", args[0], err)
			}

			if err := a.entries.DeleteEntry(cmd.Context(), a.userID, kind, id); err != nil {
				return err
			}

			fmt.Printf("Deleted %s %d\n", kind, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "ledger the entry belongs to (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

// Package commands wires the ledger services into the expensetracker CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// app holds the shared dependencies built once per invocation in the root
// command's PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	repo    *storage.SQLiteRepository
	entries *services.EntryService
	reports *ledger.Service

	userID int64
}

func (a *app) init() error {
	cli.LoadEnvFile()
	a.logger = cli.SetupLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	a.repo = repo

	// Event publishing is best effort from the CLI. Without a broker the
	// export worker catches up on its periodic refresh instead.
	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			a.logger.Warn("AMQP unavailable, skipping event publishing", "error", err)
			broker = nil
		}
	}

	a.entries = services.NewEntryService(repo, broker)
	a.reports = ledger.NewService(repo)
	return nil
}

func (a *app) close() error {
	if a.entries != nil {
		return a.entries.Close()
	}
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "expensetracker",
		Short: "Track expenses and incomes from the command line",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().Int64Var(&a.userID, "user", 1, "user the entries belong to")

	rootCmd.AddCommand(newAddCommand(a, core.KindExpense))
	rootCmd.AddCommand(newAddCommand(a, core.KindIncome))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))
	rootCmd.AddCommand(newTransactionsCommand(a))
	rootCmd.AddCommand(newBalanceCommand(a))
	rootCmd.AddCommand(newTotalsCommand(a))
	rootCmd.AddCommand(newCategoriesCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}

// parseRange builds an inclusive date range from two ISO dates. Either end
// empty leaves the range unbounded.
func parseRange(from, to string) (core.DateRange, error) {
	var rng core.DateRange
	if from != "" {
		d, err := core.ParseDate(from)
		if err != nil {
			return core.DateRange{}, err
		}
		rng.From = d
	}
	if to != "" {
		d, err := core.ParseDate(to)
		if err != nil {
			return core.DateRange{}, err
		}
		rng.To = d
	}
	return rng, nil
}

// parseKind validates an optional kind flag. Empty selects both ledgers.
func parseKind(s string) (core.Kind, error) {
	if s == "" {
		return "", nil
	}
	k := core.Kind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Package worker keeps per-user CSV export snapshots on disk in sync with
// the ledger, driven by AMQP change events with a periodic full refresh as
// the backup path.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

// UserSource lists the users whose snapshots a full refresh must cover.
type UserSource interface {
	ListUsers(ctx context.Context) ([]int64, error)
}

type ExportWorker struct {
	users      UserSource
	aggregator *ledger.Service
	exportDir  string
	logger     *log.Logger
}

func NewExportWorker(users UserSource, aggregator *ledger.Service, exportDir string) *ExportWorker {
	return &ExportWorker{
		users:      users,
		aggregator: aggregator,
		exportDir:  exportDir,
		logger:     log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent rebuilds the snapshots of the user whose ledger
// changed. Any failure is returned so the delivery gets requeued.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		"action", msg.Action,
		log.FieldKind, msg.Kind,
		log.FieldEntryID, msg.EntryID,
		log.FieldUserID, msg.UserID)

	if err := w.RefreshUser(ctx, msg.UserID); err != nil {
		return fmt.Errorf("refresh user %d: %w", msg.UserID, err)
	}
	return nil
}

// RefreshUser rewrites the user's three snapshots: the combined feed and
// one per ledger.
func (w *ExportWorker) RefreshUser(ctx context.Context, userID int64) error {
	for _, kind := range []core.Kind{"", core.KindExpense, core.KindIncome} {
		if err := w.writeSnapshot(ctx, userID, kind); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "Export snapshots refreshed", log.FieldUserID, userID)
	return nil
}

// RefreshAll rebuilds every known user's snapshots. Used at startup and on
// the periodic ticker to recover from missed events.
func (w *ExportWorker) RefreshAll(ctx context.Context) error {
	users, err := w.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	refreshed := 0
	for _, userID := range users {
		if err := w.RefreshUser(ctx, userID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to refresh user exports",
				log.FieldUserID, userID, log.FieldError, err)
			continue
		}
		refreshed++
	}

	w.logger.InfoContext(ctx, "Full export refresh completed",
		"total", len(users),
		"refreshed", refreshed)
	return nil
}

// writeSnapshot renders one export to a temp file and renames it into
// place, so readers never observe a half-written snapshot.
func (w *ExportWorker) writeSnapshot(ctx context.Context, userID int64, kind core.Kind) error {
	dir := filepath.Join(w.exportDir, fmt.Sprintf("user-%d", userID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	target := filepath.Join(dir, ledger.ExportFilename(kind))

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.aggregator.ExportCSV(ctx, tmp, userID, kind, core.DateRange{}); err != nil {
		tmp.Close()
		return fmt.Errorf("export %s: %w", ledger.ExportFilename(kind), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp export: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

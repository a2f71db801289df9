// Package services orchestrates entry writes across the SQLite store and
// the AMQP event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// EntryService is the CRUD surface for both ledgers. Writes land in SQLite
// first; the change event is published best-effort afterwards, so a broker
// outage never fails a request whose local write already succeeded.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateEntryParams carries one new ledger row. A zero Date means "today":
// entries are dated at creation time unless the caller backfills.
type CreateEntryParams struct {
	UserID   int64
	Label    string
	Amount   decimal.Decimal
	Category string
	Date     core.Date
	Notes    string
}

func (s *EntryService) CreateEntry(ctx context.Context, kind core.Kind, p CreateEntryParams) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}

	entry := core.Entry{
		UserID:   p.UserID,
		Label:    p.Label,
		Amount:   p.Amount,
		Category: p.Category,
		Date:     p.Date,
		Notes:    p.Notes,
	}
	if entry.Date.IsZero() {
		entry.Date = core.Today()
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}

	created, err := s.storage.CreateEntry(ctx, kind, entry)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save %s: %w", kind, err)
	}

	s.publishEvent(ctx, amqp.NewLedgerEventMessage(amqp.ActionCreated, kind, created.ID, created.UserID))
	return created, nil
}

func (s *EntryService) GetEntry(ctx context.Context, userID int64, kind core.Kind, id int64) (core.Entry, error) {
	return s.storage.GetEntry(ctx, userID, kind, id)
}

// ListEntries returns one ledger for a user, newest first, optionally
// narrowed to a single category by exact name.
func (s *EntryService) ListEntries(ctx context.Context, userID int64, kind core.Kind, category string) ([]core.Entry, error) {
	return s.storage.Entries(ctx, userID, kind, core.EntryFilter{Category: category})
}

func (s *EntryService) DeleteEntry(ctx context.Context, userID int64, kind core.Kind, id int64) error {
	if err := s.storage.DeleteEntry(ctx, userID, kind, id); err != nil {
		return err
	}
	s.publishEvent(ctx, amqp.NewLedgerEventMessage(amqp.ActionDeleted, kind, id, userID))
	return nil
}

// ListCategories exposes the catalog in insertion order.
func (s *EntryService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}

func (s *EntryService) publishEvent(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event")
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"action", msg.Action,
			"entry_id", msg.EntryID,
			"error", err)
	}
}

// Close releases both the store and the broker connection.
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}
	return nil
}

// Package storage is the SQLite-backed ledger store and category catalog.
// Amounts are persisted as integer cents so SQL aggregation stays exact;
// the decimal form of the domain only exists outside this package's
// queries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
)

// ErrNotFound reports that a row does not exist or belongs to another
// user. Callers cannot tell the two cases apart on purpose.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// foreign_keys is per-connection in SQLite; the DSN pragma applies it
	// to every pooled connection, which category cascade deletes rely on.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// tableFor maps a ledger kind to its table and headline column.
func tableFor(kind core.Kind) (table, labelCol string, err error) {
	switch kind {
	case core.KindExpense:
		return "expenses", "title", nil
	case core.KindIncome:
		return "incomes", "source", nil
	}
	return "", "", core.ErrUnknownKind
}

// CreateEntry inserts one ledger row, creating its category on first use.
// The category get-or-create is an atomic insert-if-absent: the UNIQUE
// index on name guarantees at most one surviving row even under
// concurrent creation.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, kind core.Kind, e core.Entry) (core.Entry, error) {
	table, labelCol, err := tableFor(kind)
	if err != nil {
		return core.Entry{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Entry{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	category, err := getOrCreateCategory(ctx, tx, e.Category)
	if err != nil {
		return core.Entry{}, err
	}

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, %s, amount_cents, category_id, date, notes)
			VALUES (?, ?, ?, ?, ?, ?)`, table, labelCol),
		e.UserID, e.Label, core.Cents(e.Amount), category.ID, e.Date.String(), e.Notes)
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert %s: %w", kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Entry{}, fmt.Errorf("commit: %w", err)
	}

	e.ID = id
	e.Category = category.Name

	slog.InfoContext(ctx, "Ledger entry saved",
		"kind", kind,
		"id", e.ID,
		"user_id", e.UserID,
		"amount_cents", core.Cents(e.Amount),
		"category", e.Category)

	return e, nil
}

// GetEntry returns one entry scoped to its owner. A missing id and a
// foreign id both come back as ErrNotFound.
func (r *SQLiteRepository) GetEntry(ctx context.Context, userID int64, kind core.Kind, id int64) (core.Entry, error) {
	table, labelCol, err := tableFor(kind)
	if err != nil {
		return core.Entry{}, err
	}

	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT e.id, e.user_id, e.%s, e.amount_cents, c.name, e.date, e.notes
			FROM %s e
			JOIN categories c ON c.id = e.category_id
			WHERE e.id = ? AND e.user_id = ?`, labelCol, table),
		id, userID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return entry, nil
}

// DeleteEntry removes one entry scoped to its owner.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, userID int64, kind core.Kind, id int64) error {
	table, _, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", table), id, userID)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Ledger entry deleted", "kind", kind, "id", id, "user_id", userID)
	return nil
}

// Entries returns one ledger's rows for a user, newest first. The filter's
// bounded date range and category narrow the query; Limit > 0 caps it.
func (r *SQLiteRepository) Entries(ctx context.Context, userID int64, kind core.Kind, f core.EntryFilter) ([]core.Entry, error) {
	table, labelCol, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT e.id, e.user_id, e.%s, e.amount_cents, c.name, e.date, e.notes
		FROM %s e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?`, labelCol, table)
	args := []any{userID}

	if f.Category != "" {
		query += " AND c.name = ?"
		args = append(args, f.Category)
	}
	if f.Range.Bounded() {
		query += " AND e.date BETWEEN ? AND ?"
		args = append(args, f.Range.From.String(), f.Range.To.String())
	}
	query += " ORDER BY e.date DESC, e.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetOrCreateCategory resolves a category by exact name, creating it on
// first use.
func (r *SQLiteRepository) GetOrCreateCategory(ctx context.Context, name string) (core.Category, error) {
	return getOrCreateCategory(ctx, r.db, name)
}

// ListCategories returns the whole catalog in insertion order.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category; entries referencing it cascade away.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryCounts groups one ledger's entries by category in a single
// GROUP BY pass. The inner join keeps zero-entry categories out; ordering
// by category id preserves catalog insertion order.
func (r *SQLiteRepository) CategoryCounts(ctx context.Context, userID int64, kind core.Kind) ([]ledger.CategoryCount, error) {
	table, _, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT c.name, COUNT(e.id)
			FROM categories c
			JOIN %s e ON e.category_id = c.id AND e.user_id = ?
			GROUP BY c.id, c.name
			ORDER BY c.id`, table),
		userID)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var counts []ledger.CategoryCount
	for rows.Next() {
		var row ledger.CategoryCount
		if err := rows.Scan(&row.Name, &row.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}

// CategorySums is the value variant of CategoryCounts, summing stored
// (unsigned) amounts.
func (r *SQLiteRepository) CategorySums(ctx context.Context, userID int64, kind core.Kind) ([]ledger.CategorySum, error) {
	table, _, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT c.name, SUM(e.amount_cents)
			FROM categories c
			JOIN %s e ON e.category_id = c.id AND e.user_id = ?
			GROUP BY c.id, c.name
			ORDER BY c.id`, table),
		userID)
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var sums []ledger.CategorySum
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ledger.CategorySum{Name: name, Sum: core.AmountFromCents(cents)})
	}
	return sums, rows.Err()
}

// SumAmounts totals one ledger's stored amounts for a user, optionally
// restricted to a bounded date range.
func (r *SQLiteRepository) SumAmounts(ctx context.Context, userID int64, kind core.Kind, rng core.DateRange) (decimal.Decimal, error) {
	table, _, err := tableFor(kind)
	if err != nil {
		return decimal.Zero, err
	}

	query := fmt.Sprintf("SELECT COALESCE(SUM(amount_cents), 0) FROM %s WHERE user_id = ?", table)
	args := []any{userID}
	if rng.Bounded() {
		query += " AND date BETWEEN ? AND ?"
		args = append(args, rng.From.String(), rng.To.String())
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", table, err)
	}
	return core.AmountFromCents(cents), nil
}

// ListUsers returns every user id with at least one entry in either
// ledger. The export worker uses this for full refreshes.
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM expenses UNION SELECT user_id FROM incomes ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getOrCreateCategory(ctx context.Context, db execQuerier, name string) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	var c core.Category
	if err := db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name); err != nil {
		return core.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e       core.Entry
		cents   int64
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Label, &cents, &e.Category, &dateStr, &e.Notes); err != nil {
		return core.Entry{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	e.Amount = core.AmountFromCents(cents)
	e.Date = date
	return e, nil
}

package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

const (
	maxLabelLen        = 100
	maxNotesLen        = 40
	maxCategoryNameLen = 20
)

type (
	// Kind identifies which of the two ledgers an entry belongs to.
	Kind string

	// Date is a calendar date with day precision, always UTC.
	Date struct {
		time.Time
	}

	// Entry is one row of either ledger. Amount is always stored
	// non-negative; whether it represents money in or out is derived
	// from the ledger it lives in, never from the stored value.
	Entry struct {
		ID       int64
		UserID   int64
		Label    string // expense title or income source
		Amount   decimal.Decimal
		Category string
		Date     Date
		Notes    string
	}

	Category struct {
		ID   int64
		Name string
	}

	// DateRange is an optional inclusive [From, To] filter. Filtering is
	// all-or-nothing: a range with only one end set is treated as absent.
	DateRange struct {
		From Date
		To   Date
	}

	// EntryFilter narrows a ledger query. Zero values mean "no filter";
	// results are always ordered newest first.
	EntryFilter struct {
		Category string
		Range    DateRange
		Limit    int
	}
)

var (
	ErrUnknownKind     = errors.New("unknown ledger kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyLabel      = errors.New("empty label")
	ErrLabelTooLong    = errors.New("label too long")
	ErrNotesTooLong    = errors.New("notes too long")
	ErrEmptyCategory   = errors.New("empty category name")
	ErrCategoryTooLong = errors.New("category name too long")
)

func (k Kind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	}
	return ErrUnknownKind
}

// Label returns the wire name of the entry's headline field: "title" for
// expenses, "source" for incomes.
func (k Kind) Label() string {
	if k == KindIncome {
		return "source"
	}
	return "title"
}

const dateFormat = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in UTC.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) String() string {
	return d.Format(dateFormat)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Bounded reports whether both ends of the range are set. An unbounded
// range never filters anything.
func (r DateRange) Bounded() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Contains reports whether d falls inside the inclusive range. Unbounded
// ranges contain every date.
func (r DateRange) Contains(d Date) bool {
	if !r.Bounded() {
		return true
	}
	return !d.Before(r.From) && !d.After(r.To)
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(e.Label) > maxLabelLen {
		return ErrLabelTooLong
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if len(e.Notes) > maxNotesLen {
		return ErrNotesTooLong
	}
	return ValidateCategoryName(e.Category)
}

func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategory
	}
	if len(name) > maxCategoryNameLen {
		return ErrCategoryTooLong
	}
	return nil
}

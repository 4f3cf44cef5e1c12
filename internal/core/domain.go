package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the transaction direction. Only the two declared values are
	// valid; decoding anything else fails instead of being coerced.
	TxType string

	// Date is a calendar date without a time-of-day component. It marshals
	// as "2006-01-02", the wire format used by the FlowTrack API.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID            int64           `json:"id"`
		Amount        decimal.Decimal `json:"amount"`
		Type          TxType          `json:"type"`
		Description   string          `json:"description"`
		Category      int64           `json:"category"`
		CategoryName  string          `json:"category_name"`
		CategoryColor string          `json:"category_color"`
		Date          Date            `json:"date"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	Category struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        TxType `json:"type"`
		Color       string `json:"color"`
	}

	// DateRange is an inclusive calendar-date window. A zero Start or End
	// leaves that side unbounded; the zero DateRange matches everything.
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category name")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// ParseTxType validates s against the known transaction types.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case Income, Expense:
		return TxType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Title returns the type capitalized for display ("Income", "Expense").
func (t TxType) Title() string {
	if len(t) == 0 {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func (t *TxType) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTxType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MonthKey returns the "YYYY-MM" grouping key for the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether d falls inside the range. The end boundary is
// extended through 23:59:59.999 so a transaction dated on the last day of
// the range is included.
func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() {
		endOfDay := r.End.Add(24*time.Hour - time.Millisecond)
		if d.After(endOfDay) {
			return false
		}
	}
	return true
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}
	if tx.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(tx.CategoryName) == "" {
		return ErrEmptyCategory
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

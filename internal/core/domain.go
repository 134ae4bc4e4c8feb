package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Yearly  Frequency = "yearly"
)

type (
	// EntryType carries the sign of a ledger amount; amounts themselves are
	// always non-negative.
	EntryType string

	// Frequency is the cadence of a recurring item.
	Frequency string

	// Date is a calendar date at UTC midnight. Time-of-day never matters in
	// this system.
	Date struct {
		time.Time
	}

	Category struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color,omitempty"`
		IsDefault bool   `json:"is_default,omitempty"`
	}

	LedgerEntry struct {
		ID          int64           `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        EntryType       `json:"type"`
		CategoryID  int64           `json:"category_id"`
		AccountID   int64           `json:"account_id"`
	}

	SpendingLimit struct {
		CategoryID   int64           `json:"category_id"`
		CategoryName string          `json:"category_name"`
		MonthlyLimit decimal.Decimal `json:"monthly_limit"`
		PeriodKey    string          `json:"period_key"` // "YYYY-MM"
	}

	Goal struct {
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"target_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		TargetDate    Date            `json:"target_date"`
		CreatedDate   Date            `json:"created_date"`
		Active        bool            `json:"active"`
	}

	RecurringItem struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        EntryType       `json:"type"`
		Frequency   Frequency       `json:"frequency"`
		StartDate   Date            `json:"start_date"`
		EndDate     Date            `json:"end_date,omitempty"` // zero = open-ended
		Active      bool            `json:"active"`
		CategoryID  int64           `json:"category_id"`
		AccountID   int64           `json:"account_id"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid entry type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
)

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
}

func (f Frequency) Validate() error {
	switch f {
	case Monthly, Weekly, Yearly:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string { return d.Format("2006-01-02") }

// PeriodKey returns the month key of the date ("YYYY-MM").
func (d Date) PeriodKey() string { return PeriodKey(d.Year(), d.Month()) }

// PeriodKey builds a "YYYY-MM" month key.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths shifts by whole calendar months, clamping the day to the target
// month's length, so one month after Jan 31 is the last day of February,
// never a day in March.
func (d Date) AddMonths(n int) Date {
	y, m := d.Year(), d.Month()
	m += n
	for m > 12 {
		m -= 12
		y++
	}
	for m < 1 {
		m += 12
		y--
	}
	day := d.Day()
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	return NewDate(y, m, day)
}

// DaysUntil returns the number of calendar days from d to other. Negative
// when other is in the past.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month(), DaysInMonth(d.Year(), d.Month()))
}

// IsEmpty reports whether the date is unset (used for optional end dates).
func (d Date) IsEmpty() bool { return d.IsZero() }

// MarshalJSON renders the date as an ISO calendar date, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.ISO() + `"`), nil
}

// UnmarshalJSON accepts an ISO calendar date or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (l SpendingLimit) Validate() error {
	if l.MonthlyLimit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if len(l.PeriodKey) != 7 || l.PeriodKey[4] != '-' {
		return fmt.Errorf("invalid period key %q, want YYYY-MM", l.PeriodKey)
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if g.TargetDate.IsZero() || g.CreatedDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (r RecurringItem) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if r.StartDate.IsZero() {
		return errors.New("invalid start date")
	}
	if !r.EndDate.IsEmpty() && r.EndDate.Before(r.StartDate.Time) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

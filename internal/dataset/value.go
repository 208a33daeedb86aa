package dataset

// value.go defines the nullable value types used by all table records.
//
// Each type pairs a value with a Valid flag, so a missing or unparseable
// field is representable without pointers or magic zero values. Invalid
// values marshal to JSON null.

import (
	"time"

	"github.com/shopspring/decimal"
)

// Date is a nullable calendar date.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// Year returns the calendar year, or 0 for a null date.
func (d Date) Year() int {
	if !d.Valid {
		return 0
	}
	return d.Time.Year()
}

// Quarter returns the fiscal quarter 1-4, or 0 for a null date.
func (d Date) Quarter() int {
	if !d.Valid {
		return 0
	}
	return (int(d.Time.Month())-1)/3 + 1
}

// DaysUntil returns the whole days from d to end.
func (d Date) DaysUntil(end Date) int {
	if !d.Valid || !end.Valid {
		return 0
	}
	return int(end.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// DateTime is a nullable timestamp, used for the combined
// ModifiedDate+ModifiedTime column pair.
type DateTime struct {
	Time  time.Time
	Valid bool
}

func (t DateTime) String() string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02 15:04:05")
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format("2006-01-02 15:04:05") + `"`), nil
}

// Money is a nullable monetary amount backed by an exact decimal.
type Money struct {
	Decimal decimal.Decimal
	Valid   bool
}

// MoneyFromInt returns a valid Money for a whole-unit amount.
func MoneyFromInt(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v), Valid: true}
}

// MoneyFromString parses a plain decimal string into a valid Money.
// Intended for fixtures and tests; the loader goes through ToMoney.
func MoneyFromString(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{Decimal: d, Valid: true}
}

// IntPart truncates the amount toward zero to whole currency units.
// Returns 0 for a null amount.
func (m Money) IntPart() int64 {
	if !m.Valid {
		return 0
	}
	return m.Decimal.IntPart()
}

// Float64 returns the amount as a float, or 0 for a null amount.
func (m Money) Float64() float64 {
	if !m.Valid {
		return 0
	}
	f, _ := m.Decimal.Float64()
	return f
}

func (m Money) String() string {
	if !m.Valid {
		return ""
	}
	return m.Decimal.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(m.Decimal.String()), nil
}

package domain

import (
	"cmp"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate     = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrTodayOutOfRange = errors.New("today must be within two days of the server date")
)

// CalendarDate is a naive calendar day. It carries no time of day and no
// zone, so it is safe to use as a map key and to compare with ==.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a date, normalizing overflow the same way time.Date does
// (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{year: y, month: m, day: d}
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (CalendarDate, error) {
	if len(s) != len(DateLayout) {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) CalendarDate {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d CalendarDate) Year() int         { return d.year }
func (d CalendarDate) Month() time.Month { return d.month }
func (d CalendarDate) Day() int          { return d.day }

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d CalendarDate) Weekday() Weekday {
	return WeekdayOf(d.Time().Weekday())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after other.
func (d CalendarDate) Compare(other CalendarDate) int {
	if c := cmp.Compare(d.year, other.year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.month, other.month); c != 0 {
		return c
	}
	return cmp.Compare(d.day, other.day)
}

func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }
func (d CalendarDate) After(other CalendarDate) bool  { return d.Compare(other) > 0 }

// DaysUntil returns the number of calendar days from d to other.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *CalendarDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case nil:
		*d = CalendarDate{}
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDate, src)
	}
}

// Value implements driver.Valuer; the zero date is stored as NULL.
func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFrequency     = errors.New("invalid frequency (must be daily, weekdays, weekends, or custom)")
	ErrCustomDaysRequired   = errors.New("custom frequency requires at least one weekday")
	ErrUnexpectedCustomDays = errors.New("weekdays are only allowed with custom frequency")
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencyCustom   Frequency = "custom"
)

// RecurrenceRule is a closed set of variants: Daily, Weekdays, Weekends and
// Custom. The unexported method keeps other packages from adding variants,
// so a type switch over the four covers every rule.
type RecurrenceRule interface {
	Frequency() Frequency
	recurrence()
}

type Daily struct{}

type Weekdays struct{}

type Weekends struct{}

// Custom schedules the habit on an explicit set of weekdays.
type Custom struct {
	Days WeekdaySet
}

func (Daily) Frequency() Frequency    { return FrequencyDaily }
func (Weekdays) Frequency() Frequency { return FrequencyWeekdays }
func (Weekends) Frequency() Frequency { return FrequencyWeekends }
func (Custom) Frequency() Frequency   { return FrequencyCustom }

func (Daily) recurrence()    {}
func (Weekdays) recurrence() {}
func (Weekends) recurrence() {}
func (Custom) recurrence()   {}

// NewRecurrenceRule builds a rule from its wire form and enforces that only
// Custom carries weekdays, and that it carries at least one.
func NewRecurrenceRule(frequency string, days []string) (RecurrenceRule, error) {
	freq := Frequency(strings.ToLower(strings.TrimSpace(frequency)))

	if freq != FrequencyCustom {
		if len(days) > 0 {
			return nil, ErrUnexpectedCustomDays
		}
	}

	switch freq {
	case FrequencyDaily:
		return Daily{}, nil
	case FrequencyWeekdays:
		return Weekdays{}, nil
	case FrequencyWeekends:
		return Weekends{}, nil
	case FrequencyCustom:
		set, err := ParseWeekdaySet(days)
		if err != nil {
			return nil, err
		}
		if set.IsEmpty() {
			return nil, ErrCustomDaysRequired
		}
		return Custom{Days: set}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, frequency)
	}
}

// ValidateRule rejects nil rules and empty custom sets.
func ValidateRule(rule RecurrenceRule) error {
	switch r := rule.(type) {
	case Daily, Weekdays, Weekends:
		return nil
	case Custom:
		if r.Days.IsEmpty() {
			return ErrCustomDaysRequired
		}
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// CustomDays returns the weekday list of a Custom rule and nil otherwise.
func CustomDays(rule RecurrenceRule) []Weekday {
	if c, ok := rule.(Custom); ok {
		return c.Days.Days()
	}
	return nil
}

func weekdayNames(days []Weekday) []string {
	if len(days) == 0 {
		return nil
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = string(d)
	}
	return names
}

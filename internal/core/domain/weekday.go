package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWeekday = errors.New("invalid weekday (must be one of mon, tue, wed, thu, fri, sat, sun)")
)

type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// AllWeekdays lists the symbols in ISO order, Monday first.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var fromStdWeekday = [7]Weekday{
	time.Sunday:    Sunday,
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
}

var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

func WeekdayOf(d time.Weekday) Weekday {
	return fromStdWeekday[d]
}

// ParseWeekday accepts short ("mon") or full ("Monday") names, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	w, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return w, nil
}

func (w Weekday) IsWeekend() bool {
	return w == Saturday || w == Sunday
}

// index is the ISO position, Monday = 0. Unknown symbols return -1.
func (w Weekday) index() int {
	for i, d := range AllWeekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// WeekdaySet is a set of weekdays stored as a 7-bit mask.
type WeekdaySet uint8

func NewWeekdaySet(days ...Weekday) (WeekdaySet, error) {
	var set WeekdaySet
	for _, d := range days {
		i := d.index()
		if i < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, string(d))
		}
		set |= 1 << i
	}
	return set, nil
}

// ParseWeekdaySet parses a list of weekday names, ignoring duplicates.
func ParseWeekdaySet(names []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, n := range names {
		w, err := ParseWeekday(n)
		if err != nil {
			return 0, err
		}
		set |= 1 << w.index()
	}
	return set, nil
}

func (s WeekdaySet) Contains(w Weekday) bool {
	i := w.index()
	return i >= 0 && s&(1<<i) != 0
}

func (s WeekdaySet) Len() int {
	n := 0
	for i := range AllWeekdays {
		if s&(1<<i) != 0 {
			n++
		}
	}
	return n
}

func (s WeekdaySet) IsEmpty() bool {
	return s&0x7f == 0
}

// Days returns the members in ISO order.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, s.Len())
	for i, d := range AllWeekdays {
		if s&(1<<i) != 0 {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

func (s *WeekdaySet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWeekday, err)
	}
	set, err := ParseWeekdaySet(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

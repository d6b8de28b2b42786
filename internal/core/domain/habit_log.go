package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus = errors.New("invalid status (must be completed or missed)")
)

// DailyStatus is the mark recorded for one habit on one date. The zero value
// is StatusUntracked, which is never stored: it means "no entry".
type DailyStatus string

const (
	StatusUntracked DailyStatus = ""
	StatusCompleted DailyStatus = "completed"
	StatusMissed    DailyStatus = "missed"
)

// ParseStatus accepts only the two markable statuses.
func ParseStatus(s string) (DailyStatus, error) {
	switch DailyStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusMissed:
		return StatusMissed, nil
	default:
		return StatusUntracked, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s DailyStatus) IsMarked() bool {
	return s == StatusCompleted || s == StatusMissed
}

func (s *DailyStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// HabitLog is the sparse, date-indexed record of one habit. Dates without an
// entry are untracked.
type HabitLog map[CalendarDate]DailyStatus

// Status returns the entry for date; a nil log reports every date untracked.
func (l HabitLog) Status(date CalendarDate) DailyStatus {
	return l[date]
}

// Mark creates or overwrites the entry for date.
func (l HabitLog) Mark(date CalendarDate, status DailyStatus) error {
	if !status.IsMarked() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}
	l[date] = status
	return nil
}

// Clone returns an independent copy, never nil.
func (l HabitLog) Clone() HabitLog {
	out := make(HabitLog, len(l))
	for d, s := range l {
		out[d] = s
	}
	return out
}

// Between returns the entries with from <= date <= to.
func (l HabitLog) Between(from, to CalendarDate) HabitLog {
	out := make(HabitLog)
	for d, s := range l {
		if !d.Before(from) && !d.After(to) {
			out[d] = s
		}
	}
	return out
}

// LogEntry is a single persisted mark.
type LogEntry struct {
	HabitID   string       `json:"habit_id" db:"habit_id"`
	Date      CalendarDate `json:"date" db:"log_date"`
	Status    DailyStatus  `json:"status" db:"status"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

func NewLogEntry(habitID string, date CalendarDate, status DailyStatus) (*LogEntry, error) {
	if strings.TrimSpace(habitID) == "" {
		return nil, errors.New("habit_id is required")
	}
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !status.IsMarked() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}

	return &LogEntry{
		HabitID:   habitID,
		Date:      date,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

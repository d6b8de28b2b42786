package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrHabitStartRequired = errors.New("habit start date is required")

	ErrStartDateOutOfRange = errors.New("start date must be at most ten years before or one year after today")
)

const (
	MaxNameLen = 100

	// MaxHistoryDays and MaxLeadDays bound a start date around the day the
	// habit is created or edited.
	MaxHistoryDays = 3660
	MaxLeadDays    = 366
)

// CheckStartDate rejects start dates outside the window allowed on today.
func CheckStartDate(start, today CalendarDate) error {
	if start.Before(today.AddDays(-MaxHistoryDays)) || start.After(today.AddDays(MaxLeadDays)) {
		return ErrStartDateOutOfRange
	}
	return nil
}

type Habit struct {
	ID        string
	UserID    string
	Name      string
	Rule      RecurrenceRule
	StartDate CalendarDate
	CreatedAt time.Time
	UpdatedAt time.Time
}

type habitJSON struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id,omitempty"`
	Name       string       `json:"name"`
	Frequency  string       `json:"frequency"`
	CustomDays []string     `json:"custom_days,omitempty"`
	StartDate  CalendarDate `json:"start_date"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func validateHabit(name string, rule RecurrenceRule, startDate CalendarDate) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}

	if err := ValidateRule(rule); err != nil {
		return "", err
	}

	if startDate.IsZero() {
		return "", ErrHabitStartRequired
	}

	return trimmed, nil
}

func NewHabit(userID, name string, rule RecurrenceRule, startDate CalendarDate) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanName, err := validateHabit(name, rule, startDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      cleanName,
		Rule:      rule,
		StartDate: startDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the editable fields wholesale. Callers merge partial input
// before calling it.
func (h *Habit) Update(name string, rule RecurrenceRule, startDate CalendarDate) error {
	cleanName, err := validateHabit(name, rule, startDate)
	if err != nil {
		return err
	}

	h.Name = cleanName
	h.Rule = rule
	h.StartDate = startDate
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h Habit) MarshalJSON() ([]byte, error) {
	var freq string
	if h.Rule != nil {
		freq = string(h.Rule.Frequency())
	}

	return json.Marshal(habitJSON{
		ID:         h.ID,
		UserID:     h.UserID,
		Name:       h.Name,
		Frequency:  freq,
		CustomDays: weekdayNames(CustomDays(h.Rule)),
		StartDate:  h.StartDate,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	})
}

func (h *Habit) UnmarshalJSON(b []byte) error {
	var raw habitJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	rule, err := NewRecurrenceRule(raw.Frequency, raw.CustomDays)
	if err != nil {
		return err
	}

	*h = Habit{
		ID:        raw.ID,
		UserID:    raw.UserID,
		Name:      raw.Name,
		Rule:      rule,
		StartDate: raw.StartDate,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange    = errors.New("invalid time range (must be week, month, or year)")
	ErrPreferencesNotFound = errors.New("preferences not found")
)

type TimeRange string

const (
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case TimeRangeWeek, TimeRangeMonth, TimeRangeYear:
		return TimeRange(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
}

// Days is the length of the trailing window the range covers, today included.
func (r TimeRange) Days() int {
	switch r {
	case TimeRangeMonth:
		return 30
	case TimeRangeYear:
		return 365
	default:
		return 7
	}
}

type Preferences struct {
	UserID                string    `json:"-" db:"user_id"`
	DarkMode              bool      `json:"dark_mode" db:"dark_mode"`
	LastTimeRange         TimeRange `json:"last_time_range" db:"last_time_range"`
	ShowMotivationalQuote bool      `json:"show_motivational_quote" db:"show_motivational_quote"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:                userID,
		DarkMode:              false,
		LastTimeRange:         TimeRangeWeek,
		ShowMotivationalQuote: true,
	}
}

// PreferencesPatch carries only the fields a client wants to change.
type PreferencesPatch struct {
	DarkMode              *bool
	LastTimeRange         *TimeRange
	ShowMotivationalQuote *bool
}

func (p *Preferences) Apply(patch PreferencesPatch) error {
	if patch.LastTimeRange != nil {
		r, err := ParseTimeRange(string(*patch.LastTimeRange))
		if err != nil {
			return err
		}
		p.LastTimeRange = r
	}
	if patch.DarkMode != nil {
		p.DarkMode = *patch.DarkMode
	}
	if patch.ShowMotivationalQuote != nil {
		p.ShowMotivationalQuote = *patch.ShowMotivationalQuote
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

package domain

import (
	"errors"
)

var (
	ErrInvalidMonth = errors.New("invalid month (must be 1-12)")
)

// Overview aggregates derived metrics across every habit of a user.
type Overview struct {
	TotalHabits           int            `json:"total_habits"`
	OverallCompletionRate int            `json:"overall_completion_rate"`
	BestHabit             string         `json:"best_habit"`
	BestStreak            int            `json:"best_streak"`
	TotalCurrentStreaks   int            `json:"total_current_streaks"`
	Habits                []HabitSummary `json:"habits"`
}

type HabitSummary struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
	DerivedMetrics
}

type HeatmapCell struct {
	Date      CalendarDate `json:"date"`
	Weekday   Weekday      `json:"weekday"`
	Status    DailyStatus  `json:"status,omitempty"`
	Scheduled bool         `json:"scheduled"`
}

type Heatmap struct {
	HabitID string        `json:"habit_id"`
	Year    int           `json:"year"`
	Month   int           `json:"month"`
	Days    []HeatmapCell `json:"days"`
}

type RangeSummary struct {
	Range  TimeRange        `json:"range"`
	From   CalendarDate     `json:"from"`
	To     CalendarDate     `json:"to"`
	Habits []HabitRangeStat `json:"habits"`
}

type HabitRangeStat struct {
	HabitID        string `json:"habit_id"`
	Name           string `json:"name"`
	Scheduled      int    `json:"scheduled"`
	Completed      int    `json:"completed"`
	Missed         int    `json:"missed"`
	CompletionRate int    `json:"completion_rate"`
}

package domain

import "strconv"

// DerivedMetrics is always recomputed from a habit and its log; it is never
// the source of truth.
type DerivedMetrics struct {
	CurrentStreak  int `json:"current_streak"`
	LongestStreak  int `json:"longest_streak"`
	CompletionRate int `json:"completion_rate"`
}

// MetricsKey identifies one cached computation: a habit as of its last
// update, evaluated for one today. Revision has microsecond precision so it
// survives a round trip through Postgres.
type MetricsKey struct {
	HabitID  string
	Revision int64
	Today    CalendarDate
}

func MetricsKeyFor(habit *Habit, today CalendarDate) MetricsKey {
	return MetricsKey{
		HabitID:  habit.ID,
		Revision: habit.UpdatedAt.UnixMicro(),
		Today:    today,
	}
}

// Field is the per-habit part of the key, e.g. "2024-01-05@1704412800000000".
func (k MetricsKey) Field() string {
	return k.Today.String() + "@" + strconv.FormatInt(k.Revision, 10)
}

type HabitWithLogs struct {
	Habit   *Habit         `json:"habit"`
	Logs    HabitLog       `json:"logs"`
	Metrics DerivedMetrics `json:"metrics"`
}

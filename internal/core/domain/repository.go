package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrUnauthorized  = errors.New("unauthorized access")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user,
	// oldest first.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit and its log.
	Delete(ctx context.Context, id string) error
}

type HabitLogRepository interface {
	// Upsert creates or overwrites the single entry for (habit, date).
	Upsert(ctx context.Context, entry *LogEntry) error

	// GetLog returns every entry of a habit. An unknown habit yields an empty log.
	GetLog(ctx context.Context, habitID string) (HabitLog, error)

	// GetLogRange returns the entries with from <= date <= to.
	GetLogRange(ctx context.Context, habitID string, from, to CalendarDate) (HabitLog, error)

	// ListByHabitIDs loads the logs of several habits in one round trip.
	// Habits without entries are absent from the result.
	ListByHabitIDs(ctx context.Context, habitIDs []string) (map[string]HabitLog, error)

	// DeleteByHabitID removes every entry of a habit.
	DeleteByHabitID(ctx context.Context, habitID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type PreferencesRepository interface {
	// Get returns ErrPreferencesNotFound when the user never saved any.
	Get(ctx context.Context, userID string) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
}

// MetricsCache holds derived metrics per MetricsKey. It is a cache only; a
// miss always falls back to recomputing from the log.
//
// Every Invalidate advances a per-habit generation. A reader takes the
// generation before loading the log and hands it back to Set, which refuses
// the value if the habit was invalidated in between.
type MetricsCache interface {
	Generation(ctx context.Context, habitID string) uint64
	Get(ctx context.Context, key MetricsKey) (DerivedMetrics, bool)
	// Set reports whether m was stored.
	Set(ctx context.Context, key MetricsKey, gen uint64, m DerivedMetrics) bool
	Invalidate(ctx context.Context, habitID string)
}

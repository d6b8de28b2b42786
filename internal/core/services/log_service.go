package services

import (
	"context"
	"fmt"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
	"github.com/habitvault/habitvault/internal/core/workers"
)

type LogService struct {
	habits domain.HabitRepository
	logs   domain.HabitLogRepository
	cache  domain.MetricsCache
	worker *workers.MetricsWorker
	clock  Clock
}

func NewLogService(habits domain.HabitRepository, logs domain.HabitLogRepository, cache domain.MetricsCache, worker *workers.MetricsWorker, clock Clock) *LogService {
	return &LogService{
		habits: habits,
		logs:   logs,
		cache:  cache,
		worker: worker,
		clock:  clock,
	}
}

type MarkStatusInput struct {
	HabitID string
	UserID  string
	Date    string
	Status  string
	Today   domain.CalendarDate
}

// MarkStatus records one completed or missed mark and returns the habit with
// metrics recomputed from the updated log. Marking the same date again
// overwrites the previous status.
func (s *LogService) MarkStatus(ctx context.Context, input MarkStatusInput) (*domain.HabitWithLogs, error) {
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	today, err := resolveToday(s.clock, input.Today)
	if err != nil {
		return nil, err
	}

	habit, err := loadOwnedHabit(ctx, s.habits, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewLogEntry(habit.ID, date, status)
	if err != nil {
		return nil, err
	}

	if err := s.logs.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("log service: failed to save mark: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, habit.ID)
	}
	s.worker.Enqueue(habit.ID)

	log, err := s.logs.GetLog(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("log service: failed to reload log: %w", err)
	}

	metrics := engine.ComputeMetrics(habit, log, today)
	metricsComputations.Inc()

	return withLogs(habit, log, metrics), nil
}

// GetLog returns the entries of a habit with from <= date <= to. With both
// bounds zero it returns the whole log; otherwise a zero from defaults to the
// start date and a zero to defaults to today.
func (s *LogService) GetLog(ctx context.Context, habitID, userID string, from, to domain.CalendarDate) (domain.HabitLog, error) {
	habit, err := loadOwnedHabit(ctx, s.habits, habitID, userID)
	if err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.logs.GetLog(ctx, habit.ID)
	}
	if from.IsZero() {
		from = habit.StartDate
	}
	if to.IsZero() {
		to = clockToday(s.clock)
	}
	if from.After(to) {
		return make(domain.HabitLog), nil
	}

	return s.logs.GetLogRange(ctx, habit.ID, from, to)
}

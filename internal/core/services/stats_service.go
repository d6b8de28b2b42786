package services

import (
	"context"
	"fmt"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

// NoBestHabit is reported as the best habit of a user without habits.
const NoBestHabit = "-"

type StatsService struct {
	habitRepo domain.HabitRepository
	logRepo   domain.HabitLogRepository
	cache     domain.MetricsCache
	clock     Clock
}

func NewStatsService(habitRepo domain.HabitRepository, logRepo domain.HabitLogRepository, cache domain.MetricsCache, clock Clock) *StatsService {
	return &StatsService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		cache:     cache,
		clock:     clock,
	}
}

// Today is the clock's current date, used when a caller gives no date.
func (s *StatsService) Today() domain.CalendarDate {
	return clockToday(s.clock)
}

// Overview aggregates the derived metrics of all habits of a user. The
// overall rate is the rounded mean of the per-habit rates, and the best
// habit is the one with the greatest longest streak, the earliest winning
// ties.
func (s *StatsService) Overview(ctx context.Context, userID string, today domain.CalendarDate) (*domain.Overview, error) {
	today, err := resolveToday(s.clock, today)
	if err != nil {
		return nil, err
	}

	habits, gens, logs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		TotalHabits: len(habits),
		BestHabit:   NoBestHabit,
		Habits:      make([]domain.HabitSummary, 0, len(habits)),
	}

	rateSum := 0
	for i, h := range habits {
		m := metricsFor(ctx, s.cache, gens[h.ID], h, logs[h.ID], today)

		overview.Habits = append(overview.Habits, domain.HabitSummary{
			HabitID:        h.ID,
			Name:           h.Name,
			DerivedMetrics: m,
		})

		rateSum += m.CompletionRate
		overview.TotalCurrentStreaks += m.CurrentStreak

		if i == 0 || m.LongestStreak > overview.BestStreak {
			overview.BestHabit = h.Name
			overview.BestStreak = m.LongestStreak
		}
	}

	if n := len(habits); n > 0 {
		overview.OverallCompletionRate = (2*rateSum + n) / (2 * n)
	}

	return overview, nil
}

// Heatmap lays out one cell per day of the month. Days before the habit
// started are never scheduled.
func (s *StatsService) Heatmap(ctx context.Context, habitID, userID string, year, month int) (*domain.Heatmap, error) {
	first, last, err := engine.MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	habit, err := loadOwnedHabit(ctx, s.habitRepo, habitID, userID)
	if err != nil {
		return nil, err
	}

	log, err := s.logRepo.GetLogRange(ctx, habit.ID, first, last)
	if err != nil {
		return nil, fmt.Errorf("stats service: failed to load log: %w", err)
	}

	heatmap := &domain.Heatmap{
		HabitID: habit.ID,
		Year:    year,
		Month:   month,
		Days:    make([]domain.HeatmapCell, 0, first.DaysUntil(last)+1),
	}

	for d := range engine.Days(first, last) {
		heatmap.Days = append(heatmap.Days, domain.HeatmapCell{
			Date:      d,
			Weekday:   d.Weekday(),
			Status:    log.Status(d),
			Scheduled: !d.Before(habit.StartDate) && engine.IsScheduled(habit.Rule, d),
		})
	}

	return heatmap, nil
}

// Summary tallies each habit over the trailing window of the given range.
// Counts include today; the rate, like the overall completion rate, leaves
// today out.
func (s *StatsService) Summary(ctx context.Context, userID, timeRange string, today domain.CalendarDate) (*domain.RangeSummary, error) {
	r, err := domain.ParseTimeRange(timeRange)
	if err != nil {
		return nil, err
	}

	today, err = resolveToday(s.clock, today)
	if err != nil {
		return nil, err
	}
	from, to := engine.TrailingWindow(today, r.Days())

	habits, _, logs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.RangeSummary{
		Range:  r,
		From:   from,
		To:     to,
		Habits: make([]domain.HabitRangeStat, 0, len(habits)),
	}

	for _, h := range habits {
		log := logs[h.ID]
		counts := engine.CountRange(h.Rule, h.StartDate, log, from, to)

		summary.Habits = append(summary.Habits, domain.HabitRangeStat{
			HabitID:        h.ID,
			Name:           h.Name,
			Scheduled:      counts.Scheduled,
			Completed:      counts.Completed,
			Missed:         counts.Missed,
			CompletionRate: engine.WindowCompletionRate(h.Rule, h.StartDate, log, from, today),
		})
	}

	return summary, nil
}

// load returns the habits of a user, their cache generations and their logs,
// in that order of reading.
func (s *StatsService) load(ctx context.Context, userID string) ([]*domain.Habit, map[string]uint64, map[string]domain.HabitLog, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	ids := habitIDs(habits)
	gens := generations(ctx, s.cache, ids)

	logs, err := s.logRepo.ListByHabitIDs(ctx, ids)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stats service: failed to load logs: %w", err)
	}
	return habits, gens, logs, nil
}

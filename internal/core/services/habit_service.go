package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/workers"
)

type HabitService struct {
	repo   domain.HabitRepository
	logs   domain.HabitLogRepository
	cache  domain.MetricsCache
	worker *workers.MetricsWorker
	clock  Clock
}

func NewHabitService(repo domain.HabitRepository, logs domain.HabitLogRepository, cache domain.MetricsCache, worker *workers.MetricsWorker, clock Clock) *HabitService {
	return &HabitService{
		repo:   repo,
		logs:   logs,
		cache:  cache,
		worker: worker,
		clock:  clock,
	}
}

type CreateHabitInput struct {
	UserID     string
	Name       string
	Frequency  string
	CustomDays []string
	// StartDate defaults to Today, which in turn defaults to the clock.
	StartDate string
	Today     domain.CalendarDate
}

// UpdateHabitInput carries a partial update; nil fields keep their current
// value. CustomDays alone replaces the weekdays of a custom habit.
type UpdateHabitInput struct {
	ID         string
	UserID     string
	Name       *string
	Frequency  *string
	CustomDays []string
	StartDate  *string
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	rule, err := domain.NewRecurrenceRule(input.Frequency, input.CustomDays)
	if err != nil {
		return nil, err
	}

	today, err := resolveToday(s.clock, input.Today)
	if err != nil {
		return nil, err
	}

	start := today
	if strings.TrimSpace(input.StartDate) != "" {
		start, err = domain.ParseDate(input.StartDate)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckStartDate(start, today); err != nil {
			return nil, err
		}
	}

	habit, err := domain.NewHabit(input.UserID, input.Name, rule, start)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("habit service: failed to create habit: %w", err)
	}

	return habit, nil
}

// List joins every habit of the user with its log and metrics as of today.
func (s *HabitService) List(ctx context.Context, userID string, today domain.CalendarDate) ([]*domain.HabitWithLogs, error) {
	today, err := resolveToday(s.clock, today)
	if err != nil {
		return nil, err
	}

	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := habitIDs(habits)
	gens := generations(ctx, s.cache, ids)

	logs, err := s.logs.ListByHabitIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("habit service: failed to load logs: %w", err)
	}

	out := make([]*domain.HabitWithLogs, 0, len(habits))
	for _, h := range habits {
		habitLog := logs[h.ID]
		out = append(out, withLogs(h, habitLog, metricsFor(ctx, s.cache, gens[h.ID], h, habitLog, today)))
	}
	return out, nil
}

func (s *HabitService) Get(ctx context.Context, id, userID string, today domain.CalendarDate) (*domain.HabitWithLogs, error) {
	today, err := resolveToday(s.clock, today)
	if err != nil {
		return nil, err
	}

	gens := generations(ctx, s.cache, []string{id})

	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	habitLog, err := s.logs.GetLog(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("habit service: failed to load log: %w", err)
	}

	return withLogs(habit, habitLog, metricsFor(ctx, s.cache, gens[id], habit, habitLog, today)), nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.owned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	name := habit.Name
	if input.Name != nil {
		name = *input.Name
	}

	rule, err := mergeRule(habit.Rule, input.Frequency, input.CustomDays)
	if err != nil {
		return nil, err
	}

	start := habit.StartDate
	if input.StartDate != nil {
		start, err = domain.ParseDate(*input.StartDate)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckStartDate(start, clockToday(s.clock)); err != nil {
			return nil, err
		}
	}

	if err := habit.Update(name, rule, start); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("habit service: failed to update habit: %w", err)
	}

	// Schedule or start date changes alter every derived value.
	if s.cache != nil {
		s.cache.Invalidate(ctx, habit.ID)
	}
	s.worker.Enqueue(habit.ID)

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, habit.ID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, habit.ID)
	}

	// The habit is already gone, so a leftover log is unreachable. Postgres
	// cascades this delete; other stores rely on it.
	if err := s.logs.DeleteByHabitID(ctx, habit.ID); err != nil {
		log.Printf("[ERROR] Orphaned log of deleted habit %s: %v", habit.ID, err)
	}
	return nil
}

// owned loads a habit and hides habits of other users behind
// ErrHabitNotFound.
func (s *HabitService) owned(ctx context.Context, id, userID string) (*domain.Habit, error) {
	return loadOwnedHabit(ctx, s.repo, id, userID)
}

func habitIDs(habits []*domain.Habit) []string {
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids
}

func loadOwnedHabit(ctx context.Context, repo domain.HabitRepository, id, userID string) (*domain.Habit, error) {
	habit, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func mergeRule(current domain.RecurrenceRule, frequency *string, days []string) (domain.RecurrenceRule, error) {
	switch {
	case frequency != nil:
		return domain.NewRecurrenceRule(*frequency, days)
	case days != nil:
		return domain.NewRecurrenceRule(string(current.Frequency()), days)
	default:
		return current, nil
	}
}

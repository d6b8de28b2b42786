package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var (
	_ domain.HabitRepository       = (*InMemoryHabitRepository)(nil)
	_ domain.HabitLogRepository    = (*InMemoryHabitLogRepository)(nil)
	_ domain.UserRepository        = (*InMemoryUserRepository)(nil)
	_ domain.PreferencesRepository = (*InMemoryPreferencesRepository)(nil)
)

// InMemoryHabitRepository stores copies, so callers never share a *Habit
// with the store.
type InMemoryHabitRepository struct {
	store map[string]domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return &habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := make([]*domain.Habit, 0)
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, &h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].ID < habits[j].ID
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryHabitLogRepository struct {
	store map[string]domain.HabitLog

	mu sync.RWMutex
}

func NewInMemoryHabitLogRepository() *InMemoryHabitLogRepository {
	return &InMemoryHabitLogRepository{
		store: make(map[string]domain.HabitLog),
	}
}

func (r *InMemoryHabitLogRepository) Upsert(ctx context.Context, entry *domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.store[entry.HabitID]
	if !ok {
		log = make(domain.HabitLog)
		r.store[entry.HabitID] = log
	}
	return log.Mark(entry.Date, entry.Status)
}

func (r *InMemoryHabitLogRepository) GetLog(ctx context.Context, habitID string) (domain.HabitLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store[habitID].Clone(), nil
}

func (r *InMemoryHabitLogRepository) GetLogRange(ctx context.Context, habitID string, from, to domain.CalendarDate) (domain.HabitLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store[habitID].Between(from, to), nil
}

func (r *InMemoryHabitLogRepository) ListByHabitIDs(ctx context.Context, habitIDs []string) (map[string]domain.HabitLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.HabitLog, len(habitIDs))
	for _, id := range habitIDs {
		if log, ok := r.store[id]; ok && len(log) > 0 {
			out[id] = log.Clone()
		}
	}
	return out, nil
}

func (r *InMemoryHabitLogRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
	return nil
}

type InMemoryUserRepository struct {
	byID    map[string]domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return domain.ErrEmailAlreadyExists
	}

	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

type InMemoryPreferencesRepository struct {
	store map[string]domain.Preferences

	mu sync.RWMutex
}

func NewInMemoryPreferencesRepository() *InMemoryPreferencesRepository {
	return &InMemoryPreferencesRepository{
		store: make(map[string]domain.Preferences),
	}
}

func (r *InMemoryPreferencesRepository) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return &prefs, nil
}

func (r *InMemoryPreferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[prefs.UserID] = *prefs
	return nil
}

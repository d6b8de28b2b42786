package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitvault/habitvault/internal/core/domain"
)

type stubHabits map[string]*domain.Habit

func (s stubHabits) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	h, ok := s[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return h, nil
}

type stubLogs struct {
	logs map[string]domain.HabitLog
	err  error
}

func (s stubLogs) GetLog(ctx context.Context, habitID string) (domain.HabitLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.logs[habitID], nil
}

type fixedClock domain.CalendarDate

func (c fixedClock) Today() domain.CalendarDate { return domain.CalendarDate(c) }

type recordingCache struct {
	mu     sync.Mutex
	gens   map[string]uint64
	values map[domain.MetricsKey]domain.DerivedMetrics
	sets   chan domain.MetricsKey
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		gens:   make(map[string]uint64),
		values: make(map[domain.MetricsKey]domain.DerivedMetrics),
		sets:   make(chan domain.MetricsKey, 10),
	}
}

func (c *recordingCache) Generation(ctx context.Context, habitID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[habitID]
}

func (c *recordingCache) Get(ctx context.Context, key domain.MetricsKey) (domain.DerivedMetrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.values[key]
	return m, ok
}

func (c *recordingCache) Set(ctx context.Context, key domain.MetricsKey, gen uint64, m domain.DerivedMetrics) bool {
	c.mu.Lock()
	if c.gens[key.HabitID] != gen {
		c.mu.Unlock()
		return false
	}
	c.values[key] = m
	c.mu.Unlock()
	c.sets <- key
	return true
}

func (c *recordingCache) Invalidate(ctx context.Context, habitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[habitID]++
	for k := range c.values {
		if k.HabitID == habitID {
			delete(c.values, k)
		}
	}
}

// invalidatingLogs invalidates the habit while its log is being read, as a
// concurrent mark would.
type invalidatingLogs struct {
	stubLogs
	cache *recordingCache
}

func (s invalidatingLogs) GetLog(ctx context.Context, habitID string) (domain.HabitLog, error) {
	s.cache.Invalidate(ctx, habitID)
	return s.stubLogs.GetLog(ctx, habitID)
}

func fixture() (stubHabits, stubLogs, domain.CalendarDate) {
	habit := &domain.Habit{
		ID:        "habit-1",
		UserID:    "user-1",
		Name:      "Stretch",
		Rule:      domain.Daily{},
		StartDate: domain.MustParseDate("2024-01-01"),
	}
	log := domain.HabitLog{
		domain.MustParseDate("2024-01-01"): domain.StatusCompleted,
		domain.MustParseDate("2024-01-02"): domain.StatusCompleted,
		domain.MustParseDate("2024-01-03"): domain.StatusMissed,
		domain.MustParseDate("2024-01-04"): domain.StatusCompleted,
	}
	return stubHabits{habit.ID: habit}, stubLogs{logs: map[string]domain.HabitLog{habit.ID: log}}, domain.MustParseDate("2024-01-05")
}

func TestMetricsWorker_ProcessJob(t *testing.T) {
	t.Run("Success: Should warm the cache for today", func(t *testing.T) {
		habits, logs, today := fixture()
		cache := newRecordingCache()
		w := NewMetricsWorker(habits, logs, cache, fixedClock(today), 1)

		w.processJob(context.Background(), MetricsJob{HabitID: "habit-1"})

		m, ok := cache.Get(context.Background(), domain.MetricsKeyFor(habits["habit-1"], today))
		require.True(t, ok)
		assert.Equal(t, domain.DerivedMetrics{CurrentStreak: 1, LongestStreak: 2, CompletionRate: 75}, m)
	})

	t.Run("Fail: Unknown habit leaves the cache untouched", func(t *testing.T) {
		_, logs, today := fixture()
		cache := newRecordingCache()
		w := NewMetricsWorker(stubHabits{}, logs, cache, fixedClock(today), 1)

		w.processJob(context.Background(), MetricsJob{HabitID: "ghost"})

		assert.Empty(t, cache.values)
	})

	t.Run("Fail: Invalidation during the job leaves the cache untouched", func(t *testing.T) {
		habits, logs, today := fixture()
		cache := newRecordingCache()
		w := NewMetricsWorker(habits, invalidatingLogs{stubLogs: logs, cache: cache}, cache, fixedClock(today), 1)

		w.processJob(context.Background(), MetricsJob{HabitID: "habit-1"})

		assert.Empty(t, cache.values)
	})

	t.Run("Fail: Log error leaves the cache untouched", func(t *testing.T) {
		habits, _, today := fixture()
		cache := newRecordingCache()
		w := NewMetricsWorker(habits, stubLogs{err: errors.New("db down")}, cache, fixedClock(today), 1)

		w.processJob(context.Background(), MetricsJob{HabitID: "habit-1"})

		assert.Empty(t, cache.values)
	})
}

func TestMetricsWorker_StartProcessesQueuedJobs(t *testing.T) {
	habits, logs, today := fixture()
	cache := newRecordingCache()
	w := NewMetricsWorker(habits, logs, cache, fixedClock(today), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.True(t, w.Enqueue("habit-1"))

	select {
	case key := <-cache.sets:
		assert.Equal(t, domain.MetricsKeyFor(habits["habit-1"], today), key)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not process the job")
	}
}

func TestMetricsWorker_Enqueue(t *testing.T) {
	t.Run("Drops jobs when the queue is full", func(t *testing.T) {
		habits, logs, today := fixture()
		w := NewMetricsWorker(habits, logs, nil, fixedClock(today), 1)

		assert.True(t, w.Enqueue("habit-1"))
		assert.False(t, w.Enqueue("habit-1"))
	})

	t.Run("Nil worker drops silently", func(t *testing.T) {
		var w *MetricsWorker
		assert.False(t, w.Enqueue("habit-1"))
	})

	t.Run("Non-positive size falls back to the default", func(t *testing.T) {
		w := NewMetricsWorker(nil, nil, nil, nil, 0)
		assert.Equal(t, DefaultQueueSize, cap(w.jobs))
	})
}

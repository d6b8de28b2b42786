package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitvault/habitvault/internal/core/domain"
)

func key(habitID, today string) domain.MetricsKey {
	return domain.MetricsKey{HabitID: habitID, Revision: 1, Today: domain.MustParseDate(today)}
}

func TestLRUMetricsCache(t *testing.T) {
	ctx := context.Background()
	m := domain.DerivedMetrics{CurrentStreak: 3, LongestStreak: 5, CompletionRate: 80}

	t.Run("Entries are keyed by habit, revision and today", func(t *testing.T) {
		c, err := NewLRUMetricsCache(10)
		require.NoError(t, err)

		require.True(t, c.Set(ctx, key("h1", "2024-01-01"), 0, m))

		got, ok := c.Get(ctx, key("h1", "2024-01-01"))
		assert.True(t, ok)
		assert.Equal(t, m, got)

		_, ok = c.Get(ctx, key("h1", "2024-01-02"))
		assert.False(t, ok, "a new day must miss")

		_, ok = c.Get(ctx, key("h2", "2024-01-01"))
		assert.False(t, ok)

		edited := key("h1", "2024-01-01")
		edited.Revision = 2
		_, ok = c.Get(ctx, edited)
		assert.False(t, ok, "an edited habit must miss")
	})

	t.Run("Invalidate drops every key of one habit", func(t *testing.T) {
		c, err := NewLRUMetricsCache(10)
		require.NoError(t, err)

		c.Set(ctx, key("h1", "2024-01-01"), 0, m)
		c.Set(ctx, key("h1", "2024-01-02"), 0, m)
		c.Set(ctx, key("h2", "2024-01-01"), 0, m)

		c.Invalidate(ctx, "h1")

		_, ok := c.Get(ctx, key("h1", "2024-01-01"))
		assert.False(t, ok)
		_, ok = c.Get(ctx, key("h1", "2024-01-02"))
		assert.False(t, ok)
		_, ok = c.Get(ctx, key("h2", "2024-01-01"))
		assert.True(t, ok)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Set is refused once the habit was invalidated", func(t *testing.T) {
		c, err := NewLRUMetricsCache(10)
		require.NoError(t, err)

		gen := c.Generation(ctx, "h1")
		c.Invalidate(ctx, "h1")

		assert.False(t, c.Set(ctx, key("h1", "2024-01-01"), gen, m))
		_, ok := c.Get(ctx, key("h1", "2024-01-01"))
		assert.False(t, ok)

		fresh := c.Generation(ctx, "h1")
		assert.NotEqual(t, gen, fresh)
		assert.True(t, c.Set(ctx, key("h1", "2024-01-01"), fresh, m))
		assert.Equal(t, uint64(0), c.Generation(ctx, "h2"), "other habits keep their generation")
	})

	t.Run("Eviction keeps the habit index consistent", func(t *testing.T) {
		c, err := NewLRUMetricsCache(2)
		require.NoError(t, err)

		c.Set(ctx, key("h1", "2024-01-01"), 0, m)
		c.Set(ctx, key("h2", "2024-01-01"), 0, m)
		c.Set(ctx, key("h3", "2024-01-01"), 0, m)

		assert.Equal(t, 2, c.Len())
		_, ok := c.Get(ctx, key("h1", "2024-01-01"))
		assert.False(t, ok)

		c.mu.Lock()
		_, indexed := c.byHabit["h1"]
		c.mu.Unlock()
		assert.False(t, indexed)

		c.Invalidate(ctx, "h1")
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Non-positive size falls back to the default", func(t *testing.T) {
		c, err := NewLRUMetricsCache(0)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})
}

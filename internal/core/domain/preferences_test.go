package domain_test

import (
	"testing"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestPreferences(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p := domain.DefaultPreferences("u1")
		assert.Equal(t, "u1", p.UserID)
		assert.False(t, p.DarkMode)
		assert.Equal(t, domain.TimeRangeWeek, p.LastTimeRange)
		assert.True(t, p.ShowMotivationalQuote)
	})

	t.Run("Apply partial patch", func(t *testing.T) {
		p := domain.DefaultPreferences("u1")
		err := p.Apply(domain.PreferencesPatch{DarkMode: ptr(true)})
		require.NoError(t, err)

		assert.True(t, p.DarkMode)
		assert.Equal(t, domain.TimeRangeWeek, p.LastTimeRange)
		assert.True(t, p.ShowMotivationalQuote)
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("Invalid time range rejects the whole patch", func(t *testing.T) {
		p := domain.DefaultPreferences("u1")
		err := p.Apply(domain.PreferencesPatch{
			DarkMode:      ptr(true),
			LastTimeRange: ptr(domain.TimeRange("decade")),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
		assert.False(t, p.DarkMode)
	})
}

func TestTimeRange_Days(t *testing.T) {
	assert.Equal(t, 7, domain.TimeRangeWeek.Days())
	assert.Equal(t, 30, domain.TimeRangeMonth.Days())
	assert.Equal(t, 365, domain.TimeRangeYear.Days())
}

func TestDailyQuote(t *testing.T) {
	jan1 := domain.MustParseDate("2024-01-01")

	assert.Equal(t, "Success is the sum of small efforts repeated day in and day out.", domain.DailyQuote(jan1))
	assert.Equal(t, "Small daily improvements over time lead to stunning results.", domain.DailyQuote(domain.MustParseDate("2024-01-20")))
	assert.Equal(t, domain.DailyQuote(jan1), domain.DailyQuote(domain.MustParseDate("2024-01-21")))
}

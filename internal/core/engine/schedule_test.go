package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

func date(s string) domain.CalendarDate {
	return domain.MustParseDate(s)
}

func customRule(t *testing.T, days ...domain.Weekday) domain.Custom {
	t.Helper()
	set, err := domain.NewWeekdaySet(days...)
	require.NoError(t, err)
	return domain.Custom{Days: set}
}

func TestIsScheduled(t *testing.T) {
	// 2024-01-01 is a Monday.
	mon, tue, sat, sun := date("2024-01-01"), date("2024-01-02"), date("2024-01-06"), date("2024-01-07")

	tests := []struct {
		name string
		rule domain.RecurrenceRule
		date domain.CalendarDate
		want bool
	}{
		{"Daily on Monday", domain.Daily{}, mon, true},
		{"Daily on Sunday", domain.Daily{}, sun, true},
		{"Weekdays on Monday", domain.Weekdays{}, mon, true},
		{"Weekdays on Saturday", domain.Weekdays{}, sat, false},
		{"Weekdays on Sunday", domain.Weekdays{}, sun, false},
		{"Weekends on Saturday", domain.Weekends{}, sat, true},
		{"Weekends on Sunday", domain.Weekends{}, sun, true},
		{"Weekends on Tuesday", domain.Weekends{}, tue, false},
		{"Custom MWF on Monday", customRule(t, domain.Monday, domain.Wednesday, domain.Friday), mon, true},
		{"Custom MWF on Tuesday", customRule(t, domain.Monday, domain.Wednesday, domain.Friday), tue, false},
		{"Custom empty set is never scheduled", domain.Custom{}, mon, false},
		{"Nil rule is never scheduled", nil, mon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsScheduled(tt.rule, tt.date))
		})
	}
}

func TestIsScheduled_Properties(t *testing.T) {
	start := date("1999-12-20")
	end := date("2001-01-10")

	for d := range engine.Days(start, end) {
		assert.True(t, engine.IsScheduled(domain.Daily{}, d), "daily must schedule %s", d)

		weekday := engine.IsScheduled(domain.Weekdays{}, d)
		weekend := engine.IsScheduled(domain.Weekends{}, d)
		assert.True(t, weekday != weekend, "weekdays and weekends must partition %s", d)

		single := customRule(t, d.Weekday())
		assert.True(t, engine.IsScheduled(single, d))
	}
}

func TestScheduledDates(t *testing.T) {
	got := engine.ScheduledDates(domain.Weekends{}, date("2024-01-01"), date("2024-01-14"))
	assert.Equal(t, []domain.CalendarDate{
		date("2024-01-06"), date("2024-01-07"), date("2024-01-13"), date("2024-01-14"),
	}, got)

	assert.Empty(t, engine.ScheduledDates(domain.Daily{}, date("2024-01-02"), date("2024-01-01")))
}

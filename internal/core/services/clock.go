package services

import (
	"time"

	"github.com/habitvault/habitvault/internal/core/domain"
)

// Clock supplies "today" for requests that do not carry the client's date.
type Clock interface {
	Today() domain.CalendarDate
}

// SystemClock reports the local calendar date of Location, or of the process
// zone when Location is nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() domain.CalendarDate {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return domain.DateOf(now)
}

// FixedClock always reports the same date.
type FixedClock domain.CalendarDate

func (c FixedClock) Today() domain.CalendarDate {
	return domain.CalendarDate(c)
}

// MaxClockSkewDays is how far a client's today may be from the clock's.
// UTC-12 and UTC+14 can be two calendar dates apart.
const MaxClockSkewDays = 2

func clockToday(clock Clock) domain.CalendarDate {
	if clock == nil {
		return SystemClock{}.Today()
	}
	return clock.Today()
}

// resolveToday prefers the caller's date and falls back to the clock. A
// caller's date further than MaxClockSkewDays from the clock is rejected.
func resolveToday(clock Clock, today domain.CalendarDate) (domain.CalendarDate, error) {
	now := clockToday(clock)
	if today.IsZero() {
		return now, nil
	}
	if skew := now.DaysUntil(today); skew > MaxClockSkewDays || skew < -MaxClockSkewDays {
		return domain.CalendarDate{}, domain.ErrTodayOutOfRange
	}
	return today, nil
}

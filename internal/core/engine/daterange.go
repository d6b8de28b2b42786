package engine

import (
	"iter"
	"time"

	"github.com/habitvault/habitvault/internal/core/domain"
)

// Days yields every date from start through end inclusive, ascending. It
// yields nothing when start is after end.
func Days(start, end domain.CalendarDate) iter.Seq[domain.CalendarDate] {
	return func(yield func(domain.CalendarDate) bool) {
		for d := start; !d.After(end); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// DateRange materializes Days.
func DateRange(start, end domain.CalendarDate) []domain.CalendarDate {
	if start.After(end) {
		return nil
	}
	out := make([]domain.CalendarDate, 0, start.DaysUntil(end)+1)
	for d := range Days(start, end) {
		out = append(out, d)
	}
	return out
}

// MonthRange returns the first and last day of a month.
func MonthRange(year, month int) (domain.CalendarDate, domain.CalendarDate, error) {
	if month < 1 || month > 12 {
		return domain.CalendarDate{}, domain.CalendarDate{}, domain.ErrInvalidMonth
	}
	first := domain.NewDate(year, time.Month(month), 1)
	last := domain.NewDate(year, time.Month(month)+1, 0)
	return first, last, nil
}

// TrailingWindow returns the n-day window ending at today, today included.
func TrailingWindow(today domain.CalendarDate, n int) (domain.CalendarDate, domain.CalendarDate) {
	if n < 1 {
		n = 1
	}
	return today.AddDays(-(n - 1)), today
}

func laterOf(a, b domain.CalendarDate) domain.CalendarDate {
	if a.After(b) {
		return a
	}
	return b
}

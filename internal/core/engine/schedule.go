package engine

import (
	"github.com/habitvault/habitvault/internal/core/domain"
)

// IsScheduled reports whether a habit following rule is expected to be acted
// upon on date. A Custom rule with no weekdays schedules nothing.
func IsScheduled(rule domain.RecurrenceRule, date domain.CalendarDate) bool {
	day := date.Weekday()

	switch r := rule.(type) {
	case domain.Daily:
		return true
	case domain.Weekdays:
		return !day.IsWeekend()
	case domain.Weekends:
		return day.IsWeekend()
	case domain.Custom:
		return r.Days.Contains(day)
	default:
		return false
	}
}

// ScheduledDates lists the dates in [from, to] the rule applies to.
func ScheduledDates(rule domain.RecurrenceRule, from, to domain.CalendarDate) []domain.CalendarDate {
	var out []domain.CalendarDate
	for d := range Days(from, to) {
		if IsScheduled(rule, d) {
			out = append(out, d)
		}
	}
	return out
}

package engine

import (
	"github.com/habitvault/habitvault/internal/core/domain"
)

// ComputeMetrics derives the streaks and completion rate of habit as of today.
func ComputeMetrics(habit *domain.Habit, log domain.HabitLog, today domain.CalendarDate) domain.DerivedMetrics {
	current, longest := ComputeStreaks(habit.Rule, habit.StartDate, log, today)

	return domain.DerivedMetrics{
		CurrentStreak:  current,
		LongestStreak:  longest,
		CompletionRate: ComputeCompletionRate(habit.Rule, habit.StartDate, log, today),
	}
}

// ComputeStreaks walks the scheduled dates in [start, today] and returns the
// run of completions still open at today and the longest run seen.
//
// Non-scheduled dates are skipped entirely. A missed mark breaks the run, as
// does an unmarked scheduled date before today. An unmarked today leaves the
// run untouched: the day is not over yet.
func ComputeStreaks(rule domain.RecurrenceRule, start domain.CalendarDate, log domain.HabitLog, today domain.CalendarDate) (current, longest int) {
	consecutive := 0

	for date := range Days(start, today) {
		if !IsScheduled(rule, date) {
			continue
		}

		switch log.Status(date) {
		case domain.StatusCompleted:
			consecutive++
			longest = max(longest, consecutive)
		case domain.StatusMissed:
			consecutive = 0
		default:
			if date.Before(today) {
				consecutive = 0
			}
		}
	}

	return consecutive, longest
}

// ComputeCompletionRate is the rounded percentage of scheduled dates in
// [start, today) marked completed. Today is excluded so an unmarked day in
// progress never lowers the rate. With no scheduled dates the rate is 0.
func ComputeCompletionRate(rule domain.RecurrenceRule, start domain.CalendarDate, log domain.HabitLog, today domain.CalendarDate) int {
	completed, total := CountCompletions(rule, start, today.AddDays(-1), log)
	return Percent(completed, total)
}

// CountCompletions counts scheduled dates in [from, to] and how many of
// them are marked completed.
func CountCompletions(rule domain.RecurrenceRule, from, to domain.CalendarDate, log domain.HabitLog) (completed, total int) {
	for date := range Days(from, to) {
		if !IsScheduled(rule, date) {
			continue
		}
		total++
		if log.Status(date) == domain.StatusCompleted {
			completed++
		}
	}
	return completed, total
}

// Percent returns round(100*part/whole) with halves rounded up, or 0 when
// whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// RangeCounts tallies the scheduled dates of a window.
type RangeCounts struct {
	Scheduled int
	Completed int
	Missed    int
}

// CountRange tallies scheduled dates in [from, to], ignoring dates before
// the habit's start.
func CountRange(rule domain.RecurrenceRule, start domain.CalendarDate, log domain.HabitLog, from, to domain.CalendarDate) RangeCounts {
	var c RangeCounts
	for date := range Days(laterOf(start, from), to) {
		if !IsScheduled(rule, date) {
			continue
		}
		c.Scheduled++
		switch log.Status(date) {
		case domain.StatusCompleted:
			c.Completed++
		case domain.StatusMissed:
			c.Missed++
		}
	}
	return c
}

// WindowCompletionRate is ComputeCompletionRate restricted to dates on or
// after from.
func WindowCompletionRate(rule domain.RecurrenceRule, start domain.CalendarDate, log domain.HabitLog, from, today domain.CalendarDate) int {
	return ComputeCompletionRate(rule, laterOf(start, from), log, today)
}

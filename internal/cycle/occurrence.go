package cycle

import (
	"time"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/domain"
)

// NextFixedDay returns this month's occurrence of day if it is not before
// today, otherwise next month's. The day is clamped to each month's length.
func NextFixedDay(today time.Time, day int) time.Time {
	t := calendar.DateOnly(today)
	due := calendar.DayIn(t.Year(), t.Month(), day)
	if due.Before(t) {
		due = calendar.DayIn(t.Year(), t.Month()+1, day)
	}
	return due
}

// RelativeCandidates returns anchor+window for the anchors of the previous,
// current and next month around today, in that order.
func RelativeCandidates(today time.Time, anchorDay, windowDays int) [3]time.Time {
	t := calendar.DateOnly(today)
	var out [3]time.Time
	for i, offset := range []int{-1, 0, 1} {
		anchor := calendar.DayIn(t.Year(), t.Month()+time.Month(offset), anchorDay)
		out[i] = calendar.AddDays(anchor, windowDays)
	}
	return out
}

// NextRelative returns the earliest candidate due date on or after today.
// The due date for today may be anchored in a neighbouring month, so all three
// candidates around today are checked.
func NextRelative(today time.Time, anchorDay, windowDays int) time.Time {
	t := calendar.DateOnly(today)
	candidates := RelativeCandidates(t, anchorDay, windowDays)
	for _, c := range candidates {
		if !c.Before(t) {
			return c
		}
	}
	return candidates[2]
}

// NextOccurrence dispatches on the rule variant.
func NextOccurrence(today time.Time, rule domain.RecurrenceRule) time.Time {
	if rule.Kind == domain.RuleRelativeWindow {
		return NextRelative(today, rule.Day, rule.WindowDays)
	}
	return NextFixedDay(today, rule.Day)
}

// Package cycle resolves credit-card billing cycles and the next due date of
// any obligation that recurs on a day of the month.
package cycle

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Resolve returns the billing cycle containing today and its payment deadline.
// The rule is assumed valid; see domain.CycleRule.Validate.
func Resolve(today time.Time, rule domain.CycleRule) domain.CycleWindow {
	t := calendar.DateOnly(today)

	// Compare against the cutoff as clamped to this month, so a day-31 cutoff
	// on Feb 29 is today rather than January's.
	prev := calendar.DayIn(t.Year(), t.Month(), rule.CutoffDay)
	if t.Before(prev) {
		prev = calendar.DayIn(t.Year(), t.Month()-1, rule.CutoffDay)
	}
	next := calendar.DayIn(prev.Year(), prev.Month()+1, rule.CutoffDay)

	return domain.CycleWindow{
		Start:    prev,
		End:      next,
		Deadline: deadline(prev, next, rule),
		Progress: progress(t, prev, next),
	}
}

func deadline(prev, next time.Time, rule domain.CycleRule) time.Time {
	if rule.Mode == domain.DeadlineRelativeWindow {
		return calendar.AddDays(prev, rule.WindowDays)
	}
	// Due days on or after the cutoff day belong to the cutoff's own month,
	// earlier ones to the following month.
	if rule.DueDay >= rule.CutoffDay {
		return calendar.DayIn(prev.Year(), prev.Month(), rule.DueDay)
	}
	return calendar.DayIn(next.Year(), next.Month(), rule.DueDay)
}

func progress(today, start, end time.Time) decimal.Decimal {
	total := calendar.DaysBetween(start, end)
	if total <= 0 {
		return decimal.Zero
	}
	p := decimal.NewFromInt(int64(calendar.DaysBetween(start, today))).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total)))
	switch {
	case p.IsNegative():
		return decimal.Zero
	case p.GreaterThan(hundred):
		return hundred
	}
	return p.Round(2)
}

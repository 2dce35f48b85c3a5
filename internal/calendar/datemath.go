// Package calendar holds the date arithmetic shared by the cycle and period
// packages. All results are UTC midnights; time of day is dropped on input.
package calendar

import "time"

const day = 24 * time.Hour

// DateOnly truncates t to midnight UTC of the same calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the length of the given month. Out-of-range months are
// normalised, so DaysIn(2023, 14) is the length of February 2024.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayIn returns the date with dayOfMonth in the given month, clamped to the
// month's last day.
func DayIn(year int, month time.Month, dayOfMonth int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); dayOfMonth > last {
		dayOfMonth = last
	}
	if dayOfMonth < 1 {
		dayOfMonth = 1
	}
	return time.Date(first.Year(), first.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves d by n months keeping its day, clamped to the target month.
// Jan 31 + 1 is Feb 28 (or 29), never March.
func AddMonths(d time.Time, n int) time.Time {
	return DayIn(d.Year(), d.Month()+time.Month(n), d.Day())
}

// AddDays is plain calendar-day addition with no clamping.
func AddDays(d time.Time, n int) time.Time {
	d = DateOnly(d)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)) / day)
}

// InHalfOpenRange reports start <= x < end.
func InHalfOpenRange(x, start, end time.Time) bool {
	return !x.Before(start) && x.Before(end)
}

// DueWithin reports whether due falls between today and today+n days inclusive.
func DueWithin(today, due time.Time, n int) bool {
	left := DaysBetween(today, due)
	return left >= 0 && left <= n
}

package cycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixed(cutoff, due int) domain.CycleRule {
	return domain.CycleRule{CutoffDay: cutoff, Mode: domain.DeadlineFixedDay, DueDay: due}
}

func relative(cutoff, window int) domain.CycleRule {
	return domain.CycleRule{CutoffDay: cutoff, Mode: domain.DeadlineRelativeWindow, WindowDays: window}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		today        time.Time
		rule         domain.CycleRule
		wantStart    time.Time
		wantEnd      time.Time
		wantDeadline time.Time
	}{
		{
			name:         "due day after cutoff stays in cutoff month",
			today:        date(2024, 1, 10),
			rule:         fixed(5, 25),
			wantStart:    date(2024, 1, 5),
			wantEnd:      date(2024, 2, 5),
			wantDeadline: date(2024, 1, 25),
		},
		{
			name:         "due day before cutoff moves to next month",
			today:        date(2024, 1, 25),
			rule:         fixed(20, 5),
			wantStart:    date(2024, 1, 20),
			wantEnd:      date(2024, 2, 20),
			wantDeadline: date(2024, 2, 5),
		},
		{
			name:         "before cutoff steps back a month across the year",
			today:        date(2024, 1, 3),
			rule:         fixed(20, 5),
			wantStart:    date(2023, 12, 20),
			wantEnd:      date(2024, 1, 20),
			wantDeadline: date(2024, 1, 5),
		},
		{
			name:         "due equal to cutoff resolves to the cutoff itself",
			today:        date(2024, 3, 18),
			rule:         fixed(15, 15),
			wantStart:    date(2024, 3, 15),
			wantEnd:      date(2024, 4, 15),
			wantDeadline: date(2024, 3, 15),
		},
		{
			name:         "cutoff 31 clamps to leap day",
			today:        date(2024, 2, 29),
			rule:         fixed(31, 31),
			wantStart:    date(2024, 2, 29),
			wantEnd:      date(2024, 3, 31),
			wantDeadline: date(2024, 2, 29),
		},
		{
			name:         "cutoff 31 before end of february",
			today:        date(2024, 2, 28),
			rule:         fixed(31, 10),
			wantStart:    date(2024, 1, 31),
			wantEnd:      date(2024, 2, 29),
			wantDeadline: date(2024, 2, 10),
		},
		{
			name:         "relative window is plain day addition",
			today:        date(2024, 1, 10),
			rule:         relative(5, 22),
			wantStart:    date(2024, 1, 5),
			wantEnd:      date(2024, 2, 5),
			wantDeadline: date(2024, 1, 27),
		},
		{
			name:         "relative window crosses month",
			today:        date(2024, 2, 29),
			rule:         relative(25, 20),
			wantStart:    date(2024, 2, 25),
			wantEnd:      date(2024, 3, 25),
			wantDeadline: date(2024, 3, 16),
		},
		{
			name:         "zero window deadline is the cutoff",
			today:        date(2024, 7, 9),
			rule:         relative(9, 0),
			wantStart:    date(2024, 7, 9),
			wantEnd:      date(2024, 8, 9),
			wantDeadline: date(2024, 7, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.today, tt.rule)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.Equal(t, tt.wantDeadline, got.Deadline)
		})
	}
}

func TestResolve_Progress(t *testing.T) {
	got := Resolve(date(2024, 1, 5), fixed(5, 25))
	assert.True(t, got.Progress.IsZero())

	// 10 of 31 days elapsed
	got = Resolve(date(2024, 1, 15), fixed(5, 25))
	assert.Equal(t, "32.26", got.Progress.StringFixed(2))

	got = Resolve(date(2024, 2, 4), fixed(5, 25))
	assert.True(t, got.Progress.LessThan(decimal.NewFromInt(100)))
}

func TestResolve_TimeOfDayIgnored(t *testing.T) {
	morning := Resolve(time.Date(2024, 1, 10, 1, 0, 0, 0, time.UTC), fixed(5, 25))
	evening := Resolve(time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC), fixed(5, 25))
	assert.Equal(t, morning, evening)
}

func TestResolve_CycleContainsToday(t *testing.T) {
	for cutoff := 1; cutoff <= 31; cutoff++ {
		for _, due := range []int{1, cutoff, 15, 28, 31} {
			rule := fixed(cutoff, due)
			for d := date(2023, 12, 1); d.Before(date(2025, 3, 1)); d = d.AddDate(0, 0, 1) {
				w := Resolve(d, rule)
				if !assert.True(t, calendar.InHalfOpenRange(d, w.Start, w.End),
					"cutoff=%d today=%s window=[%s,%s)", cutoff, d.Format(time.DateOnly),
					w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly)) {
					return
				}
				wantDay := cutoff
				if last := calendar.DaysIn(w.Start.Year(), w.Start.Month()); wantDay > last {
					wantDay = last
				}
				assert.Equal(t, wantDay, w.Start.Day())
				assert.False(t, w.Progress.IsNegative())
				assert.True(t, w.Progress.LessThanOrEqual(decimal.NewFromInt(100)))
			}
		}
	}
}

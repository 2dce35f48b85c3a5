// Package period groups dated records into user-defined financial months.
package period

import (
	"fmt"
	"sort"
	"time"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/domain"
)

// DefaultStartDay applies when the caller has no configured start day.
const DefaultStartDay = 1

// MaxStartDay keeps every period start a real date in every month.
const MaxStartDay = 28

// ResolveStartDay validates a configured start day; zero means unset.
func ResolveStartDay(startDay int) (int, error) {
	if startDay == 0 {
		return DefaultStartDay, nil
	}
	if startDay < 1 || startDay > MaxStartDay {
		return 0, fmt.Errorf("%w: financial start day must be between 1 and %d, got %d",
			domain.ErrInvalidInput, MaxStartDay, startDay)
	}
	return startDay, nil
}

// Containing returns the financial period that contains date's calendar day.
func Containing(date time.Time, startDay int) domain.FinancialPeriod {
	d := calendar.DateOnly(date)
	start := calendar.DayIn(d.Year(), d.Month(), startDay)
	if d.Day() < startDay {
		start = calendar.DayIn(d.Year(), d.Month()-1, startDay)
	}
	return domain.FinancialPeriod{Start: start, End: calendar.AddMonths(start, 1)}
}

// Current returns the financial period containing now.
func Current(now time.Time, startDay int) domain.FinancialPeriod {
	return Containing(now, startDay)
}

// Previous returns the period immediately before p.
func Previous(p domain.FinancialPeriod) domain.FinancialPeriod {
	return domain.FinancialPeriod{Start: calendar.AddMonths(p.Start, -1), End: p.Start}
}

// Group is one financial period and the records that fall in it, in input order.
type Group[T domain.TransactionLike] struct {
	Period domain.FinancialPeriod
	Items  []T
}

// Bucket assigns every record to exactly one period. Groups are ordered by
// period start; periods with no records are omitted.
func Bucket[T domain.TransactionLike](txs []T, startDay int) []Group[T] {
	index := make(map[time.Time]int)
	var groups []Group[T]
	for _, tx := range txs {
		p := Containing(tx.TransactionDate(), startDay)
		i, ok := index[p.Start]
		if !ok {
			i = len(groups)
			index[p.Start] = i
			groups = append(groups, Group[T]{Period: p})
		}
		groups[i].Items = append(groups[i].Items, tx)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Period.Start.Before(groups[b].Period.Start)
	})
	return groups
}

// Within returns the records whose date falls in p.
func Within[T domain.TransactionLike](txs []T, p domain.FinancialPeriod) []T {
	var out []T
	for _, tx := range txs {
		if p.Contains(tx.TransactionDate()) {
			out = append(out, tx)
		}
	}
	return out
}

// NeedsReset reports whether a paid status recorded at lastPayment has gone
// stale because a new financial period started since.
func NeedsReset(lastPayment, today time.Time, startDay int) bool {
	return calendar.DateOnly(lastPayment).Before(Current(today, startDay).Start)
}

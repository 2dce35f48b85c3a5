package period

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-cycles/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, when time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Date:     when,
		Type:     domain.TransactionTypePayment,
		Amount:   decimal.NewFromInt(100),
		Currency: domain.CurrencyDOP,
	}
}

func TestContaining(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		startDay  int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{name: "before start day belongs to previous month", date: date(2024, 3, 10), startDay: 15, wantStart: date(2024, 2, 15), wantEnd: date(2024, 3, 15)},
		{name: "after start day belongs to current month", date: date(2024, 3, 20), startDay: 15, wantStart: date(2024, 3, 15), wantEnd: date(2024, 4, 15)},
		{name: "start day itself opens the period", date: date(2024, 3, 15), startDay: 15, wantStart: date(2024, 3, 15), wantEnd: date(2024, 4, 15)},
		{name: "calendar month with start day 1", date: date(2024, 2, 29), startDay: 1, wantStart: date(2024, 2, 1), wantEnd: date(2024, 3, 1)},
		{name: "year rollover", date: date(2025, 1, 3), startDay: 25, wantStart: date(2024, 12, 25), wantEnd: date(2025, 1, 25)},
		{name: "start day 28 across february", date: date(2023, 3, 1), startDay: 28, wantStart: date(2023, 2, 28), wantEnd: date(2023, 3, 28)},
		{name: "time of day is ignored", date: time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC), startDay: 15, wantStart: date(2024, 2, 15), wantEnd: date(2024, 3, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Containing(tt.date, tt.startDay)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.True(t, got.Contains(tt.date))
		})
	}
}

func TestPrevious(t *testing.T) {
	p := Containing(date(2024, 1, 20), 15)
	assert.Equal(t, domain.FinancialPeriod{Start: date(2023, 12, 15), End: date(2024, 1, 15)}, Previous(p))
}

func TestResolveStartDay(t *testing.T) {
	day, err := ResolveStartDay(0)
	require.NoError(t, err)
	assert.Equal(t, 1, day)

	day, err = ResolveStartDay(28)
	require.NoError(t, err)
	assert.Equal(t, 28, day)

	for _, bad := range []int{-1, 29, 31} {
		_, err := ResolveStartDay(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "start day %d", bad)
	}
}

func TestBucket(t *testing.T) {
	txs := []domain.Transaction{
		tx("a", date(2024, 3, 20)),
		tx("b", date(2024, 3, 10)),
		tx("c", date(2024, 2, 15)),
		tx("d", date(2024, 4, 14)),
	}

	groups := Bucket(txs, 15)
	require.Len(t, groups, 2)

	assert.Equal(t, date(2024, 2, 15), groups[0].Period.Start)
	assert.Equal(t, date(2024, 3, 15), groups[0].Period.End)
	assert.Equal(t, []string{"b", "c"}, ids(groups[0].Items))

	assert.Equal(t, date(2024, 3, 15), groups[1].Period.Start)
	assert.Equal(t, date(2024, 4, 15), groups[1].Period.End)
	assert.Equal(t, []string{"a", "d"}, ids(groups[1].Items))
}

func TestBucket_Empty(t *testing.T) {
	assert.Empty(t, Bucket([]domain.Transaction(nil), 1))
}

func TestBucket_PartitionsInput(t *testing.T) {
	var txs []domain.Transaction
	for i, d := 0, date(2023, 11, 3); d.Before(date(2025, 2, 1)); i, d = i+1, d.Add(61*time.Hour) {
		txs = append(txs, tx(fmt.Sprintf("tx-%d", i), d))
	}

	for _, startDay := range []int{1, 7, 15, 28} {
		groups := Bucket(txs, startDay)

		seen := make(map[string]int)
		for g, group := range groups {
			if g > 0 {
				assert.False(t, group.Period.Start.Before(groups[g-1].Period.End), "periods overlap")
			}
			for _, item := range group.Items {
				seen[item.ID]++
				assert.True(t, group.Period.Contains(item.Date), "%s outside %s", item.Date, group.Period.Start)
			}
		}
		assert.Len(t, seen, len(txs))
		for id, n := range seen {
			assert.Equal(t, 1, n, "transaction %s bucketed %d times", id, n)
		}
	}
}

func TestWithin(t *testing.T) {
	txs := []domain.Transaction{
		tx("a", date(2024, 3, 14)),
		tx("b", date(2024, 3, 15)),
		tx("c", date(2024, 4, 14)),
		tx("d", date(2024, 4, 15)),
	}
	got := Within(txs, Containing(date(2024, 4, 1), 15))
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestNeedsReset(t *testing.T) {
	today := date(2024, 3, 20)
	assert.False(t, NeedsReset(date(2024, 3, 15), today, 15))
	assert.True(t, NeedsReset(date(2024, 3, 14), today, 15))
	assert.False(t, NeedsReset(date(2024, 3, 2), date(2024, 3, 10), 1))
	assert.True(t, NeedsReset(date(2024, 2, 29), date(2024, 3, 1), 1))
}

func ids(txs []domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

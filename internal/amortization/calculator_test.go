package amortization

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-cycles/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func input(principal string, term int, rate string) domain.AmortizationInput {
	return domain.AmortizationInput{
		Principal:         dec(principal),
		TermMonths:        term,
		AnnualRatePercent: dec(rate),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		in           domain.AmortizationInput
		wantPayment  string
		wantTotal    string
		wantInterest string
	}{
		{name: "zero rate divides evenly", in: input("12000", 12, "0"), wantPayment: "1000.00", wantTotal: "12000.00", wantInterest: "0.00"},
		{name: "one percent monthly", in: input("10000", 24, "12"), wantPayment: "470.73", wantTotal: "11297.63", wantInterest: "1297.63"},
		{name: "thirty year mortgage", in: input("250000", 360, "6.5"), wantPayment: "1580.17", wantTotal: "568861.22", wantInterest: "318861.22"},
		{name: "short plan", in: input("1200", 3, "18"), wantPayment: "412.06", wantTotal: "1236.18", wantInterest: "36.18"},
		{name: "single month with interest", in: input("5000", 1, "12"), wantPayment: "5050.00", wantTotal: "5050.00", wantInterest: "50.00"},
		{name: "single month without interest", in: input("5000", 1, "0"), wantPayment: "5000.00", wantTotal: "5000.00", wantInterest: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.in)
			require.NoError(t, err)

			rounded := got.Rounded()
			assertDecimal(t, tt.wantPayment, rounded.MonthlyPayment)
			assertDecimal(t, tt.wantTotal, rounded.TotalPayment)
			assertDecimal(t, tt.wantInterest, rounded.TotalInterest)
		})
	}
}

func TestCalculate_ZeroRateIsExactDivision(t *testing.T) {
	got, err := Calculate(input("12000", 12, "0"))
	require.NoError(t, err)
	assertDecimal(t, "1000", got.MonthlyPayment)

	got, err = Calculate(input("100", 3, "0"))
	require.NoError(t, err)
	total := got.MonthlyPayment.Mul(decimal.NewFromInt(3))
	assert.True(t, total.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.03")))
	assertDecimal(t, "33.33", got.Rounded().MonthlyPayment)
}

func TestCalculate_InterestMakesTotalExceedPrincipal(t *testing.T) {
	for _, term := range []int{1, 2, 6, 12, 48, 120, 600} {
		for _, rate := range []string{"0.5", "5", "18.99", "60"} {
			got, err := Calculate(input("7500", term, rate))
			require.NoError(t, err)
			assert.True(t, got.TotalPayment.GreaterThan(dec("7500")), "term=%d rate=%s", term, rate)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	first, err := Calculate(input("98765.43", 77, "13.37"))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := Calculate(input("98765.43", 77, "13.37"))
		require.NoError(t, err)
		assert.True(t, first.MonthlyPayment.Equal(again.MonthlyPayment))
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   domain.AmortizationInput
	}{
		{name: "zero principal", in: input("0", 12, "5")},
		{name: "negative principal", in: input("-10", 12, "5")},
		{name: "zero term", in: input("1000", 0, "5")},
		{name: "negative rate", in: input("1000", 12, "-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestSchedule(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	entries, err := Schedule(input("1200", 3, "18"), start)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	want := []struct {
		due                                  time.Time
		payment, principal, interest, remain string
	}{
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "412.06", "394.06", "18.00", "805.94"},
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "412.06", "399.97", "12.09", "405.97"},
		{time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), "412.06", "405.97", "6.09", "0"},
	}
	for i, w := range want {
		e := entries[i]
		assert.Equal(t, i+1, e.Period)
		assert.Equal(t, w.due, e.DueDate)
		assertDecimal(t, w.payment, e.Payment)
		assertDecimal(t, w.principal, e.Principal)
		assertDecimal(t, w.interest, e.Interest)
		assertDecimal(t, w.remain, e.RemainingBalance)
	}
}

func TestSchedule_EndsAtZero(t *testing.T) {
	for _, rate := range []string{"0", "7.25", "24"} {
		entries, err := Schedule(input("10000", 24, rate), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, entries, 24)

		paid := decimal.Zero
		for _, e := range entries {
			paid = paid.Add(e.Principal)
			assert.False(t, e.RemainingBalance.IsNegative())
		}
		assert.True(t, entries[23].RemainingBalance.IsZero(), "rate=%s", rate)
		assertDecimal(t, "10000", paid)
	}
}

func TestSchedule_InvalidInput(t *testing.T) {
	_, err := Schedule(input("1000", -1, "5"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplitPayment(t *testing.T) {
	tests := []struct {
		name                             string
		remaining, rate, amount          string
		wantInterest, wantCapital, wantR string
	}{
		{name: "interest first", remaining: "10000", rate: "12", amount: "500", wantInterest: "100", wantCapital: "400", wantR: "9600"},
		{name: "payment below interest", remaining: "10000", rate: "12", amount: "50", wantInterest: "100", wantCapital: "0", wantR: "10000"},
		{name: "no interest", remaining: "800", rate: "0", amount: "300", wantInterest: "0", wantCapital: "300", wantR: "500"},
		{name: "overpayment floors at zero", remaining: "200", rate: "0", amount: "300", wantInterest: "0", wantCapital: "300", wantR: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPayment(dec(tt.remaining), dec(tt.rate), dec(tt.amount))
			assertDecimal(t, tt.wantInterest, got.Interest)
			assertDecimal(t, tt.wantCapital, got.Capital)
			assertDecimal(t, tt.wantR, got.RemainingBalance)
		})
	}
}

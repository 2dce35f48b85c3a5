package amortization

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/domain"
)

// Schedule lists every period of the plan. Each entry is a stored value, so
// payment and interest are rounded per period and the last period absorbs the
// rounding remainder to bring the balance to exactly zero. Period k is due k
// months after start.
func Schedule(in domain.AmortizationInput, start time.Time) ([]domain.AmortizationEntry, error) {
	res, err := Calculate(in)
	if err != nil {
		return nil, err
	}

	payment := domain.RoundDisplay(res.MonthlyPayment)
	rate := PeriodicRate(in.AnnualRatePercent)
	remaining := in.Principal

	entries := make([]domain.AmortizationEntry, 0, in.TermMonths)
	for period := 1; period <= in.TermMonths; period++ {
		interest := domain.RoundDisplay(remaining.Mul(rate))
		principal := decimal.Max(decimal.Zero, payment.Sub(interest))
		if period == in.TermMonths || principal.GreaterThan(remaining) {
			principal = remaining
		}
		remaining = remaining.Sub(principal)

		entries = append(entries, domain.AmortizationEntry{
			Period:           period,
			DueDate:          calendar.AddMonths(start, period),
			Payment:          principal.Add(interest),
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: remaining,
		})
	}
	return entries, nil
}

// SplitPayment divides a loan payment into one month of simple interest on the
// remaining balance and the capital that reduces it. A payment smaller than the
// interest reduces nothing.
func SplitPayment(remaining, annualRatePercent, amount decimal.Decimal) domain.PaymentSplit {
	interest := decimal.Zero
	if annualRatePercent.IsPositive() {
		interest = remaining.Mul(PeriodicRate(annualRatePercent))
	}
	capital := decimal.Max(decimal.Zero, amount.Sub(interest))
	return domain.PaymentSplit{
		Interest:         interest,
		Capital:          capital,
		RemainingBalance: decimal.Max(decimal.Zero, remaining.Sub(capital)),
	}
}

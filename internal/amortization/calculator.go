// Package amortization computes fixed installment payments for loans and card
// installment plans. Arithmetic is decimal throughout; results are rounded
// only by callers, at display or storage time.
package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finance-cycles/internal/domain"
)

// workPrecision bounds intermediate results so that repeated calls with the
// same input always produce the same digits.
const workPrecision = 34

var (
	one          = decimal.NewFromInt(1)
	monthsInYear = decimal.NewFromInt(12)
	percent      = decimal.NewFromInt(100)
)

// Calculate returns the fixed monthly payment for the input.
func Calculate(in domain.AmortizationInput) (domain.AmortizationResult, error) {
	if err := in.Validate(); err != nil {
		return domain.AmortizationResult{}, fmt.Errorf("amortization: %w", err)
	}

	n := decimal.NewFromInt(int64(in.TermMonths))
	payment := MonthlyPayment(in.Principal, in.TermMonths, in.AnnualRatePercent)
	total := payment.Mul(n)

	return domain.AmortizationResult{
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total.Sub(in.Principal),
	}, nil
}

// MonthlyPayment applies the standard fixed-payment formula
//
//	P * i * (1+i)^n / ((1+i)^n - 1),  i = rate / 12 / 100
//
// and falls back to P / n when the rate is zero. Inputs must already be valid.
func MonthlyPayment(principal decimal.Decimal, termMonths int, annualRatePercent decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	if annualRatePercent.IsZero() {
		return principal.Div(n)
	}

	i := PeriodicRate(annualRatePercent)
	factor := pow(one.Add(i), termMonths)
	return principal.Mul(i).Mul(factor).DivRound(factor.Sub(one), workPrecision)
}

// PeriodicRate converts an annual percentage into a monthly fraction.
func PeriodicRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(monthsInYear.Mul(percent), workPrecision)
}

// pow raises base to a non-negative integer power by squaring.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(workPrecision)
		}
		base = base.Mul(base).Round(workPrecision)
		exp >>= 1
	}
	return result
}

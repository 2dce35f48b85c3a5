// Package currency folds mixed-currency amounts into one reporting currency.
//
// Rates are supplied by the caller and applied as a single multiplication.
// This package guarantees the arithmetic for a given rate, never the accuracy
// of the rate itself.
package currency

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"finance-cycles/internal/domain"
)

// ErrMissingRate is returned when an amount's currency has no configured rate.
var ErrMissingRate = errors.New("missing exchange rate")

// ToReportingCurrency multiplies amount by rate unless currency already is the
// reporting currency, in which case amount is returned unchanged.
func ToReportingCurrency(amount decimal.Decimal, currency, reporting domain.Currency, rate decimal.Decimal) decimal.Decimal {
	if currency.Normalize() == reporting.Normalize() {
		return amount
	}
	return amount.Mul(rate)
}

// Converter holds a reporting currency and one multiplicative rate per foreign
// currency: amount in that currency × rate = amount in reporting currency.
type Converter struct {
	Reporting domain.Currency
	Rates     map[domain.Currency]decimal.Decimal
}

// NewConverter validates and normalises the rate table.
func NewConverter(reporting domain.Currency, rates map[domain.Currency]decimal.Decimal) (Converter, error) {
	reporting = reporting.Normalize()
	if reporting == "" {
		return Converter{}, fmt.Errorf("%w: reporting currency is empty", domain.ErrInvalidInput)
	}
	normalized := make(map[domain.Currency]decimal.Decimal, len(rates))
	for cur, rate := range rates {
		if !rate.IsPositive() {
			return Converter{}, fmt.Errorf("%w: rate for %s must be positive, got %s", domain.ErrInvalidInput, cur, rate)
		}
		normalized[cur.Normalize()] = rate
	}
	return Converter{Reporting: reporting, Rates: normalized}, nil
}

// ToReporting converts amount from currency into the reporting currency.
func (c Converter) ToReporting(amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error) {
	currency = currency.Normalize()
	if currency == c.Reporting {
		return amount, nil
	}
	rate, ok := c.Rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrMissingRate, currency, c.Reporting)
	}
	return ToReportingCurrency(amount, currency, c.Reporting, rate), nil
}

// Sum converts and adds every record's amount.
func Sum[T domain.TransactionLike](c Converter, txs []T) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range txs {
		v, err := c.ToReporting(tx.TransactionAmount(), tx.TransactionCurrency())
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// TotalsByCurrency adds card and loan balances as debt and fixed expenses as
// monthly expenses, per currency and without conversion.
func TotalsByCurrency(obligations []domain.Obligation) map[domain.Currency]domain.CurrencyTotals {
	totals := make(map[domain.Currency]domain.CurrencyTotals)
	for _, o := range obligations {
		cur := o.Currency.Normalize()
		t, ok := totals[cur]
		if !ok {
			t = domain.CurrencyTotals{Debt: decimal.Zero, MonthlyExpenses: decimal.Zero}
		}
		switch o.Kind {
		case domain.SourceCard, domain.SourceLoan:
			t.Debt = t.Debt.Add(o.Amount)
		case domain.SourceExpense:
			t.MonthlyExpenses = t.MonthlyExpenses.Add(o.Amount)
		}
		totals[cur] = t
	}
	return totals
}

// DebtInReporting converts every card and loan balance and adds them up.
func DebtInReporting(c Converter, obligations []domain.Obligation) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range obligations {
		if o.Kind != domain.SourceCard && o.Kind != domain.SourceLoan {
			continue
		}
		v, err := c.ToReporting(o.Amount, o.Currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s %q: %w", o.Kind, o.Name, err)
		}
		total = total.Add(v)
	}
	return total, nil
}

// MissingRates lists, sorted, the currencies of obligations that c cannot
// convert.
func MissingRates(c Converter, obligations []domain.Obligation) []domain.Currency {
	seen := make(map[domain.Currency]bool)
	var missing []domain.Currency
	for _, o := range obligations {
		cur := o.Currency.Normalize()
		if cur == c.Reporting || seen[cur] {
			continue
		}
		seen[cur] = true
		if _, ok := c.Rates[cur]; !ok {
			missing = append(missing, cur)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Projections adds up each currency's monthly outflow: fixed expenses, card
// minimum payments and loan installments.
func Projections(obligations []domain.Obligation) map[domain.Currency]domain.MonthlyProjection {
	out := make(map[domain.Currency]domain.MonthlyProjection)
	for _, o := range obligations {
		cur := o.Currency.Normalize()
		p, ok := out[cur]
		if !ok {
			p = domain.MonthlyProjection{
				FixedExpenses: decimal.Zero,
				CardMinimums:  decimal.Zero,
				LoanPayments:  decimal.Zero,
				Total:         decimal.Zero,
			}
		}
		v := o.MonthlyOutflow()
		switch o.Kind {
		case domain.SourceExpense:
			p.FixedExpenses = p.FixedExpenses.Add(v)
		case domain.SourceCard:
			p.CardMinimums = p.CardMinimums.Add(v)
		case domain.SourceLoan:
			p.LoanPayments = p.LoanPayments.Add(v)
		}
		p.Total = p.Total.Add(v)
		out[cur] = p
	}
	return out
}

// MonthlyInReporting converts every obligation's monthly outflow and adds them up.
func MonthlyInReporting(c Converter, obligations []domain.Obligation) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range obligations {
		v, err := c.ToReporting(o.MonthlyOutflow(), o.Currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s %q: %w", o.Kind, o.Name, err)
		}
		total = total.Add(v)
	}
	return total, nil
}

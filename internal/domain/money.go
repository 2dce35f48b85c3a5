package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO-like currency code such as DOP or USD.
type Currency string

const (
	CurrencyDOP Currency = "DOP"
	CurrencyUSD Currency = "USD"
)

// Normalize upper-cases and trims a currency code.
func (c Currency) Normalize() Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(string(c))))
}

// DisplayPlaces is the number of decimal places used for stored and displayed amounts.
const DisplayPlaces = 2

// Money is a decimal amount in a given currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency Currency        `json:"currency" yaml:"currency"`
}

// NewMoney builds a Money from its display string, e.g. "1250.75".
func NewMoney(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidInput, amount, err)
	}
	return Money{Amount: d, Currency: currency.Normalize()}, nil
}

// Rounded returns the amount rounded half-up to DisplayPlaces.
func (m Money) Rounded() Money {
	return Money{Amount: RoundDisplay(m.Amount), Currency: m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, RoundDisplay(m.Amount).StringFixed(DisplayPlaces))
}

// RoundDisplay rounds half away from zero to two places. For the non-negative
// amounts the engine produces this is round-half-up.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

package domain

import "github.com/shopspring/decimal"

// DefaultDueSoonDays is how close a due date must be to count as due soon.
const DefaultDueSoonDays = 3

// Settings are the user preferences every report call needs. They are passed
// in explicitly on each call; nothing in the engine reads them from storage.
type Settings struct {
	FinancialStartDay int                          `json:"financial_start_day" yaml:"financial_start_day"`
	ReportingCurrency Currency                     `json:"reporting_currency" yaml:"reporting_currency"`
	ExchangeRates     map[Currency]decimal.Decimal `json:"exchange_rates" yaml:"exchange_rates"`
	DueSoonDays       int                          `json:"due_soon_days" yaml:"due_soon_days"`
	// Budgets maps a spending category to its monthly limit in the reporting currency.
	Budgets map[string]decimal.Decimal `json:"budgets,omitempty" yaml:"budgets,omitempty"`
}

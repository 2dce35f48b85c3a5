package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceTotals splits a period total by obligation kind, in reporting currency.
type SourceTotals struct {
	Cards    decimal.Decimal `json:"cards" yaml:"cards"`
	Loans    decimal.Decimal `json:"loans" yaml:"loans"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
}

// Summary provides high-level statistics of one financial period.
type Summary struct {
	PeriodStart       string          `json:"period_start" yaml:"period_start"`
	PeriodEnd         string          `json:"period_end" yaml:"period_end"`
	FinancialStartDay int             `json:"financial_start_day" yaml:"financial_start_day"`
	ReportingCurrency Currency        `json:"reporting_currency" yaml:"reporting_currency"`
	TotalTransactions int             `json:"total_transactions" yaml:"total_transactions"`
	Total             decimal.Decimal `json:"total" yaml:"total"`
	PreviousTotal     decimal.Decimal `json:"previous_total" yaml:"previous_total"`
	PercentageChange  decimal.Decimal `json:"percentage_change" yaml:"percentage_change"`
}

// PeriodTotal is the converted total of one historical bucket.
type PeriodTotal struct {
	PeriodStart  string          `json:"period_start" yaml:"period_start"`
	PeriodEnd    string          `json:"period_end" yaml:"period_end"`
	Transactions int             `json:"transactions" yaml:"transactions"`
	Total        decimal.Decimal `json:"total" yaml:"total"`
}

// MonthlyReport is the top-level structure for the monthly report output.
type MonthlyReport struct {
	Summary      Summary         `json:"summary" yaml:"summary"`
	BySource     SourceTotals    `json:"by_source" yaml:"by_source"`
	Categories   []CategorySpend `json:"categories,omitempty" yaml:"categories,omitempty"`
	Transactions []Transaction   `json:"transactions" yaml:"transactions"`
	History      []PeriodTotal   `json:"history" yaml:"history"`
}

// CategorySpend is the period's spending in one category against its budget.
// Limit and Percentage stay zero when the category has no budget.
type CategorySpend struct {
	Category   string          `json:"category" yaml:"category"`
	Spent      decimal.Decimal `json:"spent" yaml:"spent"`
	Limit      decimal.Decimal `json:"limit" yaml:"limit"`
	Percentage decimal.Decimal `json:"percentage" yaml:"percentage"`
	OverBudget bool            `json:"over_budget" yaml:"over_budget"`
}

// UpcomingPayment is one obligation's next due date relative to today.
type UpcomingPayment struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Kind     Source    `json:"kind" yaml:"kind"`
	Currency Currency  `json:"currency" yaml:"currency"`
	Amount   Money     `json:"amount" yaml:"amount"`
	DueDate  time.Time `json:"due_date" yaml:"due_date"`
	DaysLeft int       `json:"days_left" yaml:"days_left"`
	DueSoon  bool      `json:"due_soon" yaml:"due_soon"`
}

// CurrencyTotals holds unconverted debt and recurring-expense totals per currency.
type CurrencyTotals struct {
	Debt            decimal.Decimal `json:"debt" yaml:"debt"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses" yaml:"monthly_expenses"`
}

// MonthlyProjection is the expected outflow of a typical month in one currency.
type MonthlyProjection struct {
	FixedExpenses   decimal.Decimal `json:"fixed_expenses" yaml:"fixed_expenses"`
	CardMinimums    decimal.Decimal `json:"card_minimums" yaml:"card_minimums"`
	LoanPayments    decimal.Decimal `json:"loan_payments" yaml:"loan_payments"`
	Total           decimal.Decimal `json:"total" yaml:"total"`
}

// InstallmentProgress is one active card installment plan.
type InstallmentProgress struct {
	ID            string          `json:"id" yaml:"id"`
	Description   string          `json:"description" yaml:"description"`
	CardID        string          `json:"card_id" yaml:"card_id"`
	CardName      string          `json:"card_name" yaml:"card_name"`
	Currency      Currency        `json:"currency" yaml:"currency"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	Current       int             `json:"current" yaml:"current"`
	Total         int             `json:"total" yaml:"total"`
	Remaining     decimal.Decimal `json:"remaining" yaml:"remaining"`
	Progress      decimal.Decimal `json:"progress" yaml:"progress"`
}

// UpcomingReport lists the next due date of every unpaid obligation.
// Converted and ConvertedMonthly are nil when a currency in use has no rate;
// those currencies are listed in MissingRates.
type UpcomingReport struct {
	Today            string                         `json:"today" yaml:"today"`
	DueSoon          int                            `json:"due_soon" yaml:"due_soon"`
	Payments         []UpcomingPayment              `json:"payments" yaml:"payments"`
	Reset            []string                       `json:"reset,omitempty" yaml:"reset,omitempty"`
	Totals           map[Currency]CurrencyTotals    `json:"totals" yaml:"totals"`
	Projection       map[Currency]MonthlyProjection `json:"projection" yaml:"projection"`
	Installments     []InstallmentProgress          `json:"installments,omitempty" yaml:"installments,omitempty"`
	Converted        *decimal.Decimal               `json:"converted_debt,omitempty" yaml:"converted_debt,omitempty"`
	ConvertedMonthly *decimal.Decimal               `json:"converted_monthly,omitempty" yaml:"converted_monthly,omitempty"`
	MissingRates     []Currency                     `json:"missing_rates,omitempty" yaml:"missing_rates,omitempty"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the nature of a history entry.
type TransactionType string

const (
	TransactionTypePayment   TransactionType = "PAYMENT"
	TransactionTypeStatement TransactionType = "STATEMENT"
	TransactionTypePurchase  TransactionType = "PURCHASE"
)

// Source identifies which kind of obligation produced a transaction.
type Source string

const (
	SourceCard    Source = "CARD"
	SourceLoan    Source = "LOAN"
	SourceExpense Source = "EXPENSE"
)

// TransactionLike is the capability shape the engine buckets and aggregates.
// Cards, loans and fixed expenses all expose their history through it.
type TransactionLike interface {
	TransactionDate() time.Time
	TransactionAmount() decimal.Decimal
	TransactionCurrency() Currency
}

// Transaction is a single history entry of a card, loan or fixed expense.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        time.Time       `json:"date" yaml:"date"`
	Type        TransactionType `json:"type" yaml:"type"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Currency    Currency        `json:"currency" yaml:"currency"`
	Source      Source          `json:"source" yaml:"source"`
	SourceName  string          `json:"source_name" yaml:"source_name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
}

func (t Transaction) TransactionDate() time.Time         { return t.Date }
func (t Transaction) TransactionAmount() decimal.Decimal { return t.Amount }
func (t Transaction) TransactionCurrency() Currency      { return t.Currency }

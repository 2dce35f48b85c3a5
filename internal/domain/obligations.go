package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is the recurring-date view of a card, loan or fixed expense record.
// Only the fields relevant to its Kind are populated.
type Obligation struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Kind     Source          `json:"kind" yaml:"kind"`
	Currency Currency        `json:"currency" yaml:"currency"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`

	// Cards
	CutoffDay         int             `json:"cutoff_day,omitempty" yaml:"cutoff_day,omitempty"`
	PaymentDueDay     int             `json:"payment_due_day,omitempty" yaml:"payment_due_day,omitempty"`
	PaymentWindowDays int             `json:"payment_window_days,omitempty" yaml:"payment_window_days,omitempty"`
	MinimumPayment    decimal.Decimal `json:"minimum_payment" yaml:"minimum_payment"`
	Installments      []Installment   `json:"installments,omitempty" yaml:"installments,omitempty"`

	// Loans
	PaymentDay     int             `json:"payment_day,omitempty" yaml:"payment_day,omitempty"`
	InterestRate   decimal.Decimal `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment" yaml:"monthly_payment"`

	// Fixed expenses
	DueDay      int        `json:"due_day,omitempty" yaml:"due_day,omitempty"`
	IsPaid      bool       `json:"is_paid,omitempty" yaml:"is_paid,omitempty"`
	LastPayment *time.Time `json:"last_payment,omitempty" yaml:"last_payment,omitempty"`
}

// Recurrence maps the record's stored day fields to a RecurrenceRule.
func (o Obligation) Recurrence() (RecurrenceRule, error) {
	switch o.Kind {
	case SourceCard:
		rule, err := NewCardCycleRule(o.CutoffDay, o.PaymentDueDay, o.PaymentWindowDays)
		if err != nil {
			return RecurrenceRule{}, fmt.Errorf("card %q: %w", o.Name, err)
		}
		return rule.Recurrence(), nil
	case SourceLoan:
		rule, err := NewFixedDayRule(o.PaymentDay)
		if err != nil {
			return RecurrenceRule{}, fmt.Errorf("loan %q: %w", o.Name, err)
		}
		return rule, nil
	case SourceExpense:
		rule, err := NewFixedDayRule(o.DueDay)
		if err != nil {
			return RecurrenceRule{}, fmt.Errorf("expense %q: %w", o.Name, err)
		}
		return rule, nil
	default:
		return RecurrenceRule{}, fmt.Errorf("%w: obligation %q has unknown kind %q", ErrInvalidInput, o.Name, o.Kind)
	}
}

// MonthlyOutflow is what the obligation costs in a typical month: the minimum
// payment of a card, the installment of a loan or the amount of a fixed expense.
func (o Obligation) MonthlyOutflow() decimal.Decimal {
	switch o.Kind {
	case SourceCard:
		return o.MinimumPayment
	case SourceLoan:
		return o.MonthlyPayment
	case SourceExpense:
		return o.Amount
	default:
		return decimal.Zero
	}
}

// Installment is a purchase financed in equal monthly amounts on a card.
// CurrentInstallment counts the installments already billed.
type Installment struct {
	ID                 string          `json:"id" yaml:"id"`
	Description        string          `json:"description" yaml:"description"`
	MonthlyAmount      decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	TotalInstallments  int             `json:"total_installments" yaml:"total_installments"`
	CurrentInstallment int             `json:"current_installment" yaml:"current_installment"`
}

func (i Installment) Validate() error {
	if i.TotalInstallments <= 0 {
		return fmt.Errorf("%w: installment %q needs a positive total, got %d", ErrInvalidInput, i.ID, i.TotalInstallments)
	}
	if i.CurrentInstallment < 0 || i.CurrentInstallment > i.TotalInstallments {
		return fmt.Errorf("%w: installment %q is at %d of %d", ErrInvalidInput, i.ID, i.CurrentInstallment, i.TotalInstallments)
	}
	if i.MonthlyAmount.IsNegative() {
		return fmt.Errorf("%w: installment %q has a negative monthly amount", ErrInvalidInput, i.ID)
	}
	return nil
}

// Remaining is the amount still to be billed: MonthlyAmount for every
// installment after the current one.
func (i Installment) Remaining() decimal.Decimal {
	left := i.TotalInstallments - i.CurrentInstallment
	if left <= 0 {
		return decimal.Zero
	}
	return i.MonthlyAmount.Mul(decimal.NewFromInt(int64(left)))
}

// Progress is the share of installments billed, as a percentage in [0, 100].
func (i Installment) Progress() decimal.Decimal {
	if i.TotalInstallments <= 0 {
		return decimal.Zero
	}
	p := decimal.NewFromInt(int64(i.CurrentInstallment)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(i.TotalInstallments)))
	return decimal.Min(decimal.Max(p, decimal.Zero), decimal.NewFromInt(100)).Round(DisplayPlaces)
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RuleKind tags the RecurrenceRule variant.
type RuleKind string

const (
	RuleFixedDay       RuleKind = "FIXED_DAY"
	RuleRelativeWindow RuleKind = "RELATIVE_WINDOW"
)

// RecurrenceRule describes when a monthly obligation falls due. A FixedDay rule
// uses Day; a RelativeWindow rule uses Day as the anchor and adds WindowDays.
// Day is clamped to the length of whatever month it is applied to.
type RecurrenceRule struct {
	Kind       RuleKind `json:"kind" yaml:"kind"`
	Day        int      `json:"day" yaml:"day"`
	WindowDays int      `json:"window_days,omitempty" yaml:"window_days,omitempty"`
}

// NewFixedDayRule returns a validated rule due on the same day every month.
func NewFixedDayRule(day int) (RecurrenceRule, error) {
	r := RecurrenceRule{Kind: RuleFixedDay, Day: day}
	return r, r.Validate()
}

// NewRelativeWindowRule returns a validated rule due windowDays after anchorDay.
func NewRelativeWindowRule(anchorDay, windowDays int) (RecurrenceRule, error) {
	r := RecurrenceRule{Kind: RuleRelativeWindow, Day: anchorDay, WindowDays: windowDays}
	return r, r.Validate()
}

// Validate rejects days outside 1..31 and negative windows.
func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RuleFixedDay:
		return ValidateDay("day", r.Day)
	case RuleRelativeWindow:
		if err := ValidateDay("anchor day", r.Day); err != nil {
			return err
		}
		return ValidateWindow(r.WindowDays)
	default:
		return fmt.Errorf("%w: unknown rule kind %q", ErrInvalidInput, r.Kind)
	}
}

// DeadlineMode selects how a billing cycle's payment deadline is derived.
type DeadlineMode string

const (
	DeadlineFixedDay       DeadlineMode = "FIXED_DAY"
	DeadlineRelativeWindow DeadlineMode = "RELATIVE_WINDOW"
)

// CycleRule is the billing configuration of a credit card. DueDay applies in
// DeadlineFixedDay mode and WindowDays in DeadlineRelativeWindow mode.
type CycleRule struct {
	CutoffDay  int          `json:"cutoff_day" yaml:"cutoff_day"`
	Mode       DeadlineMode `json:"mode" yaml:"mode"`
	DueDay     int          `json:"due_day,omitempty" yaml:"due_day,omitempty"`
	WindowDays int          `json:"window_days,omitempty" yaml:"window_days,omitempty"`
}

// NewCardCycleRule maps the stored card fields to a rule. A positive window
// takes precedence over the fixed due day.
func NewCardCycleRule(cutoffDay, paymentDueDay, paymentWindowDays int) (CycleRule, error) {
	r := CycleRule{CutoffDay: cutoffDay, Mode: DeadlineFixedDay, DueDay: paymentDueDay}
	if paymentWindowDays > 0 {
		r = CycleRule{CutoffDay: cutoffDay, Mode: DeadlineRelativeWindow, WindowDays: paymentWindowDays}
	}
	return r, r.Validate()
}

// Validate checks the cutoff day and the field used by the rule's mode.
func (r CycleRule) Validate() error {
	if err := ValidateDay("cutoff day", r.CutoffDay); err != nil {
		return err
	}
	switch r.Mode {
	case DeadlineFixedDay:
		return ValidateDay("due day", r.DueDay)
	case DeadlineRelativeWindow:
		return ValidateWindow(r.WindowDays)
	default:
		return fmt.Errorf("%w: unknown deadline mode %q", ErrInvalidInput, r.Mode)
	}
}

// Recurrence returns the rule that yields the card's next payment date.
func (r CycleRule) Recurrence() RecurrenceRule {
	if r.Mode == DeadlineRelativeWindow {
		return RecurrenceRule{Kind: RuleRelativeWindow, Day: r.CutoffDay, WindowDays: r.WindowDays}
	}
	return RecurrenceRule{Kind: RuleFixedDay, Day: r.DueDay}
}

// CycleWindow is the half-open billing cycle [Start, End) containing a date.
// Progress is the elapsed share of the cycle as a percentage in [0, 100].
type CycleWindow struct {
	Start    time.Time       `json:"start" yaml:"start"`
	End      time.Time       `json:"end" yaml:"end"`
	Deadline time.Time       `json:"deadline" yaml:"deadline"`
	Progress decimal.Decimal `json:"progress" yaml:"progress"`
}

// AmortizationInput holds the terms of an installment plan or loan.
type AmortizationInput struct {
	Principal         decimal.Decimal `json:"principal" yaml:"principal"`
	TermMonths        int             `json:"term_months" yaml:"term_months"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent" yaml:"annual_rate_percent"`
}

// Validate requires a positive principal and term and a non-negative rate.
func (in AmortizationInput) Validate() error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidInput, in.Principal)
	}
	if in.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be a positive number of months, got %d", ErrInvalidInput, in.TermMonths)
	}
	if in.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative, got %s", ErrInvalidInput, in.AnnualRatePercent)
	}
	return nil
}

// AmortizationResult keeps full precision; call Rounded before display or storage.
type AmortizationResult struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment" yaml:"monthly_payment"`
	TotalPayment   decimal.Decimal `json:"total_payment" yaml:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest" yaml:"total_interest"`
}

// Rounded returns a copy with every amount rounded to display precision.
func (r AmortizationResult) Rounded() AmortizationResult {
	return AmortizationResult{
		MonthlyPayment: RoundDisplay(r.MonthlyPayment),
		TotalPayment:   RoundDisplay(r.TotalPayment),
		TotalInterest:  RoundDisplay(r.TotalInterest),
	}
}

// AmortizationEntry is one period of an amortization schedule.
type AmortizationEntry struct {
	Period           int             `json:"period" yaml:"period"`
	DueDate          time.Time       `json:"due_date" yaml:"due_date"`
	Payment          decimal.Decimal `json:"payment" yaml:"payment"`
	Principal        decimal.Decimal `json:"principal" yaml:"principal"`
	Interest         decimal.Decimal `json:"interest" yaml:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" yaml:"remaining_balance"`
}

// PaymentSplit is how a loan payment divides between interest and capital.
type PaymentSplit struct {
	Interest         decimal.Decimal `json:"interest" yaml:"interest"`
	Capital          decimal.Decimal `json:"capital" yaml:"capital"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" yaml:"remaining_balance"`
}

// Rounded returns a copy with every amount rounded to display precision.
func (s PaymentSplit) Rounded() PaymentSplit {
	return PaymentSplit{
		Interest:         RoundDisplay(s.Interest),
		Capital:          RoundDisplay(s.Capital),
		RemainingBalance: RoundDisplay(s.RemainingBalance),
	}
}

// FinancialPeriod is a half-open user-defined month [Start, End).
type FinancialPeriod struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether the calendar date of t falls inside the period.
func (p FinancialPeriod) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && d.Before(p.End)
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/currency"
	"finance-cycles/internal/cycle"
	"finance-cycles/internal/domain"
	"finance-cycles/internal/period"
)

// UpcomingUseCase lists the next due date of every card, loan and unpaid
// fixed expense.
type UpcomingUseCase struct {
	repo ObligationRepository
}

// NewUpcomingUseCase creates a new instance of the usecase.
func NewUpcomingUseCase(repo ObligationRepository) *UpcomingUseCase {
	return &UpcomingUseCase{repo: repo}
}

// Upcoming resolves due dates relative to today. Fixed expenses marked paid in
// an earlier financial period are treated as unpaid again and listed in Reset.
func (uc *UpcomingUseCase) Upcoming(ctx context.Context, path string, today time.Time, settings domain.Settings) (*domain.UpcomingReport, error) {
	logger := zerolog.Ctx(ctx)

	startDay, err := period.ResolveStartDay(settings.FinancialStartDay)
	if err != nil {
		return nil, err
	}
	conv, err := currency.NewConverter(settings.ReportingCurrency, settings.ExchangeRates)
	if err != nil {
		return nil, err
	}
	threshold := settings.DueSoonDays
	if threshold <= 0 {
		threshold = domain.DefaultDueSoonDays
	}

	obligations, err := uc.repo.GetObligations(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not get obligations: %w", err)
	}

	t := calendar.DateOnly(today)
	report := &domain.UpcomingReport{
		Today:    t.Format(time.DateOnly),
		Payments: make([]domain.UpcomingPayment, 0, len(obligations)),
	}

	for _, o := range obligations {
		if o.Kind == domain.SourceExpense && o.IsPaid {
			if o.LastPayment == nil || !period.NeedsReset(*o.LastPayment, t, startDay) {
				continue
			}
			logger.Debug().Str("expense", o.Name).Msg("paid status predates current period, resetting")
			report.Reset = append(report.Reset, o.ID)
		}

		rule, err := o.Recurrence()
		if err != nil {
			return nil, err
		}
		due := cycle.NextOccurrence(t, rule)
		left := calendar.DaysBetween(t, due)
		soon := calendar.DueWithin(t, due, threshold)
		if soon {
			report.DueSoon++
		}

		amount := domain.Money{Amount: o.Amount, Currency: o.Currency.Normalize()}.Rounded()
		logger.Debug().
			Str("obligation", o.Name).
			Str("amount", amount.String()).
			Str("due", due.Format(time.DateOnly)).
			Msg("next due date resolved")

		report.Payments = append(report.Payments, domain.UpcomingPayment{
			ID:       o.ID,
			Name:     o.Name,
			Kind:     o.Kind,
			Currency: amount.Currency,
			Amount:   amount,
			DueDate:  due,
			DaysLeft: left,
			DueSoon:  soon,
		})
	}

	sort.SliceStable(report.Payments, func(i, j int) bool {
		a, b := report.Payments[i], report.Payments[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.Name < b.Name
	})

	installments, err := installmentProgress(obligations)
	if err != nil {
		return nil, err
	}
	report.Installments = installments
	report.Totals = currency.TotalsByCurrency(obligations)
	report.Projection = currency.Projections(obligations)

	// Without a rate the per-currency totals still stand; only the converted
	// figures are left out.
	if missing := currency.MissingRates(conv, obligations); len(missing) > 0 {
		report.MissingRates = missing
		logger.Warn().
			Interface("currencies", missing).
			Str("reporting_currency", string(conv.Reporting)).
			Msg("exchange rates missing, skipping converted totals")
	} else {
		debt, err := currency.DebtInReporting(conv, obligations)
		if err != nil {
			return nil, err
		}
		monthly, err := currency.MonthlyInReporting(conv, obligations)
		if err != nil {
			return nil, err
		}
		debt, monthly = domain.RoundDisplay(debt), domain.RoundDisplay(monthly)
		report.Converted = &debt
		report.ConvertedMonthly = &monthly
	}

	logger.Info().
		Int("obligations", len(obligations)).
		Int("due_soon", report.DueSoon).
		Msg("upcoming payments resolved")

	return report, nil
}

// installmentProgress flattens the installment plans of every card that still
// has installments left to bill.
func installmentProgress(obligations []domain.Obligation) ([]domain.InstallmentProgress, error) {
	var out []domain.InstallmentProgress
	for _, o := range obligations {
		if o.Kind != domain.SourceCard {
			continue
		}
		for _, inst := range o.Installments {
			if err := inst.Validate(); err != nil {
				return nil, fmt.Errorf("card %q: %w", o.Name, err)
			}
			if inst.CurrentInstallment >= inst.TotalInstallments {
				continue
			}
			out = append(out, domain.InstallmentProgress{
				ID:            inst.ID,
				Description:   inst.Description,
				CardID:        o.ID,
				CardName:      o.Name,
				Currency:      o.Currency.Normalize(),
				MonthlyAmount: domain.RoundDisplay(inst.MonthlyAmount),
				Current:       inst.CurrentInstallment,
				Total:         inst.TotalInstallments,
				Remaining:     domain.RoundDisplay(inst.Remaining()),
				Progress:      inst.Progress(),
			})
		}
	}
	return out, nil
}

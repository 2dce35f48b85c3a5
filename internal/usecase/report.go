package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finance-cycles/internal/currency"
	"finance-cycles/internal/domain"
	"finance-cycles/internal/period"
)

var hundred = decimal.NewFromInt(100)

// ReportUseCase builds the monthly payments report for a financial period.
type ReportUseCase struct {
	repo TransactionRepository
}

// NewReportUseCase creates a new instance of the usecase.
func NewReportUseCase(repo TransactionRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// MonthlyReport reports the payments made in the financial period containing
// reference, compared with the period before it.
func (uc *ReportUseCase) MonthlyReport(ctx context.Context, paths []string, reference time.Time, settings domain.Settings) (*domain.MonthlyReport, error) {
	logger := zerolog.Ctx(ctx)

	startDay, err := period.ResolveStartDay(settings.FinancialStartDay)
	if err != nil {
		return nil, err
	}
	conv, err := currency.NewConverter(settings.ReportingCurrency, settings.ExchangeRates)
	if err != nil {
		return nil, err
	}

	// Step 1: Data Ingestion
	all, err := uc.repo.GetTransactions(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}
	payments := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Type == domain.TransactionTypePayment {
			payments = append(payments, tx)
		}
	}
	logger.Debug().
		Int("transactions", len(all)).
		Int("payments", len(payments)).
		Msg("transactions loaded")

	// Step 2: Period selection
	current := period.Containing(reference, startDay)
	previous := period.Previous(current)
	currentTxs := period.Within(payments, current)
	previousTxs := period.Within(payments, previous)

	// Step 3: Totals
	total, err := currency.Sum(conv, currentTxs)
	if err != nil {
		return nil, fmt.Errorf("could not total current period: %w", err)
	}
	previousTotal, err := currency.Sum(conv, previousTxs)
	if err != nil {
		return nil, fmt.Errorf("could not total previous period: %w", err)
	}
	bySource, err := totalsBySource(conv, currentTxs)
	if err != nil {
		return nil, err
	}

	history, err := periodHistory(conv, payments, startDay)
	if err != nil {
		return nil, err
	}
	categories, err := categorySpend(conv, period.Within(all, current), settings.Budgets)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(currentTxs, func(i, j int) bool {
		return currentTxs[i].Date.After(currentTxs[j].Date)
	})

	report := &domain.MonthlyReport{
		Summary: domain.Summary{
			PeriodStart:       current.Start.Format(time.DateOnly),
			PeriodEnd:         current.End.Format(time.DateOnly),
			FinancialStartDay: startDay,
			ReportingCurrency: conv.Reporting,
			TotalTransactions: len(currentTxs),
			Total:             domain.RoundDisplay(total),
			PreviousTotal:     domain.RoundDisplay(previousTotal),
			PercentageChange:  percentageChange(total, previousTotal),
		},
		BySource:     bySource,
		Categories:   categories,
		Transactions: currentTxs,
		History:      history,
	}
	if report.Transactions == nil {
		report.Transactions = make([]domain.Transaction, 0)
	}

	logger.Info().
		Str("period_start", report.Summary.PeriodStart).
		Int("payments", report.Summary.TotalTransactions).
		Str("total", report.Summary.Total.StringFixed(domain.DisplayPlaces)).
		Msg("monthly report built")

	return report, nil
}

func totalsBySource(conv currency.Converter, txs []domain.Transaction) (domain.SourceTotals, error) {
	totals := domain.SourceTotals{Cards: decimal.Zero, Loans: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		v, err := conv.ToReporting(tx.Amount, tx.Currency)
		if err != nil {
			return domain.SourceTotals{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		switch tx.Source {
		case domain.SourceCard:
			totals.Cards = totals.Cards.Add(v)
		case domain.SourceLoan:
			totals.Loans = totals.Loans.Add(v)
		case domain.SourceExpense:
			totals.Expenses = totals.Expenses.Add(v)
		}
	}
	totals.Cards = domain.RoundDisplay(totals.Cards)
	totals.Loans = domain.RoundDisplay(totals.Loans)
	totals.Expenses = domain.RoundDisplay(totals.Expenses)
	return totals, nil
}

// categorySpend totals categorised payments and purchases of one period and
// compares each category with its budget. Statements are balances, not
// spending, and are skipped.
func categorySpend(conv currency.Converter, txs []domain.Transaction, budgets map[string]decimal.Decimal) ([]domain.CategorySpend, error) {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Category == "" || tx.Type == domain.TransactionTypeStatement {
			continue
		}
		v, err := conv.ToReporting(tx.Amount, tx.Currency)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		total, ok := spent[tx.Category]
		if !ok {
			total = decimal.Zero
		}
		spent[tx.Category] = total.Add(v)
	}
	for category := range budgets {
		if _, ok := spent[category]; !ok {
			spent[category] = decimal.Zero
		}
	}

	out := make([]domain.CategorySpend, 0, len(spent))
	for category, total := range spent {
		c := domain.CategorySpend{
			Category:   category,
			Spent:      domain.RoundDisplay(total),
			Limit:      decimal.Zero,
			Percentage: decimal.Zero,
		}
		if limit, ok := budgets[category]; ok && limit.IsPositive() {
			c.Limit = domain.RoundDisplay(limit)
			c.Percentage = decimal.Min(total.Mul(hundred).Div(limit), hundred).Round(2)
			c.OverBudget = total.GreaterThan(limit)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func periodHistory(conv currency.Converter, txs []domain.Transaction, startDay int) ([]domain.PeriodTotal, error) {
	groups := period.Bucket(txs, startDay)
	history := make([]domain.PeriodTotal, 0, len(groups))
	for _, g := range groups {
		total, err := currency.Sum(conv, g.Items)
		if err != nil {
			return nil, fmt.Errorf("could not total period %s: %w", g.Period.Start.Format(time.DateOnly), err)
		}
		history = append(history, domain.PeriodTotal{
			PeriodStart:  g.Period.Start.Format(time.DateOnly),
			PeriodEnd:    g.Period.End.Format(time.DateOnly),
			Transactions: len(g.Items),
			Total:        domain.RoundDisplay(total),
		})
	}
	return history, nil
}

// percentageChange is 100 for a first period with spending and 0 when both
// periods are empty.
func percentageChange(current, previous decimal.Decimal) decimal.Decimal {
	switch {
	case previous.IsPositive():
		return current.Sub(previous).Mul(hundred).Div(previous).Round(2)
	case current.IsPositive():
		return hundred
	default:
		return decimal.Zero
	}
}

package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finance-cycles/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obligationsYAML = `
cards:
  - id: visa
    name: Visa Gold
    currency: dop
    amount: "1500.50"
    minimum_payment: "75"
    cutoff_day: 5
    payment_due_day: 1
    installments:
      - id: tv
        description: TV
        monthly_amount: "3500"
        total_installments: 12
        current_installment: 4
  - id: amex
    name: Amex
    currency: USD
    amount: "100"
    cutoff_day: 10
    payment_window_days: 25
loans:
  - id: car
    name: Car
    currency: DOP
    amount: "250000"
    payment_day: 31
    interest_rate: "12"
    monthly_payment: "12000"
expenses:
  - id: rent
    name: Rent
    currency: DOP
    amount: "30000"
    due_day: 15
    is_paid: true
    last_payment: 2024-01-14T00:00:00Z
`

func TestYAMLObligationRepository_GetObligations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obligations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(obligationsYAML), 0o600))

	repo := NewYAMLObligationRepository()
	got, err := repo.GetObligations(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 4)

	tests := []struct {
		id       string
		kind     domain.Source
		currency domain.Currency
		amount   string
	}{
		{"visa", domain.SourceCard, domain.CurrencyDOP, "1500.50"},
		{"amex", domain.SourceCard, domain.CurrencyUSD, "100"},
		{"car", domain.SourceLoan, domain.CurrencyDOP, "250000"},
		{"rent", domain.SourceExpense, domain.CurrencyDOP, "30000"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.id, got[i].ID)
		assert.Equal(t, tt.kind, got[i].Kind, tt.id)
		assert.Equal(t, tt.currency, got[i].Currency, tt.id)
		assert.True(t, decimal.RequireFromString(tt.amount).Equal(got[i].Amount), tt.id)
	}

	assert.True(t, decimal.RequireFromString("75").Equal(got[0].MinimumPayment))
	require.Len(t, got[0].Installments, 1)
	assert.Equal(t, 12, got[0].Installments[0].TotalInstallments)
	assert.Equal(t, 4, got[0].Installments[0].CurrentInstallment)
	assert.True(t, decimal.RequireFromString("3500").Equal(got[0].Installments[0].MonthlyAmount))
	assert.Equal(t, 25, got[1].PaymentWindowDays)
	assert.True(t, decimal.RequireFromString("12000").Equal(got[2].MonthlyPayment))
	assert.Equal(t, 31, got[2].PaymentDay)
	assert.True(t, decimal.RequireFromString("12").Equal(got[2].InterestRate))
	assert.True(t, got[3].IsPaid)
	require.NotNil(t, got[3].LastPayment)
	assert.Equal(t, mustParseDate("2024-01-14"), got[3].LastPayment.UTC())

	rule, err := got[1].Recurrence()
	require.NoError(t, err)
	assert.Equal(t, domain.RuleRelativeWindow, rule.Kind)
}

func TestYAMLObligationRepository_GetObligations_Errors(t *testing.T) {
	repo := NewYAMLObligationRepository()
	ctx := context.Background()

	t.Run("file not found", func(t *testing.T) {
		_, err := repo.GetObligations(ctx, "nonexistent.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cards: [unterminated"), 0o600))

		_, err := repo.GetObligations(ctx, path)
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		got, err := repo.GetObligations(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

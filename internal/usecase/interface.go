package usecase

import (
	"context"

	"finance-cycles/internal/domain"
)

// TransactionRepository defines the interface for fetching payment histories.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	GetTransactions(ctx context.Context, paths []string) ([]domain.Transaction, error)
}

// ObligationRepository loads the cards, loans and fixed expenses of a user.
type ObligationRepository interface {
	GetObligations(ctx context.Context, path string) ([]domain.Obligation, error)
}

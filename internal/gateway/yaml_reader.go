package gateway

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"finance-cycles/internal/domain"
)

type obligationsFile struct {
	Cards    []domain.Obligation `yaml:"cards"`
	Loans    []domain.Obligation `yaml:"loans"`
	Expenses []domain.Obligation `yaml:"expenses"`
}

// YAMLObligationRepository implements the ObligationRepository interface for a
// YAML file with cards, loans and expenses sections.
type YAMLObligationRepository struct{}

// NewYAMLObligationRepository creates a new repository instance.
func NewYAMLObligationRepository() *YAMLObligationRepository {
	return &YAMLObligationRepository{}
}

// GetObligations reads the file and tags each entry with its section's kind.
func (r *YAMLObligationRepository) GetObligations(ctx context.Context, path string) ([]domain.Obligation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open obligations file %s: %w", path, err)
	}

	var file obligationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse obligations file %s: %w", path, err)
	}

	out := make([]domain.Obligation, 0, len(file.Cards)+len(file.Loans)+len(file.Expenses))
	for _, section := range []struct {
		kind  domain.Source
		items []domain.Obligation
	}{
		{domain.SourceCard, file.Cards},
		{domain.SourceLoan, file.Loans},
		{domain.SourceExpense, file.Expenses},
	} {
		for _, o := range section.items {
			o.Kind = section.kind
			o.Currency = o.Currency.Normalize()
			out = append(out, o)
		}
	}
	return out, nil
}

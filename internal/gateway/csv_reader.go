package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finance-cycles/internal/domain"
)

// Column order shared by CSV and XLSX histories.
const (
	colID = iota
	colDate
	colType
	colAmount
	colCurrency
	colSource
	colSourceName
	colDescription
	colCategory
	minColumns = colSourceName + 1
)

// FileTransactionRepository implements the TransactionRepository interface for
// CSV and XLSX payment histories.
type FileTransactionRepository struct{}

// NewFileTransactionRepository creates a new repository instance.
func NewFileTransactionRepository() *FileTransactionRepository {
	return &FileTransactionRepository{}
}

// GetTransactions reads and parses every history file. The file extension picks
// the format.
func (r *FileTransactionRepository) GetTransactions(ctx context.Context, paths []string) ([]domain.Transaction, error) {
	var all []domain.Transaction
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			txs []domain.Transaction
			err error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			txs, err = readXLSX(path)
		default:
			txs, err = readCSV(path)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	return all, nil
}

func readCSV(path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	var transactions []domain.Transaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		tx, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func parseRecord(record []string) (domain.Transaction, error) {
	if len(record) < minColumns {
		return domain.Transaction{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(record))
	}

	date, err := parseDate(strings.TrimSpace(record[colDate]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("could not parse date '%s': %w", record[colDate], err)
	}

	money, err := domain.NewMoney(strings.TrimSpace(record[colAmount]), domain.Currency(record[colCurrency]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("could not parse amount: %w", err)
	}

	tx := domain.Transaction{
		ID:         strings.TrimSpace(record[colID]),
		Date:       date,
		Type:       domain.TransactionType(strings.ToUpper(strings.TrimSpace(record[colType]))),
		Amount:     money.Amount,
		Currency:   money.Currency,
		Source:     domain.Source(strings.ToUpper(strings.TrimSpace(record[colSource]))),
		SourceName: strings.TrimSpace(record[colSourceName]),
	}
	if len(record) > colDescription {
		tx.Description = strings.TrimSpace(record[colDescription])
	}
	if len(record) > colCategory {
		tx.Category = strings.ToLower(strings.TrimSpace(record[colCategory]))
	}
	return tx, nil
}

// parseDate accepts full timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

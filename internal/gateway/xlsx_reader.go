package gateway

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"finance-cycles/internal/domain"
)

// readXLSX reads the first sheet of a workbook using the same columns as the
// CSV format.
func readXLSX(path string) ([]domain.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read header from %s: sheet %q is empty", path, sheets[0])
	}

	var transactions []domain.Transaction
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		// GetRows drops trailing empty cells.
		for len(row) < colDescription+1 {
			row = append(row, "")
		}
		tx, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

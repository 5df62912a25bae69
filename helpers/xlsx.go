package helpers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// XLSX HELPER — Reads the first worksheet into a table.Table
// ============================================================================
// Cells are read as their formatted text, then typed the same way as CSV
// cells. Date cells therefore arrive as their display text ("01-05-24",
// "2024-01-05") and are recognized later by date inference.
// ============================================================================

// ParseXLSX reads the first sheet of a workbook. The first non-empty row is
// the header row; fully empty rows are skipped.
func ParseXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var headers []string
	var data [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if headers == nil {
			headers = row
			continue
		}
		data = append(data, row)
	}
	if headers == nil {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	return BuildTable(headers, data), nil
}

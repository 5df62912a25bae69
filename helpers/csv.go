package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a table.Table
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, upload, S3).
// This helper converts the raw bytes into typed columns:
//   - header row → column names (blank → "Unnamed: i", repeats → "name.1")
//   - null tokens ("", "NA", "N/A", "null", ...) → null cells
//   - a column whose every non-null cell is a finite number → numeric
//   - anything else → string
// ============================================================================

// nullTokens are the cell spellings read as missing values.
var nullTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NULL": true, "null": true,
	"NaN": true, "nan": true, "None": true, "#N/A": true, "<NA>": true,
}

// ParseCSV reads a CSV stream (header row first) into a table.
// Malformed rows are skipped; an unreadable header is an error.
func ParseCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	return BuildTable(headers, rows), nil
}

// ParseCSVBytes is a convenience wrapper over ParseCSV.
func ParseCSVBytes(data []byte) (*table.Table, error) {
	return ParseCSV(bytes.NewReader(data))
}

// BuildTable turns a header row and string rows into typed columns.
// Rows shorter than the header are padded with nulls; extra cells are dropped.
func BuildTable(headers []string, rows [][]string) *table.Table {
	names := uniqueHeaders(headers)
	columns := make([]*table.Column, len(names))

	for i, name := range names {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				raw[r] = strings.TrimSpace(row[i])
			}
		}
		columns[i] = buildColumn(name, raw)
	}

	return table.New(columns...)
}

func buildColumn(name string, raw []string) *table.Column {
	numeric := true
	nonNull := 0
	for _, s := range raw {
		if nullTokens[s] {
			continue
		}
		nonNull++
		if !table.IsNumeric(s) {
			numeric = false
			break
		}
	}
	numeric = numeric && nonNull > 0

	col := &table.Column{Name: name, Values: make([]table.Value, len(raw))}
	if numeric {
		col.Type = table.KindNumber
	}
	for i, s := range raw {
		switch {
		case nullTokens[s]:
			col.Values[i] = table.Null()
		case numeric:
			f, _ := strconv.ParseFloat(s, 64)
			col.Values[i] = table.Num(f)
		default:
			col.Values[i] = table.Str(s)
		}
	}
	return col
}

// uniqueHeaders trims header names, fills blanks and suffixes repeats.
func uniqueHeaders(headers []string) []string {
	names := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	repeats := make(map[string]int)
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for used[name] {
			repeats[base]++
			name = base + "." + strconv.Itoa(repeats[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

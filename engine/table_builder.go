package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spektr-org/salescope/schema"
	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a report, plus the reduced extract
// ============================================================================
// TableData is display-ready: every cell is already formatted.
// ============================================================================

// BuildKPITable lists the headline figures of a report.
func BuildKPITable(r *Report) *TableData {
	cur := r.Params.Currency
	k := r.KPIs

	rows := [][]string{
		{"Total revenue", FormatAmount(k.TotalRevenue, cur)},
		{"Units sold", FormatCount(k.TotalUnits)},
		{"Unique orders", FormatCount(k.UniqueOrders)},
		{"Unique customers", FormatCount(k.UniqueCustomers)},
		{"Average order value", FormatAmount(k.AvgOrderValue, cur)},
		{"Missing values", FormatPercentValue(r.Quality.MissingPercent)},
		{"Duplicate rows", FormatCount(r.Quality.Duplicates)},
	}
	if c, ok := r.Comparison.Get(); ok {
		rows = append(rows, []string{
			"Recent revenue",
			FormatAmount(c.Recent, cur) + " (vs previous: " + FormatPercent(c.PctChange) + ")",
		})
	}

	return &TableData{
		Title: "Key figures",
		Columns: []Column{
			{Key: "metric", Label: "Metric", Type: "text", Align: "left"},
			{Key: "value", Label: "Value", Type: "text", Align: "right"},
		},
		Rows: rows,
	}
}

// FormatPercentValue renders a share in percent, e.g. "12.5 %".
func FormatPercentValue(v float64) string {
	return strconv.FormatFloat(RoundTo2(v), 'f', -1, 64) + " %"
}

// BuildTopTable lists a top-N breakdown with its total.
func BuildTopTable(groups []Group, dimension string, measure Measure, currency string) *TableData {
	td := &TableData{
		Title: "Top " + dimension,
		Columns: []Column{
			{Key: "group", Label: LabelForDimension(dimension), Type: "text", Align: "left"},
			{Key: "value", Label: LabelForMeasure(measure), Type: measureColumnType(measure), Align: "right"},
		},
		Rows: make([][]string, 0, len(groups)),
	}
	if len(groups) == 0 {
		return td
	}

	var total float64
	for _, g := range groups {
		td.Rows = append(td.Rows, []string{g.Label, formatMeasure(g.Value, measure, currency)})
		total += g.Value
	}
	td.Summary = &Summary{
		Label:  "Total",
		Values: map[string]string{"value": formatMeasure(total, measure, currency)},
	}
	return td
}

// BuildSeriesTable lists the buckets of a series.
func BuildSeriesTable(points []Point, g Granularity, currency string) *TableData {
	td := &TableData{
		Title: g.Title() + " revenue",
		Columns: []Column{
			{Key: "bucket", Label: "Period", Type: "text", Align: "left"},
			{Key: "value", Label: "Revenue", Type: "currency", Align: "right"},
		},
		Rows: make([][]string, 0, len(points)),
	}
	for _, p := range points {
		td.Rows = append(td.Rows, []string{g.Label(p.Start), FormatAmount(p.Value, currency)})
	}
	return td
}

// BuildColumnsTable lists the detected key columns.
func BuildColumnsTable(m schema.Mapping) *TableData {
	td := &TableData{
		Title: "Detected columns",
		Columns: []Column{
			{Key: "attribute", Label: "Attribute", Type: "text", Align: "left"},
			{Key: "column", Label: "Column", Type: "text", Align: "left"},
		},
		Rows: [][]string{},
	}
	for _, line := range m.Summary() {
		col := line.Column
		if a, ok := m.Assignment(schema.RoleRevenue); ok && a.Synthetic && a.Column == col {
			col += " (" + strings.Join(a.DerivedFrom, " × ") + ")"
		}
		td.Rows = append(td.Rows, []string{line.Attribute, col})
	}
	return td
}

// ============================================================================
// EXTRACT — Key columns only, for export
// ============================================================================

var extractOrder = []schema.Role{
	schema.RoleDate, schema.RoleProduct, schema.RoleStore, schema.RoleOrder,
	schema.RoleCustomer, schema.RoleRevenue, schema.RoleQuantity,
}

// Extract copies the role-mapped columns of t in export order
// (date, product, store, order, customer, revenue, quantity).
// A column holding two roles appears once, at its first position.
// Returns nil when no role was found.
func Extract(t *table.Table, m schema.Mapping) *table.Table {
	var names []string
	for _, r := range extractOrder {
		if col, ok := m.Column(r); ok && t.Has(col) && !slices.Contains(names, col) {
			names = append(names, col)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return t.Select(names...)
}

// ============================================================================
// LABELS
// ============================================================================

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}

// LabelForMeasure returns a human-readable label for a top-N measure.
func LabelForMeasure(m Measure) string {
	switch m {
	case MeasureRevenue:
		return "Revenue"
	case MeasureQuantity:
		return "Units"
	default:
		return "Occurrences"
	}
}

func measureColumnType(m Measure) string {
	if m == MeasureRevenue {
		return "currency"
	}
	return "number"
}

func formatMeasure(v float64, m Measure, currency string) string {
	if m == MeasureRevenue {
		return FormatAmount(v, currency)
	}
	return FormatCount(v)
}

package engine

import (
	"math"

	"github.com/spektr-org/salescope/schema"
	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// KPIs — Data quality, totals and period-over-period comparison
// ============================================================================

// ComputeQuality counts missing cells and duplicate rows.
// The missing ratio divides by rows × columns, floored at 1.
func ComputeQuality(t *table.Table) Quality {
	rows, cols := t.NumRows(), t.NumColumns()
	missing := t.MissingCells()
	cells := max(1, rows*cols)
	share := float64(missing) / float64(cells)

	return Quality{
		Rows:           rows,
		Columns:        cols,
		MissingCells:   missing,
		MissingRatio:   RoundTo2(share),
		MissingPercent: RoundTo2(share * 100),
		Duplicates:     t.DuplicateRows(),
	}
}

// ComputeKPIs derives the headline figures from the mapped columns of t.
// A KPI whose role was not found is absent, and so is every KPI of a table
// with no rows.
func ComputeKPIs(t *table.Table, m schema.Mapping) KPIs {
	kpis := KPIs{RowCount: t.NumRows()}
	if t.NumRows() == 0 {
		return kpis
	}
	view := NewTableView(t)

	if col, ok := m.Column(schema.RoleRevenue); ok {
		kpis.TotalRevenue = Some(SumMeasure(view, col))
	}
	if col, ok := m.Column(schema.RoleQuantity); ok {
		units := math.Trunc(SumMeasure(view, col))
		kpis.TotalUnits = Some(int64(units))
	}
	if col, ok := m.Column(schema.RoleOrder); ok {
		kpis.UniqueOrders = Some(CountDistinct(view, col))
	}
	if col, ok := m.Column(schema.RoleCustomer); ok {
		kpis.UniqueCustomers = Some(CountDistinct(view, col))
	}

	if revenue, ok := kpis.TotalRevenue.Get(); ok {
		orders := max(1, t.NumRows())
		if n, ok := kpis.UniqueOrders.Get(); ok && n > 0 {
			orders = n
		}
		kpis.AvgOrderValue = Some(revenue / float64(orders))
	}

	return kpis
}

// Compare sums the last window of a series (ending at its latest bucket)
// against the window before it. The percent change is absent when the
// previous window sums to zero; the comparison is absent for an empty series.
func Compare(points []Point, g Granularity) Metric[Comparison] {
	if len(points) == 0 {
		return Absent[Comparison]()
	}

	end := points[0].Start
	for _, p := range points[1:] {
		if p.Start.After(end) {
			end = p.Start
		}
	}

	window := g.Window()
	c := Comparison{End: end}
	c.Start = end.Add(-window)
	c.PreviousStart = c.Start.Add(-window)
	c.PreviousEnd = c.Start.AddDate(0, 0, -1)
	c.Recent = sumBetween(points, c.Start, c.End)
	c.Previous = sumBetween(points, c.PreviousStart, c.PreviousEnd)

	if c.Previous != 0 {
		c.PctChange = Some(RoundTo1((c.Recent - c.Previous) / math.Abs(c.Previous) * 100))
	}
	return Some(c)
}

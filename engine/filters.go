package engine

import "time"

// ============================================================================
// FILTERS — Row predicates and date windows
// ============================================================================
// Single-pass filter: checks ALL predicates per row in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// RowFilter reports whether row i of v should be kept.
type RowFilter func(v RowView, i int) bool

// ApplyFilters returns a view of the rows matching every filter.
// No filters = no restriction (returns original view).
func ApplyFilters(view RowView, filters ...RowFilter) RowView {
	if len(filters) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, f := range filters {
			if !f(view, i) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// NotNull keeps rows whose cell in column is present.
func NotNull(column string) RowFilter {
	return func(v RowView, i int) bool {
		return !v.Value(i, column).IsNull()
	}
}

// HasNumber keeps rows whose cell in column coerces to a number.
func HasNumber(column string) RowFilter {
	return func(v RowView, i int) bool {
		_, ok := numberAt(v, i, column)
		return ok
	}
}

// HasDate keeps rows whose cell in column coerces to a date.
func HasDate(column string) RowFilter {
	return func(v RowView, i int) bool {
		_, ok := Timestamp(v, i, column)
		return ok
	}
}

// sumBetween adds the points with after < Start <= through.
func sumBetween(points []Point, after, through time.Time) float64 {
	var total float64
	for _, p := range points {
		if p.Start.After(after) && !p.Start.After(through) {
			total += p.Value
		}
	}
	return total
}

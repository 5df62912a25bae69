package engine

import (
	"time"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// ROW VIEW — Zero-Copy Row Access over a table.Table
// ============================================================================
// The engine never copies the analyzed table. It reads cells through this
// interface and narrows it with index-based sub-views.
//
// Implementations:
//   TableView — all rows of a table
//   SubView   — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RowView provides indexed access to the rows of a table.
type RowView interface {
	Len() int
	Value(index int, column string) table.Value // null when out of range or column missing
	Columns() []string
}

// numberAt reads a cell as a number, best-effort.
func numberAt(v RowView, i int, column string) (float64, bool) {
	return table.ToFloat(v.Value(i, column))
}

// Timestamp reads a cell as a date, best-effort.
func Timestamp(v RowView, i int, column string) (time.Time, bool) {
	return table.ToTime(v.Value(i, column))
}

// ============================================================================
// TABLE VIEW
// ============================================================================

// TableView wraps a table.Table as a RowView.
type TableView struct {
	t    *table.Table
	cols map[string]*table.Column
}

// NewTableView creates a RowView over every row of t.
func NewTableView(t *table.Table) RowView {
	v := &TableView{t: t, cols: make(map[string]*table.Column, t.NumColumns())}
	for _, c := range t.Columns() {
		if _, dup := v.cols[c.Name]; !dup {
			v.cols[c.Name] = c
		}
	}
	return v
}

func (v *TableView) Len() int { return v.t.NumRows() }

func (v *TableView) Value(i int, column string) table.Value {
	c, ok := v.cols[column]
	if !ok || i < 0 || i >= len(c.Values) {
		return table.Null()
	}
	return c.Values[i]
}

func (v *TableView) Columns() []string { return v.t.Names() }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RowView.
type SubView struct {
	parent  RowView
	indices []int
}

func newSubView(parent RowView, indices []int) RowView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, column string) table.Value {
	if i < 0 || i >= len(v.indices) {
		return table.Null()
	}
	return v.parent.Value(v.indices[i], column)
}

func (v *SubView) Columns() []string { return v.parent.Columns() }

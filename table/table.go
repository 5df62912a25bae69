package table

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ============================================================================
// TABLE — Ordered, named columns of heterogeneous cells
// ============================================================================
// A Table is treated as an immutable snapshot once handed to the schema or
// engine packages. Anything that needs to change cells (synthetic revenue,
// date coercion) works on a Clone.
// ============================================================================

// Column is a named, ordered sequence of cells.
// Type is the declared type of the column when the source knows it
// (e.g. a typed datetime column); KindNull means "untyped".
type Column struct {
	Name   string
	Type   Kind
	Values []Value
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// padded returns a copy of c extended with nulls to n rows.
// The zero Value is null.
func (c *Column) padded(n int) *Column {
	values := make([]Value, n)
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// Table is an ordered list of columns sharing one row count.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a Table from columns. Shorter columns are replaced by padded
// copies so that every column has the same length; the given columns are never
// modified. When two columns share a name the first one wins on lookup by name.
func New(columns ...*Column) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if len(c.Values) > t.rows {
			t.rows = len(c.Values)
		}
	}
	for _, c := range columns {
		if len(c.Values) < t.rows {
			c = c.padded(t.rows)
		}
		if _, exists := t.index[c.Name]; !exists {
			t.index[c.Name] = len(t.columns)
		}
		t.columns = append(t.columns, c)
	}
	return t
}

func (t *Table) NumRows() int    { return t.rows }
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns the columns in their original order.
// Callers must not modify the returned columns.
func (t *Table) Columns() []*Column { return t.columns }

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column with this name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Clone returns a deep copy that shares no cell storage with t.
func (t *Table) Clone() *Table {
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = c.Clone()
	}
	return New(columns...)
}

// Replace swaps the column with the same name in place, or appends it.
// Only call this on a table you own (a Clone).
func (t *Table) Replace(col *Column) {
	if len(col.Values) < t.rows {
		col = col.padded(t.rows)
	}
	if i, ok := t.index[col.Name]; ok {
		t.columns[i] = col
		return
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
}

// Select returns a new table holding copies of the named columns, in the given
// order. Unknown names are skipped.
func (t *Table) Select(names ...string) *Table {
	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		if c, ok := t.Column(name); ok {
			columns = append(columns, c.Clone())
		}
	}
	return New(columns...)
}

// ============================================================================
// QUALITY HELPERS
// ============================================================================

// MissingCells counts null cells across all columns.
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.columns {
		for _, v := range c.Values {
			if v.IsNull() {
				n++
			}
		}
	}
	return n
}

// DuplicateRows counts rows that are an exact repeat of an earlier row.
// Nulls compare equal to each other.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]struct{}, t.rows)
	dups := 0
	for i := 0; i < t.rows; i++ {
		key := t.rowKey(i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func (t *Table) rowKey(i int) string {
	var b []byte
	for _, c := range t.columns {
		b = append(b, c.Values[i].Key()...)
		b = append(b, 0x1f)
	}
	return string(b)
}

// Hash is a content fingerprint over column names, declared types and cells.
// Two tables with the same content hash the same regardless of identity.
func (t *Table) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, c := range t.columns {
		_, _ = d.WriteString(c.Name)
		_, _ = d.Write([]byte{0x1e, byte(c.Type)})
		for _, v := range c.Values {
			_, _ = d.Write([]byte{byte(v.kind)})
			switch v.kind {
			case KindString:
				binary.LittleEndian.PutUint64(buf[:], uint64(len(v.str)))
				_, _ = d.Write(buf[:])
				_, _ = d.WriteString(v.str)
			case KindNumber:
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.num))
				_, _ = d.Write(buf[:])
			case KindTime:
				binary.LittleEndian.PutUint64(buf[:], uint64(v.tm.UnixNano()))
				_, _ = d.Write(buf[:])
			}
			_, _ = d.Write([]byte{0x1f})
		}
	}
	return d.Sum64()
}

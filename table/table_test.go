package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strs(vals ...string) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		if v == "" {
			out[i] = Null()
			continue
		}
		out[i] = Str(v)
	}
	return out
}

func TestNew_PadsShortColumns(t *testing.T) {
	short := &Column{Name: "b", Values: strs("1")}
	tbl := New(
		&Column{Name: "a", Values: strs("x", "y", "z")},
		short,
	)

	assert.Len(t, short.Values, 1, "input column untouched")

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
	b, ok := tbl.Column("b")
	require.True(t, ok)
	assert.Len(t, b.Values, 3)
	assert.True(t, b.Values[2].IsNull())
}

func TestNew_DuplicateNamesFirstWins(t *testing.T) {
	tbl := New(
		&Column{Name: "a", Values: strs("first")},
		&Column{Name: "a", Values: strs("second")},
	)
	c, ok := tbl.Column("a")
	require.True(t, ok)
	assert.Equal(t, "first", c.Values[0].String())
	assert.Equal(t, []string{"a", "a"}, tbl.Names())
}

func TestClone_DoesNotAlias(t *testing.T) {
	orig := New(&Column{Name: "a", Values: strs("x", "y")})
	cp := orig.Clone()

	c, _ := cp.Column("a")
	c.Values[0] = Num(42)
	cp.Replace(&Column{Name: "extra", Values: []Value{Num(1)}})

	oc, _ := orig.Column("a")
	assert.Equal(t, "x", oc.Values[0].String())
	assert.False(t, orig.Has("extra"))
	assert.True(t, cp.Has("extra"))
	extra, _ := cp.Column("extra")
	assert.Len(t, extra.Values, 2, "replace pads to the table's row count")
}

func TestSelect(t *testing.T) {
	tbl := New(
		&Column{Name: "a", Values: strs("1", "2")},
		&Column{Name: "b", Values: strs("3", "4")},
		&Column{Name: "c", Values: strs("5", "6")},
	)
	sel := tbl.Select("c", "missing", "a")
	assert.Equal(t, []string{"c", "a"}, sel.Names())
	assert.Equal(t, 2, sel.NumRows())

	empty := tbl.Select()
	assert.Equal(t, 0, empty.NumColumns())
	assert.Equal(t, 0, empty.NumRows())
}

func TestMissingAndDuplicates(t *testing.T) {
	tbl := New(
		&Column{Name: "a", Values: strs("x", "x", "", "", "y")},
		&Column{Name: "b", Values: []Value{Num(1), Num(1), Null(), Null(), Num(1)}},
	)

	assert.Equal(t, 4, tbl.MissingCells())
	// row 1 repeats row 0, row 3 repeats row 2 (nulls compare equal)
	assert.Equal(t, 2, tbl.DuplicateRows())
}

func TestDuplicateRows_KindMatters(t *testing.T) {
	tbl := New(&Column{Name: "a", Values: []Value{Num(1), Str("1"), Num(1.0)}})
	assert.Equal(t, 1, tbl.DuplicateRows())
}

func TestDuplicateRows_SeparatorInCell(t *testing.T) {
	tbl := New(
		&Column{Name: "a", Values: []Value{Str("a\x1fs:b"), Str("a")}},
		&Column{Name: "b", Values: []Value{Str("c"), Str("b\x1fs:c")}},
	)
	assert.Equal(t, 0, tbl.DuplicateRows())
	assert.NotEqual(t, Str("a").Key(), Str("a\x1f").Key())
}

func TestHash_SeparatorInCell(t *testing.T) {
	split := New(&Column{Name: "x", Values: []Value{Str("a"), Str("b")}})
	joined := New(&Column{Name: "x", Values: []Value{Str("a\x1f" + string(rune(KindString)) + "b")}})
	assert.NotEqual(t, split.Hash(), joined.Hash())
}

func TestHash(t *testing.T) {
	build := func() *Table {
		return New(
			&Column{Name: "d", Values: []Value{Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}},
			&Column{Name: "v", Values: []Value{Num(2.5)}},
		)
	}
	a, b := build(), build()
	assert.Equal(t, a.Hash(), b.Hash(), "same content, same hash")

	c := build().Clone()
	c.Replace(&Column{Name: "v", Values: []Value{Num(3)}})
	assert.NotEqual(t, a.Hash(), c.Hash())

	renamed := New(&Column{Name: "x", Values: []Value{Num(2.5)}})
	original := New(&Column{Name: "v", Values: []Value{Num(2.5)}})
	assert.NotEqual(t, renamed.Hash(), original.Hash())
}

func TestValue_StringAndJSON(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    Value
		str  string
		json string
	}{
		{"null", Null(), "", "null"},
		{"string", Str("abc"), "abc", `"abc"`},
		{"integer number", Num(3), "3", "3"},
		{"fraction", Num(2.5), "2.5", "2.5"},
		{"date", Time(day), "2024-03-09", `"2024-03-09T00:00:00Z"`},
		{"datetime", Time(day.Add(90 * time.Minute)), "2024-03-09 01:30:00", `"2024-03-09T01:30:00Z"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.v.String())
			b, err := tt.v.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(b))
		})
	}
}

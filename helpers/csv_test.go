package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/table"
)

func TestParseCSV_TypesColumns(t *testing.T) {
	data := "order_id,date,product,qty,price\n" +
		"1001,2024-01-05,Widget,2,9.5\n" +
		"1002,2024-01-06,Gadget,,12\n" +
		"1003,2024-01-07,Widget,1,N/A\n"

	tbl, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"order_id", "date", "product", "qty", "price"}, tbl.Names())

	id, _ := tbl.Column("order_id")
	assert.Equal(t, table.KindNumber, id.Type)
	assert.Equal(t, 1001.0, id.Values[0].Float())

	date, _ := tbl.Column("date")
	assert.NotEqual(t, table.KindNumber, date.Type)
	assert.Equal(t, table.KindString, date.Values[0].Kind())

	qty, _ := tbl.Column("qty")
	assert.Equal(t, table.KindNumber, qty.Type)
	assert.True(t, qty.Values[1].IsNull())

	price, _ := tbl.Column("price")
	assert.Equal(t, table.KindNumber, price.Type)
	assert.True(t, price.Values[2].IsNull())
}

func TestParseCSV_MixedColumnStaysString(t *testing.T) {
	tbl, err := ParseCSVBytes([]byte("code\n12\nA7\n"))
	require.NoError(t, err)
	c, _ := tbl.Column("code")
	assert.NotEqual(t, table.KindNumber, c.Type)
	assert.Equal(t, table.KindString, c.Values[0].Kind())
	assert.Equal(t, "12", c.Values[0].String())
}

func TestParseCSV_StripsBOMAndPadsShortRows(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("\ufeffa,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	c, _ := tbl.Column("c")
	assert.True(t, c.Values[0].IsNull())
}

func TestParseCSV_HeaderNames(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(" total ,,total,total\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"total", "Unnamed: 1", "total.1", "total.2"}, tbl.Names())
}

func TestParseCSV_HeadersOnly(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("date,revenue\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
}

func TestParseCSV_EmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, isBlankRow(nil))
	assert.True(t, isBlankRow([]string{"", "  "}))
	assert.False(t, isBlankRow([]string{"", "x"}))
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/schema"
	"github.com/spektr-org/salescope/table"
)

func TestExtract_KeyColumnsInOrder(t *testing.T) {
	res := mustInfer(t, ordersCSV)
	out := Extract(res.Table, res.Mapping)
	require.NotNil(t, out)

	assert.Equal(t, []string{"date", "sku", "order_id", "_computed_revenue", "qty"}, out.Names())
	assert.Equal(t, 5, out.NumRows())

	date, _ := out.Column("date")
	assert.Equal(t, table.KindTime, date.Values[0].Kind())
}

func TestExtract_NoRoles(t *testing.T) {
	res := mustInfer(t, "foo,bar\n1,2\n")
	assert.Nil(t, Extract(res.Table, res.Mapping))
}

func TestExtract_SharedColumnOnce(t *testing.T) {
	res := mustInfer(t, "total_units,store\n4,North\n")
	out := Extract(res.Table, res.Mapping)
	require.NotNil(t, out)
	assert.Equal(t, []string{"store", "total_units"}, out.Names())
}

func TestBuildKPITable(t *testing.T) {
	res := mustInfer(t, ordersCSV)
	report, err := New().Analyze(res, Params{Currency: "€"})
	require.NoError(t, err)

	td := BuildKPITable(report)
	require.Len(t, td.Columns, 2)
	assert.Equal(t, []string{"Total revenue", "167 €"}, td.Rows[0])
	assert.Equal(t, []string{"Units sold", "13"}, td.Rows[1])
	assert.Equal(t, []string{"Unique customers", "N/A"}, td.Rows[3])
	assert.Equal(t, []string{"Missing values", "0 %"}, td.Rows[5])
	assert.Equal(t, []string{"Recent revenue", "77 € (vs previous: +287.5%)"}, td.Rows[len(td.Rows)-1])
}

func TestBuildTopTable(t *testing.T) {
	groups := []Group{{Label: "North", Value: 1200}, {Label: "South", Value: 300}}
	td := BuildTopTable(groups, "store", MeasureRevenue, "€")

	assert.Equal(t, "Store", td.Columns[0].Label)
	assert.Equal(t, "Revenue", td.Columns[1].Label)
	assert.Equal(t, [][]string{{"North", "1,200 €"}, {"South", "300 €"}}, td.Rows)
	require.NotNil(t, td.Summary)
	assert.Equal(t, "1,500 €", td.Summary.Values["value"])

	empty := BuildTopTable(nil, "product", MeasureCount, "€")
	assert.Empty(t, empty.Rows)
	assert.Nil(t, empty.Summary)
	assert.Equal(t, "Occurrences", empty.Columns[1].Label)
}

func TestBuildSeriesTable(t *testing.T) {
	td := BuildSeriesTable([]Point{{Start: day("2024-01-01"), Value: 2500}}, Month, "$")
	assert.Equal(t, "Monthly revenue", td.Title)
	assert.Equal(t, [][]string{{"Jan-2024", "2,500 $"}}, td.Rows)
}

func TestBuildColumnsTable(t *testing.T) {
	res := mustInfer(t, ordersCSV)
	td := BuildColumnsTable(res.Mapping)
	require.NotEmpty(t, td.Rows)
	assert.Equal(t, []string{schema.RoleRevenue.Label(), "_computed_revenue (unit_price × qty)"}, td.Rows[0])
}

func TestBuildCharts(t *testing.T) {
	assert.Nil(t, BuildSeriesChart(nil, Day, ""))
	assert.Nil(t, BuildTopChart(nil, "product", MeasureRevenue))

	chart := BuildSeriesChart([]Point{{Start: day("2024-01-01"), Value: 1.234}}, Week, "")
	require.NotNil(t, chart)
	assert.Equal(t, "line", chart.ChartType)
	assert.Equal(t, "Weekly revenue", chart.Title)
	assert.Equal(t, []ChartPoint{{Label: "2024-01-01", Value: 1.23}}, chart.Series[0].Data)

	bar := BuildTopChart([]Group{{Label: "A", Value: 3}}, "products", MeasureCount)
	require.NotNil(t, bar)
	assert.Equal(t, "bar", bar.ChartType)
	assert.Equal(t, "Top 1 products (occurrences)", bar.Title)
	assert.Equal(t, "Occurrences", bar.YAxis)
}

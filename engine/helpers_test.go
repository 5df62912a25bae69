package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/schema"
	"github.com/spektr-org/salescope/table"
)

// ordersCSV has no revenue column: revenue is qty × unit_price (total 167.5).
const ordersCSV = `order_id,date,sku,qty,unit_price
1001,2024-01-01,A,2,10
1002,2024-01-02,B,3,20
1003,2024-01-02,A,1,10
1004,2024-01-08,C,5,7.5
1005,2024-01-09,B,2,20
`

func mustParse(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := helpers.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func mustInfer(t *testing.T, csv string) *schema.Result {
	t.Helper()
	return schema.Infer(mustParse(t, csv))
}

func day(s string) time.Time {
	ts, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func nums(vals ...float64) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.Num(v)
	}
	return out
}

func strs(vals ...string) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if v == "" {
			out[i] = table.Null()
			continue
		}
		out[i] = table.Str(v)
	}
	return out
}

package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spektr-org/salescope/table"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float", 1234.9, "1,234 €"},
		{"int", 1234567, "1,234,567 €"},
		{"negative", -1234.5, "-1,234 €"},
		{"metric", Some(99.99), "99 €"},
		{"absent", Absent[float64](), "N/A"},
		{"nil", nil, "N/A"},
		{"numeric string", "12.7", "12 €"},
		{"text", "abc", "N/A"},
		{"nan", math.NaN(), "N/A"},
		{"value", table.Num(5), "5 €"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in, "€"))
		})
	}
	assert.Equal(t, "1,000", FormatAmount(1000, ""))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "1,234", FormatCount(int64(1234)))
	assert.Equal(t, "12", FormatCount(Some[int64](12)))
	assert.Equal(t, "N/A", FormatCount(Absent[int]()))
	assert.Equal(t, "N/A", FormatCount(struct{}{}))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+12.3%", FormatPercent(Some(12.34)))
	assert.Equal(t, "-5.0%", FormatPercent(Some(-5.0)))
	assert.Equal(t, "N/A", FormatPercent(Absent[float64]()))
}

func TestBuildAlerts_Empty(t *testing.T) {
	alerts := BuildAlerts(&Report{Quality: Quality{MissingPercent: 20}})
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestBuildAlerts_Extremes(t *testing.T) {
	r := &Report{
		Params: Params{Currency: "€"},
		Peak:   Some(Point{Start: day("2024-02-01"), Value: 1500.4}),
		Trough: Some(Point{Start: day("2024-03-01"), Value: 10}),
	}
	alerts := BuildAlerts(r)
	assert.Equal(t, []Alert{
		{Level: AlertInfo, Message: "Best period: 2024-02-01 (1,500 €)"},
		{Level: AlertInfo, Message: "Worst period: 2024-03-01 (10 €)"},
	}, alerts)
}

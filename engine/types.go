package engine

import (
	"encoding/json"
	"time"

	"github.com/spektr-org/salescope/schema"
)

// ============================================================================
// SALESCOPE ENGINE TYPES — Report shapes and nullable metrics
// ============================================================================
// Every scalar the engine reports is a Metric: either ok(value) or absent.
// Absent is a normal outcome (role not found, nothing to divide by, empty
// window) and renders as null in JSON/YAML.
// ============================================================================

// ============================================================================
// METRIC — ok(value) or absent
// ============================================================================

// Metric is a value that may be absent.
type Metric[T any] struct {
	value T
	ok    bool
}

// Some returns a present metric.
func Some[T any](v T) Metric[T] { return Metric[T]{value: v, ok: true} }

// Absent returns a metric with no value.
func Absent[T any]() Metric[T] { return Metric[T]{} }

// Get returns the value and whether it is present.
func (m Metric[T]) Get() (T, bool) { return m.value, m.ok }

// OK reports whether the metric has a value.
func (m Metric[T]) OK() bool { return m.ok }

// Or returns the value, or def when absent.
func (m Metric[T]) Or(def T) T {
	if !m.ok {
		return def
	}
	return m.value
}

func (m Metric[T]) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m Metric[T]) MarshalYAML() (interface{}, error) {
	if !m.ok {
		return nil, nil
	}
	return m.value, nil
}

// ============================================================================
// SERIES
// ============================================================================

// Point is one bucket of a time series.
type Point struct {
	Start time.Time `json:"bucketStart" yaml:"bucket_start"`
	Value float64   `json:"value" yaml:"value"`
}

// Comparison is the recent window against the window before it.
//
// Recent covers (Start, End]; Previous covers (PreviousStart, PreviousEnd].
type Comparison struct {
	End           time.Time       `json:"end" yaml:"end"`
	Start         time.Time       `json:"start" yaml:"start"`
	PreviousStart time.Time       `json:"previousStart" yaml:"previous_start"`
	PreviousEnd   time.Time       `json:"previousEnd" yaml:"previous_end"`
	Recent        float64         `json:"recent" yaml:"recent"`
	Previous      float64         `json:"previous" yaml:"previous"`
	PctChange     Metric[float64] `json:"pctChange" yaml:"pct_change"`
}

// ============================================================================
// QUALITY + KPIs
// ============================================================================

// Quality describes missing cells and repeated rows.
type Quality struct {
	Rows           int     `json:"rows" yaml:"rows"`
	Columns        int     `json:"columns" yaml:"columns"`
	MissingCells   int     `json:"missingCells" yaml:"missing_cells"`
	MissingRatio   float64 `json:"missingRatio" yaml:"missing_ratio"`
	MissingPercent float64 `json:"missingPercent" yaml:"missing_percent"`
	Duplicates     int     `json:"duplicates" yaml:"duplicates"`
}

// KPIs are the headline figures of a sales table.
type KPIs struct {
	RowCount        int             `json:"rowCount" yaml:"row_count"`
	TotalRevenue    Metric[float64] `json:"totalRevenue" yaml:"total_revenue"`
	TotalUnits      Metric[int64]   `json:"totalUnits" yaml:"total_units"`
	UniqueOrders    Metric[int]     `json:"uniqueOrders" yaml:"unique_orders"`
	UniqueCustomers Metric[int]     `json:"uniqueCustomers" yaml:"unique_customers"`
	AvgOrderValue   Metric[float64] `json:"avgOrderValue" yaml:"avg_order_value"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is one key of a breakdown and its aggregate.
type Group struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
	View  RowView `json:"-" yaml:"-"` // rows of this group
}

// Measure names what a top-N breakdown aggregates.
type Measure string

const (
	MeasureRevenue  Measure = "revenue"
	MeasureQuantity Measure = "quantity"
	MeasureCount    Measure = "count"
)

// ============================================================================
// ALERTS
// ============================================================================

// Alert levels.
const (
	AlertWarning = "warning"
	AlertInfo    = "info"
)

// Alert is one automatic insight about the dataset.
type Alert struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// ============================================================================
// REPORT — Everything one dashboard render needs
// ============================================================================

// Report is the output of Engine.Analyze.
type Report struct {
	Mapping     schema.Mapping       `json:"mapping" yaml:"mapping"`
	Columns     []schema.SummaryLine `json:"columns" yaml:"columns"`
	Params      Params               `json:"params" yaml:"params"`
	Quality     Quality              `json:"quality" yaml:"quality"`
	KPIs        KPIs                 `json:"kpis" yaml:"kpis"`
	Series      []Point              `json:"series" yaml:"series"`
	Comparison  Metric[Comparison]   `json:"comparison" yaml:"comparison"`
	Peak        Metric[Point]        `json:"peak" yaml:"peak"`
	Trough      Metric[Point]        `json:"trough" yaml:"trough"`
	TopMeasure  Measure              `json:"topMeasure" yaml:"top_measure"`
	TopProducts []Group              `json:"topProducts" yaml:"top_products"`
	TopStores   []Group              `json:"topStores" yaml:"top_stores"`
	Alerts      []Alert              `json:"alerts" yaml:"alerts"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

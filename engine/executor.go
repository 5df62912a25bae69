package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/spektr-org/salescope/internal/metrics"
	"github.com/spektr-org/salescope/schema"
	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// EXECUTOR — Report pipeline over an inferred table
// ============================================================================
// Entry point: engine.New(opts...).Analyze(result, params)
//
// Pipeline:
//   1. Validate display parameters
//   2. Quality metrics + KPIs
//   3. Revenue series (cached) → comparison → extremes
//   4. Top products / stores by revenue, else quantity, else occurrences
//   5. Alerts
//
// Data problems never fail a report; only invalid parameters do.
// ============================================================================

// ErrInvalidParams is returned when display parameters are out of range.
var ErrInvalidParams = errors.New("invalid parameters")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Params are the caller-selected display parameters.
type Params struct {
	TopN        int         `json:"topN" yaml:"top_n" validate:"min=3,max=50"`
	Granularity Granularity `json:"granularity" yaml:"granularity" validate:"oneof=day week month"`
	Currency    string      `json:"currency" yaml:"currency" validate:"max=16"`
}

// DefaultParams returns top 10, daily buckets, euro label.
func DefaultParams() Params {
	return Params{TopN: 10, Granularity: Day, Currency: "€"}
}

// Validate checks ranges. Errors wrap ErrInvalidParams.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.TopN == 0 {
		p.TopN = def.TopN
	}
	if p.Granularity == "" {
		p.Granularity = def.Granularity
	}
	return p
}

// Engine computes reports. It is safe for concurrent use; the series cache
// is the only state shared between calls.
type Engine struct {
	cfg    *config
	flight singleflight.Group
}

// New creates an engine.
//
// Options:
//   - WithCache(cache) — series cache (default: 5 minute TTLCache)
//   - WithClock(clock) — clock for the default cache and timing
//   - WithLogger(logger) — debug logging
func New(opts ...Option) *Engine {
	return &Engine{cfg: applyOptions(opts)}
}

// Cache returns the engine's series cache.
func (e *Engine) Cache() SeriesCache { return e.cfg.Cache }

// Series is Bucket memoized through the series cache. Concurrent misses on
// the same key compute once.
func (e *Engine) Series(t *table.Table, dateCol, valueCol string, g Granularity) []Point {
	key := SeriesKey{Table: t.Hash(), DateColumn: dateCol, ValueColumn: valueCol, Granularity: g}
	if points, ok := e.cfg.Cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		return points
	}
	metrics.RecordCacheLookup(false)

	v, _, _ := e.flight.Do(key.String(), func() (interface{}, error) {
		points := Bucket(t, dateCol, valueCol, g)
		e.cfg.Cache.Put(key, points)
		return points, nil
	})
	return slices.Clone(v.([]Point))
}

// Analyze builds the full report for an inferred table.
func (e *Engine) Analyze(res *schema.Result, params Params) (*Report, error) {
	params = params.withDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := e.cfg.Clock.Now()
	t, m := res.Table, res.Mapping

	report := &Report{
		Mapping:     m,
		Columns:     m.Summary(),
		Params:      params,
		Quality:     ComputeQuality(t),
		KPIs:        ComputeKPIs(t, m),
		Series:      []Point{},
		TopProducts: []Group{},
		TopStores:   []Group{},
	}

	dateCol, hasDate := m.Column(schema.RoleDate)
	revenueCol, hasRevenue := m.Column(schema.RoleRevenue)
	if hasDate && hasRevenue {
		report.Series = e.Series(t, dateCol, revenueCol, params.Granularity)
		report.Comparison = Compare(report.Series, params.Granularity)
		if peak, trough, ok := Extremes(report.Series); ok {
			report.Peak = Some(peak)
			report.Trough = Some(trough)
		}
	}

	measureCol, measure := topMeasure(m)
	report.TopMeasure = measure
	if col, ok := m.Column(schema.RoleProduct); ok {
		report.TopProducts = Top(t, col, measureCol, params.TopN)
	}
	if col, ok := m.Column(schema.RoleStore); ok {
		report.TopStores = Top(t, col, measureCol, params.TopN)
	}

	report.Alerts = BuildAlerts(report)

	elapsed := e.cfg.Clock.Since(start)
	metrics.AnalyzeDuration.Observe(elapsed.Seconds())
	metrics.AnalyzedRows.Observe(float64(t.NumRows()))
	e.cfg.Logger.Debug("engine: report computed",
		"rows", t.NumRows(),
		"columns", t.NumColumns(),
		"granularity", string(params.Granularity),
		"series_points", len(report.Series),
		"top_measure", string(measure),
		"elapsed", elapsed)

	return report, nil
}

// topMeasure picks the column top-N breakdowns aggregate: revenue, else
// quantity, else none (occurrence counts).
func topMeasure(m schema.Mapping) (string, Measure) {
	if col, ok := m.Column(schema.RoleRevenue); ok {
		return col, MeasureRevenue
	}
	if col, ok := m.Column(schema.RoleQuantity); ok {
		return col, MeasureQuantity
	}
	return "", MeasureCount
}

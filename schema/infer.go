package schema

import (
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/spektr-org/salescope/internal/metrics"
	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// INFERENCE — Heuristic role assignment for sales tables
// ============================================================================
// Pipeline:
//   1. Date: first column (in column order) whose sampled values parse as
//      dates for more than DateThreshold of the sample
//   2. Named roles: first column whose lower-cased header contains any of
//      the role's keywords (column order wins over keyword order)
//   3. Synthetic revenue: no revenue but a quantity and a price column →
//      revenue = price × quantity on a working copy. The price search runs
//      over every column, including ones that already hold a named role.
//   4. Date coercion: the date column is rewritten as timestamps on the copy
//
// Inference never fails. A role without a signal is simply absent.
// Named roles may share a column ("total_units" is both revenue and
// quantity). Only the date column is withheld from keyword matching.
// ============================================================================

// SyntheticRevenueColumn is the name given to the price × quantity column.
const SyntheticRevenueColumn = "_computed_revenue"

// InferOptions controls inference behavior.
type InferOptions struct {
	SampleSize    int          // Max values sampled per column for date detection. Default: 200
	Seed          int64        // Sampling seed; fixed so detection is deterministic. Default: 42
	DateThreshold float64      // Parsed share that must be exceeded to call a column a date. Default: 0.6
	Logger        *slog.Logger // Optional; debug lines per assigned role
}

// DefaultInferOptions returns the stock heuristics.
func DefaultInferOptions() InferOptions {
	return InferOptions{
		SampleSize:    200,
		Seed:          42,
		DateThreshold: 0.6,
	}
}

func (o InferOptions) withDefaults() InferOptions {
	def := DefaultInferOptions()
	if o.SampleSize <= 0 {
		o.SampleSize = def.SampleSize
	}
	if o.DateThreshold <= 0 {
		o.DateThreshold = def.DateThreshold
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result carries the mapping and the working copy it refers to.
// Table never aliases the caller's table.
type Result struct {
	Table   *table.Table
	Mapping Mapping
}

// Infer assigns sales roles to the columns of t.
func Infer(t *table.Table, opts ...InferOptions) *Result {
	opt := DefaultInferOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	opt = opt.withDefaults()

	work := t.Clone()
	res := &Result{Table: work}
	dateCol := ""

	// 1. Date
	for _, col := range work.Columns() {
		ratio, ok := DateLikeness(col, opt)
		if ok {
			res.Mapping.set(Assignment{Role: RoleDate, Column: col.Name, DateRatio: ratio})
			dateCol = col.Name
			break
		}
	}

	// 2. Named roles
	for _, role := range namedRoles {
		if a, ok := findByKeyword(work, role, dateCol); ok {
			res.Mapping.set(a)
		}
	}

	// 3. Synthetic revenue
	if !res.Mapping.Has(RoleRevenue) && res.Mapping.Has(RoleQuantity) {
		if price, ok := findByKeyword(work, RolePrice, dateCol); ok {
			res.Mapping.set(price)
			qty, _ := res.Mapping.Column(RoleQuantity)
			name := computeRevenue(work, price.Column, qty)
			res.Mapping.set(Assignment{
				Role:        RoleRevenue,
				Column:      name,
				Synthetic:   true,
				DerivedFrom: []string{price.Column, qty},
			})
			metrics.SyntheticRevenueTotal.Inc()
		}
	}

	// 4. Date coercion
	if col, ok := res.Mapping.Column(RoleDate); ok {
		coerceDates(work, col)
	}

	for _, role := range Roles() {
		a, found := res.Mapping.Assignment(role)
		metrics.RecordDetection(role.String(), found)
		if found {
			opt.Logger.Debug("schema: role assigned",
				"role", role.String(),
				"column", a.Column,
				"keyword", a.Keyword,
				"synthetic", a.Synthetic)
		}
	}

	return res
}

// findByKeyword returns the first column other than skip whose header
// matches role.
func findByKeyword(t *table.Table, role Role, skip string) (Assignment, bool) {
	for _, col := range t.Columns() {
		if skip != "" && col.Name == skip {
			continue
		}
		if kw, ok := MatchKeyword(col.Name, Keywords[role]); ok {
			return Assignment{Role: role, Column: col.Name, Keyword: kw}, true
		}
	}
	return Assignment{}, false
}

// ============================================================================
// DATE DETECTION
// ============================================================================

// DateLikeness reports the share of sampled values that parse as dates and
// whether it exceeds the threshold. Typed time columns qualify immediately.
func DateLikeness(col *table.Column, opts ...InferOptions) (float64, bool) {
	opt := DefaultInferOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	opt = opt.withDefaults()

	if isTimeTyped(col) {
		return 1, true
	}

	values := make([]string, 0, len(col.Values))
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		values = append(values, v.String())
	}
	if len(values) == 0 {
		return 0, false
	}

	sample := sampleStrings(values, opt.SampleSize, opt.Seed)
	parsed := 0
	for _, s := range sample {
		if _, ok := table.ParseTime(s); ok {
			parsed++
		}
	}
	ratio := float64(parsed) / float64(len(sample))
	return ratio, ratio > opt.DateThreshold
}

func isTimeTyped(col *table.Column) bool {
	if col.Type == table.KindTime {
		return true
	}
	seen := false
	for _, v := range col.Values {
		switch v.Kind() {
		case table.KindNull:
			continue
		case table.KindTime:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// sampleStrings draws n values without replacement using a seeded source.
// When there are at most n values, all of them are returned.
func sampleStrings(values []string, n int, seed int64) []string {
	if len(values) <= n {
		return values
	}
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(values))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

// ============================================================================
// WORKING-COPY REWRITES
// ============================================================================

// computeRevenue appends price × quantity to t and returns the new column name.
// A row where either side is not numeric gets a null.
func computeRevenue(t *table.Table, priceCol, qtyCol string) string {
	price, _ := t.Column(priceCol)
	qty, _ := t.Column(qtyCol)

	name := SyntheticRevenueColumn
	for i := 1; t.Has(name); i++ {
		name = SyntheticRevenueColumn + "_" + strconv.Itoa(i)
	}

	values := make([]table.Value, t.NumRows())
	for i := range values {
		p, okP := table.ToFloat(price.Values[i])
		q, okQ := table.ToFloat(qty.Values[i])
		if okP && okQ {
			values[i] = table.Num(p * q)
		}
	}
	t.Replace(&table.Column{Name: name, Type: table.KindNumber, Values: values})
	return name
}

// coerceDates rewrites a column as timestamps; unparseable cells become null.
func coerceDates(t *table.Table, name string) {
	col, _ := t.Column(name)
	values := make([]table.Value, len(col.Values))
	for i, v := range col.Values {
		if ts, ok := table.ToTime(v); ok {
			values[i] = table.Time(ts)
		}
	}
	t.Replace(&table.Column{Name: name, Type: table.KindTime, Values: values})
}

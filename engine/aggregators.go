package engine

import (
	"math"
	"sort"
	"time"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// AGGREGATORS — Bucketing, Grouping, Aggregation, and Sorting via RowView
// ============================================================================
// All sums are best-effort: a cell that does not coerce to a number is left
// out of the sum, never counted as zero and never an error.
// ============================================================================

// ============================================================================
// TIME SERIES
// ============================================================================

// Bucket sums valueCol per granularity bucket of dateCol.
// Rows with a missing date or value are dropped; buckets are ascending and
// only non-empty buckets appear.
func Bucket(t *table.Table, dateCol, valueCol string, g Granularity) []Point {
	view := ApplyFilters(NewTableView(t), HasDate(dateCol), HasNumber(valueCol))
	if view.Len() == 0 {
		return []Point{}
	}

	sums := make(map[time.Time]float64)
	for i := 0; i < view.Len(); i++ {
		ts, _ := Timestamp(view, i, dateCol)
		val, _ := numberAt(view, i, valueCol)
		sums[g.Floor(ts)] += val
	}

	points := make([]Point, 0, len(sums))
	for start, val := range sums {
		points = append(points, Point{Start: start, Value: val})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Start.Before(points[j].Start) })
	return points
}

// Extremes returns the highest and lowest buckets of a series.
// Ties go to the earliest bucket; ok is false for an empty series.
func Extremes(points []Point) (peak, trough Point, ok bool) {
	if len(points) == 0 {
		return Point{}, Point{}, false
	}
	peak, trough = points[0], points[0]
	for _, p := range points[1:] {
		if p.Value > peak.Value {
			peak = p
		}
		if p.Value < trough.Value {
			trough = p
		}
	}
	return peak, trough, true
}

// ============================================================================
// TOP-N
// ============================================================================

// Top groups t by groupCol and returns the n largest groups.
// With an empty measureCol the groups are ranked by row count. Null keys are
// dropped; ties keep first-encountered order. n <= 0 returns every group.
func Top(t *table.Table, groupCol, measureCol string, n int) []Group {
	return GroupAndAggregate(NewTableView(t), groupCol, measureCol, n)
}

// GroupAndAggregate is the grouping pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(view RowView, groupBy, measure string, limit int) []Group {
	if view.Len() == 0 {
		return []Group{}
	}

	groups := groupBySingle(view, groupBy)
	for i := range groups {
		aggregateGroup(&groups[i], measure)
	}

	SortGroups(groups)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func groupBySingle(view RowView, column string) []Group {
	grouped := make(map[string][]int)
	labels := make(map[string]string)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, column)
		if v.IsNull() {
			continue
		}
		key := v.Key()
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
			labels[key] = v.String()
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: labels[key],
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func aggregateGroup(group *Group, measure string) {
	group.Count = group.View.Len()
	if measure == "" {
		group.Value = float64(group.Count)
		return
	}
	group.Value = SumMeasure(group.View, measure)
}

// SumMeasure sums the numeric cells of a column across a view.
func SumMeasure(view RowView, column string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := numberAt(view, i, column); ok {
			total += v
		}
	}
	return total
}

// CountDistinct counts the distinct non-null values of a column.
func CountDistinct(view RowView, column string) int {
	present := ApplyFilters(view, NotNull(column))
	seen := make(map[string]struct{}, present.Len())
	for i := 0; i < present.Len(); i++ {
		seen[present.Value(i, column).Key()] = struct{}{}
	}
	return len(seen)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups orders groups by descending value. Sorting is stable, so equal
// groups keep their grouping order.
func SortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
}

// ============================================================================
// ROUNDING
// ============================================================================

// RoundTo1 rounds to 1 decimal place.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

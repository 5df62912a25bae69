package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a series or a top-N breakdown
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildSeriesChart produces a line chart of a revenue series.
// Returns nil for an empty series.
func BuildSeriesChart(points []Point, g Granularity, title string) *ChartConfig {
	if len(points) == 0 {
		return nil
	}
	if title == "" {
		title = g.Title() + " revenue"
	}

	data := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		data = append(data, ChartPoint{
			Label: g.Label(p.Start),
			Value: RoundTo2(p.Value),
		})
	}

	return &ChartConfig{
		ChartType:  "line",
		Title:      title,
		XAxis:      "Date",
		YAxis:      "Revenue",
		Series:     []ChartSeries{{Name: "Revenue", Data: data, Color: defaultColors[0]}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// BuildTopChart produces a bar chart of a top-N breakdown.
// Returns nil when there are no groups.
func BuildTopChart(groups []Group, dimension string, measure Measure) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	title := "Top " + FormatCount(len(groups)) + " " + dimension + " by " + string(measure)
	if measure == MeasureCount {
		title = "Top " + FormatCount(len(groups)) + " " + dimension + " (occurrences)"
	}

	data := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		data = append(data, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      title,
		XAxis:      LabelForDimension(dimension),
		YAxis:      LabelForMeasure(measure),
		Series:     []ChartSeries{{Name: LabelForMeasure(measure), Data: data}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

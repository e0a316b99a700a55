package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from Groups, bins and matrices
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec names the chart a builder should produce.
type ChartSpec struct {
	Type       string // "bar", "horizontal_bar", "line"; default "bar"
	Title      string
	XAxis      string
	YAxis      string
	SeriesName string
}

// BuildChart produces a ChartConfig from aggregated groups.
// Groups with SubGroups become one series per sub key.
func BuildChart(spec ChartSpec, groups []Group) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	chartType := spec.Type
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		ShowLegend: true,
		ShowGrid:   true,
	}

	if hasSubGroups(groups) {
		config.Series = buildMultiSeries(groups)
	} else {
		config.Series = buildSingleSeries(groups, spec.SeriesName)
		config.ShowLegend = false
	}

	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildHistogram renders equal-width bins as a histogram chart.
func BuildHistogram(title, xAxis string, bins []Bin) *ChartConfig {
	if len(bins) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%.1f–%.1f", b.Lower, b.Upper),
			Value: Float(b.Count),
		})
	}
	return &ChartConfig{
		ChartType: "histogram",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: "Count", Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// BuildHeatmap renders a square matrix; row i becomes series i.
// The color scale is fixed to [-1, 1], the range of a correlation.
func BuildHeatmap(title string, labels []string, values [][]float64) *ChartConfig {
	if len(labels) == 0 {
		return nil
	}
	lo, hi := -1.0, 1.0
	series := make([]ChartSeries, 0, len(labels))
	for i, row := range labels {
		points := make([]ChartPoint, 0, len(labels))
		for j, col := range labels {
			points = append(points, ChartPoint{Label: col, Value: Float(RoundTo2(values[i][j]))})
		}
		series = append(series, ChartSeries{Name: row, Data: points})
	}
	return &ChartConfig{
		ChartType: "heatmap",
		Title:     title,
		Series:    series,
		Min:       &lo,
		Max:       &hi,
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: Float(RoundTo2(g.Value)),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func buildMultiSeries(groups []Group) []ChartSeries {
	subKeySet := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			subKeySet[sg.Key] = true
		}
	}

	subKeys := make([]string, 0, len(subKeySet))
	for k := range subKeySet {
		subKeys = append(subKeys, k)
	}
	sort.Strings(subKeys)

	seriesMap := make(map[string][]ChartPoint)
	for _, g := range groups {
		sgLookup := make(map[string]float64)
		for _, sg := range g.SubGroups {
			sgLookup[sg.Key] = sg.Value
		}

		for _, key := range subKeys {
			v, ok := sgLookup[key]
			if !ok {
				v = nan
			}
			seriesMap[key] = append(seriesMap[key], ChartPoint{
				Label: g.Label,
				Value: Float(RoundTo2(v)),
			})
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		series = append(series, ChartSeries{
			Name:  key,
			Data:  seriesMap[key],
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

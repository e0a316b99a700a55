package engine

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// NaN cells are skipped, the same way a missing cell is skipped in the
// source spreadsheets.
// ============================================================================

var nan = math.NaN()

// Aggregations understood by GroupAndAggregate.
const (
	AggAvg = "avg"
	AggMax = "max"
)

// Sort modes understood by SortGroups.
const (
	SortValueDesc     = "value_desc"
	SortChronological = "chronological"
)

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	switch len(groupBy) {
	case 0:
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	case 1:
		groups = groupBySingle(view, groupBy[0])
	default:
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle groups case-insensitively; the first spelling seen becomes the label.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	labels := make(map[string]string)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		raw := strings.TrimSpace(view.Dimension(i, dimension))
		key := strings.ToLower(raw)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
			labels[key] = raw
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   labels[key],
			Label: labels[key],
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		group.Value = nan
		return
	}

	switch aggregation {
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	default:
		group.Value = AvgMeasure(group.View, measure)
	}
}

// MeasureValues returns the non-NaN values of a measure in view order.
func MeasureValues(view RecordView, measure string) []float64 {
	values := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

// AvgMeasure computes the mean of a named measure; NaN when no cell has a value.
func AvgMeasure(view RecordView, measure string) float64 {
	return Mean(MeasureValues(view, measure))
}

// MaxMeasure returns the largest value of a named measure; NaN when no cell has a value.
func MaxMeasure(view RecordView, measure string) float64 {
	values := MeasureValues(view, measure)
	if len(values) == 0 {
		return nan
	}
	return floats.Max(values)
}

// MinMeasure returns the smallest value of a named measure; NaN when no cell has a value.
func MinMeasure(view RecordView, measure string) float64 {
	values := MeasureValues(view, measure)
	if len(values) == 0 {
		return nan
	}
	return floats.Min(values)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Value sorts break ties by label ascending and push NaN values last.
// Chronological sorting relies on ISO period keys ("2020", "2020-01", "2020-01-31").
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return byValue(groups[i], groups[j]) })
	case SortChronological:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		// preserve grouping order
	}
}

// byValue orders a before b by value descending, ties by label ascending.
// NaN values always sort after real values.
func byValue(a, b Group) bool {
	an, bn := math.IsNaN(a.Value), math.IsNaN(b.Value)
	switch {
	case an && bn:
		return a.Label < b.Label
	case an:
		return false
	case bn:
		return true
	case a.Value == b.Value:
		return a.Label < b.Label
	}
	return a.Value > b.Value
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns distinct values for a dimension across a view, sorted.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := strings.TrimSpace(view.Dimension(i, dimension))
		if val != "" && !seen[strings.ToLower(val)] {
			seen[strings.ToLower(val)] = true
			result = append(result, val)
		}
	}
	sort.Strings(result)
	return result
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case AggAvg:
		return "Average"
	case AggMax:
		return "Maximum"
	default:
		return "Value"
	}
}

package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from views and groups
// ============================================================================
// Column discovery uses view.DimensionKeys() / MeasureKeys() instead of
// inspecting concrete record types.
// ============================================================================

// BuildListTable produces one row per record: every dimension, then the given
// measures (all registered measures when none are given).
func BuildListTable(title string, view RecordView, measures ...string) *TableData {
	if len(measures) == 0 {
		measures = view.MeasureKeys()
	}
	dimKeys := view.DimensionKeys()

	columns := make([]Column, 0, len(dimKeys)+len(measures))
	for _, key := range dimKeys {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "text", Align: "left"})
	}
	for _, key := range measures {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(columns))
		for _, key := range dimKeys {
			row = append(row, view.Dimension(i, key))
		}
		for _, key := range measures {
			row = append(row, FormatNumber(view.Measure(i, key)))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{"count": fmt.Sprintf("%d", view.Len())},
		},
	}
}

// BuildGroupTable produces one row per group: label, value and count.
func BuildGroupTable(title, groupLabel, aggregation string, groups []Group) *TableData {
	if groupLabel == "" {
		groupLabel = "Group"
	}

	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: LabelForAggregation(aggregation), Type: "number", Align: "right"},
		{Key: "count", Label: "Count", Type: "number", Align: "center"},
	}

	rows := make([][]string, 0, len(groups))
	var totalCount int
	for _, g := range groups {
		rows = append(rows, []string{g.Label, FormatNumber(g.Value), fmt.Sprintf("%d", g.Count)})
		totalCount += g.Count
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": fmt.Sprintf("%d", totalCount)},
		},
	}
}

// FormatNumber formats to two decimals; NaN prints as "n/a".
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

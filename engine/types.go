package engine

import (
	"math"
	"strconv"
)

// ============================================================================
// ENGINE TYPES — intermediate groups and render-ready payloads
// ============================================================================
// Analyzers compute plain Go values; builders in this package turn them into
// ChartConfig / TableData, the shapes the presentation layer renders.
// ============================================================================

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"-"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// FLOAT — JSON-safe float
// ============================================================================

// Float encodes NaN and ±Inf as JSON null; encoding/json rejects them otherwise.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "bar", "horizontal_bar", "line", "histogram", "heatmap"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Min        *float64      `json:"min,omitempty"` // color scale bounds (heatmap)
	Max        *float64      `json:"max,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string `json:"label"`
	Value Float  `json:"value"`
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
	Type  string `json:"type"`  // "text", "number", "date"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

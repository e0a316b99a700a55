package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of the two source datasets
// ============================================================================
// The loader resolves raw CSV headers through a Dataset before it reads a
// single row, so a missing column fails fast instead of surfacing later as an
// empty lookup deep inside an analyzer.
// ============================================================================

// Dataset describes the columns the loader understands for one source file.
type Dataset struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a text (or temporal) field.
type DimensionMeta struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Aliases     []string `json:"aliases,omitempty"`
	Required    bool     `json:"required"`
	IsTemporal  bool     `json:"isTemporal,omitempty"`
}

// MeasureMeta describes a numeric field and its valid range.
type MeasureMeta struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Aliases     []string `json:"aliases,omitempty"`
	Unit        string   `json:"unit,omitempty"` // "percent", "index", "µg/m³", "mg/m³"
	Required    bool     `json:"required"`
	Min         float64  `json:"min"`
	Max         *float64 `json:"max,omitempty"` // nil = unbounded
}

// DefaultDimension creates a required DimensionMeta.
func DefaultDimension(key, displayName string, aliases ...string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Aliases:     aliases,
		Required:    true,
	}
}

// DefaultMeasure creates an optional, non-negative MeasureMeta.
func DefaultMeasure(key, displayName, unit string, aliases ...string) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
		Aliases:     aliases,
		Unit:        unit,
	}
}

// DimensionKeys returns all dimension keys.
func (d Dataset) DimensionKeys() []string {
	keys := make([]string, len(d.Dimensions))
	for i, dim := range d.Dimensions {
		keys[i] = dim.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (d Dataset) MeasureKeys() []string {
	keys := make([]string, len(d.Measures))
	for i, m := range d.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Measure looks up a measure by key.
func (d Dataset) Measure(key string) (MeasureMeta, bool) {
	for _, m := range d.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// ============================================================================
// HEADER RESOLUTION
// ============================================================================

// Columns maps schema keys to column positions in a source file.
type Columns map[string]int

// Has reports whether the key was resolved to a source column.
func (c Columns) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// MissingColumnError reports required schema keys with no matching header.
type MissingColumnError struct {
	Dataset string
	Keys    []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): %s", e.Dataset, strings.Join(e.Keys, ", "))
}

// Resolve matches raw headers against the dataset's keys and aliases.
// Headers are normalized with NormalizeHeader first; unknown headers are ignored.
// The first header matching a key wins.
func (d Dataset) Resolve(headers []string) (Columns, error) {
	lookup := make(map[string]string)
	register := func(key string, aliases []string) {
		lookup[key] = key
		for _, a := range aliases {
			lookup[NormalizeHeader(a)] = key
		}
	}
	for _, dim := range d.Dimensions {
		register(dim.Key, dim.Aliases)
	}
	for _, m := range d.Measures {
		register(m.Key, m.Aliases)
	}

	cols := make(Columns)
	for i, h := range headers {
		key, ok := lookup[NormalizeHeader(h)]
		if !ok || cols.Has(key) {
			continue
		}
		cols[key] = i
	}

	var missing []string
	for _, dim := range d.Dimensions {
		if dim.Required && !cols.Has(dim.Key) {
			missing = append(missing, dim.Key)
		}
	}
	for _, m := range d.Measures {
		if m.Required && !cols.Has(m.Key) {
			missing = append(missing, m.Key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Dataset: d.Name, Keys: missing}
	}
	return cols, nil
}

package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// Only is shorthand for a single-dimension filter. An empty value or "All"
// (the dashboard's catch-all selection) means no restriction.
func Only(dimension, value string) Filters {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return Filters{}
	}
	return Filters{Dimensions: map[string][]string{dimension: {value}}}
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of records matching all dimension filters.
// Matching is case-insensitive and ignores surrounding whitespace.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	return Where(view, func(i int) bool {
		for dim, set := range sets {
			if !set[normalizeKey(view.Dimension(i, dim))] {
				return false
			}
		}
		return true
	})
}

// Where returns a view of the records for which keep returns true.
func Where(view RecordView, keep func(i int) bool) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[normalizeKey(item)] = true
	}
	return set
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameKey reports whether two names refer to the same district, state or city.
func SameKey(a, b string) bool {
	return normalizeKey(a) == normalizeKey(b)
}

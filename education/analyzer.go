// Package education analyzes district literacy rates.
//
// Every function is pure and treats its input slice as read-only, so one
// loaded table can be shared by concurrent callers.
package education

import (
	"sort"
	"strings"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/schema"
)

// DefaultLiteracyThreshold is the rate below which a district is flagged.
const DefaultLiteracyThreshold = 60.0

// Stats describes the literacy distribution of a set of districts.
type Stats struct {
	AvgLiteracy   float64 `json:"avg_literacy"`
	MinLiteracy   float64 `json:"min_literacy"`
	MaxLiteracy   float64 `json:"max_literacy"`
	DistrictCount int     `json:"district_count"`
}

// Side is one resolved key of a comparison.
type Side struct {
	Key   string  `json:"key"`
	Kind  string  `json:"kind"` // "district" or "state"
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Comparison holds two resolved keys and Delta = A.Value - B.Value.
type Comparison struct {
	A     Side    `json:"a"`
	B     Side    `json:"b"`
	Delta float64 `json:"delta"`
}

// StateStat is the mean literacy of one state.
type StateStat struct {
	State string  `json:"state"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

var adapter = engine.NewDomainAdapter[dataset.LiteracyRecord]().
	Dimension(schema.KeyDistrict, func(r dataset.LiteracyRecord) string { return r.District }).
	Dimension(schema.KeyState, func(r dataset.LiteracyRecord) string { return r.State }).
	Measure(schema.KeyLiteracy, func(r dataset.LiteracyRecord) float64 { return r.LiteracyRate })

// View exposes records to the engine (grouping, filtering, table building).
func View(records []dataset.LiteracyRecord) *engine.DomainView[dataset.LiteracyRecord] {
	return adapter.Bind(records)
}

// ============================================================================
// SUMMARY & RANKING
// ============================================================================

// Summary returns mean, min and max literacy over records.
func Summary(records []dataset.LiteracyRecord) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, engine.NewEmptyInput("education.Summary")
	}
	view := View(records)
	return Stats{
		AvgLiteracy:   engine.AvgMeasure(view, schema.KeyLiteracy),
		MinLiteracy:   engine.MinMeasure(view, schema.KeyLiteracy),
		MaxLiteracy:   engine.MaxMeasure(view, schema.KeyLiteracy),
		DistrictCount: len(records),
	}, nil
}

// TopN returns the n most literate districts, ties broken by district name.
func TopN(records []dataset.LiteracyRecord, n int) []dataset.LiteracyRecord {
	if n <= 0 || len(records) == 0 {
		return []dataset.LiteracyRecord{}
	}
	sorted := make([]dataset.LiteracyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LiteracyRate != sorted[j].LiteracyRate {
			return sorted[i].LiteracyRate > sorted[j].LiteracyRate
		}
		return sorted[i].District < sorted[j].District
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// LowLiteracyAlerts returns records strictly below threshold, in input order.
func LowLiteracyAlerts(records []dataset.LiteracyRecord, threshold float64) []dataset.LiteracyRecord {
	view := View(records)
	low := engine.Where(view, func(i int) bool {
		return view.Measure(i, schema.KeyLiteracy) < threshold
	})
	out := view.Collect(low)
	if out == nil {
		out = []dataset.LiteracyRecord{}
	}
	return out
}

// ============================================================================
// STATES
// ============================================================================

// StateAggregate maps each state to its mean literacy.
// States differing only in case are merged under the first spelling seen.
func StateAggregate(records []dataset.LiteracyRecord) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range StateStats(records) {
		out[s.State] = s.Mean
	}
	return out
}

// StateStats returns per-state means, highest first, ties by state name.
func StateStats(records []dataset.LiteracyRecord) []StateStat {
	groups := engine.GroupAndAggregate(View(records), []string{schema.KeyState},
		schema.KeyLiteracy, engine.AggAvg, engine.SortValueDesc, 0)

	stats := make([]StateStat, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, StateStat{State: g.Label, Mean: g.Value, Count: g.Count})
	}
	return stats
}

// FilterState keeps records of one state. "" and "All" keep everything.
func FilterState(records []dataset.LiteracyRecord, state string) []dataset.LiteracyRecord {
	filters := engine.Only(schema.KeyState, state)
	if filters.IsEmpty() {
		return records
	}
	view := View(records)
	out := view.Collect(engine.ApplyFilters(view, filters))
	if out == nil {
		out = []dataset.LiteracyRecord{}
	}
	return out
}

// States returns the distinct state names, sorted.
func States(records []dataset.LiteracyRecord) []string {
	return engine.UniqueValues(View(records), schema.KeyState)
}

// Histogram buckets literacy rates into equal-width bins over [min, max].
func Histogram(records []dataset.LiteracyRecord, bins int) []engine.Bin {
	return engine.EqualWidthBins(engine.MeasureValues(View(records), schema.KeyLiteracy), bins)
}

// ============================================================================
// COMPARE
// ============================================================================

// Compare resolves each key to a district (case-insensitive) or, failing
// that, to a state whose value is the state mean.
func Compare(records []dataset.LiteracyRecord, keyA, keyB string) (Comparison, error) {
	a, okA := resolve(records, keyA)
	b, okB := resolve(records, keyB)

	var missing []string
	if !okA {
		missing = append(missing, keyA)
	}
	if !okB {
		missing = append(missing, keyB)
	}
	if err := engine.NewNotFound("district or state", missing...); err != nil {
		return Comparison{}, err
	}

	return Comparison{A: a, B: b, Delta: a.Value - b.Value}, nil
}

func resolve(records []dataset.LiteracyRecord, key string) (Side, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Side{}, false
	}
	view := View(records)

	for _, kind := range []string{schema.KeyDistrict, schema.KeyState} {
		matched := engine.Where(view, func(i int) bool {
			return engine.SameKey(view.Dimension(i, kind), key)
		})
		if matched.Len() == 0 {
			continue
		}
		return Side{
			Key:   matched.Dimension(0, kind),
			Kind:  kind,
			Value: engine.AvgMeasure(matched, schema.KeyLiteracy),
			Count: matched.Len(),
		}, true
	}
	return Side{}, false
}

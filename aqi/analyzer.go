// Package aqi analyzes daily city air-quality readings.
//
// Functions are pure: inputs are never modified and may be shared across
// goroutines. Pollutant cells holding NaN are skipped by every statistic.
package aqi

import (
	"math"
	"time"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/schema"
)

// DefaultAQIThreshold is the AQI above which a reading is flagged.
const DefaultAQIThreshold = 200.0

// Period dimensions registered on the engine view.
const (
	keyDay   = "day"
	keyMonth = "month"
	keyYear  = "year"
)

var adapter = newAdapter()

func newAdapter() *engine.DomainAdapter[dataset.AQIRecord] {
	a := engine.NewDomainAdapter[dataset.AQIRecord]().
		Dimension(schema.KeyCity, func(r dataset.AQIRecord) string { return r.City }).
		Dimension(schema.KeyDate, func(r dataset.AQIRecord) string { return r.Date.Format(time.DateOnly) })
	for _, p := range dataset.Pollutants {
		a.Measure(p.Key(), func(r dataset.AQIRecord) float64 { return r.Value(p) })
	}
	return a
}

// periodAdapter adds calendar buckets; kept apart so list tables show only city and date.
var periodAdapter = newAdapter().
	Dimension(keyDay, func(r dataset.AQIRecord) string { return r.Date.Format("2006-01-02") }).
	Dimension(keyMonth, func(r dataset.AQIRecord) string { return r.Date.Format("2006-01") }).
	Dimension(keyYear, func(r dataset.AQIRecord) string { return r.Date.Format("2006") })

// View exposes records to the engine.
func View(records []dataset.AQIRecord) *engine.DomainView[dataset.AQIRecord] {
	return adapter.Bind(records)
}

// Stats summarizes a set of readings. Averages and maxima over no measured
// cells are NaN.
type Stats struct {
	AvgAQI  engine.Float `json:"avg_aqi"`
	AvgPM25 engine.Float `json:"avg_pm25"`
	AvgPM10 engine.Float `json:"avg_pm10"`
	MaxAQI  engine.Float `json:"max_aqi"`
	MaxPM25 engine.Float `json:"max_pm25"`
	MaxPM10 engine.Float `json:"max_pm10"`
	Count   int          `json:"count"`
}

// Comparison places two cities side by side.
type Comparison struct {
	CityA       string       `json:"city_a"`
	CityB       string       `json:"city_b"`
	A           Stats        `json:"a"`
	B           Stats        `json:"b"`
	DeltaAvgAQI engine.Float `json:"delta_avg_aqi"`
}

// CityAverage is the mean AQI of one city.
type CityAverage struct {
	City   string       `json:"city"`
	AvgAQI engine.Float `json:"avg_aqi"`
	Count  int          `json:"count"`
}

// CityPeak is the highest AQI reading of one city.
type CityPeak struct {
	City   string       `json:"city"`
	MaxAQI engine.Float `json:"max_aqi"`
	Count  int          `json:"count"`
}

// ============================================================================
// SUMMARY & ALERTS
// ============================================================================

// Summary averages AQI, PM2.5 and PM10 and reports their maxima.
func Summary(records []dataset.AQIRecord) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, engine.NewEmptyInput("aqi.Summary")
	}
	return summarize(View(records)), nil
}

func summarize(view engine.RecordView) Stats {
	return Stats{
		AvgAQI:  engine.Float(engine.AvgMeasure(view, schema.KeyAQI)),
		AvgPM25: engine.Float(engine.AvgMeasure(view, schema.KeyPM25)),
		AvgPM10: engine.Float(engine.AvgMeasure(view, schema.KeyPM10)),
		MaxAQI:  engine.Float(engine.MaxMeasure(view, schema.KeyAQI)),
		MaxPM25: engine.Float(engine.MaxMeasure(view, schema.KeyPM25)),
		MaxPM10: engine.Float(engine.MaxMeasure(view, schema.KeyPM10)),
		Count:   view.Len(),
	}
}

// HighPollutionAlerts returns readings with AQI strictly above threshold, in input order.
func HighPollutionAlerts(records []dataset.AQIRecord, threshold float64) []dataset.AQIRecord {
	out := make([]dataset.AQIRecord, 0)
	for _, r := range records {
		if r.AQI > threshold {
			out = append(out, r)
		}
	}
	return out
}

// ============================================================================
// COMPARE & RANKING
// ============================================================================

// Compare summarizes two cities (case-insensitive) and their AQI gap.
func Compare(records []dataset.AQIRecord, cityA, cityB string) (Comparison, error) {
	view := View(records)
	a := engine.ApplyFilters(view, engine.Only(schema.KeyCity, cityA))
	b := engine.ApplyFilters(view, engine.Only(schema.KeyCity, cityB))

	var missing []string
	if isBlank(cityA) || a.Len() == 0 {
		missing = append(missing, cityA)
	}
	if isBlank(cityB) || b.Len() == 0 {
		missing = append(missing, cityB)
	}
	if err := engine.NewNotFound("city", missing...); err != nil {
		return Comparison{}, err
	}

	sa, sb := summarize(a), summarize(b)
	return Comparison{
		CityA:       a.Dimension(0, schema.KeyCity),
		CityB:       b.Dimension(0, schema.KeyCity),
		A:           sa,
		B:           sb,
		DeltaAvgAQI: sa.AvgAQI - sb.AvgAQI,
	}, nil
}

// isBlank rejects the "no filter" spellings, which name no city.
func isBlank(city string) bool {
	return engine.Only(schema.KeyCity, city).IsEmpty()
}

// MostPolluted ranks cities by mean AQI, highest first. n <= 0 returns every city.
func MostPolluted(records []dataset.AQIRecord, n int) []CityAverage {
	groups := engine.GroupAndAggregate(View(records), []string{schema.KeyCity},
		schema.KeyAQI, engine.AggAvg, engine.SortValueDesc, n)

	out := make([]CityAverage, 0, len(groups))
	for _, g := range groups {
		out = append(out, CityAverage{City: g.Label, AvgAQI: engine.Float(g.Value), Count: g.Count})
	}
	return out
}

// CityPeaks reports the highest AQI of each named city, highest first.
// With no cities given every city is included.
func CityPeaks(records []dataset.AQIRecord, cities ...string) []CityPeak {
	view := engine.ApplyFilters(View(records),
		engine.Filters{Dimensions: map[string][]string{schema.KeyCity: cities}})
	groups := engine.GroupAndAggregate(view, []string{schema.KeyCity},
		schema.KeyAQI, engine.AggMax, engine.SortValueDesc, 0)

	out := make([]CityPeak, 0, len(groups))
	for _, g := range groups {
		out = append(out, CityPeak{City: g.Label, MaxAQI: engine.Float(g.Value), Count: g.Count})
	}
	return out
}

// ============================================================================
// FILTERS
// ============================================================================

// FilterCity keeps readings of one city. "" and "All" keep everything.
func FilterCity(records []dataset.AQIRecord, city string) []dataset.AQIRecord {
	if isBlank(city) {
		return records
	}
	out := make([]dataset.AQIRecord, 0)
	for _, r := range records {
		if engine.SameKey(r.City, city) {
			out = append(out, r)
		}
	}
	return out
}

// FilterDateRange keeps readings with from <= date <= to. A zero bound is open.
func FilterDateRange(records []dataset.AQIRecord, from, to time.Time) []dataset.AQIRecord {
	if from.IsZero() && to.IsZero() {
		return records
	}
	out := make([]dataset.AQIRecord, 0, len(records))
	for _, r := range records {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Cities returns distinct city names, sorted.
func Cities(records []dataset.AQIRecord) []string {
	return engine.UniqueValues(View(records), schema.KeyCity)
}

// DateBounds returns the earliest and latest reading dates; ok is false for no records.
func DateBounds(records []dataset.AQIRecord) (first, last time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, true
}

// ============================================================================
// CATEGORY
// ============================================================================

// Category names the health band of an AQI value.
func Category(aqi float64) string {
	switch {
	case math.IsNaN(aqi):
		return "Unknown"
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	}
	return "Unhealthy"
}

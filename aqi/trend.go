package aqi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/schema"
)

// ============================================================================
// TREND — mean AQI per calendar period
// ============================================================================

// Granularity is the calendar bucket of a trend.
type Granularity int

const (
	Monthly Granularity = iota
	Yearly
	Daily
)

// ErrUnknownGranularity is returned by ParseGranularity.
var ErrUnknownGranularity = errors.New("unknown granularity")

var granularities = [...]struct {
	name   string
	key    string
	layout string
}{
	Monthly: {"monthly", keyMonth, "2006-01"},
	Yearly:  {"yearly", keyYear, "2006"},
	Daily:   {"daily", keyDay, "2006-01-02"},
}

func (g Granularity) String() string {
	if g < 0 || int(g) >= len(granularities) {
		return "unknown"
	}
	return granularities[g].name
}

// ParseGranularity accepts "monthly"/"month", "yearly"/"year" and "daily"/"day".
// An empty string means Monthly.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month", "m":
		return Monthly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	case "daily", "day", "d":
		return Daily, nil
	}
	return Monthly, fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// TrendPoint is the mean AQI of one period.
type TrendPoint struct {
	Period time.Time    `json:"period"`
	Label  string       `json:"label"`
	AvgAQI engine.Float `json:"avg_aqi"`
	Count  int          `json:"count"`
}

// Trend averages AQI per period, oldest period first.
// An unknown granularity falls back to Monthly.
func Trend(records []dataset.AQIRecord, g Granularity) []TrendPoint {
	if g < 0 || int(g) >= len(granularities) {
		g = Monthly
	}
	spec := granularities[g]

	groups := engine.GroupAndAggregate(periodAdapter.Bind(records), []string{spec.key},
		schema.KeyAQI, engine.AggAvg, engine.SortChronological, 0)

	points := make([]TrendPoint, 0, len(groups))
	for _, grp := range groups {
		period, err := time.Parse(spec.layout, grp.Label)
		if err != nil {
			continue
		}
		points = append(points, TrendPoint{
			Period: period,
			Label:  grp.Label,
			AvgAQI: engine.Float(grp.Value),
			Count:  grp.Count,
		})
	}
	return points
}

// CityTrend averages AQI per period and city, oldest period first. Each group
// is one period; its SubGroups hold the cities seen in that period. With no
// cities given every city is included.
func CityTrend(records []dataset.AQIRecord, g Granularity, cities ...string) []engine.Group {
	if g < 0 || int(g) >= len(granularities) {
		g = Monthly
	}
	view := engine.ApplyFilters(periodAdapter.Bind(records),
		engine.Filters{Dimensions: map[string][]string{schema.KeyCity: cities}})

	return engine.GroupAndAggregate(view, []string{granularities[g].key, schema.KeyCity},
		schema.KeyAQI, engine.AggAvg, engine.SortChronological, 0)
}

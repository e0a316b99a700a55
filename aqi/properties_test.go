package aqi

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/spektr-org/insightedu/dataset"
)

// ============================================================================
// TABLE-WIDE PROPERTIES — repeated, single and generated readings
// ============================================================================

func repeatedReadings(v float64, n int) []dataset.AQIRecord {
	records := make([]dataset.AQIRecord, n)
	for i := range records {
		records[i] = reading("Delhi", day(2020, 1, 1).AddDate(0, 0, i), v, v/2, v, nan, nan)
	}
	return records
}

// generatedReadings draws readings with gaps: roughly a third of the
// pollutant cells are unmeasured and SO2 is never measured.
func generatedReadings(seed int64, n int) []dataset.AQIRecord {
	rng := rand.New(rand.NewSource(seed))
	cell := func(scale float64) float64 {
		if rng.Intn(3) == 0 {
			return nan
		}
		return math.Round(rng.Float64()*scale*10) / 10
	}
	cities := []string{"Delhi", "Mumbai", "Pune", "Chennai"}
	records := make([]dataset.AQIRecord, n)
	for i := range records {
		aqi := math.Round(rng.Float64() * 500)
		records[i] = reading(cities[i%len(cities)], day(2019, 1, 1).AddDate(0, 0, i/len(cities)),
			aqi, cell(250), cell(400), cell(80), nan)
	}
	return records
}

func readingTables() map[string][]dataset.AQIRecord {
	tables := map[string][]dataset.AQIRecord{
		"single":   repeatedReadings(88, 1),
		"0.1 x3":   repeatedReadings(0.1, 3),
		"70.1 x11": repeatedReadings(70.1, 11),
		"three":    sample,
		"mixed":    mixed,
	}
	for seed := int64(1); seed <= 5; seed++ {
		tables[fmt.Sprintf("generated %d", seed)] = generatedReadings(seed, 20+int(seed)*41)
	}
	return tables
}

func TestSummaryAllTables(t *testing.T) {
	for name, records := range readingTables() {
		s, err := Summary(records)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		var sum float64
		for _, r := range records {
			sum += r.AQI
		}
		mean := sum / float64(len(records))
		if math.Abs(float64(s.AvgAQI)-mean) > 1e-9 {
			t.Errorf("%s: avg aqi = %v, arithmetic mean = %v", name, s.AvgAQI, mean)
		}
		if s.AvgAQI < 0 || s.AvgAQI > s.MaxAQI {
			t.Errorf("%s: 0 <= avg %v <= max %v violated", name, s.AvgAQI, s.MaxAQI)
		}
		if !math.IsNaN(float64(s.AvgPM25)) && s.AvgPM25 > s.MaxPM25 {
			t.Errorf("%s: avg pm2.5 %v above max %v", name, s.AvgPM25, s.MaxPM25)
		}
	}
}

func TestPollutantCorrelationAllTables(t *testing.T) {
	for name, records := range readingTables() {
		m := PollutantCorrelation(records)
		for i := range m.Values {
			for j := range m.Values {
				a, b := m.Values[i][j], m.Values[j][i]
				if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
					t.Errorf("%s: not symmetric at (%d,%d): %v vs %v", name, i, j, a, b)
				}
				if a < -1 || a > 1 {
					t.Errorf("%s: coefficient out of range at (%d,%d): %v", name, i, j, a)
				}
			}
			// the diagonal is 1 for every column that varies, NaN otherwise
			if d := m.Values[i][i]; d != 1 && !math.IsNaN(d) {
				t.Errorf("%s: diagonal[%d] = %v", name, i, d)
			}
		}
	}

	for seed := int64(1); seed <= 5; seed++ {
		m := PollutantCorrelation(generatedReadings(seed, 200))
		for i, p := range m.Pollutants {
			d := m.Values[i][i]
			if p == dataset.SO2 {
				if !math.IsNaN(d) {
					t.Errorf("seed %d: unmeasured SO2 diagonal = %v, want NaN", seed, d)
				}
				continue
			}
			if d != 1 {
				t.Errorf("seed %d: %s diagonal = %v, want 1", seed, p, d)
			}
		}
	}
}

func TestHighPollutionAlertsAllTables(t *testing.T) {
	for name, records := range readingTables() {
		alerts := HighPollutionAlerts(records, DefaultAQIThreshold)
		want := 0
		for _, r := range records {
			if r.AQI > DefaultAQIThreshold {
				want++
			}
		}
		if len(alerts) != want {
			t.Errorf("%s: %d alerts, want %d", name, len(alerts), want)
		}
	}
}

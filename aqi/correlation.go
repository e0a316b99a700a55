package aqi

import (
	"encoding/json"
	"math"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
)

// DefaultCorrelationPollutants are the columns of the dashboard heatmap.
var DefaultCorrelationPollutants = []dataset.Pollutant{dataset.AQI, dataset.PM25, dataset.PM10, dataset.NO2, dataset.SO2}

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j]
// correlates Pollutants[i] with Pollutants[j]; NaN marks an undefined pair.
type CorrelationMatrix struct {
	Pollutants []dataset.Pollutant
	Values     [][]float64
}

// PollutantCorrelation correlates each pair of pollutants over the readings
// where both are measured. With no pollutants given it uses
// DefaultCorrelationPollutants.
func PollutantCorrelation(records []dataset.AQIRecord, pollutants ...dataset.Pollutant) CorrelationMatrix {
	if len(pollutants) == 0 {
		pollutants = DefaultCorrelationPollutants
	}

	columns := make([][]float64, len(pollutants))
	for i, p := range pollutants {
		col := make([]float64, len(records))
		for j, r := range records {
			col[j] = r.Value(p)
		}
		columns[i] = col
	}

	n := len(pollutants)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		// Pearson(x, x) is 1 exactly when x varies over at least two cells
		if math.IsNaN(engine.Pearson(columns[i], columns[i])) {
			values[i][i] = math.NaN()
		} else {
			values[i][i] = 1
		}
		for j := i + 1; j < n; j++ {
			r := engine.Pearson(columns[i], columns[j])
			values[i][j], values[j][i] = r, r
		}
	}

	return CorrelationMatrix{Pollutants: append([]dataset.Pollutant(nil), pollutants...), Values: values}
}

// Labels returns the pollutant labels in matrix order.
func (m CorrelationMatrix) Labels() []string {
	labels := make([]string, len(m.Pollutants))
	for i, p := range m.Pollutants {
		labels[i] = p.String()
	}
	return labels
}

// Get returns the coefficient of a and b; NaN when either is not in the matrix.
func (m CorrelationMatrix) Get(a, b dataset.Pollutant) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m CorrelationMatrix) index(p dataset.Pollutant) int {
	for i, q := range m.Pollutants {
		if q == p {
			return i
		}
	}
	return -1
}

// MarshalJSON writes labels and values; undefined coefficients become null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]engine.Float, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]engine.Float, len(row))
		for j, v := range row {
			values[i][j] = engine.Float(v)
		}
	}
	return json.Marshal(struct {
		Labels []string         `json:"labels"`
		Values [][]engine.Float `json:"values"`
	}{m.Labels(), values})
}

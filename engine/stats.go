package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// STATISTICS — means, Pearson correlation, equal-width bins
// ============================================================================

// Mean is the arithmetic mean of values; NaN for an empty slice.
// The result always lies within [min, max] of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return nan
	}
	m := stat.Mean(values, nil)
	// rounding in the running sum can land one ulp outside the data range
	return math.Min(math.Max(m, floats.Min(values)), floats.Max(values))
}

// Pearson returns the Pearson correlation coefficient of x and y over the
// positions where both hold a value (pairwise-complete observations).
// r is scale-free, so the sample and population forms agree.
// Returns NaN with fewer than two pairs or when either side is constant.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return nan
	}
	r := stat.Correlation(xs, ys, nil)
	// guard against rounding pushing |r| past 1
	return math.Max(-1, math.Min(1, r))
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Bin is one bucket of a histogram: [Lower, Upper), the last bin closed.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// EqualWidthBins buckets values into n equal-width bins spanning [min, max].
// NaN values are ignored. Returns nil for n ≤ 0 or no values.
// When every value is equal a single bin holds them all.
func EqualWidthBins(values []float64, n int) []Bin {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if n <= 0 || len(clean) == 0 {
		return nil
	}

	lo, hi := floats.Min(clean), floats.Max(clean)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(clean)}}
	}

	edges := floats.Span(make([]float64, n+1), lo, hi)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
	}

	width := (hi - lo) / float64(n)
	for _, v := range clean {
		idx := int((v - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		// rounding at bin edges
		for idx > 0 && v < bins[idx].Lower {
			idx--
		}
		for idx < n-1 && v >= bins[idx].Upper {
			idx++
		}
		bins[idx].Count++
	}
	return bins
}

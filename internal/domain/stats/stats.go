// Package stats computes latency distributions.
//
// Percentiles use linear interpolation between closest ranks (the R-7
// estimator, NumPy's default): rank = p/100*(n-1), and the value is
// interpolated between the samples at floor(rank) and ceil(rank).
package stats

import (
	"math"
	"sort"
)

// PercentileMethod names the estimator used by Percentile.
const PercentileMethod = "linear"

// Latency aggregates a set of latency samples in milliseconds.
// A zero Latency (Count == 0) means "no data".
type Latency struct {
	Count  int
	Mean   float64
	Median float64
	P95    float64
	P99    float64
	Min    float64
	Max    float64
}

// Summarize computes aggregates over samples. The input is not modified.
// NaN and negative samples are ignored.
func Summarize(samples []float64) Latency {
	sorted := make([]float64, 0, len(samples))
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		sorted = append(sorted, v)
	}
	if len(sorted) == 0 {
		return Latency{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return Latency{
		Count:  len(sorted),
		Mean:   sum / float64(len(sorted)),
		Median: Percentile(sorted, 50),
		P95:    Percentile(sorted, 95),
		P99:    Percentile(sorted, 99),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Percentile returns the p-th percentile (0..100) of an ascending slice.
// It returns 0 for an empty slice; p is clamped to [0, 100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

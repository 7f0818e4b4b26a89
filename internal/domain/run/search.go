package run

import (
	"github.com/kailas-cloud/ftbench/internal/domain/stats"
)

// Sample is the outcome of a single query.
type Sample struct {
	Query     string
	LatencyMS float64
	Hits      int
	Err       error
}

// OK reports whether the query succeeded.
func (s Sample) OK() bool { return s.Err == nil }

// SearchRun is the result of the full query set against one index (immutable).
// Aggregates cover successful samples only and are computed once on construction.
type SearchRun struct {
	indexName string
	samples   []Sample
	latencies []float64
	failed    int
	stats     stats.Latency
}

// NewSearchRun builds a SearchRun from samples in query order.
func NewSearchRun(indexName string, samples []Sample) SearchRun {
	r := SearchRun{
		indexName: indexName,
		samples:   make([]Sample, len(samples)),
		latencies: make([]float64, 0, len(samples)),
	}
	copy(r.samples, samples)

	for _, s := range samples {
		if !s.OK() {
			r.failed++
			continue
		}
		r.latencies = append(r.latencies, s.LatencyMS)
	}
	r.stats = stats.Summarize(r.latencies)
	return r
}

// IndexName returns the queried index.
func (r SearchRun) IndexName() string { return r.indexName }

// Samples returns a copy of all samples in query order.
func (r SearchRun) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Latencies returns the successful latencies in query order.
func (r SearchRun) Latencies() []float64 {
	out := make([]float64, len(r.latencies))
	copy(out, r.latencies)
	return out
}

// Total returns the number of queries issued.
func (r SearchRun) Total() int { return len(r.samples) }

// Successful returns the number of queries that returned a result.
func (r SearchRun) Successful() int { return len(r.samples) - r.failed }

// Failed returns the number of queries that errored.
func (r SearchRun) Failed() int { return r.failed }

// AllFailed reports whether at least one query ran and none succeeded.
func (r SearchRun) AllFailed() bool { return len(r.samples) > 0 && r.failed == len(r.samples) }

// Stats returns the latency aggregates.
func (r SearchRun) Stats() stats.Latency { return r.stats }

// TotalHits sums hit counts over successful queries.
func (r SearchRun) TotalHits() int {
	n := 0
	for _, s := range r.samples {
		if s.OK() {
			n += s.Hits
		}
	}
	return n
}

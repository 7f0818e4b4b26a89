package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

// Benchmark Prometheus metrics.
var (
	IndexedDocsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ftbench",
			Name:      "indexed_docs_total",
			Help:      "Total number of documents bulk-indexed",
		},
		[]string{"engine", "dataset"},
	)

	IndexingDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ftbench",
			Name:      "indexing_duration_seconds",
			Help:      "Wall-clock duration of the last bulk indexing run",
		},
		[]string{"engine", "dataset"},
	)

	IndexingThroughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ftbench",
			Name:      "indexing_docs_per_second",
			Help:      "Throughput of the last bulk indexing run (0 when below the timing floor)",
		},
		[]string{"engine", "dataset"},
	)

	QueryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ftbench",
			Name:      "query_latency_seconds",
			Help:      "Latency of successful benchmark queries in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"engine", "dataset"},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ftbench",
			Name:      "queries_total",
			Help:      "Total benchmark queries by outcome",
		},
		[]string{"engine", "dataset", "status"}, // "ok" / "error"
	)

	IndexSizeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ftbench",
			Name:      "index_size_bytes",
			Help:      "Storage footprint of the benchmark index",
		},
		[]string{"engine", "dataset"},
	)

	// IndexComponentBytes breaks the footprint down by engine structure.
	IndexComponentBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ftbench",
			Name:      "index_component_bytes",
			Help:      "Storage footprint of one index structure",
		},
		[]string{"engine", "dataset", "component"},
	)
)

var registerBench sync.Once

// RegisterBenchMetrics registers the benchmark collectors with the default registry. Safe to call more than once.
func RegisterBenchMetrics() {
	registerBench.Do(func() {
		prometheus.MustRegister(
			IndexedDocsTotal,
			IndexingDuration,
			IndexingThroughput,
			QueryLatency,
			QueriesTotal,
			IndexSizeBytes,
			IndexComponentBytes,
		)
	})
}

// Recorder feeds driver measurements into the benchmark collectors.
type Recorder struct{}

// NewRecorder registers the collectors and returns a Recorder.
func NewRecorder() *Recorder {
	RegisterBenchMetrics()
	return &Recorder{}
}

// IndexingDone records a bulk indexing run.
func (*Recorder) IndexingDone(engine, dataset string, r run.IndexingRun) {
	IndexedDocsTotal.WithLabelValues(engine, dataset).Add(float64(r.TotalDocs()))
	IndexingDuration.WithLabelValues(engine, dataset).Set(r.ElapsedSeconds())
	IndexingThroughput.WithLabelValues(engine, dataset).Set(r.DocsPerSecond())
}

// QueryDone records one query sample.
func (*Recorder) QueryDone(engine, dataset string, s run.Sample) {
	if !s.OK() {
		QueriesTotal.WithLabelValues(engine, dataset, "error").Inc()
		return
	}
	QueriesTotal.WithLabelValues(engine, dataset, "ok").Inc()
	QueryLatency.WithLabelValues(engine, dataset).Observe(s.LatencyMS / 1000)
}

// FootprintDone records the index footprint.
func (*Recorder) FootprintDone(engine, dataset string, f run.Footprint) {
	IndexSizeBytes.WithLabelValues(engine, dataset).Set(float64(f.SizeBytes()))
	for name, b := range f.Components() {
		IndexComponentBytes.WithLabelValues(engine, dataset, name).Set(float64(b))
	}
}

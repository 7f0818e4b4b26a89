package report

import (
	"time"

	"github.com/kailas-cloud/ftbench/internal/domain/run"
	"github.com/kailas-cloud/ftbench/internal/domain/stats"
)

// IndexingStats is the persisted form of run.IndexingRun.
type IndexingStats struct {
	IndexName         string  `json:"index_name"`
	TotalDocs         int     `json:"total_docs"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
	DocsPerSecond     float64 `json:"docs_per_second"`
	ThroughputDefined bool    `json:"throughput_defined"`
}

// QueryFailure names a query that failed and why.
type QueryFailure struct {
	Query string `json:"query"`
	Error string `json:"error"`
}

// SearchStats is the persisted form of run.SearchRun.
type SearchStats struct {
	IndexName         string         `json:"index_name"`
	TotalQueries      int            `json:"total_queries"`
	SuccessfulQueries int            `json:"successful_queries"`
	FailedQueries     int            `json:"failed_queries"`
	MeanLatencyMS     float64        `json:"mean_latency_ms"`
	MedianLatencyMS   float64        `json:"median_latency_ms"`
	P95LatencyMS      float64        `json:"p95_latency_ms"`
	P99LatencyMS      float64        `json:"p99_latency_ms"`
	MinLatencyMS      float64        `json:"min_latency_ms"`
	MaxLatencyMS      float64        `json:"max_latency_ms"`
	LatenciesMS       []*float64     `json:"latencies_ms"` // one per query, null when it failed
	TotalHits         int            `json:"total_hits"`
	PercentileMethod  string         `json:"percentile_method"`
	Failures          []QueryFailure `json:"failures,omitempty"`
}

// MemoryStats is the persisted form of run.Footprint.
type MemoryStats struct {
	IndexName      string           `json:"index_name"`
	StoreSizeBytes int64            `json:"store_size_bytes"`
	StoreSizeMB    float64          `json:"store_size_mb"`
	DocCount       int64            `json:"doc_count"`
	Components     map[string]int64 `json:"components,omitempty"` // bytes per engine structure
}

// DatasetSummary groups the three artifacts of one dataset.
type DatasetSummary struct {
	IndexName string        `json:"index_name"`
	Indexing  IndexingStats `json:"indexing"`
	Search    SearchStats   `json:"search"`
	Memory    MemoryStats   `json:"memory"`
}

// SummaryReport is the persisted form of run.Summary.
type SummaryReport struct {
	RunID       string                    `json:"run_id"`
	Engine      string                    `json:"engine"`
	CreatedAt   time.Time                 `json:"created_at"`
	QueryCount  int                       `json:"query_count"`
	TotalSizeMB float64                   `json:"total_size_mb"`
	Datasets    map[string]DatasetSummary `json:"datasets"`
}

// NewIndexingStats converts an indexing run.
func NewIndexingStats(r run.IndexingRun) IndexingStats {
	return IndexingStats{
		IndexName:         r.IndexName(),
		TotalDocs:         r.TotalDocs(),
		ElapsedSeconds:    r.ElapsedSeconds(),
		DocsPerSecond:     r.DocsPerSecond(),
		ThroughputDefined: r.ThroughputDefined(),
	}
}

// NewSearchStats converts a search run.
func NewSearchStats(r run.SearchRun) SearchStats {
	st := r.Stats()
	out := SearchStats{
		IndexName:         r.IndexName(),
		TotalQueries:      r.Total(),
		SuccessfulQueries: r.Successful(),
		FailedQueries:     r.Failed(),
		MeanLatencyMS:     st.Mean,
		MedianLatencyMS:   st.Median,
		P95LatencyMS:      st.P95,
		P99LatencyMS:      st.P99,
		MinLatencyMS:      st.Min,
		MaxLatencyMS:      st.Max,
		LatenciesMS:       make([]*float64, 0, r.Total()),
		TotalHits:         r.TotalHits(),
		PercentileMethod:  stats.PercentileMethod,
	}
	for _, s := range r.Samples() {
		if !s.OK() {
			out.LatenciesMS = append(out.LatenciesMS, nil)
			out.Failures = append(out.Failures, QueryFailure{Query: s.Query, Error: s.Err.Error()})
			continue
		}
		ms := s.LatencyMS
		out.LatenciesMS = append(out.LatenciesMS, &ms)
	}
	return out
}

// NewMemoryStats converts a footprint.
func NewMemoryStats(f run.Footprint) MemoryStats {
	return MemoryStats{
		IndexName:      f.IndexName(),
		StoreSizeBytes: f.SizeBytes(),
		StoreSizeMB:    f.SizeMB(),
		DocCount:       f.DocCount(),
		Components:     f.Components(),
	}
}

// NewSummaryReport converts a summary.
func NewSummaryReport(s run.Summary) SummaryReport {
	out := SummaryReport{
		RunID:       s.ID(),
		Engine:      s.Engine(),
		CreatedAt:   s.CreatedAt().UTC(),
		QueryCount:  s.QueryCount(),
		TotalSizeMB: s.TotalSizeMB(),
		Datasets:    make(map[string]DatasetSummary, len(s.Datasets())),
	}
	for _, d := range s.Datasets() {
		out.Datasets[d.Name] = DatasetSummary{
			IndexName: d.Index,
			Indexing:  NewIndexingStats(d.Indexing),
			Search:    NewSearchStats(d.Search),
			Memory:    NewMemoryStats(d.Footprint),
		}
	}
	return out
}

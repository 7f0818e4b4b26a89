package run

import (
	"math"
	"time"
)

// DefaultMinElapsed is the shortest indexing duration for which throughput is reported.
const DefaultMinElapsed = time.Millisecond

// IndexingRun is the result of one bulk indexing submission (immutable).
type IndexingRun struct {
	indexName     string
	totalDocs     int
	elapsed       time.Duration
	docsPerSecond float64
	defined       bool
}

// NewIndexingRun derives throughput from totalDocs and elapsed.
// When elapsed is below minElapsed (DefaultMinElapsed if <= 0) throughput is
// undefined: DocsPerSecond returns 0 and ThroughputDefined false.
func NewIndexingRun(indexName string, totalDocs int, elapsed, minElapsed time.Duration) IndexingRun {
	if minElapsed <= 0 {
		minElapsed = DefaultMinElapsed
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if totalDocs < 0 {
		totalDocs = 0
	}

	r := IndexingRun{indexName: indexName, totalDocs: totalDocs, elapsed: elapsed}
	if elapsed >= minElapsed {
		dps := float64(totalDocs) / elapsed.Seconds()
		if !math.IsNaN(dps) && !math.IsInf(dps, 0) {
			r.docsPerSecond = dps
			r.defined = true
		}
	}
	return r
}

// IndexName returns the index the documents were submitted to.
func (r IndexingRun) IndexName() string { return r.indexName }

// TotalDocs returns the number of documents acknowledged by the engine.
func (r IndexingRun) TotalDocs() int { return r.totalDocs }

// Elapsed returns the wall-clock duration of the submission.
func (r IndexingRun) Elapsed() time.Duration { return r.elapsed }

// ElapsedSeconds returns Elapsed in seconds.
func (r IndexingRun) ElapsedSeconds() float64 { return r.elapsed.Seconds() }

// DocsPerSecond returns the indexing throughput, or 0 when undefined.
func (r IndexingRun) DocsPerSecond() float64 { return r.docsPerSecond }

// ThroughputDefined reports whether the run lasted long enough for a throughput figure.
func (r IndexingRun) ThroughputDefined() bool { return r.defined }

package run

import (
	"fmt"
	"time"
)

// DatasetResult groups the three measurements taken for one dataset.
type DatasetResult struct {
	Name      string
	Index     string
	Indexing  IndexingRun
	Search    SearchRun
	Footprint Footprint
}

// Summary is the root artifact of a benchmark run (immutable).
type Summary struct {
	id         string
	engine     string
	createdAt  time.Time
	queryCount int
	datasets   []DatasetResult
}

// NewSummary composes per-dataset results. Dataset names must be unique and
// every search run must cover exactly queryCount queries.
func NewSummary(
	id, engine string, createdAt time.Time, queryCount int, datasets []DatasetResult,
) (Summary, error) {
	if id == "" {
		return Summary{}, fmt.Errorf("run id is required")
	}
	if queryCount < 0 {
		return Summary{}, fmt.Errorf("query count must not be negative")
	}

	seen := make(map[string]bool, len(datasets))
	for _, d := range datasets {
		if d.Name == "" {
			return Summary{}, fmt.Errorf("dataset name is required")
		}
		if seen[d.Name] {
			return Summary{}, fmt.Errorf("duplicate dataset %q", d.Name)
		}
		seen[d.Name] = true
		if d.Search.Total() != queryCount {
			return Summary{}, fmt.Errorf("dataset %q ran %d queries, want %d", d.Name, d.Search.Total(), queryCount)
		}
	}

	ds := make([]DatasetResult, len(datasets))
	copy(ds, datasets)
	return Summary{
		id:         id,
		engine:     engine,
		createdAt:  createdAt,
		queryCount: queryCount,
		datasets:   ds,
	}, nil
}

// ID returns the run identifier.
func (s Summary) ID() string { return s.id }

// Engine returns the engine name the run measured.
func (s Summary) Engine() string { return s.engine }

// CreatedAt returns when the summary was built.
func (s Summary) CreatedAt() time.Time { return s.createdAt }

// QueryCount returns the size of the shared query set.
func (s Summary) QueryCount() int { return s.queryCount }

// Datasets returns the per-dataset results in run order.
func (s Summary) Datasets() []DatasetResult {
	out := make([]DatasetResult, len(s.datasets))
	copy(out, s.datasets)
	return out
}

// Dataset looks up a result by dataset name.
func (s Summary) Dataset(name string) (DatasetResult, bool) {
	for _, d := range s.datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetResult{}, false
}

// TotalSizeMB sums the footprint of all datasets.
func (s Summary) TotalSizeMB() float64 {
	var total int64
	for _, d := range s.datasets {
		total += d.Footprint.SizeBytes()
	}
	return float64(total) / bytesPerMB
}

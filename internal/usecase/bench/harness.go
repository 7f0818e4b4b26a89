package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/domain/run"
	"github.com/kailas-cloud/ftbench/internal/logger"
)

// Defaults for a Harness built without options.
const (
	DefaultBatchSize        = 500
	DefaultOperationTimeout = 30 * time.Second
)

// Target names what a driver operates on: one engine, one dataset, one index.
type Target struct {
	Engine   Engine
	Dataset  string
	Index    string
	Settings index.Settings
}

func (t Target) validate() error {
	if t.Engine == nil {
		return errors.New("target engine is required")
	}
	if t.Index == "" {
		return errors.New("target index is required")
	}
	return nil
}

// Harness runs the indexing, search and footprint drivers.
type Harness struct {
	now        func() time.Time
	minElapsed time.Duration
	opTimeout  time.Duration
	batchSize  int
	recorder   Recorder
}

// Option configures a Harness.
type Option func(*Harness)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.now = now }
}

// WithMinElapsed sets the duration below which throughput is reported as undefined.
func WithMinElapsed(d time.Duration) Option {
	return func(h *Harness) { h.minElapsed = d }
}

// WithOperationTimeout bounds every engine call. Zero disables the bound.
func WithOperationTimeout(d time.Duration) Option {
	return func(h *Harness) { h.opTimeout = d }
}

// WithBatchSize sets how many documents go into one bulk request.
func WithBatchSize(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.batchSize = n
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(h *Harness) {
		if r != nil {
			h.recorder = r
		}
	}
}

// NewHarness creates a Harness.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{
		now:        time.Now,
		minElapsed: run.DefaultMinElapsed,
		opTimeout:  DefaultOperationTimeout,
		batchSize:  DefaultBatchSize,
		recorder:   nopRecorder{},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Harness) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.opTimeout)
}

// IndexDocuments recreates the target index and bulk-loads docs into it.
// The clock spans the bulk submission only.
func (h *Harness) IndexDocuments(ctx context.Context, t Target, docs []document.Document) (run.IndexingRun, error) {
	if err := t.validate(); err != nil {
		return run.IndexingRun{}, err
	}
	log := logger.FromContext(ctx)

	cctx, cancel := h.bounded(ctx)
	err := t.Engine.CreateIndex(cctx, t.Index, t.Settings)
	cancel()
	if err != nil {
		return run.IndexingRun{}, fmt.Errorf("create index %s: %w", t.Index, err)
	}

	bctx, cancel := h.bounded(ctx)
	start := h.now()
	n, err := t.Engine.BulkIndex(bctx, t.Index, docs, h.batchSize)
	elapsed := h.now().Sub(start)
	cancel()
	if err != nil {
		return run.IndexingRun{}, fmt.Errorf("bulk index %s (%d of %d docs): %w", t.Index, n, len(docs), err)
	}
	if n != len(docs) {
		return run.IndexingRun{}, fmt.Errorf("bulk index %s: engine acknowledged %d of %d docs", t.Index, n, len(docs))
	}

	r := run.NewIndexingRun(t.Index, n, elapsed, h.minElapsed)
	h.recorder.IndexingDone(t.Engine.Name(), t.Dataset, r)

	fields := []zap.Field{
		zap.Int("docs", r.TotalDocs()),
		zap.Duration("elapsed", r.Elapsed()),
	}
	if r.ThroughputDefined() {
		fields = append(fields, zap.Float64("docs_per_second", r.DocsPerSecond()))
	} else {
		log.Warn("indexing finished below the timing floor, throughput undefined",
			zap.Duration("min_elapsed", h.minElapsed))
	}
	log.Info("indexing done", fields...)
	return r, nil
}

// RunQueries sends every query once, sequentially, and records per-query latency and hits.
// A failing query is recorded and the run continues; the run fails only when every query failed.
func (h *Harness) RunQueries(ctx context.Context, t Target, queries []string, size int) (run.SearchRun, error) {
	if err := t.validate(); err != nil {
		return run.SearchRun{}, err
	}
	log := logger.FromContext(ctx)

	samples := make([]run.Sample, 0, len(queries))
	var lastErr error
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return run.SearchRun{}, fmt.Errorf("search interrupted after %d queries: %w", i, err)
		}

		s := h.query(ctx, t, q, size)
		if !s.OK() {
			lastErr = s.Err
			log.Warn("query failed", zap.Int("n", i), zap.String("query", q), zap.Error(s.Err))
		}
		h.recorder.QueryDone(t.Engine.Name(), t.Dataset, s)
		samples = append(samples, s)
	}

	r := run.NewSearchRun(t.Index, samples)
	if r.AllFailed() {
		return r, fmt.Errorf("%w: all %d queries failed on %s: %w", domain.ErrBenchmarkFailed, r.Total(), t.Index, lastErr)
	}

	st := r.Stats()
	log.Info("search done",
		zap.Int("queries", r.Total()),
		zap.Int("failed", r.Failed()),
		zap.Float64("mean_ms", st.Mean),
		zap.Float64("p95_ms", st.P95),
		zap.Float64("p99_ms", st.P99),
	)
	return r, nil
}

func (h *Harness) query(ctx context.Context, t Target, q string, size int) run.Sample {
	qctx, cancel := h.bounded(ctx)
	defer cancel()

	start := h.now()
	hits, err := t.Engine.Search(qctx, t.Index, q, size)
	elapsed := h.now().Sub(start)

	return run.Sample{
		Query:     q,
		LatencyMS: float64(elapsed) / float64(time.Millisecond),
		Hits:      hits,
		Err:       err,
	}
}

// CollectFootprint reads the storage footprint of the target index.
func (h *Harness) CollectFootprint(ctx context.Context, t Target) (run.Footprint, error) {
	if err := t.validate(); err != nil {
		return run.Footprint{}, err
	}

	sctx, cancel := h.bounded(ctx)
	defer cancel()
	st, err := t.Engine.IndexStats(sctx, t.Index)
	if err != nil {
		return run.Footprint{}, fmt.Errorf("index stats %s: %w", t.Index, err)
	}

	f := run.NewFootprint(t.Index, st.SizeBytes, st.DocCount).WithComponents(st.Components)
	h.recorder.FootprintDone(t.Engine.Name(), t.Dataset, f)
	logger.FromContext(ctx).Info("footprint collected",
		zap.Int64("bytes", f.SizeBytes()),
		zap.Float64("mb", f.SizeMB()),
		zap.Int64("docs", f.DocCount()),
	)
	return f, nil
}

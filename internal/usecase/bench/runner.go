package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/corpus"
	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/domain/run"
	"github.com/kailas-cloud/ftbench/internal/logger"
)

// Dataset is one corpus to benchmark and the index it goes into.
type Dataset struct {
	Name     string
	Path     string
	Index    string
	Settings index.Settings
	MaxDocs  int
}

// Runner drives the whole pipeline over a list of datasets.
type Runner struct {
	harness    *Harness
	engine     Engine
	loader     Loader
	resultSize int
	newID      func() string
	now        func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithIDGenerator replaces the run id generator.
func WithIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) { r.newID = fn }
}

// WithRunClock replaces the clock that stamps the summary.
func WithRunClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner. resultSize is the number of hits requested per query.
func NewRunner(h *Harness, engine Engine, loader Loader, resultSize int, opts ...RunnerOption) *Runner {
	r := &Runner{
		harness:    h,
		engine:     engine,
		loader:     loader,
		resultSize: resultSize,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run benchmarks every dataset in order with the same query set.
// The first failing dataset stops the run; the returned *domain.StepError names it.
func (r *Runner) Run(ctx context.Context, datasets []Dataset, queries []string) (run.Summary, error) {
	if len(datasets) == 0 {
		return run.Summary{}, errors.New("no datasets configured")
	}
	log := logger.FromContext(ctx).With(zap.String("engine", r.engine.Name()))
	ctx = logger.ContextWithLogger(ctx, log)

	if err := r.engine.Ping(ctx); err != nil {
		return run.Summary{}, &domain.StepError{Step: domain.StepPreflight, Err: err}
	}

	results := make([]run.DatasetResult, 0, len(datasets))
	for _, ds := range datasets {
		res, err := r.runDataset(logger.WithDataset(ctx, ds.Name, ds.Index), ds, queries)
		if err != nil {
			return run.Summary{}, err
		}
		results = append(results, res)
	}

	summary, err := run.NewSummary(r.newID(), r.engine.Name(), r.now(), len(queries), results)
	if err != nil {
		return run.Summary{}, fmt.Errorf("build summary: %w", err)
	}
	log.Info("benchmark finished",
		zap.String("run_id", summary.ID()),
		zap.Int("datasets", len(results)),
		zap.Float64("total_mb", summary.TotalSizeMB()),
	)
	return summary, nil
}

func (r *Runner) runDataset(ctx context.Context, ds Dataset, queries []string) (run.DatasetResult, error) {
	log := logger.FromContext(ctx)
	fail := func(step string, err error) (run.DatasetResult, error) {
		log.Error("dataset failed", zap.String("step", step), zap.Error(err))
		return run.DatasetResult{}, &domain.StepError{Dataset: ds.Name, Step: step, Err: err}
	}

	log.Info("loading corpus", zap.String("path", ds.Path))
	loaded, err := r.loader.Load(ctx, ds.Path, corpus.Options{
		MaxDocs:    ds.MaxDocs,
		IDField:    ds.Settings.IDField,
		TextFields: ds.Settings.TextFields,
	})
	if err != nil {
		return fail(domain.StepLoad, err)
	}
	if n := len(loaded.Warnings); n > 0 {
		log.Warn("corpus had malformed records", zap.Int("skipped", n))
	}

	t := Target{Engine: r.engine, Dataset: ds.Name, Index: ds.Index, Settings: ds.Settings}

	indexing, err := r.harness.IndexDocuments(ctx, t, loaded.Documents)
	if err != nil {
		return fail(domain.StepIndex, err)
	}
	search, err := r.harness.RunQueries(ctx, t, queries, r.resultSize)
	if err != nil {
		return fail(domain.StepSearch, err)
	}
	footprint, err := r.harness.CollectFootprint(ctx, t)
	if err != nil {
		return fail(domain.StepFootprint, err)
	}

	return run.DatasetResult{
		Name:      ds.Name,
		Index:     ds.Index,
		Indexing:  indexing,
		Search:    search,
		Footprint: footprint,
	}, nil
}

package bench

import (
	"context"

	"github.com/kailas-cloud/ftbench/internal/corpus"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

// Engine is the search service under test.
type Engine interface {
	Name() string
	Ping(ctx context.Context) error
	CreateIndex(ctx context.Context, name string, settings index.Settings) error
	BulkIndex(ctx context.Context, name string, docs []document.Document, batchSize int) (int, error)
	Search(ctx context.Context, name, query string, size int) (int, error)
	IndexStats(ctx context.Context, name string) (index.Stats, error)
	Close() error
}

// Recorder receives measurements as the drivers take them.
type Recorder interface {
	IndexingDone(engine, dataset string, r run.IndexingRun)
	QueryDone(engine, dataset string, s run.Sample)
	FootprintDone(engine, dataset string, f run.Footprint)
}

// Loader reads a corpus file into documents.
type Loader interface {
	Load(ctx context.Context, path string, opts corpus.Options) (corpus.Result, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string, opts corpus.Options) (corpus.Result, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, path string, opts corpus.Options) (corpus.Result, error) {
	return f(ctx, path, opts)
}

type nopRecorder struct{}

func (nopRecorder) IndexingDone(string, string, run.IndexingRun) {}
func (nopRecorder) QueryDone(string, string, run.Sample)         {}
func (nopRecorder) FootprintDone(string, string, run.Footprint)  {}

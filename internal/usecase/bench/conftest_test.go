package bench

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/ftbench/internal/corpus"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

// fakeClock advances only when something sleeps on it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

type spyRecorder struct {
	indexing   []run.IndexingRun
	samples    []run.Sample
	footprints []run.Footprint
}

func (s *spyRecorder) IndexingDone(_, _ string, r run.IndexingRun) {
	s.indexing = append(s.indexing, r)
}
func (s *spyRecorder) QueryDone(_, _ string, r run.Sample) { s.samples = append(s.samples, r) }
func (s *spyRecorder) FootprintDone(_, _ string, f run.Footprint) {
	s.footprints = append(s.footprints, f)
}

func testSettings(t *testing.T) index.Settings {
	t.Helper()
	s, err := index.NewSettings("id", []string{"title", "body"})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testDocs(t *testing.T, n int) []document.Document {
	t.Helper()
	docs := make([]document.Document, 0, n)
	for i := 0; i < n; i++ {
		d, err := document.New(map[string]string{
			"id":    fmt.Sprintf("doc-%d", i),
			"title": fmt.Sprintf("story %d about climate change", i),
			"body":  "technology news and science policy",
		}, "id", []string{"title", "body"})
		if err != nil {
			t.Fatal(err)
		}
		docs = append(docs, d)
	}
	return docs
}

// staticLoader returns a loader serving documents per path, or the error registered for it.
func staticLoader(docs map[string][]document.Document, errs map[string]error) Loader {
	return LoaderFunc(func(_ context.Context, path string, opts corpus.Options) (corpus.Result, error) {
		if err, ok := errs[path]; ok {
			return corpus.Result{}, err
		}
		d := docs[path]
		if opts.MaxDocs > 0 && len(d) > opts.MaxDocs {
			d = d[:opts.MaxDocs]
		}
		return corpus.Result{Documents: d, Records: len(d)}, nil
	})
}

func msLatencies(ms ...int) []time.Duration {
	out := make([]time.Duration, len(ms))
	for i, v := range ms {
		out[i] = time.Duration(v) * time.Millisecond
	}
	return out
}

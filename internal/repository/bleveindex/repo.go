// Package bleveindex runs the benchmark against an embedded on-disk bleve index.
package bleveindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"

	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

// EngineName identifies this engine in reports.
const EngineName = "bleve"

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type handle struct {
	idx      bleve.Index
	settings *index.Settings // nil when the index was opened from disk
}

// Repo implements bench.Engine with one bleve index directory per index name.
type Repo struct {
	dir string

	mu      sync.Mutex
	indexes map[string]*handle
}

// New creates a bleve engine rooted at dir.
func New(dir string) *Repo {
	return &Repo{dir: dir, indexes: make(map[string]*handle)}
}

// Name returns the engine name.
func (r *Repo) Name() string { return EngineName }

// Ping checks that the data directory exists and is a directory.
func (r *Repo) Ping(_ context.Context) error {
	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return fmt.Errorf("%w: data dir %s: %w", domain.ErrServiceUnavailable, r.dir, err)
	}
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("%w: data dir %s: %w", domain.ErrServiceUnavailable, r.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: data dir %s is not a directory", domain.ErrServiceUnavailable, r.dir)
	}
	return nil
}

// CreateIndex removes any existing index directory and creates a fresh index.
func (r *Repo) CreateIndex(ctx context.Context, name string, settings index.Settings) error {
	path, err := r.path(name)
	if err != nil {
		return err
	}
	if err := r.Ping(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.indexes[name]; ok {
		_ = h.idx.Close()
		delete(r.indexes, name)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove index %s: %w", name, err)
	}

	idx, err := bleve.New(path, buildMapping(settings))
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	s := settings
	r.indexes[name] = &handle{idx: idx, settings: &s}
	return nil
}

// DropIndex closes and deletes an index.
func (r *Repo) DropIndex(_ context.Context, name string) error {
	path, err := r.path(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.indexes[name]; ok {
		_ = h.idx.Close()
		delete(r.indexes, name)
	} else if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("drop index %s: %w", name, domain.ErrIndexNotFound)
	}
	return os.RemoveAll(path)
}

// BulkIndex writes docs in batches and returns the number of documents committed.
func (r *Repo) BulkIndex(ctx context.Context, name string, docs []document.Document, batchSize int) (int, error) {
	h, err := r.open(name)
	if err != nil {
		return 0, err
	}
	if batchSize <= 0 {
		batchSize = len(docs)
	}

	done := 0
	for start := 0; start < len(docs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}
		end := min(start+batchSize, len(docs))

		b := h.idx.NewBatch()
		for i := start; i < end; i++ {
			if err := b.Index(docs[i].ID(), docs[i].Fields()); err != nil {
				return done, fmt.Errorf("batch doc %s: %w", docs[i].ID(), err)
			}
		}
		if err := h.idx.Batch(b); err != nil {
			return done, fmt.Errorf("index batch %d-%d into %s: %w", start, end, name, err)
		}
		done = end
	}
	return done, nil
}

// Search runs query as a disjunction of match queries over the text fields.
// The context bounds the query; an expired context fails it.
func (r *Repo) Search(ctx context.Context, name, q string, size int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("search %s: %w", name, err)
	}
	h, err := r.open(name)
	if err != nil {
		return 0, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q, h.settings), size, 0, false)
	res, err := h.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", name, err)
	}
	return len(res.Hits), nil
}

// IndexStats reports the document count and the on-disk size of the index directory.
func (r *Repo) IndexStats(_ context.Context, name string) (index.Stats, error) {
	h, err := r.open(name)
	if err != nil {
		return index.Stats{}, err
	}

	count, err := h.idx.DocCount()
	if err != nil {
		return index.Stats{}, fmt.Errorf("doc count %s: %w", name, err)
	}

	path, _ := r.path(name)
	size, err := dirSize(path)
	if err != nil {
		return index.Stats{}, fmt.Errorf("size of %s: %w", name, err)
	}

	return index.Stats{
		SizeBytes:  size,
		DocCount:   int64(count),
		Components: map[string]int64{"store": size},
	}, nil
}

// Close closes every open index.
func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, h := range r.indexes {
		if err := h.idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.indexes, name)
	}
	return errors.Join(errs...)
}

// open returns the cached handle or opens the index from disk.
func (r *Repo) open(name string) (*handle, error) {
	path, err := r.path(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.indexes[name]; ok {
		return h, nil
	}

	idx, err := bleve.Open(path)
	if err != nil {
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) || errors.Is(err, bleve.ErrorIndexMetaMissing) {
			return nil, fmt.Errorf("open %s: %w", name, domain.ErrIndexNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	h := &handle{idx: idx}
	r.indexes[name] = h
	return h, nil
}

func (r *Repo) path(name string) (string, error) {
	if !nameRegex.MatchString(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid index name %q", name)
	}
	return filepath.Join(r.dir, name), nil
}

func buildQuery(q string, s *index.Settings) query.Query {
	if s == nil || len(s.TextFields) == 0 {
		return bleve.NewMatchQuery(q)
	}

	parts := make([]query.Query, 0, len(s.TextFields))
	for _, f := range s.TextFields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f)
		mq.SetOperator(query.MatchQueryOperatorOr)
		if w := s.Weight(f); w != 1 {
			mq.SetBoost(w)
		}
		parts = append(parts, mq)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return bleve.NewDisjunctionQuery(parts...)
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}

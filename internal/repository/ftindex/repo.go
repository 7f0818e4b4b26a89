// Package ftindex runs the benchmark against the Redis Query Engine.
package ftindex

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/ftbench/internal/db"
	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

// EngineName identifies this engine in reports.
const EngineName = "redis"

// DefaultKeyPrefix namespaces every key the benchmark writes.
const DefaultKeyPrefix = "ftbench:"

// store is the consumer interface for the Redis engine (ISP).
type store interface {
	Ping(ctx context.Context) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Close()
}

// Repo implements bench.Engine over FT.* commands.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a Redis engine. An empty keyPrefix uses DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Name returns the engine name.
func (r *Repo) Name() string { return EngineName }

// Ping checks that Redis answers.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return mapErr(err)
	}
	return nil
}

// CreateIndex drops any existing index of the same name together with its
// documents, then creates it from settings.
func (r *Repo) CreateIndex(ctx context.Context, name string, settings index.Settings) error {
	def, err := buildIndex(name, r.docPrefix(name), settings)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}

	if err := r.store.DropIndex(ctx, name, true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", name, mapErr(err))
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, mapErr(err))
	}
	return nil
}

// DropIndex removes the index and its documents.
func (r *Repo) DropIndex(ctx context.Context, name string) error {
	if err := r.store.DropIndex(ctx, name, true); err != nil {
		return fmt.Errorf("drop index %s: %w", name, mapErr(err))
	}
	return nil
}

// BulkIndex writes docs as hashes in pipelined batches and returns the
// number of documents acknowledged before the first failure.
func (r *Repo) BulkIndex(ctx context.Context, name string, docs []document.Document, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = len(docs)
	}
	prefix := r.docPrefix(name)

	done := 0
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		items := make([]db.HashSetItem, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, db.HashSetItem{
				Key:    prefix + docs[i].ID(),
				Fields: docs[i].Fields(),
			})
		}

		if err := r.store.HSetMulti(ctx, items); err != nil {
			return done, fmt.Errorf("index batch %d-%d into %s: %w", start, end, name, mapErr(err))
		}
		done = end
	}
	return done, nil
}

// Search runs query as a union of its terms over all text fields and returns the hit count.
func (r *Repo) Search(ctx context.Context, name, query string, size int) (int, error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: name,
		Query:     query,
		MatchAny:  true,
		TopK:      size,
		NoContent: true,
	})
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", name, mapErr(err))
	}
	return len(sr.Entries), nil
}

// IndexStats reads FT.INFO and converts the reported megabytes to bytes.
func (r *Repo) IndexStats(ctx context.Context, name string) (index.Stats, error) {
	info, err := r.store.IndexInfo(ctx, name)
	if err != nil {
		return index.Stats{}, fmt.Errorf("index info %s: %w", name, mapErr(err))
	}

	return index.Stats{
		SizeBytes: mbToBytes(info.TotalMB()),
		DocCount:  info.NumDocs,
		Components: map[string]int64{
			"inverted":        mbToBytes(info.InvertedSizeMB),
			"offset_vectors":  mbToBytes(info.OffsetVectorsSizeMB),
			"doc_table":       mbToBytes(info.DocTableSizeMB),
			"sortable_values": mbToBytes(info.SortableValuesSizeMB),
			"key_table":       mbToBytes(info.KeyTableSizeMB),
			"tag_overhead":    mbToBytes(info.TagOverheadSizeMB),
			"text_overhead":   mbToBytes(info.TextOverheadSizeMB),
		},
	}, nil
}

// Close releases the Redis client.
func (r *Repo) Close() error {
	r.store.Close()
	return nil
}

func (r *Repo) docPrefix(name string) string {
	return r.keyPrefix + name + ":doc:"
}

func buildIndex(name, prefix string, s index.Settings) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).OnHash().Prefix(prefix).Tag(s.IDField)
	if s.Language != "" {
		b = b.Language(s.Language)
	}
	for _, f := range s.TextFields {
		w, noStem := s.Weight(f), !s.Stemmed(f)
		if w == 1 && !noStem {
			b = b.Text(f)
			continue
		}
		if w == 1 {
			w = 0
		}
		b = b.TextWithOpts(f, w, noStem)
	}

	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	if !def.HasTextField() {
		return nil, errors.New("at least one text field is required")
	}
	return def, nil
}

func mbToBytes(mb float64) int64 {
	if mb <= 0 {
		return 0
	}
	return int64(math.Round(mb * 1024 * 1024))
}

// mapErr attaches the domain sentinel matching a db error, keeping the cause.
func mapErr(err error) error {
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%w: %w", domain.ErrIndexNotFound, err)
	case errors.Is(err, db.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	default:
		return err
	}
}

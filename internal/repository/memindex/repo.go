// Package memindex is an in-memory engine with scripted latencies and failures.
// It backs the harness tests and dry runs without a live search service.
package memindex

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

// EngineName identifies this engine in reports.
const EngineName = "memory"

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type memIndex struct {
	settings index.Settings
	docs     map[string]document.Document
	terms    map[string]map[string]bool // term -> doc ids
	bytes    int64
}

// Repo implements bench.Engine in memory.
type Repo struct {
	mu       sync.Mutex
	indexes  map[string]*memIndex
	down     error
	failures map[string]error

	latencies []time.Duration
	next      int
	bulkDelay time.Duration
	sleep     SleepFunc
}

// Option configures a Repo.
type Option func(*Repo)

// WithLatencies makes successive Search calls take the given durations, cycling.
func WithLatencies(ds ...time.Duration) Option {
	return func(r *Repo) { r.latencies = append([]time.Duration(nil), ds...) }
}

// WithQueryError makes every Search for query fail with err.
func WithQueryError(query string, err error) Option {
	return func(r *Repo) { r.failures[query] = err }
}

// WithBulkDelay makes every BulkIndex batch take d.
func WithBulkDelay(d time.Duration) Option {
	return func(r *Repo) { r.bulkDelay = d }
}

// WithSleep replaces the wait used for scripted latencies, e.g. with a fake clock.
func WithSleep(fn SleepFunc) Option {
	return func(r *Repo) { r.sleep = fn }
}

// New creates an empty in-memory engine.
func New(opts ...Option) *Repo {
	r := &Repo{
		indexes:  make(map[string]*memIndex),
		failures: make(map[string]error),
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SetDown simulates an outage: every call fails with ErrServiceUnavailable until cleared with false.
func (r *Repo) SetDown(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if down {
		r.down = fmt.Errorf("%w: memory engine is down", domain.ErrServiceUnavailable)
		return
	}
	r.down = nil
}

// Name returns the engine name.
func (r *Repo) Name() string { return EngineName }

// Ping fails only while the engine is down.
func (r *Repo) Ping(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.down
}

// CreateIndex replaces any index of the same name with an empty one.
func (r *Repo) CreateIndex(_ context.Context, name string, settings index.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down != nil {
		return r.down
	}
	r.indexes[name] = &memIndex{
		settings: settings,
		docs:     make(map[string]document.Document),
		terms:    make(map[string]map[string]bool),
	}
	return nil
}

// DropIndex removes an index.
func (r *Repo) DropIndex(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down != nil {
		return r.down
	}
	if _, ok := r.indexes[name]; !ok {
		return fmt.Errorf("drop %s: %w", name, domain.ErrIndexNotFound)
	}
	delete(r.indexes, name)
	return nil
}

// BulkIndex stores docs batch by batch; a later document with the same id replaces the earlier one.
func (r *Repo) BulkIndex(ctx context.Context, name string, docs []document.Document, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = len(docs)
	}

	done := 0
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		if r.bulkDelay > 0 {
			if err := r.sleep(ctx, r.bulkDelay); err != nil {
				return done, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
			}
		}
		if err := r.store(name, docs[start:end]); err != nil {
			return done, err
		}
		done = end
	}
	return done, nil
}

func (r *Repo) store(name string, docs []document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down != nil {
		return r.down
	}
	idx, ok := r.indexes[name]
	if !ok {
		return fmt.Errorf("bulk %s: %w", name, domain.ErrIndexNotFound)
	}
	for i := range docs {
		idx.put(docs[i])
	}
	return nil
}

// Search waits for the next scripted latency, then counts documents sharing a term with query.
func (r *Repo) Search(ctx context.Context, name, query string, size int) (int, error) {
	r.mu.Lock()
	if r.down != nil {
		err := r.down
		r.mu.Unlock()
		return 0, err
	}
	var d time.Duration
	if len(r.latencies) > 0 {
		d = r.latencies[r.next%len(r.latencies)]
		r.next++
	}
	failure := r.failures[query]
	r.mu.Unlock()

	if d > 0 {
		if err := r.sleep(ctx, d); err != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}
	}
	if failure != nil {
		return 0, failure
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.indexes[name]
	if !ok {
		return 0, fmt.Errorf("search %s: %w", name, domain.ErrIndexNotFound)
	}
	return min(idx.match(query), size), nil
}

// IndexStats reports the raw byte size of the stored field values.
func (r *Repo) IndexStats(_ context.Context, name string) (index.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down != nil {
		return index.Stats{}, r.down
	}
	idx, ok := r.indexes[name]
	if !ok {
		return index.Stats{}, fmt.Errorf("stats %s: %w", name, domain.ErrIndexNotFound)
	}
	return index.Stats{
		SizeBytes:  idx.bytes,
		DocCount:   int64(len(idx.docs)),
		Components: map[string]int64{"fields": idx.bytes},
	}, nil
}

// Close drops all indexes.
func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = make(map[string]*memIndex)
	return nil
}

func (m *memIndex) put(d document.Document) {
	id := d.ID()
	if old, ok := m.docs[id]; ok {
		m.bytes -= docBytes(old)
		for _, t := range tokenize(old.Text()) {
			delete(m.terms[t], id)
		}
	}
	m.docs[id] = d
	m.bytes += docBytes(d)
	for _, t := range tokenize(d.Text()) {
		if m.terms[t] == nil {
			m.terms[t] = make(map[string]bool)
		}
		m.terms[t][id] = true
	}
}

func (m *memIndex) match(query string) int {
	hits := make(map[string]bool)
	for _, t := range tokenize(query) {
		for id := range m.terms[t] {
			hits[id] = true
		}
	}
	return len(hits)
}

func docBytes(d document.Document) int64 {
	var n int64
	for k, v := range d.Fields() {
		n += int64(len(k) + len(v))
	}
	return n
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package ftindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/ftbench/internal/db"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	pingFn        func(ctx context.Context) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string, deleteDocs bool) error
	indexInfoFn   func(ctx context.Context, name string) (*db.IndexInfo, error)
	searchTextFn  func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	closed        bool
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return &db.IndexInfo{Name: name}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Close() { m.closed = true }

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testSettings(t *testing.T) index.Settings {
	t.Helper()
	s, err := index.NewSettings("id", []string{"title", "text"})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	return s
}

func testDocs(t *testing.T, n int) []document.Document {
	t.Helper()
	docs := make([]document.Document, 0, n)
	for i := 0; i < n; i++ {
		d, err := document.New(map[string]string{
			"id":    string(rune('a' + i)),
			"title": "title",
			"text":  "body",
		}, "id", []string{"title", "text"})
		if err != nil {
			t.Fatalf("doc: %v", err)
		}
		docs = append(docs, d)
	}
	return docs
}

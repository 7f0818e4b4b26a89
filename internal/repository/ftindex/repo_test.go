package ftindex

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ftbench/internal/db"
	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

func TestCreateIndex_Recreates(t *testing.T) {
	repo, ms := newTestRepo(t)

	var calls []string
	ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
		if !deleteDocs {
			t.Error("expected DD on drop")
		}
		calls = append(calls, "drop:"+name)
		return nil
	}
	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		calls = append(calls, "create:"+def.Name)
		got = def
		return nil
	}

	settings := testSettings(t)
	settings.Weights = map[string]float64{"title": 2}
	settings.Language = "english"

	if err := repo.CreateIndex(context.Background(), "news", settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(calls, ",") != "drop:news,create:news" {
		t.Errorf("calls = %v", calls)
	}
	if got.Prefixes[0] != "ftbench:news:doc:" {
		t.Errorf("prefix = %q", got.Prefixes[0])
	}
	if got.Fields[0].Name != "id" || got.Fields[0].Type != db.IndexFieldTag {
		t.Errorf("id field = %+v", got.Fields[0])
	}
	if got.Fields[1].TextWeight != 2 || got.Fields[2].TextWeight != 0 {
		t.Errorf("weights = %v/%v", got.Fields[1].TextWeight, got.Fields[2].TextWeight)
	}
	if got.Language != "english" {
		t.Errorf("language = %q", got.Language)
	}
}

func TestCreateIndex_NoStem(t *testing.T) {
	repo, ms := newTestRepo(t)
	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	settings := testSettings(t)
	settings.NoStem = []string{"title"}

	if err := repo.CreateIndex(context.Background(), "wiki", settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Fields[1].TextNoStem || got.Fields[1].TextWeight != 0 {
		t.Errorf("title = %+v, want NOSTEM with default weight", got.Fields[1])
	}
	if got.Fields[2].TextNoStem {
		t.Errorf("text = %+v, want stemmed", got.Fields[2])
	}
}

func TestCreateIndex_RequiresTextField(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Error("FT.CREATE must not be sent without a text field")
		return nil
	}

	err := repo.CreateIndex(context.Background(), "news", index.Settings{IDField: "id"})
	if err == nil || !strings.Contains(err.Error(), "text field") {
		t.Errorf("expected text field error, got %v", err)
	}
}

func TestCreateIndex_FreshIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(context.Context, string, bool) error { return db.ErrIndexNotFound }

	if err := repo.CreateIndex(context.Background(), "news", testSettings(t)); err != nil {
		t.Fatalf("missing index on drop should be ignored, got %v", err)
	}
}

func TestCreateIndex_Unavailable(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(context.Context, string, bool) error {
		return &db.Error{Op: db.OpDropIndex, Err: db.ErrUnavailable}
	}

	err := repo.CreateIndex(context.Background(), "news", testSettings(t))
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestBulkIndex_Batches(t *testing.T) {
	repo, ms := newTestRepo(t)

	var sizes []int
	var keys []string
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		sizes = append(sizes, len(items))
		for _, it := range items {
			keys = append(keys, it.Key)
			if it.Fields["text"] != "body" {
				t.Errorf("fields = %v", it.Fields)
			}
		}
		return nil
	}

	n, err := repo.BulkIndex(context.Background(), "news", testDocs(t, 5), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("indexed = %d, want 5", n)
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 1 {
		t.Errorf("batch sizes = %v, want [2 2 1]", sizes)
	}
	if keys[0] != "ftbench:news:doc:a" {
		t.Errorf("first key = %q", keys[0])
	}
}

func TestBulkIndex_SingleBatchWhenUnset(t *testing.T) {
	repo, ms := newTestRepo(t)
	calls := 0
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error { calls++; return nil }

	if _, err := repo.BulkIndex(context.Background(), "news", testDocs(t, 4), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBulkIndex_PartialFailure(t *testing.T) {
	repo, ms := newTestRepo(t)
	calls := 0
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		calls++
		if calls == 2 {
			return &db.Error{Op: db.OpHSet, Err: db.ErrUnavailable}
		}
		return nil
	}

	n, err := repo.BulkIndex(context.Background(), "news", testDocs(t, 5), 2)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if n != 2 {
		t.Errorf("acknowledged = %d, want 2", n)
	}
}

func TestSearch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.IndexName != "news" || q.TopK != 10 || !q.MatchAny || !q.NoContent {
			t.Errorf("unexpected query %+v", q)
		}
		return &db.SearchResult{Total: 120, Entries: make([]db.SearchEntry, 10)}, nil
	}

	hits, err := repo.Search(context.Background(), "news", "renewable energy solar", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 10 {
		t.Errorf("hits = %d, want 10", hits)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		return nil, db.ErrIndexNotFound
	}

	_, err := repo.Search(context.Background(), "missing", "q", 10)
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexStats(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexInfoFn = func(_ context.Context, name string) (*db.IndexInfo, error) {
		return &db.IndexInfo{Name: name, NumDocs: 5000, InvertedSizeMB: 1.5, DocTableSizeMB: 0.5}, nil
	}

	st, err := repo.IndexStats(context.Background(), "news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SizeBytes != 2*1024*1024 {
		t.Errorf("SizeBytes = %d, want %d", st.SizeBytes, 2*1024*1024)
	}
	if st.DocCount != 5000 {
		t.Errorf("DocCount = %d", st.DocCount)
	}
	if st.Components["inverted"] != 1536*1024 {
		t.Errorf("inverted = %d", st.Components["inverted"])
	}
}

func TestIndexStats_NotFoundVsUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexInfoFn = func(context.Context, string) (*db.IndexInfo, error) { return nil, db.ErrIndexNotFound }
	_, err := repo.IndexStats(context.Background(), "missing")
	if !errors.Is(err, domain.ErrIndexNotFound) || errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected only ErrIndexNotFound, got %v", err)
	}

	ms.indexInfoFn = func(context.Context, string) (*db.IndexInfo, error) {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: context.DeadlineExceeded}
	}
	_, err = repo.IndexStats(context.Background(), "news")
	if !errors.Is(err, domain.ErrServiceUnavailable) || errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected only ErrServiceUnavailable, got %v", err)
	}
}

func TestPingAndClose(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.pingFn = func(context.Context) error { return db.ErrUnavailable }

	if err := repo.Ping(context.Background()); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
	if repo.Name() != "redis" {
		t.Errorf("Name = %q", repo.Name())
	}
	if err := repo.Close(); err != nil || !ms.closed {
		t.Errorf("Close err=%v closed=%v", err, ms.closed)
	}
}

func TestNew_KeyPrefix(t *testing.T) {
	repo := New(&mockStore{}, "bench:")
	if repo.docPrefix("wiki") != "bench:wiki:doc:" {
		t.Errorf("docPrefix = %q", repo.docPrefix("wiki"))
	}
}

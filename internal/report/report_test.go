package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

func testSummary(t *testing.T) run.Summary {
	t.Helper()
	samples := []run.Sample{
		{Query: "machine learning", LatencyMS: 10, Hits: 10},
		{Query: "climate change", LatencyMS: 20, Hits: 4},
		{Query: "quantum", Err: errors.New("timeout")},
	}
	datasets := []run.DatasetResult{
		{
			Name:     "news",
			Index:    "ftindex-v1.0-news",
			Indexing: run.NewIndexingRun("ftindex-v1.0-news", 5000, 2*time.Second, 0),
			Search:   run.NewSearchRun("ftindex-v1.0-news", samples),
			Footprint: run.NewFootprint("ftindex-v1.0-news", 3*1024*1024, 5000).
				WithComponents(map[string]int64{"inverted": 2 * 1024 * 1024, "doc_table": 1024 * 1024}),
		},
		{
			Name:      "wiki",
			Index:     "ftindex-v1.0-wiki",
			Indexing:  run.NewIndexingRun("ftindex-v1.0-wiki", 3, 0, 0),
			Search:    run.NewSearchRun("ftindex-v1.0-wiki", samples),
			Footprint: run.NewFootprint("ftindex-v1.0-wiki", 1024*1024, 3),
		},
	}
	s, err := run.NewSummary("run-1", "redis", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), 3, datasets)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return m
}

func TestWriteSummary_Files(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, true)

	paths, err := w.WriteSummary(testSummary(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"redis_news_indexing_stats.json", "redis_news_search_stats.json", "redis_news_memory.json",
		"redis_wiki_indexing_stats.json", "redis_wiki_search_stats.json", "redis_wiki_memory.json",
		SummaryFile, SummaryMarkdownFile,
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), paths)
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Errorf("file %d = %s, want %s", i, filepath.Base(paths[i]), name)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteSummary_Shapes(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false)
	if _, err := w.WriteSummary(testSummary(t)); err != nil {
		t.Fatal(err)
	}

	idx := readJSON(t, filepath.Join(dir, "redis_news_indexing_stats.json"))
	if idx["total_docs"] != float64(5000) || idx["docs_per_second"] != float64(2500) || idx["throughput_defined"] != true {
		t.Errorf("unexpected indexing stats: %v", idx)
	}
	wikiIdx := readJSON(t, filepath.Join(dir, "redis_wiki_indexing_stats.json"))
	if wikiIdx["throughput_defined"] != false || wikiIdx["docs_per_second"] != float64(0) {
		t.Errorf("expected undefined throughput, got %v", wikiIdx)
	}

	search := readJSON(t, filepath.Join(dir, "redis_news_search_stats.json"))
	for _, key := range []string{
		"index_name", "total_queries", "successful_queries", "failed_queries",
		"mean_latency_ms", "median_latency_ms", "p95_latency_ms", "p99_latency_ms",
		"min_latency_ms", "max_latency_ms", "latencies_ms", "percentile_method",
	} {
		if _, ok := search[key]; !ok {
			t.Errorf("search stats missing %q", key)
		}
	}
	if search["percentile_method"] != "linear" || search["failed_queries"] != float64(1) {
		t.Errorf("unexpected search stats: %v", search)
	}
	lat, _ := search["latencies_ms"].([]any)
	if len(lat) != int(search["total_queries"].(float64)) {
		t.Fatalf("latencies_ms has %d entries, want one per query: %v", len(lat), search["latencies_ms"])
	}
	if lat[0] != float64(10) || lat[1] != float64(20) || lat[2] != nil {
		t.Errorf("latencies_ms = %v, want [10 20 null]", lat)
	}

	mem := readJSON(t, filepath.Join(dir, "redis_news_memory.json"))
	if mem["store_size_mb"] != float64(3) || mem["store_size_bytes"] != float64(3*1024*1024) {
		t.Errorf("unexpected memory stats: %v", mem)
	}
	if comp, _ := mem["components"].(map[string]any); comp["inverted"] != float64(2*1024*1024) {
		t.Errorf("unexpected components: %v", mem["components"])
	}
	wikiMem := readJSON(t, filepath.Join(dir, "redis_wiki_memory.json"))
	if _, ok := wikiMem["components"]; ok {
		t.Errorf("components should be omitted when not reported: %v", wikiMem)
	}

	sum := readJSON(t, filepath.Join(dir, SummaryFile))
	if sum["run_id"] != "run-1" || sum["engine"] != "redis" || sum["query_count"] != float64(3) {
		t.Errorf("unexpected summary header: %v", sum)
	}
	ds, _ := sum["datasets"].(map[string]any)
	news, _ := ds["news"].(map[string]any)
	if news["index_name"] != "ftindex-v1.0-news" {
		t.Errorf("unexpected news entry: %v", news)
	}
	for _, key := range []string{"indexing", "search", "memory"} {
		if _, ok := news[key]; !ok {
			t.Errorf("news entry missing %q", key)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, SummaryMarkdownFile)); !os.IsNotExist(err) {
		t.Error("markdown should not be written when disabled")
	}
}

func TestWriteQueries(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false)

	path, err := w.WriteQueries([]string{"machine learning", "covid"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "machine learning" {
		t.Errorf("unexpected queries %v", got)
	}

	path, err = w.WriteQueries(nil)
	if err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false)
	if _, ok := w.Latest(); ok {
		t.Fatal("expected no summary before a run")
	}
	if _, err := w.WriteSummary(testSummary(t)); err != nil {
		t.Fatal(err)
	}
	data, ok := w.Latest()
	if !ok || !strings.Contains(string(data), `"run_id": "run-1"`) {
		t.Fatalf("unexpected latest summary: %s", data)
	}

	// a fresh writer picks the summary up from disk
	data, ok = NewWriter(dir, false).Latest()
	if !ok || !strings.Contains(string(data), "run-1") {
		t.Errorf("expected summary from disk, got %s", data)
	}
}

func TestWrite_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(filepath.Join(file, "sub"), false)
	if _, err := w.WriteQueries([]string{"q"}); err == nil {
		t.Fatal("expected error when the report dir cannot be created")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(testSummary(t))

	for _, want := range []string{
		"# Benchmark run-1 (redis)",
		"| news | ftindex-v1.0-news | 15.00 | 15.00 |",
		"| 1/3 |",
		"| news | 5000 | 2.000 | 2500.00 |",
		"| wiki | 3 | 0.000 | n/a |",
		"| **total** | | 4.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

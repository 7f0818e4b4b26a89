// Package report persists benchmark results as JSON artifacts and a markdown summary.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

// Artifact file names.
const (
	SummaryFile         = "summary_report.json"
	SummaryMarkdownFile = "summary_report.md"
	QueriesFile         = "test_queries.json"
)

// IndexingFile returns the indexing artifact name for engine and dataset.
func IndexingFile(engine, dataset string) string {
	return fmt.Sprintf("%s_%s_indexing_stats.json", engine, dataset)
}

// SearchFile returns the search artifact name for engine and dataset.
func SearchFile(engine, dataset string) string {
	return fmt.Sprintf("%s_%s_search_stats.json", engine, dataset)
}

// MemoryFile returns the footprint artifact name for engine and dataset.
func MemoryFile(engine, dataset string) string {
	return fmt.Sprintf("%s_%s_memory.json", engine, dataset)
}

// Writer writes artifacts into one directory and remembers the latest summary.
type Writer struct {
	dir      string
	markdown bool

	mu     sync.RWMutex
	latest []byte
}

// NewWriter creates a Writer for dir. markdown enables summary_report.md.
func NewWriter(dir string, markdown bool) *Writer {
	return &Writer{dir: dir, markdown: markdown}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteQueries stores the query set.
func (w *Writer) WriteQueries(queries []string) (string, error) {
	if queries == nil {
		queries = []string{}
	}
	return w.writeJSON(QueriesFile, queries)
}

// WriteSummary stores every per-dataset artifact and then the summary itself.
// It returns the written paths in write order.
func (w *Writer) WriteSummary(s run.Summary) ([]string, error) {
	rep := NewSummaryReport(s)
	var paths []string
	add := func(name string, v any) error {
		p, err := w.writeJSON(name, v)
		if err != nil {
			return err
		}
		paths = append(paths, p)
		return nil
	}

	for _, d := range s.Datasets() {
		ds := rep.Datasets[d.Name]
		if err := add(IndexingFile(s.Engine(), d.Name), ds.Indexing); err != nil {
			return paths, err
		}
		if err := add(SearchFile(s.Engine(), d.Name), ds.Search); err != nil {
			return paths, err
		}
		if err := add(MemoryFile(s.Engine(), d.Name), ds.Memory); err != nil {
			return paths, err
		}
	}

	data, err := marshal(rep)
	if err != nil {
		return paths, err
	}
	p, err := w.writeFile(SummaryFile, data)
	if err != nil {
		return paths, err
	}
	paths = append(paths, p)

	w.mu.Lock()
	w.latest = data
	w.mu.Unlock()

	if w.markdown {
		p, err := w.writeFile(SummaryMarkdownFile, []byte(Markdown(s)))
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Latest returns the most recent summary JSON: the one written by this Writer,
// or the one found on disk from an earlier run.
func (w *Writer) Latest() ([]byte, bool) {
	w.mu.RLock()
	data := w.latest
	w.mu.RUnlock()
	if data != nil {
		return data, true
	}

	data, err := os.ReadFile(filepath.Join(w.dir, SummaryFile))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (w *Writer) writeJSON(name string, v any) (string, error) {
	data, err := marshal(v)
	if err != nil {
		return "", err
	}
	return w.writeFile(name, data)
}

// writeFile replaces name atomically: readers see the old file or the new one, never a partial write.
func (w *Writer) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	serr := tmp.Sync()
	cerr := tmp.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

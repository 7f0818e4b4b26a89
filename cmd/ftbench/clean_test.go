package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/repository/memindex"
	"github.com/kailas-cloud/ftbench/internal/usecase/bench"
)

func cleanDatasets(t *testing.T) []bench.Dataset {
	t.Helper()
	s, err := index.NewSettings("id", []string{"title", "text"})
	if err != nil {
		t.Fatal(err)
	}
	return []bench.Dataset{
		{Name: "news", Index: "ftindex-v1.0-news", Settings: s},
		{Name: "wiki", Index: "ftindex-v1.0-wiki", Settings: s},
	}
}

func TestDropIndexes(t *testing.T) {
	ctx := context.Background()
	datasets := cleanDatasets(t)
	eng := memindex.New()
	if err := eng.CreateIndex(ctx, "ftindex-v1.0-news", datasets[0].Settings); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := dropIndexes(ctx, eng, datasets, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "dropped ftindex-v1.0-news\nabsent ftindex-v1.0-wiki\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := eng.IndexStats(ctx, "ftindex-v1.0-news"); !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("index should be gone, got %v", err)
	}
}

func TestDropIndexes_EngineDown(t *testing.T) {
	eng := memindex.New()
	eng.SetDown(true)

	err := dropIndexes(context.Background(), eng, cleanDatasets(t), &bytes.Buffer{})
	var stepErr *domain.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != domain.StepClean || stepErr.Dataset != "news" {
		t.Fatalf("expected clean step error on news, got %v", err)
	}
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestDropIndexes_Unsupported(t *testing.T) {
	eng := struct{ bench.Engine }{memindex.New()}
	err := dropIndexes(context.Background(), eng, cleanDatasets(t), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "cannot drop indexes") {
		t.Errorf("expected unsupported engine error, got %v", err)
	}
}

func TestCleanCmd_BleveEngine(t *testing.T) {
	dir := t.TempDir()
	news := writeCorpus(t, dir, "news", 4)
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
database:
  driver: bleve
storage:
  bleve_dir: %s
datasets:
  - name: news
    path: %s
report:
  dir: %s
`, filepath.Join(dir, "bleve"), news, filepath.Join(dir, "results")))

	if _, err := execute(t, "run", "--config", cfgPath, "--log-level", "error"); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, err := execute(t, "clean", "--config", cfgPath, "--log-level", "error")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "dropped ftindex-v1.0-news") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = execute(t, "clean", "--config", cfgPath, "--log-level", "error")
	if err != nil {
		t.Fatalf("second clean: %v", err)
	}
	if !strings.Contains(out, "absent ftindex-v1.0-news") {
		t.Errorf("unexpected output %q", out)
	}
}

package health

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// --- Mocks ---

type mockEnginePinger struct {
	err error
}

func (m *mockEnginePinger) Ping(_ context.Context) error { return m.err }

func missing(paths ...string) CorpusChecker {
	return CorpusCheckFunc(func(path string) error {
		for _, p := range paths {
			if p == path {
				return errors.New("no such file")
			}
		}
		return nil
	})
}

var corpora = map[string]string{"news": "news.jsonl", "wiki": "wiki.jsonl"}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockEnginePinger{}, missing(), corpora)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{CheckEngine, "corpus:news", "corpus:wiki"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if len(r.Errors) != 0 {
		t.Errorf("expected no errors, got %v", r.Errors)
	}
}

func TestCheck_EngineDown(t *testing.T) {
	svc := New(&mockEnginePinger{err: errors.New("conn refused")}, missing(), corpora)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckEngine] != CheckError {
		t.Errorf("expected engine %q, got %q", CheckError, r.Checks[CheckEngine])
	}
	if r.Errors[CheckEngine] != "conn refused" {
		t.Errorf("unexpected error text %q", r.Errors[CheckEngine])
	}
}

func TestCheck_MissingCorpus(t *testing.T) {
	svc := New(&mockEnginePinger{}, missing("wiki.jsonl"), corpora)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if got := r.Failed(); !reflect.DeepEqual(got, []string{"corpus:wiki"}) {
		t.Errorf("unexpected failed checks %v", got)
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(&mockEnginePinger{err: errors.New("down")}, missing("news.jsonl", "wiki.jsonl"), corpora)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if len(r.Failed()) != 3 {
		t.Errorf("expected 3 failed checks, got %v", r.Failed())
	}
}

func TestCheck_NoCorpusChecker(t *testing.T) {
	svc := New(&mockEnginePinger{}, nil, corpora)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["corpus:news"]; ok {
		t.Error("corpus checks should be absent when checker is nil")
	}
}

func TestCheck_EngineOnlyDown(t *testing.T) {
	svc := New(&mockEnginePinger{err: errors.New("fail")}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

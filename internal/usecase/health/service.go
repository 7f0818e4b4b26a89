package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// CheckEngine is the check name of the engine ping.
const CheckEngine = "engine"

// Report aggregates health check results. Errors holds the failure message per failed check.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
	Errors map[string]string      `json:"errors,omitempty"`
}

// Failed returns the names of failed checks, sorted.
func (r Report) Failed() []string {
	var out []string
	for name, res := range r.Checks {
		if res == CheckError {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Service coordinates health checks.
type Service struct {
	engine  EnginePinger
	corpus  CorpusChecker
	corpora map[string]string
}

// New creates a Service. corpora maps dataset name to corpus path; corpus can be nil to skip file checks.
func New(engine EnginePinger, corpus CorpusChecker, corpora map[string]string) *Service {
	cp := make(map[string]string, len(corpora))
	for k, v := range corpora {
		cp[k] = v
	}
	return &Service{engine: engine, corpus: corpus, corpora: cp}
}

// CorpusCheckName is the check name for a dataset's corpus file.
func CorpusCheckName(dataset string) string { return "corpus:" + dataset }

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Checks: make(map[string]CheckResult), Errors: make(map[string]string)}
	record := func(name string, err error) {
		if err != nil {
			r.Checks[name] = CheckError
			r.Errors[name] = err.Error()
			return
		}
		r.Checks[name] = CheckOK
	}

	record(CheckEngine, s.engine.Ping(ctx))
	if s.corpus != nil {
		for name, path := range s.corpora {
			record(CorpusCheckName(name), s.corpus.Check(path))
		}
	}

	switch failed := len(r.Errors); {
	case failed == 0:
		r.Status = Healthy
	case failed == len(r.Checks):
		r.Status = Unhealthy
	default:
		r.Status = Degraded
	}
	return r
}

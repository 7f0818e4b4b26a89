package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataNotFound signals a missing corpus source.
	ErrDataNotFound = errors.New("data not found")
	// ErrEmptyCorpus signals a corpus without a single valid record.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrServiceUnavailable signals that the search service cannot be reached.
	ErrServiceUnavailable = errors.New("search service unavailable")
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrBenchmarkFailed signals that every query of a search benchmark failed.
	ErrBenchmarkFailed = errors.New("benchmark failed")
)

// DataNotFoundError wraps ErrDataNotFound with the missing path.
type DataNotFoundError struct {
	Path string
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDataNotFound.Error(), e.Path)
}

func (e *DataNotFoundError) Unwrap() error { return ErrDataNotFound }

// NewDataNotFound creates a data-not-found error for path.
func NewDataNotFound(path string) error {
	return &DataNotFoundError{Path: path}
}

// Pipeline steps, used to tell the operator where a dataset run stopped.
const (
	StepPreflight = "preflight"
	StepLoad      = "load"
	StepIndex     = "index"
	StepSearch    = "search"
	StepFootprint = "footprint"
	StepClean     = "clean"
)

// StepError records which dataset and pipeline step produced Err.
type StepError struct {
	Dataset string
	Step    string
	Err     error
}

func (e *StepError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s: %v", e.Dataset, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Remediation returns an operator hint for err, or "" when there is none.
func Remediation(err error) string {
	var notFound *DataNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("corpus file %s is missing: download the datasets first", notFound.Path)
	case errors.Is(err, ErrDataNotFound):
		return "corpus data is missing: download the datasets first"
	case errors.Is(err, ErrEmptyCorpus):
		return "corpus has no valid records: re-run the download and preprocessing step"
	case errors.Is(err, ErrServiceUnavailable):
		return "search service is unreachable: start the engine and check database.addrs"
	case errors.Is(err, ErrIndexNotFound):
		return "index does not exist: re-run the indexing step"
	case errors.Is(err, ErrBenchmarkFailed):
		return "every query failed: check that the indexing step completed and the engine is healthy"
	default:
		return ""
	}
}

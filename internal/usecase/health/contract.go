package health

import "context"

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// CorpusChecker checks that a corpus source is present and readable.
type CorpusChecker interface {
	Check(path string) error
}

// CorpusCheckFunc adapts a function to CorpusChecker.
type CorpusCheckFunc func(path string) error

// Check calls f.
func (f CorpusCheckFunc) Check(path string) error { return f(path) }

// Package corpus loads benchmark documents from line-delimited JSON or parquet files.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/document"
	"github.com/kailas-cloud/ftbench/internal/logger"
)

// Options controls a single load.
type Options struct {
	// MaxDocs caps the number of valid documents; 0 means no limit.
	MaxDocs    int
	IDField    string
	TextFields []string
}

// Warning describes a skipped record.
type Warning struct {
	Line   int // 1-based line (JSON) or row (parquet) number
	Reason string
}

func (w Warning) String() string { return fmt.Sprintf("line %d: %s", w.Line, w.Reason) }

// Result is the outcome of a load.
type Result struct {
	Documents []document.Document
	Warnings  []Warning
	// Records counts every record read, valid or not, before MaxDocs was reached.
	Records int
}

// Format identifies a corpus file layout.
type Format string

const (
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// DetectFormat picks the format from the file extension. Unknown extensions read as JSONL.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatJSONL
}

// Load reads up to opts.MaxDocs valid documents from path, in source order.
// A missing file yields domain.ErrDataNotFound; a file without any valid
// record yields domain.ErrEmptyCorpus. Malformed records are skipped and reported.
func Load(ctx context.Context, path string, opts Options) (Result, error) {
	if opts.IDField == "" || len(opts.TextFields) == 0 {
		return Result{}, fmt.Errorf("id field and text fields are required")
	}
	if opts.MaxDocs < 0 {
		return Result{}, fmt.Errorf("max docs must not be negative")
	}

	if err := Check(path); err != nil {
		return Result{}, err
	}

	b := &builder{opts: opts, log: logger.FromContext(ctx).With(zap.String("path", path))}

	var err error
	switch DetectFormat(path) {
	case FormatParquet:
		err = readParquet(ctx, path, b)
	default:
		err = readJSONL(ctx, path, b)
	}
	if err != nil {
		return Result{}, err
	}

	if len(b.res.Documents) == 0 {
		return b.res, fmt.Errorf("%s: %w (%d records, %d skipped)",
			path, domain.ErrEmptyCorpus, b.res.Records, len(b.res.Warnings))
	}

	b.log.Info("corpus loaded",
		zap.Int("docs", len(b.res.Documents)),
		zap.Int("records", b.res.Records),
		zap.Int("skipped", len(b.res.Warnings)),
	)
	return b.res, nil
}

// Check reports whether path is a readable corpus file without reading it.
// A missing file yields a *domain.DataNotFoundError.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewDataNotFound(path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// builder accumulates documents and warnings across a read.
type builder struct {
	opts Options
	log  *zap.Logger
	res  Result
}

// full reports whether MaxDocs has been reached.
func (b *builder) full() bool {
	return b.opts.MaxDocs > 0 && len(b.res.Documents) >= b.opts.MaxDocs
}

// add validates one flat record. It returns false once the cap is reached.
func (b *builder) add(line int, fields map[string]string) bool {
	b.res.Records++
	doc, err := document.New(fields, b.opts.IDField, b.opts.TextFields)
	if err != nil {
		b.skip(line, err.Error())
		return !b.full()
	}
	b.res.Documents = append(b.res.Documents, doc)
	return !b.full()
}

func (b *builder) skip(line int, reason string) {
	w := Warning{Line: line, Reason: reason}
	b.res.Warnings = append(b.res.Warnings, w)
	b.log.Warn("skipping malformed record", zap.Int("line", line), zap.String("reason", reason))
}

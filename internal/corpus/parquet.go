package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const parquetBatch = 1000

// readParquet reads every row group with the generic row reader. Each top-level
// column becomes a field; repeated leaf values are joined with a space.
func readParquet(ctx context.Context, path string, b *builder) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return fmt.Errorf("open parquet %s: %w", path, err)
	}

	names := leafNames(pf)
	rowNum := 0

	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, parquetBatch)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				rowNum++
				if !b.add(rowNum, rowFields(buf[i], names)) {
					return nil
				}
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return fmt.Errorf("read rows of %s: %w", path, readErr)
			}
		}
	}
	return nil
}

// leafNames maps leaf column indexes to their top-level column name.
func leafNames(pf *parquet.File) []string {
	cols := pf.Schema().Columns()
	names := make([]string, len(cols))
	for i, p := range cols {
		if len(p) > 0 {
			names[i] = p[0]
		}
	}
	return names
}

func rowFields(row parquet.Row, names []string) map[string]string {
	parts := make(map[string][]string, len(names))
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(names) || names[col] == "" || v.IsNull() {
			continue
		}
		parts[names[col]] = append(parts[names[col]], v.String())
	}

	fields := make(map[string]string, len(parts))
	for k, vs := range parts {
		fields[k] = strings.Join(vs, " ")
	}
	return fields
}

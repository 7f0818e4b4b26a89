package redis

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/ftbench/internal/db"
)

// IndexInfo reads document counts and memory figures from FT.INFO.
func (s *Store) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, opErr(db.OpIndexInfo, err)
	}
	return parseIndexInfo(name, arr)
}

// parseIndexInfo walks the alternating key/value reply. Unknown keys are ignored.
func parseIndexInfo(name string, arr []rueidis.RedisMessage) (*db.IndexInfo, error) {
	if len(arr)%2 != 0 {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("odd reply length %d", len(arr))}
	}

	info := &db.IndexInfo{Name: name}
	for i := 0; i+1 < len(arr); i += 2 {
		key, err := arr[i].ToString()
		if err != nil {
			continue
		}
		val := arr[i+1]
		switch key {
		case "index_name":
			if v, err := val.ToString(); err == nil {
				info.Name = v
			}
		case "num_docs":
			info.NumDocs = int64(number(val))
		case "num_records":
			info.NumRecords = int64(number(val))
		case "inverted_sz_mb":
			info.InvertedSizeMB = number(val)
		case "offset_vectors_sz_mb":
			info.OffsetVectorsSizeMB = number(val)
		case "doc_table_size_mb":
			info.DocTableSizeMB = number(val)
		case "sortable_values_size_mb":
			info.SortableValuesSizeMB = number(val)
		case "key_table_size_mb":
			info.KeyTableSizeMB = number(val)
		case "tag_overhead_sz_mb":
			info.TagOverheadSizeMB = number(val)
		case "text_overhead_sz_mb":
			info.TextOverheadSizeMB = number(val)
		case "total_index_memory_sz_mb":
			info.TotalIndexMemoryMB = number(val)
		}
	}
	return info, nil
}

// number reads a reply value that the server may send as integer, double or bulk string.
// Non-numeric values (e.g. "nan") read as zero.
func number(m rueidis.RedisMessage) float64 {
	if v, err := m.AsInt64(); err == nil {
		return float64(v)
	}
	v, err := m.AsFloat64()
	if err != nil {
		s, serr := m.ToString()
		if serr != nil {
			return 0
		}
		if v, err = strconv.ParseFloat(s, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

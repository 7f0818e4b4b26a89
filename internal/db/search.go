package db

// TextQuery is the input for a full-text FT.SEARCH.
type TextQuery struct {
	IndexName string
	Query     string
	// Fields restricts matching to the given TEXT fields; empty matches all of them.
	Fields []string
	// MatchAny joins query terms with OR instead of the engine's default AND.
	MatchAny     bool
	TopK         int
	ReturnFields []string
	// NoContent returns keys and scores only.
	NoContent bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// IndexInfo is the subset of FT.INFO the benchmark reads.
// Sizes are reported by the server in megabytes.
type IndexInfo struct {
	Name                 string
	NumDocs              int64
	NumRecords           int64
	InvertedSizeMB       float64
	OffsetVectorsSizeMB  float64
	DocTableSizeMB       float64
	SortableValuesSizeMB float64
	KeyTableSizeMB       float64
	TagOverheadSizeMB    float64
	TextOverheadSizeMB   float64
	// TotalIndexMemoryMB is reported by Redis 8; zero when the server omits it.
	TotalIndexMemoryMB float64
}

// ComponentsMB sums the per-structure sizes reported by FT.INFO.
func (i *IndexInfo) ComponentsMB() float64 {
	return i.InvertedSizeMB + i.OffsetVectorsSizeMB + i.DocTableSizeMB +
		i.SortableValuesSizeMB + i.KeyTableSizeMB + i.TagOverheadSizeMB + i.TextOverheadSizeMB
}

// TotalMB prefers the server-reported total and falls back to the component sum.
func (i *IndexInfo) TotalMB() float64 {
	if i.TotalIndexMemoryMB > 0 {
		return i.TotalIndexMemoryMB
	}
	return i.ComponentsMB()
}

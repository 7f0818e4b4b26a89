package run

const bytesPerMB = 1024 * 1024

// Footprint is the storage size of one index (immutable).
type Footprint struct {
	indexName string
	sizeBytes int64
	docCount  int64
	// components breaks sizeBytes down by engine structure, when reported.
	components map[string]int64
}

// NewFootprint creates a Footprint. Negative inputs are clamped to zero.
func NewFootprint(indexName string, sizeBytes, docCount int64) Footprint {
	return Footprint{indexName: indexName, sizeBytes: max(sizeBytes, 0), docCount: max(docCount, 0)}
}

// WithComponents returns a copy of f carrying a per-structure size breakdown.
// Negative sizes are clamped to zero.
func (f Footprint) WithComponents(c map[string]int64) Footprint {
	if len(c) == 0 {
		f.components = nil
		return f
	}
	f.components = make(map[string]int64, len(c))
	for k, v := range c {
		f.components[k] = max(v, 0)
	}
	return f
}

// Components returns a copy of the size breakdown, nil when the engine reports none.
func (f Footprint) Components() map[string]int64 {
	if f.components == nil {
		return nil
	}
	out := make(map[string]int64, len(f.components))
	for k, v := range f.components {
		out[k] = v
	}
	return out
}

// IndexName returns the measured index.
func (f Footprint) IndexName() string { return f.indexName }

// SizeBytes returns the index size in bytes.
func (f Footprint) SizeBytes() int64 { return f.sizeBytes }

// SizeMB returns the index size in mebibytes.
func (f Footprint) SizeMB() float64 { return float64(f.sizeBytes) / bytesPerMB }

// DocCount returns the number of documents the engine reports.
func (f Footprint) DocCount() int64 { return f.docCount }

package report

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/ftbench/internal/domain/run"
)

// Markdown renders the run as comparison tables: latency, throughput and footprint per dataset.
func Markdown(s run.Summary) string {
	var b strings.Builder
	ds := s.Datasets()

	fmt.Fprintf(&b, "# Benchmark %s (%s)\n\n", s.ID(), s.Engine())
	fmt.Fprintf(&b, "Run at %s with %d queries per dataset.\n\n", s.CreatedAt().UTC().Format("2006-01-02 15:04:05 MST"), s.QueryCount())

	b.WriteString("## Search latency (ms)\n\n")
	b.WriteString("| Dataset | Index | Mean | Median | P95 | P99 | Min | Max | Failed |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, d := range ds {
		st := d.Search.Stats()
		fmt.Fprintf(&b, "| %s | %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %d/%d |\n",
			d.Name, d.Index, st.Mean, st.Median, st.P95, st.P99, st.Min, st.Max,
			d.Search.Failed(), d.Search.Total())
	}

	b.WriteString("\n## Indexing throughput\n\n")
	b.WriteString("| Dataset | Docs | Elapsed (s) | Docs/s |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, d := range ds {
		rate := "n/a"
		if d.Indexing.ThroughputDefined() {
			rate = fmt.Sprintf("%.2f", d.Indexing.DocsPerSecond())
		}
		fmt.Fprintf(&b, "| %s | %d | %.3f | %s |\n",
			d.Name, d.Indexing.TotalDocs(), d.Indexing.ElapsedSeconds(), rate)
	}

	b.WriteString("\n## Index footprint\n\n")
	b.WriteString("| Dataset | Docs | Size (MB) |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, d := range ds {
		fmt.Fprintf(&b, "| %s | %d | %.2f |\n", d.Name, d.Footprint.DocCount(), d.Footprint.SizeMB())
	}
	fmt.Fprintf(&b, "| **total** | | %.2f |\n", s.TotalSizeMB())
	return b.String()
}

package bleveindex

import (
	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"

	"github.com/kailas-cloud/ftbench/internal/domain/index"
)

// analyzers maps configured languages to registered bleve analyzers.
var analyzers = map[string]string{
	"":        standard.Name,
	"english": en.AnalyzerName,
	"en":      en.AnalyzerName,
}

// buildMapping indexes only the id (as a keyword) and the text fields.
// Everything else is stored in the document but not searchable.
func buildMapping(s index.Settings) mapping.IndexMapping {
	analyzer, ok := analyzers[s.Language]
	if !ok {
		analyzer = standard.Name
	}

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	id := bleve.NewTextFieldMapping()
	id.Analyzer = keyword.Name
	id.IncludeInAll = false
	doc.AddFieldMappingsAt(s.IDField, id)

	for _, f := range s.TextFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzer
		if !s.Stemmed(f) {
			fm.Analyzer = standard.Name
		}
		fm.Store = false
		fm.IncludeTermVectors = false
		doc.AddFieldMappingsAt(f, fm)
	}

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = analyzer
	return m
}

// Package index describes engine-neutral index settings and statistics.
package index

import "fmt"

// Settings is the index schema handed to an engine on creation.
type Settings struct {
	IDField    string
	TextFields []string
	// Weights boosts individual text fields; missing fields use 1.
	Weights map[string]float64
	// Language selects the stemming language; empty keeps the engine default.
	Language string
	// NoStem lists text fields indexed without stemming.
	NoStem []string
}

// NewSettings validates and creates index Settings.
func NewSettings(idField string, textFields []string) (Settings, error) {
	if idField == "" {
		return Settings{}, fmt.Errorf("id field is required")
	}
	if len(textFields) == 0 {
		return Settings{}, fmt.Errorf("at least one text field is required")
	}
	seen := make(map[string]bool, len(textFields))
	for _, f := range textFields {
		if f == "" {
			return Settings{}, fmt.Errorf("text field name is empty")
		}
		if f == idField {
			return Settings{}, fmt.Errorf("text field %q duplicates the id field", f)
		}
		if seen[f] {
			return Settings{}, fmt.Errorf("duplicate text field %q", f)
		}
		seen[f] = true
	}
	tf := make([]string, len(textFields))
	copy(tf, textFields)
	return Settings{IDField: idField, TextFields: tf}, nil
}

// Weight returns the boost for field.
func (s Settings) Weight(field string) float64 {
	if w, ok := s.Weights[field]; ok && w > 0 {
		return w
	}
	return 1
}

// Stemmed reports whether field is indexed with stemming.
func (s Settings) Stemmed(field string) bool {
	for _, f := range s.NoStem {
		if f == field {
			return false
		}
	}
	return true
}

// Stats is what an engine reports about an existing index.
type Stats struct {
	SizeBytes int64
	DocCount  int64
	// Components breaks SizeBytes down by engine structure when the engine reports it.
	Components map[string]int64
}

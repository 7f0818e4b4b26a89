package document

import (
	"fmt"
	"sort"
	"strings"
)

// Document is a single corpus record (immutable value object).
type Document struct {
	id         string
	fields     map[string]string
	textFields []string
}

// New validates and creates a Document from a flat record.
// The id field must be non-empty and at least one of textFields must carry text.
// Text fields absent from the record are dropped from the document's text set.
func New(fields map[string]string, idField string, textFields []string) (Document, error) {
	if idField == "" {
		return Document{}, fmt.Errorf("id field name is required")
	}
	if len(textFields) == 0 {
		return Document{}, fmt.Errorf("at least one text field name is required")
	}

	id := strings.TrimSpace(fields[idField])
	if id == "" {
		return Document{}, fmt.Errorf("missing %q", idField)
	}

	present := make([]string, 0, len(textFields))
	for _, f := range textFields {
		if strings.TrimSpace(fields[f]) != "" {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return Document{}, fmt.Errorf("no text in fields %s", strings.Join(textFields, ", "))
	}

	return Document{
		id:         id,
		fields:     cloneStringMap(fields),
		textFields: present,
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Field returns a single field value.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Fields returns a copy of all fields.
func (d *Document) Fields() map[string]string { return cloneStringMap(d.fields) }

// FieldNames returns the field names in sorted order.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.fields))
	for k := range d.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TextFields returns the names of the non-empty text fields, in configured order.
func (d *Document) TextFields() []string {
	out := make([]string, len(d.textFields))
	copy(out, d.textFields)
	return out
}

// Text joins the non-empty text fields with a newline.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.textFields))
	for _, f := range d.textFields {
		parts = append(parts, d.fields[f])
	}
	return strings.Join(parts, "\n")
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

package document

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	fields := map[string]string{"id": "n-1", "title": "Solar", "text": "Panels are cheap", "source": "ap"}

	doc, err := New(fields, "id", []string{"title", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "n-1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Text() != "Solar\nPanels are cheap" {
		t.Errorf("Text() = %q", doc.Text())
	}
	if v, ok := doc.Field("source"); !ok || v != "ap" {
		t.Errorf("Field(source) = %q, %v", v, ok)
	}
	names := doc.FieldNames()
	if strings.Join(names, ",") != "id,source,text,title" {
		t.Errorf("FieldNames() = %v", names)
	}
}

func TestNew_SkipsEmptyTextFields(t *testing.T) {
	doc, err := New(map[string]string{"id": "1", "title": "  ", "text": "body"}, "id", []string{"title", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := doc.TextFields()
	if len(got) != 1 || got[0] != "text" {
		t.Errorf("TextFields() = %v, want [text]", got)
	}
}

func TestNew_ClonesMaps(t *testing.T) {
	fields := map[string]string{"id": "1", "text": "original"}

	doc, _ := New(fields, "id", []string{"text"})

	fields["text"] = "mutated"
	if doc.Text() != "original" {
		t.Error("input mutation leaked into document")
	}

	out := doc.Fields()
	out["text"] = "mutated"
	if doc.Text() != "original" {
		t.Error("Fields() mutation leaked into document")
	}

	tf := doc.TextFields()
	tf[0] = "other"
	if doc.TextFields()[0] != "text" {
		t.Error("TextFields() mutation leaked into document")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		idField    string
		textFields []string
		wantErr    string
	}{
		{"no id field name", map[string]string{"id": "1"}, "", []string{"text"}, "id field name"},
		{"no text field names", map[string]string{"id": "1"}, "id", nil, "text field name"},
		{"missing id", map[string]string{"text": "x"}, "id", []string{"text"}, `missing "id"`},
		{"blank id", map[string]string{"id": " ", "text": "x"}, "id", []string{"text"}, `missing "id"`},
		{"no text", map[string]string{"id": "1", "text": ""}, "id", []string{"title", "text"}, "no text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields, tt.idField, tt.textFields)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

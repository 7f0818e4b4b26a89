package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Document(t *testing.T) {
	idx, err := NewIndex("ftindex-v1.0-news").
		Prefix("ftbench:ftindex-v1.0-news:doc:").
		Tag("id").
		Text("title").
		Text("text").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want id TAG", idx.Fields[0])
	}
	if idx.Fields[2].Name != "text" || idx.Fields[2].Type != IndexFieldText {
		t.Errorf("field[2] = %+v, want text TEXT", idx.Fields[2])
	}
	if !idx.HasTextField() {
		t.Error("expected HasTextField=true")
	}
}

func TestIndexBuilder_NoTextField(t *testing.T) {
	idx, err := NewIndex("tags").Tag("x").Build()
	if err != nil {
		t.Fatal(err)
	}
	if idx.HasTextField() {
		t.Error("expected HasTextField=false")
	}
}

func TestIndexBuilder_TextOptionsAndLanguage(t *testing.T) {
	idx, err := NewIndex("weighted").
		Language("english").
		TextWithOpts("title", 2, false).
		TextWithOpts("body", 0, true).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	if idx.Language != "english" {
		t.Errorf("language = %q, want english", idx.Language)
	}
	if idx.Fields[0].TextWeight != 2 || idx.Fields[0].TextNoStem {
		t.Errorf("title = %+v, want weight 2 stemmed", idx.Fields[0])
	}
	if idx.Fields[1].TextWeight != 0 || !idx.Fields[1].TextNoStem {
		t.Errorf("body = %+v, want default weight NOSTEM", idx.Fields[1])
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "negative weight",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").TextWithOpts("t", -1, false).Build()
			},
			wantErr: "must not be negative",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx, err := NewIndex("my-idx").
		Prefix("doc:").
		Tag("cat").
		TextWithOpts("title", 1.5, true).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	s := idx.String()
	if !strings.HasPrefix(s, "FT.CREATE ") {
		t.Errorf("expected FT.CREATE prefix, got %q", s)
	}
	if !strings.Contains(s, "my-idx") {
		t.Error("missing index name in string output")
	}
	if !strings.Contains(s, "TEXT WEIGHT 1.5 NOSTEM") {
		t.Errorf("missing weight in %q", s)
	}
}

func TestIndexBuilder_DuplicateFields(t *testing.T) {
	idx := &IndexDefinition{
		Name: "dup-idx",
		Fields: []IndexField{
			{Name: "field1", Type: IndexFieldTag},
			{Name: "field1", Type: IndexFieldText},
		},
	}

	if err := idx.Validate(); err == nil {
		t.Fatal("expected error for duplicate fields")
	}
}

func TestIndexInfo_TotalMB(t *testing.T) {
	info := &IndexInfo{InvertedSizeMB: 1, DocTableSizeMB: 0.5, KeyTableSizeMB: 0.25}
	if got := info.TotalMB(); got != 1.75 {
		t.Errorf("TotalMB = %v, want 1.75 (component sum)", got)
	}

	info.TotalIndexMemoryMB = 3
	if got := info.TotalMB(); got != 3 {
		t.Errorf("TotalMB = %v, want server-reported 3", got)
	}
}

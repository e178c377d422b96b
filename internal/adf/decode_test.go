package adf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr bool
	}{
		{"valid", NewDocument(), false},
		{"nil", nil, true},
		{"missing type", &Document{Version: 1}, true},
		{"wrong type", &Document{Type: TypeParagraph, Version: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDocument) {
					t.Errorf("expected ErrInvalidDocument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	input := `{"type":"doc","version":1,"content":[{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"Title"}]}]}`
	doc, err := Decode([]byte(input), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc.Content))
	}
	heading := doc.Content[0]
	if heading.Type != TypeHeading || heading.Level() != 2 {
		t.Errorf("got %s level %d, want heading level 2", heading.Type, heading.Level())
	}
	if diff := cmp.Diff([]Node{Text("Title")}, heading.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Path(t *testing.T) {
	payload := `{"key":"PROJ-1","fields":{"summary":"s","description":{"type":"doc","version":1,"content":[{"type":"rule"}]}}}`
	doc, err := Decode([]byte(payload), "fields.description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Type != TypeRule {
		t.Errorf("unexpected content %+v", doc.Content)
	}

	if _, err := Decode([]byte(payload), "fields.nope"); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("missing path: expected ErrInvalidDocument, got %v", err)
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"type":`},
		{"array root", `[{"type":"doc"}]`},
		{"string root", `"doc"`},
		{"not a doc", `{"type":"paragraph","content":[]}`},
		{"no type", `{"version":1,"content":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input), ""); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

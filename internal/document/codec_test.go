package document

import (
	"errors"
	"testing"
)

const sampleJSON = `{
	"type": "doc",
	"content": [
		{"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Title"}]},
		{"type": "paragraph", "content": [
			{"type": "text", "text": "x", "marks": [{"type": "bold"}, {"type": "link", "attrs": {"href": "h"}}]}
		]},
		{"type": "orderedList", "attrs": {"start": 3}, "content": []}
	]
}`

func TestDecodeEditorJSON(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Type != TypeDoc || len(doc.Content) != 3 {
		t.Fatalf("unexpected root %#v", doc)
	}

	heading := doc.Content[0]
	if got := heading.Attrs.Int("level", 1); got != 2 {
		t.Fatalf("expected level 2, got %d", got)
	}
	if _, ok := heading.Attrs["level"].(int64); !ok {
		t.Fatalf("expected integral json numbers to normalise to int64, got %T", heading.Attrs["level"])
	}

	run := doc.Content[1].Content[0]
	if !run.IsText() || run.Text != "x" {
		t.Fatalf("unexpected text run %#v", run)
	}
	if len(run.Marks) != 2 || run.Marks[0].Type != MarkBold || run.Marks[1].Type != MarkLink {
		t.Fatalf("expected marks in declared order, got %#v", run.Marks)
	}
	if got := run.Marks[1].Attrs.String("href", ""); got != "h" {
		t.Fatalf("expected href h, got %q", got)
	}
	if got := doc.Content[2].Attrs.Int("start", 1); got != 3 {
		t.Fatalf("expected start 3, got %d", got)
	}
}

func TestDecodeRejectsEmptyAndUntypedPayloads(t *testing.T) {
	if _, err := Decode([]byte("  ")); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := Decode([]byte(`{"content": []}`)); !errors.Is(err, ErrMissingType) {
		t.Fatalf("expected ErrMissingType, got %v", err)
	}
	if _, err := Decode([]byte(`{"type": `)); !errors.Is(err, ErrDecodePayload) {
		t.Fatalf("expected ErrDecodePayload, got %v", err)
	}
}

func TestBinaryRoundTripPreservesTree(t *testing.T) {
	original := Doc(
		Heading(3, Text("Hello")),
		Paragraph(
			Text("plain "),
			Text("link", NewMark(MarkBold, nil), NewMark(MarkLink, Attrs{"href": "https://example.com"})),
		),
		New(TypeTaskList, Attrs{"checked": true}, ListItem(Paragraph(Text("done")))),
	)

	payload, err := EncodeBinary(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	restored, err := DecodeBinary(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if restored.Type != TypeDoc || len(restored.Content) != 3 {
		t.Fatalf("unexpected root %#v", restored)
	}
	if got := restored.Content[0].Attrs.Int("level", 1); got != 3 {
		t.Fatalf("expected heading level 3 after round trip, got %d", got)
	}
	run := restored.Content[1].Content[1]
	if run.Text != "link" || len(run.Marks) != 2 || run.Marks[1].Attrs.String("href", "") != "https://example.com" {
		t.Fatalf("unexpected run after round trip %#v", run)
	}
	if !restored.Content[2].Attrs.Bool("checked", false) {
		t.Fatal("expected checked attribute to survive")
	}
}

func TestEncodeRejectsNil(t *testing.T) {
	if _, err := Encode(nil); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
	if _, err := EncodeBinary(nil); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
	if _, err := DecodeBinary(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-richdoc/internal/document"
)

func TestMarkdownRendersGFM(t *testing.T) {
	r := New(Options{})
	out, err := r.Markdown([]byte("# Title\n\n- [x] done\n\n~~gone~~"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Title</h1>", "<del>gone</del>", `type="checkbox"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %q", want, html)
		}
	}
}

func TestMarkdownHardWraps(t *testing.T) {
	out, err := New(Options{HardWraps: true}).Markdown([]byte("one\ntwo"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), "one<br>") {
		t.Fatalf("expected hard wrap, got %q", out)
	}
}

func TestMarkdownSanitizeRemovesScripts(t *testing.T) {
	out, err := New(Options{Sanitize: true}).Markdown([]byte("hello <script>alert(1)</script> **bold**"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script") {
		t.Fatalf("expected script stripped, got %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected formatting kept, got %q", html)
	}
}

func TestDocumentPreview(t *testing.T) {
	root := document.Doc(
		document.Heading(2, document.Text("Intro")),
		document.Paragraph(document.Text("see "), document.Text("docs", document.NewMark(document.MarkLink, document.Attrs{"href": "https://example.com"}))),
		document.New(document.TypeOrderedList, nil,
			document.ListItem(document.Paragraph(document.Text("a"))),
			document.ListItem(document.Paragraph(document.Text("b"))),
		),
	)

	out, err := New(Options{}).Document(context.Background(), root)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Intro</h2>", `<a href="https://example.com">docs</a>`, "<ol>", "<li>a</li>", "<li>b</li>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %q", want, html)
		}
	}
}

func TestDocumentPreviewPropagatesStructureErrors(t *testing.T) {
	_, err := New(Options{}).Document(context.Background(), document.Doc(nil))
	if err == nil {
		t.Fatal("expected structure error")
	}
}

func TestExtensionsSkipsUnknownAndDuplicates(t *testing.T) {
	got := extensions([]string{"table", "TABLE", "nope", " footnote "})
	if len(got) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(got))
	}
	if len(extensions(nil)) != 3 {
		t.Fatal("expected default extension set")
	}
}

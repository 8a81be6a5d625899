package gfm_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-richdoc/internal/rules/gfm"
	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/pkg/testsupport"
)

func TestRenderMatchesGolden(t *testing.T) {
	root := testsupport.MustLoadDocument(t, "testdata/release_notes.json")
	want := testsupport.MustLoadGolden(t, "testdata/release_notes.md")

	got, err := transformer.New(gfm.New()).Render(context.Background(), root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != want {
		t.Fatalf("golden mismatch\nwant %q\ngot  %q", want, got)
	}
}

package transformer_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/rules"
	"github.com/goliatone/go-richdoc/internal/rules/gfm"
	"github.com/goliatone/go-richdoc/internal/transformer"
)

func render(t *testing.T, root *document.Node) string {
	t.Helper()
	out, err := transformer.New(gfm.New()).Render(context.Background(), root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func para(text string, marks ...document.Mark) *document.Node {
	return document.Paragraph(document.Text(text, marks...))
}

func TestRenderNestedOrderedList(t *testing.T) {
	inner := document.New(document.TypeOrderedList, nil,
		document.ListItem(para("a")),
		document.ListItem(para("b")),
	)
	root := document.Doc(
		document.New(document.TypeOrderedList, nil,
			document.ListItem(para("first"), inner),
			document.ListItem(para("second")),
		),
	)

	got := render(t, root)
	want := "\n1. first\n  1. a\n  2. b\n2. second\n"
	if got != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, got)
	}
}

func TestRenderOrderedListHonoursStart(t *testing.T) {
	root := document.New(document.TypeOrderedList, document.Attrs{"start": 3},
		document.ListItem(para("a")),
		document.ListItem(para("b")),
	)
	if got, want := render(t, root), "\n3. a\n4. b\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderBulletList(t *testing.T) {
	root := document.New(document.TypeBulletList, nil,
		document.ListItem(para("a")),
		document.ListItem(para("b")),
	)
	if got, want := render(t, root), "\n- a\n- b\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderLinkWrapsBold(t *testing.T) {
	root := para("x",
		document.NewMark(document.MarkBold, nil),
		document.NewMark(document.MarkLink, document.Attrs{"href": "h"}),
	)
	if got, want := render(t, root), "\n[**x**](h)\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderMarkOrderIsDeclaredOrder(t *testing.T) {
	bold := document.NewMark(document.MarkBold, nil)
	code := document.NewMark(document.MarkCode, nil)

	if got := render(t, document.Text("x", bold, code)); got != "`**x**`" {
		t.Fatalf("bold then code: got %q", got)
	}
	if got := render(t, document.Text("x", code, bold)); got != "**`x`**" {
		t.Fatalf("code then bold: got %q", got)
	}
}

// Bold and italic share the asterisk, so both declared orders produce the
// same delimiter run even though the nesting differs.
func TestRenderBoldItalicDelimitersCollapse(t *testing.T) {
	bold := document.NewMark(document.MarkBold, nil)
	italic := document.NewMark(document.MarkItalic, nil)

	if got := render(t, document.Text("x", bold, italic)); got != "***x***" {
		t.Fatalf("bold then italic: got %q", got)
	}
	if got := render(t, document.Text("x", italic, bold)); got != "***x***" {
		t.Fatalf("italic then bold: got %q", got)
	}
	if got := render(t, document.Text("x", italic, document.NewMark(document.MarkStrike, nil))); got != "~~*x*~~" {
		t.Fatalf("italic then strike: got %q", got)
	}
}

func TestRenderBulletListWithNestedOrderedList(t *testing.T) {
	root := document.New(document.TypeBulletList, nil,
		document.ListItem(
			para("a"),
			document.New(document.TypeOrderedList, nil, document.ListItem(para("nested"))),
		),
	)
	if got, want := render(t, root), "\n- a\n  1. nested\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderListItemTextThatLooksLikeAListIsIndented(t *testing.T) {
	cases := []struct {
		name string
		node *document.Node
		want string
	}{
		{
			name: "bullet list numbered text",
			node: document.New(document.TypeBulletList, nil, document.ListItem(para("1. literal"))),
			want: "\n  1. literal\n",
		},
		{
			name: "ordered list dashed text",
			node: document.New(document.TypeOrderedList, nil,
				document.ListItem(para("a")),
				document.ListItem(para("- b")),
				document.ListItem(para("c")),
			),
			want: "\n1. a\n  - b\n2. c\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render(t, tc.node); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestRenderTaskListChecked(t *testing.T) {
	root := document.New(document.TypeTaskList, document.Attrs{"checked": true},
		document.New(document.TypeTaskItem, nil, para("a")),
		document.New(document.TypeTaskItem, nil, para("b")),
	)
	if got, want := render(t, root), "\n- [x] a\n\n- [x] b\n\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderBlocks(t *testing.T) {
	cases := []struct {
		name string
		node *document.Node
		want string
	}{
		{
			name: "heading",
			node: document.Heading(2, document.Text("Title")),
			want: "\n## Title\n",
		},
		{
			name: "heading empty",
			node: document.Heading(1),
			want: "\n# \n",
		},
		{
			name: "heading level clamped",
			node: document.New(document.TypeHeading, document.Attrs{"level": float64(5e7)}, document.Text("T")),
			want: "\n###### T\n",
		},
		{
			name: "code block empty",
			node: document.New(document.TypeCodeBlock, nil),
			want: "\n```\n\n```\n",
		},
		{
			name: "bullet list empty",
			node: document.New(document.TypeBulletList, nil),
			want: "\n\n",
		},
		{
			name: "ordered list empty",
			node: document.New(document.TypeOrderedList, nil),
			want: "\n\n",
		},
		{
			name: "ordered list out of range start",
			node: document.New(document.TypeOrderedList, document.Attrs{"start": 1e19}, document.ListItem(para("a"))),
			want: "\n1. a\n",
		},
		{
			name: "heading non numeric level",
			node: document.New(document.TypeHeading, document.Attrs{"level": "big"}, document.Text("T")),
			want: "\n# T\n",
		},
		{
			name: "code block",
			node: document.New(document.TypeCodeBlock, document.Attrs{"lang": "go"}, document.Text("x := 1")),
			want: "\n```go\nx := 1\n```\n",
		},
		{
			name: "blockquote",
			node: document.New(document.TypeBlockquote, nil, para("q")),
			want: "\n> \n> q\n> \n",
		},
		{
			name: "image",
			node: document.New(document.TypeImage, document.Attrs{"alt": "a", "src": "s.png"}),
			want: "\n![a](s.png)\n",
		},
		{
			name: "horizontal rule",
			node: document.New(document.TypeHorizontalRule, nil),
			want: "\n---\n",
		},
		{
			name: "hard break",
			node: document.Paragraph(document.Text("a"), document.New(document.TypeHardBreak, nil), document.Text("b")),
			want: "\na\nb\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render(t, tc.node); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestRenderUnknownTypesFallBackToIdentity(t *testing.T) {
	root := document.Doc(
		document.New("callout", document.Attrs{"tone": "info"},
			para("hi", document.NewMark("underline", nil)),
		),
	)
	if got, want := render(t, root), "\nhi\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderWithReportListsUnknownVocabulary(t *testing.T) {
	underline := document.NewMark("underline", nil)
	root := document.Doc(
		document.New("callout", nil, para("a", underline)),
		para("b", underline),
	)

	result, err := transformer.New(gfm.New()).RenderWithReport(context.Background(), root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != "\na\n\nb\n" {
		t.Fatalf("unexpected output %q", result.Output)
	}

	counts := map[transformer.WarningType]map[string]int{}
	for _, warning := range result.Warnings {
		if counts[warning.Type] == nil {
			counts[warning.Type] = map[string]int{}
		}
		counts[warning.Type][warning.Tag] = warning.Count
	}
	if counts[transformer.WarningUnknownNode]["callout"] != 1 {
		t.Fatalf("expected one unknown_node warning for callout, got %+v", result.Warnings)
	}
	if counts[transformer.WarningUnknownMark]["underline"] != 2 {
		t.Fatalf("expected underline counted twice, got %+v", result.Warnings)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", result.Warnings)
	}
}

func TestRenderWithoutVocabularyReportsNothing(t *testing.T) {
	result, err := transformer.New(rules.Funcs{}).RenderWithReport(context.Background(), document.New("callout", nil, document.Text("a")))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != "a" || len(result.Warnings) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRenderPassesAttrsAndChildOutputToHooks(t *testing.T) {
	var calls []string
	rs := rules.Funcs{
		InlineHook: func(typ string, attrs document.Attrs, content string) string {
			calls = append(calls, "inline:"+typ+":"+content)
			return "<" + typ + ">" + content
		},
		BlockHook: func(typ string, attrs document.Attrs, content string) string {
			calls = append(calls, "block:"+typ+":"+attrs.String("id", "")+":"+content)
			return "[" + content + "]"
		},
	}

	root := document.New("outer", document.Attrs{"id": "o"},
		document.Text("x", document.NewMark("m1", nil), document.NewMark("m2", nil)),
		document.New("inner", document.Attrs{"id": "i"}, document.Text("y")),
	)

	got, err := transformer.Render(root, rs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "[<m2><m1>x[y]]"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}

	want := []string{
		"inline:m1:x",
		"inline:m2:<m1>x",
		"block:inner:i:y",
		"block:outer:o:<m2><m1>x[y]",
	}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected hook calls\nwant %v\ngot  %v", want, calls)
	}
}

func TestRenderListChildrenJoinedWithSingleNewline(t *testing.T) {
	var received string
	rs := rules.Funcs{
		BlockHook: func(typ string, _ document.Attrs, content string) string {
			if typ == document.TypeBulletList {
				received = content
			}
			return content
		},
	}
	root := document.New(document.TypeBulletList, nil,
		document.ListItem(document.Text("a")),
		document.ListItem(document.Text("b")),
		document.ListItem(document.Text("c")),
	)
	if _, err := transformer.Render(root, rs); err != nil {
		t.Fatalf("render: %v", err)
	}
	if received != "a\nb\nc" {
		t.Fatalf("expected newline joined items, got %q", received)
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	if got := render(t, document.Doc()); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderSharedSubtreeIsNotACycle(t *testing.T) {
	shared := para("again")
	if got, want := render(t, document.Doc(shared, shared)), "\nagain\n\nagain\n"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	root := document.Doc(
		document.Heading(1, document.Text("T", document.NewMark(document.MarkBold, nil))),
		document.New(document.TypeBulletList, nil, document.ListItem(para("a"))),
	)
	before, _ := json.Marshal(root)
	render(t, root)
	after, _ := json.Marshal(root)
	if string(before) != string(after) {
		t.Fatalf("input tree mutated\nbefore %s\nafter  %s", before, after)
	}
}

func TestRenderRejectsInvalidStructure(t *testing.T) {
	cycle := document.Paragraph()
	cycle.Content = append(cycle.Content, document.New("wrapper", nil, cycle))

	textWithChildren := document.Text("t")
	textWithChildren.Content = []*document.Node{document.Text("u")}

	cases := []struct {
		name   string
		root   *document.Node
		reason string
		path   string
	}{
		{name: "nil root", root: nil, reason: transformer.ReasonNilNode, path: "$"},
		{name: "nil child", root: document.Doc(para("a"), nil), reason: transformer.ReasonNilNode, path: "$.content[1]"},
		{name: "cycle", root: document.Doc(cycle), reason: transformer.ReasonCycle, path: "$.content[0].content[0].content[0]"},
		{
			name:   "leaf with children",
			root:   document.Doc(document.New(document.TypeImage, nil, document.Text("x"))),
			reason: transformer.ReasonLeafChildren,
			path:   "$.content[0]",
		},
		{name: "text with children", root: document.Paragraph(textWithChildren), reason: transformer.ReasonTextChildren, path: "$.content[0]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := transformer.New(gfm.New()).Render(context.Background(), tc.root)
			if out != "" {
				t.Fatalf("expected no partial output, got %q", out)
			}
			if !errors.Is(err, transformer.ErrInvalidStructure) {
				t.Fatalf("expected ErrInvalidStructure, got %v", err)
			}
			var structErr *transformer.StructureError
			if !errors.As(err, &structErr) {
				t.Fatalf("expected StructureError, got %T", err)
			}
			if structErr.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, structErr.Reason)
			}
			if structErr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, structErr.Path)
			}
			if errors.Is(err, transformer.ErrMaxDepthExceeded) {
				t.Fatalf("did not expect depth error for %s", tc.name)
			}
		})
	}
}

func TestRenderEnforcesMaxDepth(t *testing.T) {
	engine := transformer.New(gfm.New(), transformer.WithMaxDepth(3))

	if _, err := engine.Render(context.Background(), document.Doc(para("ok"))); err != nil {
		t.Fatalf("depth 3 should render: %v", err)
	}

	deep := document.Doc(document.New(document.TypeBlockquote, nil, para("too deep")))
	_, err := engine.Render(context.Background(), deep)
	if !errors.Is(err, transformer.ErrMaxDepthExceeded) {
		t.Fatalf("expected ErrMaxDepthExceeded, got %v", err)
	}
	if !errors.Is(err, transformer.ErrInvalidStructure) {
		t.Fatalf("depth errors should also match ErrInvalidStructure")
	}
	if !strings.Contains(err.Error(), "max_depth=3") {
		t.Fatalf("expected limit in message, got %q", err.Error())
	}
}

func TestRenderDefaultDepthGuard(t *testing.T) {
	root := document.Text("leaf")
	for i := 0; i < transformer.DefaultMaxDepth; i++ {
		root = document.New(document.TypeBlockquote, nil, root)
	}
	_, err := transformer.Render(root, rules.Funcs{})
	if !errors.Is(err, transformer.ErrMaxDepthExceeded) {
		t.Fatalf("expected default depth guard to trip, got %v", err)
	}
}

func TestCustomLeafTypes(t *testing.T) {
	root := document.New("embed", nil, document.Text("x"))
	engine := transformer.New(rules.Funcs{}, transformer.WithLeafTypes("embed"))
	if _, err := engine.Render(context.Background(), root); !errors.Is(err, transformer.ErrInvalidStructure) {
		t.Fatalf("expected custom leaf to be enforced, got %v", err)
	}
}

func TestNewPanicsWithoutRuleSet(t *testing.T) {
	defer func() {
		if r := recover(); r != transformer.ErrRuleSetRequired {
			t.Fatalf("expected ErrRuleSetRequired panic, got %v", r)
		}
	}()
	transformer.New(nil)
}

func TestPackageRenderRequiresRuleSet(t *testing.T) {
	if _, err := transformer.Render(document.Doc(), nil); !errors.Is(err, transformer.ErrRuleSetRequired) {
		t.Fatalf("expected ErrRuleSetRequired, got %v", err)
	}
}

func TestRenderConcurrentCallsShareEngine(t *testing.T) {
	engine := transformer.New(gfm.New())
	root := document.Doc(
		document.Heading(1, document.Text("T")),
		document.New(document.TypeOrderedList, nil,
			document.ListItem(para("one")),
			document.ListItem(para("two")),
		),
	)
	want, err := engine.Render(context.Background(), root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.Render(context.Background(), root)
			if err != nil || got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent render diverged: %q", got)
	}
}

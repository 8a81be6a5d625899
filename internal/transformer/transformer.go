package transformer

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// RuleSet is the two-hook contract between the engine and a target syntax.
// Both hooks must be pure and return content unchanged for unknown tags.
type RuleSet interface {
	Inline(markType string, attrs document.Attrs, content string) string
	Block(nodeType string, attrs document.Attrs, content string) string
}

// TextEscaper is optionally implemented by rule sets that need to transform
// literal text (e.g. HTML escaping) before marks are applied.
type TextEscaper interface {
	Text(text string) string
}

// Vocabulary is optionally implemented by rule sets that can report which
// tags they handle. It only feeds render warnings; output is unaffected.
type Vocabulary interface {
	HasInline(markType string) bool
	HasBlock(nodeType string) bool
}

// Transformer renders document trees with a fixed rule set.
type Transformer struct {
	rules     RuleSet
	maxDepth  int
	leafTypes map[string]struct{}
	listTypes map[string]struct{}
	logger    interfaces.Logger
}

// New constructs a Transformer. It panics when ruleSet is nil.
func New(ruleSet RuleSet, opts ...Option) *Transformer {
	if ruleSet == nil {
		panic(ErrRuleSetRequired)
	}
	t := &Transformer{
		rules:     ruleSet,
		maxDepth:  DefaultMaxDepth,
		leafTypes: toSet(DefaultLeafTypes),
		listTypes: toSet(DefaultListTypes),
		logger:    defaultLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Render is a convenience wrapper building a default Transformer for one call.
func Render(root *document.Node, ruleSet RuleSet) (string, error) {
	if ruleSet == nil {
		return "", ErrRuleSetRequired
	}
	return New(ruleSet).Render(context.Background(), root)
}

// MaxDepth returns the configured depth limit.
func (t *Transformer) MaxDepth() int {
	return t.maxDepth
}

// Render validates the tree and renders it. Structural violations are
// reported before any output is produced and no partial string is returned.
func (t *Transformer) Render(ctx context.Context, root *document.Node) (string, error) {
	result, err := t.RenderWithReport(ctx, root)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

// RenderWithReport renders the tree and lists tags the rule set did not
// recognise. Unknown tags are not errors; they render through identity.
func (t *Transformer) RenderWithReport(ctx context.Context, root *document.Node) (Result, error) {
	if err := t.Validate(root); err != nil {
		return Result{}, err
	}

	w := newWalker(t)
	output := w.node(root)
	result := Result{
		Output:   output,
		Warnings: w.warnings(),
	}

	if len(result.Warnings) > 0 {
		logger := t.logger
		if ctx != nil {
			logger = logger.WithContext(ctx)
		}
		for _, warning := range result.Warnings {
			logger.Debug("transformer.unknown_type",
				"warning", string(warning.Type),
				"tag", warning.Tag,
				"count", warning.Count,
			)
		}
	}
	return result, nil
}

// Validate checks the structural invariants the renderer relies on: no nil
// nodes, no cycles, no children under leaf or text nodes, and bounded depth.
func (t *Transformer) Validate(root *document.Node) error {
	v := validator{
		maxDepth:  t.maxDepth,
		leafTypes: t.leafTypes,
		onPath:    make(map[*document.Node]struct{}),
	}
	return v.visit(root, 1)
}

type validator struct {
	maxDepth  int
	leafTypes map[string]struct{}
	onPath    map[*document.Node]struct{}
	path      []int
}

func (v *validator) visit(node *document.Node, depth int) error {
	if node == nil {
		return v.fail("", ReasonNilNode)
	}
	if _, seen := v.onPath[node]; seen {
		return v.fail(node.Type, ReasonCycle)
	}
	if depth > v.maxDepth {
		return v.fail(node.Type, ReasonDepthExceeded)
	}
	if len(node.Content) > 0 {
		if node.IsText() {
			return v.fail(node.Type, ReasonTextChildren)
		}
		if _, leaf := v.leafTypes[node.Type]; leaf {
			return v.fail(node.Type, ReasonLeafChildren)
		}
	}

	v.onPath[node] = struct{}{}
	for i, child := range node.Content {
		v.path = append(v.path, i)
		if err := v.visit(child, depth+1); err != nil {
			return err
		}
		v.path = v.path[:len(v.path)-1]
	}
	delete(v.onPath, node)
	return nil
}

func (v *validator) fail(nodeType, reason string) error {
	return &StructureError{
		Path:     formatPath(v.path),
		NodeType: nodeType,
		Reason:   reason,
		MaxDepth: v.maxDepth,
	}
}

func formatPath(path []int) string {
	var b strings.Builder
	b.WriteString("$")
	for _, index := range path {
		b.WriteString(".content[")
		b.WriteString(strconv.Itoa(index))
		b.WriteString("]")
	}
	return b.String()
}

package rules

import "github.com/goliatone/go-richdoc/internal/document"

// Hook is the plain function form of one formatting callback.
type Hook func(typ string, attrs document.Attrs, content string) string

// Funcs adapts two plain hooks into a rule set. A nil hook behaves as the
// identity transform.
type Funcs struct {
	InlineHook Hook
	BlockHook  Hook
}

// Inline satisfies the transformer rule set contract.
func (f Funcs) Inline(markType string, attrs document.Attrs, content string) string {
	if f.InlineHook == nil {
		return content
	}
	return f.InlineHook(markType, attrs, content)
}

// Block satisfies the transformer rule set contract.
func (f Funcs) Block(nodeType string, attrs document.Attrs, content string) string {
	if f.BlockHook == nil {
		return content
	}
	return f.BlockHook(nodeType, attrs, content)
}

package transformer

import (
	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// DefaultMaxDepth bounds tree depth when no explicit limit is configured.
const DefaultMaxDepth = 256

// DefaultLeafTypes lists node tags that must not carry children.
var DefaultLeafTypes = []string{
	document.TypeImage,
	document.TypeHorizontalRule,
	document.TypeHardBreak,
}

// DefaultListTypes lists node tags whose rendered children are joined with
// a single newline before reaching the rule set.
var DefaultListTypes = []string{
	document.TypeBulletList,
	document.TypeOrderedList,
	document.TypeTaskList,
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithMaxDepth overrides the maximum tree depth. Values below one are ignored.
func WithMaxDepth(depth int) Option {
	return func(t *Transformer) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithLeafTypes replaces the set of node tags that must not carry children.
func WithLeafTypes(types ...string) Option {
	return func(t *Transformer) {
		t.leafTypes = toSet(types)
	}
}

// WithListTypes replaces the set of list container tags.
func WithListTypes(types ...string) Option {
	return func(t *Transformer) {
		t.listTypes = toSet(types)
	}
}

// WithLogger attaches a logger used to report unknown vocabulary at debug level.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value != "" {
			out[value] = struct{}{}
		}
	}
	return out
}

func defaultLogger() interfaces.Logger {
	return logging.NoOp()
}

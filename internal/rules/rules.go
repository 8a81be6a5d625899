// Package rules holds the formatting rule set registry: a mapping from node
// and mark tags to pure formatting functions. A rule set is the only
// component that knows the target syntax; unregistered tags fall back to
// returning their content unchanged.
package rules

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-richdoc/internal/document"
)

var (
	ErrTypeRequired    = errors.New("rules: type tag is required")
	ErrHandlerRequired = errors.New("rules: handler is required")
)

// InlineFunc decorates already rendered inline content for one mark.
type InlineFunc func(attrs document.Attrs, content string) string

// BlockFunc turns already rendered child content into the final block string.
type BlockFunc func(attrs document.Attrs, content string) string

// TextFunc transforms literal text before marks are applied (escaping).
type TextFunc func(text string) string

// Option configures a Set at construction time.
type Option func(*Set)

// WithInline registers an inline handler.
func WithInline(markType string, fn InlineFunc) Option {
	return func(s *Set) {
		_ = s.RegisterInline(markType, fn)
	}
}

// WithBlock registers a block handler.
func WithBlock(nodeType string, fn BlockFunc) Option {
	return func(s *Set) {
		_ = s.RegisterBlock(nodeType, fn)
	}
}

// WithText installs a literal text transform.
func WithText(fn TextFunc) Option {
	return func(s *Set) {
		s.text = fn
	}
}

// Set is a thread-safe rule set registry. Lookups of unregistered tags
// return the content unchanged.
type Set struct {
	name   string
	mu     sync.RWMutex
	inline map[string]InlineFunc
	block  map[string]BlockFunc
	text   TextFunc
}

// NewSet constructs a rule set.
func NewSet(name string, opts ...Option) *Set {
	s := &Set{
		name:   strings.TrimSpace(name),
		inline: make(map[string]InlineFunc),
		block:  make(map[string]BlockFunc),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Name identifies the rule set (e.g. "gfm").
func (s *Set) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// RegisterInline adds or replaces the handler for a mark tag.
func (s *Set) RegisterInline(markType string, fn InlineFunc) error {
	key := strings.TrimSpace(markType)
	if key == "" {
		return ErrTypeRequired
	}
	if fn == nil {
		return ErrHandlerRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inline[key] = fn
	return nil
}

// RegisterBlock adds or replaces the handler for a node tag.
func (s *Set) RegisterBlock(nodeType string, fn BlockFunc) error {
	key := strings.TrimSpace(nodeType)
	if key == "" {
		return ErrTypeRequired
	}
	if fn == nil {
		return ErrHandlerRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.block[key] = fn
	return nil
}

// Inline applies the handler registered for markType, or returns content.
func (s *Set) Inline(markType string, attrs document.Attrs, content string) string {
	if s == nil {
		return content
	}
	s.mu.RLock()
	fn, ok := s.inline[markType]
	s.mu.RUnlock()
	if !ok {
		return Identity(attrs, content)
	}
	return fn(attrs, content)
}

// Block applies the handler registered for nodeType, or returns content.
func (s *Set) Block(nodeType string, attrs document.Attrs, content string) string {
	if s == nil {
		return content
	}
	s.mu.RLock()
	fn, ok := s.block[nodeType]
	s.mu.RUnlock()
	if !ok {
		return Identity(attrs, content)
	}
	return fn(attrs, content)
}

// Text applies the literal text transform when one is configured.
func (s *Set) Text(text string) string {
	if s == nil || s.text == nil {
		return text
	}
	return s.text(text)
}

// HasInline reports whether markType has a registered handler.
func (s *Set) HasInline(markType string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inline[markType]
	return ok
}

// HasBlock reports whether nodeType has a registered handler.
func (s *Set) HasBlock(nodeType string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.block[nodeType]
	return ok
}

// InlineTypes lists registered mark tags in name order.
func (s *Set) InlineTypes() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.inline)
}

// BlockTypes lists registered node tags in name order.
func (s *Set) BlockTypes() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.block)
}

// Clone copies the registry under a new name so callers can extend a base
// vocabulary without touching the original.
func (s *Set) Clone(name string) *Set {
	out := NewSet(name)
	if s == nil {
		return out
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, fn := range s.inline {
		out.inline[key] = fn
	}
	for key, fn := range s.block {
		out.block[key] = fn
	}
	out.text = s.text
	return out
}

// Identity is the default handler for unregistered tags.
func Identity(_ document.Attrs, content string) string {
	return content
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

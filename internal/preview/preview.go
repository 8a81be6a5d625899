// Package preview turns documents into browser-ready HTML by rendering them
// to GitHub-Flavored Markdown and feeding the result through goldmark.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/internal/rules/gfm"
	"github.com/goliatone/go-richdoc/internal/rules/htmlrules"
	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// Options controls the goldmark pipeline.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty enables gfm,
	// linkify and tasklist.
	Extensions []string
	HardWraps  bool
	// Sanitize passes the HTML through a bluemonday policy. Raw HTML inside
	// the markdown is only emitted when Sanitize is on.
	Sanitize bool
}

// Renderer is safe for concurrent use; the goldmark engine is built once.
type Renderer struct {
	engine     goldmark.Markdown
	toMarkdown *transformer.Transformer
	policy     *bluemonday.Policy
	logger     interfaces.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTransformer overrides the document to markdown engine.
func WithTransformer(t *transformer.Transformer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.toMarkdown = t
		}
	}
}

// New builds a Renderer.
func New(opts Options, options ...Option) *Renderer {
	r := &Renderer{
		engine: newEngine(opts),
		logger: logging.NoOp(),
	}
	if opts.Sanitize {
		r.policy = htmlrules.Policy()
	}
	for _, option := range options {
		if option != nil {
			option(r)
		}
	}
	if r.toMarkdown == nil {
		r.toMarkdown = transformer.New(gfm.New(), transformer.WithLogger(r.logger))
	}
	return r
}

// Markdown converts markdown source into HTML.
func (r *Renderer) Markdown(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("preview: convert markdown: %w", err)
	}
	if r.policy == nil {
		return buf.Bytes(), nil
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}

// Document renders root to GFM and converts the result to HTML.
func (r *Renderer) Document(ctx context.Context, root *document.Node) ([]byte, error) {
	md, err := r.toMarkdown.Render(ctx, root)
	if err != nil {
		return nil, err
	}
	out, err := r.Markdown([]byte(md))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("preview.rendered", "markdown_bytes", len(md), "html_bytes", len(out))
	return out, nil
}

func newEngine(opts Options) goldmark.Markdown {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(extensions(opts.Extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
}

// extensions resolves names against the registry. Unknown names are skipped.
func extensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// Package richdoc renders rich-text editor documents to Markdown and HTML and
// manages the workspaces those documents live in.
package richdoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-richdoc/internal/di"
	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/export"
	"github.com/goliatone/go-richdoc/internal/preview"
	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/internal/validation"
	"github.com/goliatone/go-richdoc/internal/workspace"
)

type (
	// Node is a document tree node in the editor JSON shape.
	Node = document.Node
	Mark = document.Mark

	WorkspaceService = *workspace.Service
	ExportService    = *export.Service
	PreviewRenderer  = *preview.Renderer

	ExportRequest = export.Request
	ExportResult  = export.Result
	Warning       = transformer.Warning

	Option = di.Option
)

// Container overrides.
var (
	WithBunDB              = di.WithBunDB
	WithCache              = di.WithCache
	WithLoggerProvider     = di.WithLoggerProvider
	WithObjectStore        = di.WithObjectStore
	WithMetricsRegisterer  = di.WithMetricsRegisterer
	WithSearchTenants      = di.WithSearchTenants
	WithCommandRegistry    = di.WithCommandRegistry
	WithExportCommandOpts  = di.WithExportCommandOptions
	WithClock              = di.WithClock
	ErrInvalidStructure    = transformer.ErrInvalidStructure
	ErrMaxDepthExceeded    = transformer.ErrMaxDepthExceeded
	ErrDocumentInvalid     = validation.ErrSchemaValidation
	ErrDocumentUnparseable = validation.ErrPayloadMalformed
)

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional container overrides.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) Workspaces() WorkspaceService {
	return m.container.WorkspaceService()
}

func (m *Module) Exporter() ExportService {
	return m.container.ExportService()
}

func (m *Module) Preview() PreviewRenderer {
	return m.container.PreviewRenderer()
}

// Render converts root with the named format. A blank format uses the
// configured default.
func (m *Module) Render(ctx context.Context, root *Node, format string) (*ExportResult, error) {
	return m.container.ExportService().Render(ctx, root, m.format(format))
}

// RenderJSON validates an editor JSON payload against the document schema
// and renders it.
func (m *Module) RenderJSON(ctx context.Context, data []byte, format string) (*ExportResult, error) {
	root, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return m.Render(ctx, root, format)
}

// Export renders a stored content piece.
func (m *Module) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	req.Format = m.format(req.Format)
	return m.container.ExportService().Export(ctx, req)
}

// SaveDocumentJSON validates an editor JSON payload and stores it as the
// body of a content piece.
func (m *Module) SaveDocumentJSON(ctx context.Context, contentPieceID uuid.UUID, data []byte) error {
	root, err := DecodeDocument(data)
	if err != nil {
		return err
	}
	return m.container.WorkspaceService().SaveDocument(ctx, contentPieceID, root)
}

func (m *Module) format(name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return m.container.Config.Transform.DefaultFormat
}

// DecodeDocument validates data against the document schema and decodes it.
func DecodeDocument(data []byte) (*Node, error) {
	if err := validation.ValidateDocument(data); err != nil {
		return nil, err
	}
	root, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("richdoc: decode document: %w", err)
	}
	return root, nil
}

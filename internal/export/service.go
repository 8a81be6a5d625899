package export

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/internal/workspace"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// DocumentSource loads stored documents. *workspace.Service satisfies it.
type DocumentSource interface {
	LoadDocument(ctx context.Context, contentPieceID uuid.UUID) (*workspace.ContentPiece, *document.Node, error)
}

// Request selects the document and format to export.
type Request struct {
	ContentPieceID uuid.UUID `json:"content_piece_id"`
	Format         string    `json:"format"`
	// Upload publishes the output to object storage.
	Upload bool `json:"upload,omitempty"`
	// FrontMatter prefixes the output with the piece metadata as YAML.
	// Only formats with Format.FrontMatter set accept it.
	FrontMatter bool `json:"front_matter,omitempty"`
}

// Validate checks the request shape; format support is checked by Service.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ContentPieceID, validation.By(requireUUID)),
		validation.Field(&r.Format, validation.Required),
	)
}

func requireUUID(value any) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.NewError("richdoc.export.content_piece_required", "content piece id is required")
	}
	return nil
}

// Result is a rendered document.
type Result struct {
	ContentPieceID uuid.UUID
	WorkspaceID    uuid.UUID
	Title          string
	Format         string
	ContentType    string
	Output         string
	Warnings       []transformer.Warning
	Object         *interfaces.ObjectInfo
	RenderedAt     time.Time
}

// Option configures Service.
type Option func(*Service)

// WithFormat registers or replaces a format.
func WithFormat(format Format) Option {
	return func(s *Service) {
		s.pending = append(s.pending, format)
	}
}

// WithMaxDepth bounds the depth of rendered documents.
func WithMaxDepth(depth int) Option {
	return func(s *Service) {
		s.maxDepth = depth
	}
}

// WithObjectStore enables uploads under prefix.
func WithObjectStore(store interfaces.ObjectStore, prefix string) Option {
	return func(s *Service) {
		s.store = store
		s.prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	}
}

// WithMetrics records renders and uploads.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type compiledFormat struct {
	Format
	transformer *transformer.Transformer
}

// Service renders stored documents into the registered formats.
type Service struct {
	source   DocumentSource
	pending  []Format
	formats  map[string]compiledFormat
	maxDepth int
	store    interfaces.ObjectStore
	prefix   string
	metrics  *Metrics
	logger   interfaces.Logger
	now      func() time.Time
}

// NewService builds an export service with the built-in formats plus any
// registered through WithFormat.
func NewService(source DocumentSource, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	s := &Service{
		source:  source,
		pending: DefaultFormats(),
		formats: make(map[string]compiledFormat),
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	for _, format := range s.pending {
		name := normalizeFormat(format.Name)
		if name == "" || format.Rules == nil {
			return nil, fmt.Errorf("%w: %q", ErrFormatRequired, format.Name)
		}
		format.Name = name
		s.formats[name] = compiledFormat{
			Format: format,
			transformer: transformer.New(format.Rules,
				transformer.WithMaxDepth(s.maxDepth),
				transformer.WithLogger(s.logger),
			),
		}
	}
	s.pending = nil
	return s, nil
}

// Formats lists the registered format names.
func (s *Service) Formats() []string {
	names := make([]string, 0, len(s.formats))
	for name := range s.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export loads a stored document, renders it and optionally uploads the
// output.
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err, "export request is invalid", CodeRequestInvalid)
	}
	format, err := s.lookup(req.Format)
	if err != nil {
		return nil, err
	}
	if req.FrontMatter && !format.FrontMatter {
		return nil, validationError(fmt.Errorf("%w: %s", ErrFrontMatterUnsupported, format.Name), "front matter is not supported by format", CodeRequestInvalid)
	}
	if req.Upload && s.store == nil {
		return nil, commandError(ErrUploadDisabled, "export upload unavailable", CodeUploadUnavailable)
	}

	piece, root, err := s.source.LoadDocument(ctx, req.ContentPieceID)
	if err != nil {
		return nil, wrapSourceError(err)
	}

	logger := logging.WithDocumentContext(s.logger, piece.WorkspaceID.String(), piece.ID.String(), format.Name)
	result, err := s.render(ctx, format, root)
	if err != nil {
		logger.Warn("export.render.failed", "error", err)
		return nil, err
	}
	result.ContentPieceID = piece.ID
	result.WorkspaceID = piece.WorkspaceID
	result.Title = piece.Title
	if req.FrontMatter {
		header, err := frontMatter(piece)
		if err != nil {
			return nil, commandError(err, "encode front matter failed", CodeSourceFailed)
		}
		result.Output = header + result.Output
	}

	if req.Upload {
		info, err := s.upload(ctx, format, piece, result.Output)
		s.metrics.observeUpload(format.Name, err)
		if err != nil {
			logger.Error("export.upload.failed", "error", err)
			return nil, commandError(err, "export upload failed", CodeUploadFailed)
		}
		result.Object = &info
	}

	logger.Info("export.completed",
		"bytes", len(result.Output),
		"warnings", len(result.Warnings),
		"uploaded", result.Object != nil,
	)
	return result, nil
}

// Render renders a document tree that is not stored.
func (s *Service) Render(ctx context.Context, root *document.Node, formatName string) (*Result, error) {
	format, err := s.lookup(formatName)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, validationError(ErrDocumentMissing, "document is required", CodeRequestInvalid)
	}
	return s.render(ctx, format, root)
}

func (s *Service) render(ctx context.Context, format compiledFormat, root *document.Node) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, commandError(err, "export cancelled", CodeContextCanceled)
	}
	start := s.now()
	report, err := format.transformer.RenderWithReport(ctx, root)
	s.metrics.observeRender(format.Name, s.now().Sub(start), err)
	if err != nil {
		return nil, wrapRenderError(err)
	}
	s.metrics.observeWarnings(format.Name, report.Warnings)

	output := report.Output
	if format.PostProcess != nil {
		output = format.PostProcess(output)
	}
	return &Result{
		Format:      format.Name,
		ContentType: format.ContentType,
		Output:      output,
		Warnings:    report.Warnings,
		RenderedAt:  start.UTC(),
	}, nil
}

func (s *Service) upload(ctx context.Context, format compiledFormat, piece *workspace.ContentPiece, output string) (interfaces.ObjectInfo, error) {
	return s.store.Put(ctx, ObjectKey(s.prefix, piece.WorkspaceID, piece.ID, format.Extension), []byte(output), interfaces.PutOptions{
		ContentType: format.ContentType,
		Tags: map[string]string{
			"workspace_id":     piece.WorkspaceID.String(),
			"content_piece_id": piece.ID.String(),
			"format":           format.Name,
		},
	})
}

func (s *Service) lookup(name string) (compiledFormat, error) {
	format, ok := s.formats[normalizeFormat(name)]
	if !ok {
		return compiledFormat{}, validationError(fmt.Errorf("%w: %q", ErrUnknownFormat, name), "export format is not supported", CodeFormatUnknown)
	}
	return format, nil
}

// ObjectKey builds the storage key of an exported document:
// <prefix>/<workspace>/<piece>.<ext>.
func ObjectKey(prefix string, workspaceID, pieceID uuid.UUID, extension string) string {
	name := pieceID.String()
	if extension = strings.TrimPrefix(strings.TrimSpace(extension), "."); extension != "" {
		name += "." + extension
	}
	return path.Join(prefix, workspaceID.String(), name)
}

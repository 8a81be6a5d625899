package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

const (
	rootModule        = "richdoc"
	transformerModule = "richdoc.transformer"
	exportModule      = "richdoc.export"
	workspaceModule   = "richdoc.workspace"
	storageModule     = "richdoc.objectstore"
	previewModule     = "richdoc.preview"
)

const (
	fieldModule      = "module"
	fieldWorkspaceID = "workspace_id"
	fieldPieceID     = "content_piece_id"
	fieldFormat      = "format"
)

// ModuleLogger resolves a module-scoped logger from the provider and tags it
// with the module name. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// TransformerLogger returns the logger namespace used by the render engine.
func TransformerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transformerModule)
}

// ExportLogger returns the logger namespace used by the export service.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// WorkspaceLogger returns the logger namespace used by workspace lifecycle code.
func WorkspaceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workspaceModule)
}

// StorageLogger returns the logger namespace used by the object store client.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// PreviewLogger returns the logger namespace used by markdown previews.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// WithDocumentContext adds the identifiers of the document being processed.
// Blank values are skipped.
func WithDocumentContext(logger interfaces.Logger, workspaceID, pieceID, format string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(workspaceID); v != "" {
		fields[fieldWorkspaceID] = v
	}
	if v := strings.TrimSpace(pieceID); v != "" {
		fields[fieldPieceID] = v
	}
	if v := strings.TrimSpace(format); v != "" {
		fields[fieldFormat] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }

package exportcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-richdoc/internal/commands"
	"github.com/goliatone/go-richdoc/internal/export"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

const exportOperation = "export.document"

var ErrExporterRequired = errors.New("export command: exporter is nil")

var _ command.Commander[ExportDocumentCommand] = (*ExportDocumentHandler)(nil)

// Exporter is the export operation the handler drives.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
}

// ResultSink receives every successful export.
type ResultSink func(ctx context.Context, result *export.Result)

// ExportDocumentHandler runs ExportDocumentCommand through the shared
// command handler.
type ExportDocumentHandler struct {
	inner *commands.Handler[ExportDocumentCommand]
}

// NewExportDocumentHandler creates a handler bound to exporter. sink may be
// nil.
func NewExportDocumentHandler(exporter Exporter, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[ExportDocumentCommand]) *ExportDocumentHandler {
	if exporter == nil {
		panic(ErrExporterRequired)
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportDocumentCommand) error {
		result, err := exporter.Export(ctx, msg.request())
		if err != nil {
			return err
		}
		fields := map[string]any{
			"bytes":    len(result.Output),
			"warnings": len(result.Warnings),
		}
		if result.Object != nil {
			fields["object_key"] = result.Object.Key
		}
		logging.WithFields(baseLogger, fields).Info("export.command.document.completed")
		if sink != nil {
			sink(ctx, result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportDocumentCommand]{
		commands.WithLogger[ExportDocumentCommand](baseLogger),
		commands.WithOperation[ExportDocumentCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportDocumentCommand) map[string]any {
			fields := map[string]any{
				"content_piece_id": msg.ContentPieceID.String(),
				"format":           msg.Format,
			}
			if msg.Upload {
				fields["upload"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportDocumentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportDocumentCommand].
func (h *ExportDocumentHandler) Execute(ctx context.Context, msg ExportDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

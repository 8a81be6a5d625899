package exportcmd

import (
	"github.com/goliatone/go-richdoc/internal/commands"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// HandlerSet groups the export command handlers.
type HandlerSet struct {
	Export *ExportDocumentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	sink       ResultSink
	metrics    *commands.Metrics
	exportOpts []commands.HandlerOption[ExportDocumentCommand]
}

// WithResultSink receives every successful export result.
func WithResultSink(sink ResultSink) Option {
	return func(cfg *options) {
		cfg.sink = sink
	}
}

// WithExportHandlerOptions forwards options to the handler constructor.
func WithExportHandlerOptions(opts ...commands.HandlerOption[ExportDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.exportOpts = append(cfg.exportOpts, opts...)
	}
}

// WithMetrics records executions in m alongside the default log telemetry.
func WithMetrics(m *commands.Metrics) Option {
	return func(cfg *options) {
		cfg.metrics = m
	}
}

// RegisterExportCommands builds the export handlers and registers them with
// reg when it is not nil.
func RegisterExportCommands(reg commands.CommandRegistry, exporter Exporter, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if exporter == nil {
		return nil, ErrExporterRequired
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "export")
	handlerOpts := cfg.exportOpts
	if cfg.metrics != nil {
		telemetry := commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[ExportDocumentCommand](logger))
		handlerOpts = append([]commands.HandlerOption[ExportDocumentCommand]{commands.WithTelemetry(telemetry)}, handlerOpts...)
	}
	handler := NewExportDocumentHandler(exporter, logger, cfg.sink, handlerOpts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return &HandlerSet{Export: handler}, nil
}

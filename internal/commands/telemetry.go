package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

// TelemetryStatus captures the result category for command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a command execution outcome.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once per execution after the outcome is known.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs command outcomes with their duration.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}

// Metrics counts command executions by message type and outcome.
type Metrics struct {
	executions *prom.CounterVec
	duration   *prom.HistogramVec
}

// NewMetrics registers the command collectors with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prom.Registerer) (*Metrics, error) {
	m := &Metrics{
		executions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "richdoc",
			Subsystem: "commands",
			Name:      "executions_total",
			Help:      "Command executions by message type and status.",
		}, []string{"command", "status"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "richdoc",
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Command execution time.",
			Buckets:   prom.DefBuckets,
		}, []string{"command"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, collector := range []prom.Collector{m.executions, m.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MetricsTelemetry records every outcome in m and then calls next, which may
// be nil.
func MetricsTelemetry[T command.Message](m *Metrics, next Telemetry[T]) Telemetry[T] {
	return func(ctx context.Context, msg T, info TelemetryInfo) {
		if m != nil {
			m.executions.WithLabelValues(info.Command, string(info.Status)).Inc()
			m.duration.WithLabelValues(info.Command).Observe(info.Duration.Seconds())
		}
		if next != nil {
			next(ctx, msg, info)
		}
	}
}

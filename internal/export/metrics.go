package export

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-richdoc/internal/transformer"
)

// Status labels recorded by Metrics.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics records export outcomes with Prometheus collectors.
type Metrics struct {
	renders  *prom.CounterVec
	duration *prom.HistogramVec
	warnings *prom.CounterVec
	uploads  *prom.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer yields unregistered collectors.
func NewMetrics(reg prom.Registerer) (*Metrics, error) {
	m := &Metrics{
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "richdoc",
			Subsystem: "export",
			Name:      "renders_total",
			Help:      "Document renders by format and outcome",
		}, []string{"format", "status"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "richdoc",
			Subsystem: "export",
			Name:      "render_duration_seconds",
			Help:      "Duration of document renders",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "richdoc",
			Subsystem: "export",
			Name:      "unknown_types_total",
			Help:      "Unknown node and mark occurrences rendered through identity",
		}, []string{"format", "kind"}),
		uploads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "richdoc",
			Subsystem: "export",
			Name:      "uploads_total",
			Help:      "Object storage uploads by outcome",
		}, []string{"format", "status"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, collector := range []prom.Collector{m.renders, m.duration, m.warnings, m.uploads} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRender(format string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(format, status(err)).Inc()
	m.duration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) observeWarnings(format string, warnings []transformer.Warning) {
	if m == nil {
		return
	}
	for _, warning := range warnings {
		m.warnings.WithLabelValues(format, string(warning.Type)).Add(float64(warning.Count))
	}
}

func (m *Metrics) observeUpload(format string, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(format, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusSuccess
}

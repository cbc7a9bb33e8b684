// Package telemetry provides Telemetry sinks for the insights service and
// commands: structured zap logging, Prometheus counters and fan-out.
package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Recorder matches the Telemetry contract used across the insights packages.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Logger writes every event as a structured zap entry.
type Logger struct {
	log *zap.Logger
}

// NewLogger wraps log. A nil logger discards events.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("insights")}
}

// Record logs event at info level with one field per payload key.
func (l *Logger) Record(_ context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, payload[key]))
	}
	l.log.Info(event, fields...)
}

// Metrics counts events per name and payload kind.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "insights",
				Name:      "events_total",
				Help:      "Total number of dashboard telemetry events",
			},
			[]string{"event", "kind"},
		),
	}
}

// Record increments the counter for event. The "kind" label carries the
// payload's kind or action value when present.
func (m *Metrics) Record(_ context.Context, event string, payload map[string]any) {
	m.events.WithLabelValues(event, labelFor(payload)).Inc()
}

// Counter exposes the underlying vector for collectors and tests.
func (m *Metrics) Counter() *prometheus.CounterVec {
	return m.events
}

func labelFor(payload map[string]any) string {
	for _, key := range []string{"kind", "action"} {
		if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// Multi fans an event out to every recorder.
type Multi []Recorder

// Record forwards to each non-nil recorder in order.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, event, payload)
		}
	}
}

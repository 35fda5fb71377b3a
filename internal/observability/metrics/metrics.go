// Package metrics exposes Prometheus instruments for the assistant.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
)

// FlowMetrics counts flow activity. All methods are nil-safe so
// callers can run without metrics wired.
type FlowMetrics struct {
	handlerTotal   *prometheus.CounterVec
	nodeTotal      *prometheus.CounterVec
	symptomTotal   *prometheus.CounterVec
	bookingsTotal  prometheus.Counter
	sessionsClosed prometheus.Counter
	handlerLatency *prometheus.HistogramVec
}

// NewFlowMetrics registers the flow instruments on reg.
func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	m := &FlowMetrics{
		handlerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "handler_invocations_total",
			Help:      "Total handler invocations",
		}, []string{"handler"}),
		nodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "node_entries_total",
			Help:      "Total node entries",
		}, []string{"node"}),
		symptomTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "symptoms_detected_total",
			Help:      "Total symptom triage matches",
		}, []string{"priority", "service"}),
		bookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "appointments_booked_total",
			Help:      "Total appointments booked",
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "sessions_closed_total",
			Help:      "Total sessions that reached a terminal node",
		}),
		handlerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voiceassistant",
			Subsystem: "flow",
			Name:      "handler_latency_seconds",
			Help:      "Latency of handler invocations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.handlerTotal, m.nodeTotal, m.symptomTotal,
		m.bookingsTotal, m.sessionsClosed, m.handlerLatency,
	)
	return m
}

var _ flow.Observer = (*FlowMetrics)(nil)

// Observe translates flow events into counter increments.
func (m *FlowMetrics) Observe(ctx context.Context, event flow.Event) {
	if m == nil {
		return
	}
	switch event.Kind {
	case flow.EventHandlerInvoked:
		m.handlerTotal.WithLabelValues(string(event.Handler)).Inc()
		m.nodeTotal.WithLabelValues(string(event.Node)).Inc()
		m.handlerLatency.WithLabelValues(string(event.Handler)).Observe(event.Elapsed.Seconds())
	case flow.EventSymptomDetected:
		m.symptomTotal.WithLabelValues(event.Detail["priority"], event.Detail["service"]).Inc()
	case flow.EventAppointmentBooked:
		m.bookingsTotal.Inc()
	case flow.EventSessionClosed:
		m.sessionsClosed.Inc()
	}
}

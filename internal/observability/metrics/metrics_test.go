package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
)

func TestFlowMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics(reg)
	ctx := context.Background()

	m.Observe(ctx, flow.Event{
		Kind:    flow.EventHandlerInvoked,
		Handler: flow.HandlerHandleSymptoms,
		Node:    flow.NodeSymptomTriage,
		Elapsed: 5 * time.Millisecond,
	})
	m.Observe(ctx, flow.Event{
		Kind:   flow.EventSymptomDetected,
		Detail: map[string]string{"priority": "urgent", "service": "general_dentistry"},
	})
	m.Observe(ctx, flow.Event{Kind: flow.EventAppointmentBooked})
	m.Observe(ctx, flow.Event{Kind: flow.EventSessionClosed})

	if got := testutil.ToFloat64(m.handlerTotal.WithLabelValues("handle_symptoms")); got != 1 {
		t.Errorf("handler_invocations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.symptomTotal.WithLabelValues("urgent", "general_dentistry")); got != 1 {
		t.Errorf("symptoms_detected_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bookingsTotal); got != 1 {
		t.Errorf("appointments_booked_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessionsClosed); got != 1 {
		t.Errorf("sessions_closed_total = %v, want 1", got)
	}
}

func TestFlowMetricsNilSafe(t *testing.T) {
	var m *FlowMetrics
	m.Observe(context.Background(), flow.Event{Kind: flow.EventHandlerInvoked})
}

package flow

import (
	"context"
	"time"
)

// EventKind classifies flow events.
type EventKind string

const (
	// EventHandlerInvoked fires after every successful handler run.
	EventHandlerInvoked EventKind = "handler_invoked"
	// EventSymptomDetected fires when triage matched a rule. Detail
	// carries "priority" and "service".
	EventSymptomDetected EventKind = "symptom_detected"
	// EventAppointmentBooked fires on a successful booking. Detail
	// carries "appointment_id".
	EventAppointmentBooked EventKind = "appointment_booked"
	// EventSessionClosed fires when the session reaches a terminal node.
	EventSessionClosed EventKind = "session_closed"
)

// Event is one observable step of a session.
type Event struct {
	SessionID string            `json:"session_id"`
	Kind      EventKind         `json:"kind"`
	Handler   HandlerName       `json:"handler,omitempty"`
	Node      NodeID            `json:"node,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	At        time.Time         `json:"at"`
	Elapsed   time.Duration     `json:"elapsed,omitempty"`
}

// Observer receives session events. Observers run synchronously on
// the session's invoke path and must not block; they never get to
// veto or alter a transition.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) Observe(ctx context.Context, event Event) { f(ctx, event) }

package transcript

import (
	"context"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func sampleEvent(sessionID string, kind flow.EventKind, handler flow.HandlerName) flow.Event {
	return flow.Event{
		SessionID: sessionID,
		Kind:      kind,
		Handler:   handler,
		Node:      flow.NodeInitial,
		At:        time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, sampleEvent("s1", flow.EventHandlerInvoked, flow.HandlerBackToMain)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, sampleEvent("s1", flow.EventSessionClosed, "")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, sampleEvent("s2", flow.EventHandlerInvoked, flow.HandlerGetClinicInfo)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Kind != flow.EventHandlerInvoked || events[1].Kind != flow.EventSessionClosed {
		t.Error("events out of append order")
	}

	empty, err := store.List(ctx, "unknown")
	if err != nil {
		t.Fatalf("List unknown: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown session returned %d events", len(empty))
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour, nil)
	ctx := context.Background()

	if err := store.Append(ctx, sampleEvent("s1", flow.EventHandlerInvoked, flow.HandlerHandleSymptoms)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, sampleEvent("s1", flow.EventSymptomDetected, "")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Handler != flow.HandlerHandleSymptoms {
		t.Errorf("Handler = %q", events[0].Handler)
	}

	if mr.TTL("transcript:s1") != time.Hour {
		t.Errorf("ttl = %v, want 1h", mr.TTL("transcript:s1"))
	}

	events, err = store.List(ctx, "missing")
	if err != nil {
		t.Fatalf("List missing: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("missing session returned %d events", len(events))
	}
}

func TestRecorderSwallowsStoreFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour, nil)
	recorder := NewRecorder(store, logging.NewWithWriter("error", io.Discard))

	mr.Close()

	// Must not panic even though every append now fails.
	recorder.Observe(context.Background(), sampleEvent("s1", flow.EventHandlerInvoked, flow.HandlerBackToMain))
}

// Package transcript records the flow events of each session so
// operators can audit what the assistant did on a call.
package transcript

import (
	"context"
	"sync"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
)

// Store persists session transcripts as ordered event lists.
type Store interface {
	Append(ctx context.Context, event flow.Event) error
	List(ctx context.Context, sessionID string) ([]flow.Event, error)
}

// MemoryStore keeps transcripts in memory. Used in development and
// as the fallback when no Redis is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]flow.Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]flow.Event)}
}

// Append adds an event to the session's transcript.
func (s *MemoryStore) Append(ctx context.Context, event flow.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[event.SessionID] = append(s.sessions[event.SessionID], event)
	return nil
}

// List returns the session's events in append order.
func (s *MemoryStore) List(ctx context.Context, sessionID string) ([]flow.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.sessions[sessionID]
	return append([]flow.Event(nil), events...), nil
}

// Package session tracks live conversation engines by session id.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

type entry struct {
	engine   *flow.Engine
	lastSeen time.Time
}

// Manager creates and looks up flow engines. Sessions idle longer
// than the TTL are dropped on the next sweep.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	info      *clinic.Info
	backend   scheduling.Backend
	catalog   *flow.Catalog
	observers []flow.Observer
	logger    *logging.Logger
	ttl       time.Duration
	now       func() time.Time
}

// NewManager builds a manager. Observers are attached to every new
// session's engine.
func NewManager(info *clinic.Info, backend scheduling.Backend, catalog *flow.Catalog, ttl time.Duration, logger *logging.Logger, observers ...flow.Observer) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		sessions:  make(map[string]*entry),
		info:      info,
		backend:   backend,
		catalog:   catalog,
		observers: observers,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Create starts a new session and returns its engine.
func (m *Manager) Create() *flow.Engine {
	id := uuid.NewString()
	engine := flow.New(id, m.info, m.backend, m.catalog, m.logger, m.observers...)

	m.mu.Lock()
	m.sessions[id] = &entry{engine: engine, lastSeen: m.now()}
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", id)
	return engine
}

// Get returns the engine for id and refreshes its idle timer.
func (m *Manager) Get(id string) (*flow.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = m.now()
	return e.engine, nil
}

// Delete drops the session. Deleting an unknown id is not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle past the TTL and closed sessions.
// Returns the number removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, e := range m.sessions {
		if e.engine.Closed() || e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sessions swept", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// SweepLoop runs Sweep on the interval until stop is closed.
func (m *Manager) SweepLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-stop:
			return
		}
	}
}

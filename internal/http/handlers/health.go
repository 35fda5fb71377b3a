package handlers

import (
	"net/http"

	"github.com/brightsmile-dental/voice-assistant/internal/session"
)

// HealthHandler reports liveness plus the active session count.
type HealthHandler struct {
	sessions *session.Manager
	backend  string
}

func NewHealthHandler(sessions *session.Manager, backend string) *HealthHandler {
	return &HealthHandler{sessions: sessions, backend: backend}
}

// Check responds 200 when the service is up.
// Route: GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "ok",
		"backend": h.backend,
	}
	if h.sessions != nil {
		payload["sessions"] = h.sessions.Len()
	}
	respondJSON(w, http.StatusOK, payload)
}

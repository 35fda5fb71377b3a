package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/transcript"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// AdminTranscriptsHandler serves recorded session transcripts to
// clinic staff. Mounted behind the admin JWT middleware.
type AdminTranscriptsHandler struct {
	store  transcript.Store
	logger *logging.Logger
}

func NewAdminTranscriptsHandler(store transcript.Store, logger *logging.Logger) *AdminTranscriptsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminTranscriptsHandler{store: store, logger: logger}
}

type transcriptResponse struct {
	SessionID string       `json:"session_id"`
	Events    []flow.Event `json:"events"`
}

// Get returns the event log for one session. Unknown sessions return
// an empty transcript rather than 404 so staff can poll before the
// first event lands.
// Route: GET /admin/transcripts/{sessionID}
func (h *AdminTranscriptsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "transcript store not configured")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	events, err := h.store.List(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("transcript lookup failed", "session_id", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "transcript lookup failed")
		return
	}
	if events == nil {
		events = []flow.Event{}
	}
	respondJSON(w, http.StatusOK, transcriptResponse{SessionID: sessionID, Events: events})
}

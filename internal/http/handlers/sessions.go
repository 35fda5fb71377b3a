package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/session"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// SessionsHandler exposes the conversation engine over HTTP. Callers
// create a session, read the current node, and invoke bound handlers
// to advance the dialogue.
type SessionsHandler struct {
	sessions *session.Manager
	logger   *logging.Logger
}

func NewSessionsHandler(sessions *session.Manager, logger *logging.Logger) *SessionsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionsHandler{sessions: sessions, logger: logger}
}

type nodeResponse struct {
	ID           string            `json:"id"`
	RoleContent  string            `json:"role_content,omitempty"`
	Content      string            `json:"content"`
	Bindings     []bindingResponse `json:"bindings"`
	CloseSession bool              `json:"close_session"`
}

type bindingResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Params      []paramResponse `json:"params,omitempty"`
}

type paramResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type sessionResponse struct {
	SessionID string       `json:"session_id"`
	Closed    bool         `json:"closed"`
	Node      nodeResponse `json:"node"`
}

func toNodeResponse(n flow.Node) nodeResponse {
	bindings := make([]bindingResponse, 0, len(n.Bindings))
	for _, b := range n.Bindings {
		params := make([]paramResponse, 0, len(b.Params))
		for _, p := range b.Params {
			params = append(params, paramResponse{
				Name:        p.Name,
				Type:        p.Type,
				Description: p.Description,
				Required:    p.Required,
			})
		}
		bindings = append(bindings, bindingResponse{
			Name:        string(b.Name),
			Description: b.Description,
			Params:      params,
		})
	}
	return nodeResponse{
		ID:           string(n.ID),
		RoleContent:  n.RoleContent,
		Content:      n.Content,
		Bindings:     bindings,
		CloseSession: n.CloseSession,
	}
}

// Create starts a new conversation session.
// Route: POST /sessions
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.Create()
	respondJSON(w, http.StatusCreated, sessionResponse{
		SessionID: engine.SessionID(),
		Closed:    engine.Closed(),
		Node:      toNodeResponse(engine.Current()),
	})
}

// CurrentNode returns the node a session is parked on.
// Route: GET /sessions/{sessionID}/node
func (h *SessionsHandler) CurrentNode(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: engine.SessionID(),
		Closed:    engine.Closed(),
		Node:      toNodeResponse(engine.Current()),
	})
}

// Invoke runs a handler bound on the session's current node. The JSON
// body carries the handler arguments.
// Route: POST /sessions/{sessionID}/handlers/{handler}
func (h *SessionsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	args := flow.Args{}
	if r.Body != nil {
		body, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			respondError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &args); err != nil {
				respondError(w, http.StatusBadRequest, "request body must be a JSON object")
				return
			}
		}
	}

	handler := flow.HandlerName(chi.URLParam(r, "handler"))
	node, err := engine.Invoke(r.Context(), handler, args)
	switch {
	case errors.Is(err, flow.ErrSessionClosed):
		respondError(w, http.StatusConflict, "session is closed")
		return
	case errors.Is(err, flow.ErrHandlerNotBound):
		respondError(w, http.StatusConflict, "handler not available on the current node")
		return
	case errors.Is(err, flow.ErrMissingArgument):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("handler invocation failed", "session_id", engine.SessionID(), "handler", string(handler), "error", err)
		respondError(w, http.StatusInternalServerError, "handler invocation failed")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: engine.SessionID(),
		Closed:    engine.Closed(),
		Node:      toNodeResponse(node),
	})
}

// Delete drops a session.
// Route: DELETE /sessions/{sessionID}
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

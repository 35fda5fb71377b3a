package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/internal/session"
	"github.com/brightsmile-dental/voice-assistant/internal/transcript"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func newTestRouter(t *testing.T) (*chi.Mux, *session.Manager) {
	t.Helper()
	info := clinic.NewInfo()
	backend := scheduling.NewMock("Dr. Ana Popescu")
	logger := logging.NewWithWriter("error", io.Discard)
	manager := session.NewManager(info, backend, flow.NewCatalog(info), time.Hour, logger)

	h := NewSessionsHandler(manager, logger)
	r := chi.NewRouter()
	r.Post("/sessions", h.Create)
	r.Get("/sessions/{sessionID}/node", h.CurrentNode)
	r.Post("/sessions/{sessionID}/handlers/{handler}", h.Invoke)
	r.Delete("/sessions/{sessionID}", h.Delete)
	return r, manager
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestSessionsCreate(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	resp := decodeSession(t, rec)
	if resp.SessionID == "" {
		t.Error("session_id should be set")
	}
	if resp.Node.ID != string(flow.NodeInitial) {
		t.Errorf("node = %q, want %q", resp.Node.ID, flow.NodeInitial)
	}
	if len(resp.Node.Bindings) == 0 {
		t.Error("initial node should expose bindings")
	}
}

func TestSessionsCurrentNode(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+engine.SessionID()+"/node", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeSession(t, rec)
	if resp.SessionID != engine.SessionID() {
		t.Errorf("session_id = %q", resp.SessionID)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/nope/node", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionsInvokeAdvancesNode(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+engine.SessionID()+"/handlers/schedule_appointment", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeSession(t, rec)
	if resp.Node.ID != string(flow.NodeScheduleAppointment) {
		t.Errorf("node = %q, want %q", resp.Node.ID, flow.NodeScheduleAppointment)
	}
}

func TestSessionsInvokeWithArguments(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"symptoms_description":"am o carie la o măsea"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+engine.SessionID()+"/handlers/handle_symptoms", body)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeSession(t, rec)
	if resp.Node.ID != string(flow.NodeSymptomTriage) {
		t.Errorf("node = %q, want %q", resp.Node.ID, flow.NodeSymptomTriage)
	}
}

func TestSessionsInvokeErrorMapping(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()
	base := "/sessions/" + engine.SessionID() + "/handlers/"

	// Handler not bound on the initial node.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"confirm_appointment", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("unbound handler status = %d, want %d", rec.Code, http.StatusConflict)
	}

	// Missing required argument.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"handle_symptoms", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing argument status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// Malformed body.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"schedule_appointment", strings.NewReader(`not-json`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// Unknown session.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/nope/handlers/schedule_appointment", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionsInvokeOnClosedSession(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()
	base := "/sessions/" + engine.SessionID() + "/handlers/"

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"end_conversation", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("end_conversation status = %d", rec.Code)
	}
	if resp := decodeSession(t, rec); !resp.Closed {
		t.Error("session should report closed after end_conversation")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"schedule_appointment", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("closed session status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestSessionsDelete(t *testing.T) {
	r, manager := newTestRouter(t)
	engine := manager.Create()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+engine.SessionID(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, err := manager.Get(engine.SessionID()); err == nil {
		t.Error("session should be gone after delete")
	}
}

func TestHealthCheck(t *testing.T) {
	_, manager := newTestRouter(t)
	manager.Create()
	h := NewHealthHandler(manager, "mock")

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %v", payload["status"])
	}
	if payload["sessions"] != float64(1) {
		t.Errorf("sessions = %v, want 1", payload["sessions"])
	}
}

func TestAdminTranscriptsGet(t *testing.T) {
	store := transcript.NewMemoryStore()
	logger := logging.NewWithWriter("error", io.Discard)
	if err := store.Append(t.Context(), flow.Event{
		SessionID: "s1",
		Kind:      flow.EventHandlerInvoked,
		Handler:   flow.HandlerScheduleAppointment,
		Node:      flow.NodeScheduleAppointment,
		At:        time.Now(),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	h := NewAdminTranscriptsHandler(store, logger)
	r := chi.NewRouter()
	r.Get("/admin/transcripts/{sessionID}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/transcripts/s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp transcriptResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0].Kind != flow.EventHandlerInvoked {
		t.Errorf("events = %+v", resp.Events)
	}

	// Unknown sessions yield an empty transcript, not an error.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/transcripts/unknown", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown session status = %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 0 {
		t.Errorf("expected empty transcript, got %d events", len(resp.Events))
	}
}

package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/http/handlers"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/internal/session"
	"github.com/brightsmile-dental/voice-assistant/internal/transcript"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	info := clinic.NewInfo()
	logger := logging.NewWithWriter("error", io.Discard)
	manager := session.NewManager(info, scheduling.NewMock("Dr. Ana Popescu"), flow.NewCatalog(info), time.Hour, logger)
	registry := prometheus.NewRegistry()

	cfg := &Config{
		Logger:           logger,
		Sessions:         handlers.NewSessionsHandler(manager, logger),
		Health:           handlers.NewHealthHandler(manager, "mock"),
		AdminTranscripts: handlers.NewAdminTranscriptsHandler(transcript.NewMemoryStore(), logger),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:  "test-secret",
	}
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", rr.Code)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions/"+created.SessionID+"/node", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get node status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions/"+created.SessionID+"/handlers/schedule_appointment", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("invoke handler status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/sessions/"+created.SessionID, nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete session status = %d", rr.Code)
	}
}

func TestRouterAdminRequiresJWT(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/transcripts/s1", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated admin status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "staff",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/transcripts/s1", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated admin status = %d, want %d", rr.Code, http.StatusOK)
	}
}

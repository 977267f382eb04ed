package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(token string) *Server {
	// Handlers that touch the store or engine are integration-tested;
	// nil collaborators are fine for routing-level tests.
	return NewServer(8760, token, nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestCheckinRequiresAuth(t *testing.T) {
	srv := testServer("secret")

	req := httptest.NewRequest("POST", "/api/v1/checkins", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestAnalyticsRoutesAreOpen(t *testing.T) {
	// Analytics GETs sit outside the auth group. With a nil analyzer the
	// handler panics and Recoverer answers 500; the point here is only
	// that the middleware never answers 401.
	srv := testServer("secret")

	req := httptest.NewRequest("GET", "/api/v1/experiment/results", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code == http.StatusUnauthorized {
		t.Error("analytics route should not require auth")
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := testServer("")

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

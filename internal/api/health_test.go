package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/persistorai/listings/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockPinger{}, testLogger(), "test-v1", "sqlite", 2)

	r := newTestRouter()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	decode(t, w, &body)

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}
	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}
	if body["database"] != "connected" {
		t.Errorf("expected database 'connected', got %v", body["database"])
	}
	if body["schema_version"] != float64(2) {
		t.Errorf("expected schema_version 2, got %v", body["schema_version"])
	}
}

func TestLiveness_DatabaseDown(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockPinger{err: errors.New("gone")}, testLogger(), "v", "postgres", 2)

	r := newTestRouter()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("liveness must stay 200, got %d", w.Code)
	}

	var body map[string]any
	decode(t, w, &body)

	if body["database"] != "disconnected" {
		t.Errorf("expected database 'disconnected', got %v", body["database"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		store      api.Pinger
		wantStatus int
	}{
		{name: "ready", store: &mockPinger{}, wantStatus: http.StatusOK},
		{name: "database error", store: &mockPinger{err: errors.New("gone")}, wantStatus: http.StatusServiceUnavailable},
		{name: "no store", store: nil, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := api.NewHealthHandler(tc.store, testLogger(), "v", "sqlite", 2)

			r := newTestRouter()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestReadiness_ReportsPoolUsage(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockPoolPinger{acquired: 3, maxConns: 10}, testLogger(), "v", "postgres", 2)

	r := newTestRouter()
	r.GET("/ready", h.Readiness)

	w := doRequest(r, http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Checks map[string]string `json:"checks"`
	}
	decode(t, w, &body)

	if body.Checks["pool"] != "3/10 acquired" {
		t.Errorf("expected pool check %q, got %q", "3/10 acquired", body.Checks["pool"])
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"static-video-server/internal/catalog"
	"static-video-server/internal/indexer"
)

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	lastIndexed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		status     indexer.HealthStatus
		wantCode   int
		wantStatus string
	}{
		{
			name:       "starting",
			status:     indexer.HealthStatus{Ready: false, Indexing: true},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusStarting,
		},
		{
			name:       "healthy",
			status:     indexer.HealthStatus{Ready: true, Generation: 3, Videos: 12, LastIndexed: lastIndexed},
			wantCode:   http.StatusOK,
			wantStatus: statusHealthy,
		},
		{
			name:       "degraded after failed reload",
			status:     indexer.HealthStatus{Ready: true, Generation: 3, LastError: "readdir /videos: permission denied"},
			wantCode:   http.StatusOK,
			wantStatus: statusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(catalog.NewStore(), &mockIndexer{ready: tt.status.Ready, status: tt.status})

			w := httptest.NewRecorder()
			h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.Generation != tt.status.Generation || resp.Videos != tt.status.Videos {
				t.Errorf("catalog info = %d/%d, want %d/%d",
					resp.Generation, resp.Videos, tt.status.Generation, tt.status.Videos)
			}
			if !tt.status.LastIndexed.IsZero() && resp.LastIndexed != "2026-01-02T03:04:05Z" {
				t.Errorf("LastIndexed = %q", resp.LastIndexed)
			}
			if resp.GoVersion == "" || resp.NumCPU == 0 {
				t.Error("system info missing")
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(catalog.NewStore(), &mockIndexer{})

	w := httptest.NewRecorder()
	h.LivenessCheck(w, httptest.NewRequest(http.MethodGet, "/livez", http.NoBody))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.LivenessCheck(w, httptest.NewRequest(http.MethodHead, "/livez", http.NoBody))
	if w.Body.Len() != 0 {
		t.Error("HEAD should not write a body")
	}
}

func TestReadinessCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ready      bool
		wantCode   int
		wantStatus string
	}{
		{false, http.StatusServiceUnavailable, "not_ready"},
		{true, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		h := newTestHandlers(catalog.NewStore(), &mockIndexer{ready: tt.ready})

		w := httptest.NewRecorder()
		h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))

		if w.Code != tt.wantCode {
			t.Errorf("ready=%v: expected status %d, got %d", tt.ready, tt.wantCode, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["status"] != tt.wantStatus {
			t.Errorf("ready=%v: status %q, want %q", tt.ready, body["status"], tt.wantStatus)
		}
	}
}

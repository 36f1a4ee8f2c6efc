package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"propshoot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func TestHealthEndpoints(t *testing.T) {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	router := httprouter.New()
	NewHealthHandler(nil, nil, log).RegisterRoutes(router)

	tests := []struct {
		path         string
		expectCode   int
		expectStatus string
	}{
		{"/health", http.StatusOK, "ok"},
		{"/ready", http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectStatus {
				t.Errorf("expected status %q, got %q", tt.expectStatus, resp.Status)
			}
		})
	}
}

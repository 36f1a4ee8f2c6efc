package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBlockedDayService struct {
	listFunc    func(ctx context.Context, from string) ([]*model.BlockedDay, error)
	blockFunc   func(ctx context.Context, day *model.BlockedDay) error
	unblockFunc func(ctx context.Context, id string) error
}

func (m *mockBlockedDayService) List(ctx context.Context, from string) ([]*model.BlockedDay, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, from)
	}
	return []*model.BlockedDay{}, nil
}

func (m *mockBlockedDayService) Block(ctx context.Context, day *model.BlockedDay) error {
	if m.blockFunc != nil {
		return m.blockFunc(ctx, day)
	}
	day.ID = "day-1"
	return nil
}

func (m *mockBlockedDayService) Unblock(ctx context.Context, id string) error {
	if m.unblockFunc != nil {
		return m.unblockFunc(ctx, id)
	}
	return nil
}

func newRouter(svc *mockBlockedDayService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBlockedDayHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestListEndpoint(t *testing.T) {
	var gotFrom string
	svc := &mockBlockedDayService{
		listFunc: func(ctx context.Context, from string) ([]*model.BlockedDay, error) {
			gotFrom = from
			return []*model.BlockedDay{{ID: "day-1", Date: "2026-03-03"}}, nil
		},
	}
	router := newRouter(svc)

	tests := []struct {
		name       string
		query      string
		expectCode int
		expectFrom string
	}{
		{"no filter", "", http.StatusOK, ""},
		{"from date", "?from=2026-03-01", http.StatusOK, "2026-03-01"},
		{"bad from", "?from=March", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFrom = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/blocked-days"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			if gotFrom != tt.expectFrom {
				t.Errorf("expected from %q, got %q", tt.expectFrom, gotFrom)
			}
		})
	}
}

func TestBlockEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		blockErr   error
		expectCode int
	}{
		{"blocks a day", `{"date":"2026-03-03","reason":"Holiday"}`, nil, http.StatusCreated},
		{"already blocked", `{"date":"2026-03-03"}`, apperrors.Conflict("This date is already blocked"), http.StatusConflict},
		{"unknown field", `{"date":"2026-03-03","extra":true}`, nil, http.StatusBadRequest},
		{"invalid json", `{`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBlockedDayService{}
			if tt.blockErr != nil {
				svc.blockFunc = func(ctx context.Context, day *model.BlockedDay) error { return tt.blockErr }
			}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/blocked-days", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if tt.expectCode != http.StatusCreated {
				return
			}
			var body struct {
				Data model.BlockedDay `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Data.ID != "day-1" || body.Data.Reason != "Holiday" {
				t.Errorf("unexpected blocked day %+v", body.Data)
			}
		})
	}
}

func TestUnblockEndpoint(t *testing.T) {
	var gotID string
	svc := &mockBlockedDayService{
		unblockFunc: func(ctx context.Context, id string) error {
			gotID = id
			if id == "missing" {
				return apperrors.NotFoundWithID("Blocked day", id)
			}
			return nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/blocked-days/id/day-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || gotID != "day-1" {
		t.Errorf("expected 204 for day-1, got %d for %q", w.Code, gotID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/blocked-days/id/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "propshoot/pkg/errors"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	getAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	searchFunc  func(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, int64, error)
	cancelFunc  func(ctx context.Context, id string) error
	getByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingService) ConfirmOrder(ctx context.Context, order *model.Order) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, search, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil
}

func newTestHandler(svc *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingHandler(svc, log)
}

func TestGetAll_InvalidQueryParameters(t *testing.T) {
	called := false
	h := newTestHandler(&mockBookingService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			called = true
			return []*model.Booking{}, 0, nil
		},
	})

	tests := []struct {
		name           string
		queryString    string
		expectHTTPCode int
	}{
		{"invalid limit", "?limit=abc&offset=0", http.StatusBadRequest},
		{"invalid offset", "?limit=10&offset=xyz", http.StatusBadRequest},
		{"valid parameters", "?limit=10&offset=20", http.StatusOK},
		{"negative values are normalized", "?limit=-10&offset=-5", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.queryString, nil)
			w := httptest.NewRecorder()

			h.GetAll(w, req, httprouter.Params{})

			if w.Code != tt.expectHTTPCode {
				t.Errorf("expected status %d, got %d", tt.expectHTTPCode, w.Code)
			}
			if tt.expectHTTPCode == http.StatusBadRequest && called {
				t.Error("service should not be called for invalid parameters")
			}
		})
	}
}

func TestSearch_PassesFilters(t *testing.T) {
	var received model.BookingSearch
	h := newTestHandler(&mockBookingService{
		searchFunc: func(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, int64, error) {
			received = search
			return []*model.Booking{{ID: "a", Date: "2026-03-03"}}, 1, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search?from=2026-03-01&to=2026-03-31&status=confirmed", nil)
	w := httptest.NewRecorder()
	h.Search(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if received.From != "2026-03-01" || received.To != "2026-03-31" || received.Status != "confirmed" {
		t.Errorf("unexpected search %+v", received)
	}

	var body httputil.PaginatedResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.TotalCount != 1 {
		t.Errorf("expected total_count 1, got %d", body.TotalCount)
	}
}

func TestSearch_InvalidDate(t *testing.T) {
	h := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search?from=03/01/2026", nil)
	w := httptest.NewRecorder()
	h.Search(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"cancelled", nil, http.StatusNoContent},
		{"already cancelled", apperrors.Conflict("Booking is already cancelled"), http.StatusConflict},
		{"unknown booking", apperrors.NotFoundWithID("Booking", "x"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			h := newTestHandler(&mockBookingService{
				cancelFunc: func(ctx context.Context, id string) error {
					gotID = id
					return tt.err
				},
			})

			router := httprouter.New()
			h.RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/abc123/cancel", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			if gotID != "abc123" {
				t.Errorf("expected id abc123, got %q", gotID)
			}
		})
	}
}

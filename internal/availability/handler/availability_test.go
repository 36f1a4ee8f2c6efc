package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"propshoot/internal/availability/service"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
	"propshoot/pkg/scheduling"

	"github.com/julienschmidt/httprouter"
)

type mockAvailabilityService struct {
	dayFunc   func(ctx context.Context, date string, duration int) (*scheduling.DayAvailability, error)
	monthFunc func(ctx context.Context, month time.Time) (*scheduling.MonthView, error)
}

func (m *mockAvailabilityService) Day(ctx context.Context, date string, duration int) (*scheduling.DayAvailability, error) {
	if m.dayFunc != nil {
		return m.dayFunc(ctx, date, duration)
	}
	return &scheduling.DayAvailability{Date: date, Available: true, Slots: []model.TimeInterval{}}, nil
}

func (m *mockAvailabilityService) QuoteSlots(ctx context.Context, date string, services model.ServiceSelection) (*service.QuotedDay, error) {
	return &service.QuotedDay{DayAvailability: scheduling.DayAvailability{Date: date}}, nil
}

func (m *mockAvailabilityService) Month(ctx context.Context, month time.Time) (*scheduling.MonthView, error) {
	if m.monthFunc != nil {
		return m.monthFunc(ctx, month)
	}
	return &scheduling.MonthView{Month: month.Format("2006-01")}, nil
}

func (m *mockAvailabilityService) BaseSlots(ctx context.Context, date string, duration int) ([]model.TimeInterval, error) {
	return []model.TimeInterval{}, nil
}

func (m *mockAvailabilityService) Invalidate(ctx context.Context, date string) error {
	return nil
}

func newRouter(svc service.AvailabilityService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	router := httprouter.New()
	NewAvailabilityHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestDayEndpoint(t *testing.T) {
	var gotDuration int
	router := newRouter(&mockAvailabilityService{
		dayFunc: func(ctx context.Context, date string, duration int) (*scheduling.DayAvailability, error) {
			gotDuration = duration
			return &scheduling.DayAvailability{Date: date, Available: true, Slots: []model.TimeInterval{model.NewInterval(540, duration)}}, nil
		},
	})

	tests := []struct {
		name       string
		query      string
		expectCode int
	}{
		{"with duration", "?date=2026-03-03&duration=60", http.StatusOK},
		{"without duration", "?date=2026-03-03", http.StatusOK},
		{"missing date", "", http.StatusBadRequest},
		{"bad date", "?date=2026-3-3", http.StatusBadRequest},
		{"bad duration", "?date=2026-03-03&duration=abc", http.StatusBadRequest},
		{"negative duration", "?date=2026-03-03&duration=-5", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-03-03&duration=90", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if gotDuration != 90 {
		t.Errorf("expected duration 90, got %d", gotDuration)
	}

	var body struct {
		Data struct {
			Slots []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"slots"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data.Slots) != 1 || body.Data.Slots[0].Start != "09:00" || body.Data.Slots[0].End != "10:30" {
		t.Errorf("unexpected slots %+v", body.Data.Slots)
	}
}

func TestMonthEndpoint(t *testing.T) {
	router := newRouter(&mockAvailabilityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability/month?month=2026-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/availability/month?month=March", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestQuoteSlotsEndpoint_RequiresDate(t *testing.T) {
	router := newRouter(&mockAvailabilityService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/quote-slots", strings.NewReader(`{"services":{"photography":true}}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

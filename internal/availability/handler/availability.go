package handler

import (
	"net/http"
	"strconv"

	"propshoot/internal/availability/service"
	apperrors "propshoot/pkg/errors"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

type QuoteSlotsRequest struct {
	Date     string                 `json:"date"`
	Services model.ServiceSelection `json:"services"`
}

// Day answers GET /api/v1/availability?date=YYYY-MM-DD&duration=N. Without
// a duration only the day itself is checked.
func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "Day", err)
		return
	}

	duration := 0
	if s := r.URL.Query().Get("duration"); s != "" {
		duration, err = strconv.Atoi(s)
		if err != nil || duration < 0 {
			h.writeError(w, "Day", apperrors.InvalidInput("invalid duration parameter: "+s))
			return
		}
	}

	day, err := h.service.Day(r.Context(), date, duration)
	if err != nil {
		h.writeError(w, "Day", err)
		return
	}

	if err := httputil.WriteSuccess(w, day); err != nil {
		h.log.Error("failed to write success response", "handler", "Day", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) QuoteSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req QuoteSlotsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "QuoteSlots", err)
		return
	}
	if req.Date == "" {
		h.writeError(w, "QuoteSlots", apperrors.InvalidInput("Valid date (YYYY-MM-DD) is required"))
		return
	}

	quoted, err := h.service.QuoteSlots(r.Context(), req.Date, req.Services)
	if err != nil {
		h.writeError(w, "QuoteSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, quoted); err != nil {
		h.log.Error("failed to write success response", "handler", "QuoteSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	month, err := httputil.QueryMonth(r, "month")
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	view, err := h.service.Month(r.Context(), month)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Month", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Day)
	router.POST("/api/v1/availability/quote-slots", h.QuoteSlots)
	router.GET("/api/v1/availability/month", h.Month)
}

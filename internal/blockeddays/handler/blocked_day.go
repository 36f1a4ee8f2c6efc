package handler

import (
	"net/http"
	"time"

	"propshoot/internal/blockeddays/service"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlockedDayHandler struct {
	service service.BlockedDayService
	log     *logger.Logger
}

func NewBlockedDayHandler(service service.BlockedDayService, log *logger.Logger) *BlockedDayHandler {
	return &BlockedDayHandler{
		service: service,
		log:     log,
	}
}

type BlockRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

func (h *BlockedDayHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from := r.URL.Query().Get("from")
	if from != "" {
		if _, err := time.Parse(config.DateLayout, from); err != nil {
			h.writeError(w, "List", apperrors.InvalidInput("invalid from parameter, expected YYYY-MM-DD"))
			return
		}
	}

	days, err := h.service.List(r.Context(), from)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockedDayHandler) Block(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req BlockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Block", err)
		return
	}

	day := &model.BlockedDay{Date: req.Date, Reason: req.Reason}
	if err := h.service.Block(r.Context(), day); err != nil {
		h.writeError(w, "Block", err)
		return
	}

	if err := httputil.WriteCreated(w, day); err != nil {
		h.log.Error("failed to write created response", "handler", "Block", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlockedDayHandler) Unblock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Unblock(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Unblock", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlockedDayHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BlockedDayHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/blocked-days", h.List)
	router.POST("/api/v1/blocked-days", h.Block)
	router.DELETE("/api/v1/blocked-days/id/:id", h.Unblock)
}

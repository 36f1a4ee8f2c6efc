package handler

import (
	"net/http"

	"propshoot/internal/discounts/service"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DiscountHandler struct {
	service service.DiscountService
	log     *logger.Logger
}

func NewDiscountHandler(service service.DiscountService, log *logger.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		log:     log,
	}
}

type ValidateRequest struct {
	Code string `json:"code"`
}

type ValidateResponse struct {
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
}

type CreateRequest struct {
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
	MaxUses    int    `json:"max_uses,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ValidateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	discount, err := h.service.Validate(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	if err := httputil.WriteSuccess(w, ValidateResponse{
		Code:       discount.Code,
		Percentage: discount.Percentage,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	code := &model.DiscountCode{
		Code:       req.Code,
		Percentage: req.Percentage,
		MaxUses:    req.MaxUses,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := h.service.Create(r.Context(), code); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, code); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *DiscountHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	codes, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, codes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *DiscountHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.DiscountCodeUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DiscountHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DiscountHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/discounts/validate", h.Validate)
	router.GET("/api/v1/discounts", h.GetAll)
	router.POST("/api/v1/discounts", h.Create)
	router.PATCH("/api/v1/discounts/id/:id", h.Update)
}

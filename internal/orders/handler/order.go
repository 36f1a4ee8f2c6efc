package handler

import (
	"context"
	"net/http"

	"propshoot/internal/orders/draft"
	"propshoot/internal/payments/metadata"
	"propshoot/pkg/catalog"
	apperrors "propshoot/pkg/errors"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
	"propshoot/pkg/sanitizer"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// SlotSource loads the base slots of one property from storage.
type SlotSource interface {
	BaseSlots(ctx context.Context, date string, duration int) ([]model.TimeInterval, error)
}

// CodeValidator resolves a discount code typed by an agent.
type CodeValidator interface {
	Validate(ctx context.Context, code string) (*model.DiscountCode, error)
}

type OrderHandler struct {
	slots     SlotSource
	discounts CodeValidator
	log       *logger.Logger
}

func NewOrderHandler(slots SlotSource, discounts CodeValidator, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		slots:     slots,
		discounts: discounts,
		log:       log,
	}
}

type PlanRequest struct {
	Draft  *draft.Draft  `json:"draft"`
	Action *draft.Action `json:"action"`
}

type PlanResponse struct {
	Draft draft.Draft `json:"draft"`
	View  draft.View  `json:"view"`
}

type QuoteRequest struct {
	Properties   []model.ServiceSelection `json:"properties"`
	DiscountCode string                   `json:"discount_code"`
}

type CheckoutRequest struct {
	Draft draft.Draft `json:"draft"`
}

type CheckoutResponse struct {
	OrderID  string            `json:"order_id"`
	Total    catalog.Money     `json:"total"`
	Metadata map[string]string `json:"metadata"`
}

// Plan applies one action to a draft. Slots are always reloaded from
// storage so a draft posted back by a client never decides availability.
func (h *OrderHandler) Plan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req PlanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Plan", err)
		return
	}

	d := draft.New()
	if req.Draft != nil {
		d = *req.Draft
	}

	d, err := h.load(r.Context(), d, d.Scheduled())
	if err != nil {
		h.writeError(w, "Plan", err)
		return
	}

	if req.Action != nil {
		action, err := h.prepare(r.Context(), *req.Action)
		if err != nil {
			h.writeError(w, "Plan", err)
			return
		}
		if d, err = draft.Apply(d, action); err != nil {
			h.writeError(w, "Plan", err)
			return
		}
		if d, err = h.load(r.Context(), d, d.Unloaded()); err != nil {
			h.writeError(w, "Plan", err)
			return
		}
	}

	if err := httputil.WriteSuccess(w, PlanResponse{Draft: d, View: draft.Derive(d)}); err != nil {
		h.log.Error("failed to write success response", "handler", "Plan", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req QuoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Quote", err)
		return
	}
	if len(req.Properties) == 0 {
		h.writeError(w, "Quote", apperrors.InvalidInput("No properties provided"))
		return
	}
	if len(req.Properties) > draft.MaxProperties {
		h.writeError(w, "Quote", apperrors.InvalidInput("Too many properties"))
		return
	}

	pct := 0
	if req.DiscountCode != "" {
		code, err := h.discounts.Validate(r.Context(), req.DiscountCode)
		if err != nil {
			h.writeError(w, "Quote", err)
			return
		}
		pct = code.Percentage
	}

	if err := httputil.WriteSuccess(w, catalog.QuoteOrder(req.Properties, pct)); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

// Checkout turns a complete draft into the metadata a checkout session
// carries back to the payment webhook.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CheckoutRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Checkout", err)
		return
	}

	d, err := h.load(r.Context(), req.Draft, req.Draft.Scheduled())
	if err != nil {
		h.writeError(w, "Checkout", err)
		return
	}
	if d.Discount != nil {
		code, err := h.discounts.Validate(r.Context(), d.Discount.Code)
		if err != nil {
			h.writeError(w, "Checkout", err)
			return
		}
		d.Discount = &draft.Discount{Code: code.Code, Percentage: code.Percentage}
	}

	view := draft.Derive(d)
	if !view.Complete {
		h.writeError(w, "Checkout", apperrors.Validation("Order is incomplete", map[string]any{"missing": view.Missing}))
		return
	}

	order := d.Order(uuid.New().String())
	sanitizer.SanitizeOrder(order)
	meta, err := metadata.Encode(order)
	if err != nil {
		h.writeError(w, "Checkout", apperrors.InvalidInput(err.Error()))
		return
	}

	h.log.Info("Checkout prepared",
		"order_id", order.ID,
		"properties", len(order.Properties),
		"total", view.Quote.Total,
	)

	resp := CheckoutResponse{OrderID: order.ID, Total: view.Quote.Total, Metadata: meta}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Checkout", "operation", "WriteSuccess", "error", err)
	}
}

// prepare cleans agent input and resolves a discount code to its
// percentage before the action reaches the reducer.
func (h *OrderHandler) prepare(ctx context.Context, action draft.Action) (draft.Action, error) {
	switch action.Type {
	case draft.SetAgent:
		if action.Agent != nil {
			agent := *action.Agent
			sanitizer.SanitizeAgent(&agent)
			action.Agent = &agent
		}
	case draft.SetDetails:
		if action.Details != nil {
			action.Details = &draft.Details{
				Address:  sanitizer.SanitizeAddress(action.Details.Address),
				Postcode: sanitizer.SanitizePostcode(action.Details.Postcode),
				Notes:    sanitizer.SanitizeNotes(action.Details.Notes),
			}
		}
	case draft.ApplyDiscount:
		if action.Discount == nil {
			return action, apperrors.InvalidInput("Code is required")
		}
		code, err := h.discounts.Validate(ctx, action.Discount.Code)
		if err != nil {
			return action, err
		}
		action.Discount = &draft.Discount{Code: code.Code, Percentage: code.Percentage}
	case draft.SetAvailability:
		return action, apperrors.InvalidInput("availability is loaded by the server")
	}
	return action, nil
}

// load fetches base slots for fetches and feeds them through the reducer.
func (h *OrderHandler) load(ctx context.Context, d draft.Draft, fetches []draft.Fetch) (draft.Draft, error) {
	for _, f := range fetches {
		slots, err := h.slots.BaseSlots(ctx, f.Date, f.Duration)
		if err != nil {
			return d, err
		}
		d, err = draft.Apply(d, draft.Action{
			Type:       draft.SetAvailability,
			PropertyID: f.PropertyID,
			Date:       f.Date,
			Duration:   f.Duration,
			Slots:      slots,
		})
		if err != nil {
			return d, err
		}
	}
	return d, nil
}

func (h *OrderHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *OrderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/orders/plan", h.Plan)
	router.POST("/api/v1/orders/quote", h.Quote)
	router.POST("/api/v1/orders/checkout", h.Checkout)
}

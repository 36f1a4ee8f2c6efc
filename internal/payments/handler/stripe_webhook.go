package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"propshoot/internal/payments/metadata"
	apperrors "propshoot/pkg/errors"
	httputil "propshoot/pkg/http"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const maxPayloadBytes = 1 << 20

// OrderConfirmer turns a paid order into bookings.
type OrderConfirmer interface {
	ConfirmOrder(ctx context.Context, order *model.Order) ([]*model.Booking, error)
}

type StripeWebhookHandler struct {
	orders    OrderConfirmer
	secret    string
	tolerance time.Duration
	log       *logger.Logger
}

func NewStripeWebhookHandler(orders OrderConfirmer, secret string, tolerance time.Duration, log *logger.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		orders:    orders,
		secret:    secret,
		tolerance: tolerance,
		log:       log,
	}
}

// Receive verifies the Stripe-Signature header and books paid checkouts.
// Failures Stripe cannot fix by retrying are acknowledged and logged.
func (h *StripeWebhookHandler) Receive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if strings.TrimSpace(h.secret) == "" {
		h.writeError(w, apperrors.Unavailable("stripe webhook"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(signature) == "" {
		h.writeError(w, apperrors.InvalidInput("No signature"))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("Failed to read request body"))
		return
	}

	evt, err := webhook.ConstructEventWithTolerance(payload, signature, h.secret, h.tolerance)
	if err != nil {
		h.log.Warn("Webhook signature verification failed", "error", err)
		h.writeError(w, apperrors.InvalidInput("Invalid signature"))
		return
	}

	h.log.Info("Stripe event received",
		"event_id", evt.ID,
		"event_type", string(evt.Type),
		"created_at", time.Unix(evt.Created, 0).UTC().Format(time.RFC3339),
	)

	switch string(evt.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
			h.log.Error("Invalid checkout session payload", "event_id", evt.ID, "error", err)
			break
		}
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			h.log.Info("Checkout completed without payment yet", "session_id", session.ID)
			break
		}
		if err := h.confirm(r.Context(), &session); err != nil {
			h.writeError(w, err)
			return
		}
	default:
		h.log.Debug("Ignoring Stripe event", "event_id", evt.ID, "event_type", string(evt.Type))
	}

	if err := httputil.WriteJSON(w, http.StatusOK, map[string]bool{"received": true}); err != nil {
		h.log.Error("failed to write response", "handler", "Receive", "operation", "WriteJSON", "error", err)
	}
}

// confirm books the order carried by session. Only errors worth a retry are
// returned.
func (h *StripeWebhookHandler) confirm(ctx context.Context, session *stripe.CheckoutSession) error {
	order, err := metadata.Decode(session.Metadata, session.ID)
	if err != nil {
		h.log.Error("Unreadable checkout metadata", "session_id", session.ID, "error", err)
		return nil
	}

	bookings, err := h.orders.ConfirmOrder(ctx, order)
	if err != nil {
		if appErr := apperrors.AsAppError(err); appErr.StatusCode() < http.StatusInternalServerError {
			h.log.Error("Paid order could not be booked",
				"session_id", session.ID,
				"order_id", order.ID,
				"code", appErr.Code,
				"error", err,
			)
			return nil
		}
		h.log.Error("Failed to process booking", "session_id", session.ID, "error", err)
		return apperrors.Internal("Failed to process booking", err)
	}

	h.log.Info("Checkout booked",
		"session_id", session.ID,
		"order_id", order.ID,
		"bookings", len(bookings),
	)
	return nil
}

func (h *StripeWebhookHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Receive", "operation", "WriteError", "error", writeErr)
	}
}

func (h *StripeWebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/webhooks/stripe", h.Receive)
}

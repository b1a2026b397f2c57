package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/crosslogic/bookingcore/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v76"
)

type webhookHandlers struct {
	ledger              *webhook.Ledger
	engine              *booking.Engine
	secret              string
	devFallbackSecret   string
	isProduction        bool
}

// handle verifies the provider signature at the HTTP boundary before handing
// off to the provider-agnostic idempotency ledger.
func (h *webhookHandlers) handle(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body", "")
		return
	}

	event, err := webhook.VerifySignature(payload, r.Header.Get("Stripe-Signature"), h.secret, h.devFallbackSecret, h.isProduction)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid signature", apperr.CodeWebhookBadSignature)
		return
	}
	if event.ID == "" {
		writeError(w, http.StatusBadRequest, "missing event id", apperr.CodeWebhookMissingID)
		return
	}

	outcome, err := h.ledger.ProcessEvent(r.Context(), provider, event.ID, payload, h.route(event))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": outcome})
}

// route dispatches a verified Stripe event to the booking engine by event.Type.
func (h *webhookHandlers) route(event stripe.Event) webhook.Handler {
	return func(ctx context.Context, tx pgx.Tx, payload []byte) error {
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				return err
			}
			return h.engine.ApplyAuthorizationSuccess(ctx, tx, pi.ID)
		default:
			// Unhandled event types are acknowledged without action.
			return nil
		}
	}
}

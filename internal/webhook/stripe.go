package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// VerifySignature checks a Stripe webhook payload's signature header. In
// non-production environments, devFallbackSecret is tried if the configured
// secret fails, easing local testing without a real Stripe CLI tunnel. The
// event's API version is not compared with the library's.
func VerifySignature(payload []byte, sigHeader, secret, devFallbackSecret string, isProduction bool) (stripe.Event, error) {
	opts := webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true}
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, opts)
	if err == nil {
		return event, nil
	}
	if !isProduction && devFallbackSecret != "" {
		if event, fallbackErr := webhook.ConstructEventWithOptions(payload, sigHeader, devFallbackSecret, opts); fallbackErr == nil {
			return event, nil
		}
	}
	return stripe.Event{}, apperr.Wrap(apperr.Authorization, apperr.CodeWebhookBadSignature, err)
}

// ExtractEventID pulls the event id out of a raw payload without requiring a
// verified signature, for cases where the caller already verified upstream
// and only needs routing information.
func ExtractEventID(payload []byte) (string, error) {
	var partial struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &partial); err != nil {
		return "", fmt.Errorf("parse webhook payload: %w", err)
	}
	if partial.ID == "" {
		return "", apperr.New(apperr.Validation, apperr.CodeWebhookMissingID, "missing event id")
	}
	return partial.ID, nil
}

package payment

import (
	"context"

	"github.com/crosslogic/bookingcore/internal/ids"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeAuthorizer implements Authorizer against the real Stripe API with
// manual-capture semantics.
type StripeAuthorizer struct {
	secretKey string
}

// NewStripeAuthorizer configures the package-level stripe-go client with the
// given secret key.
func NewStripeAuthorizer(secretKey string) *StripeAuthorizer {
	stripe.Key = secretKey
	return &StripeAuthorizer{secretKey: secretKey}
}

func (a *StripeAuthorizer) Authorize(ctx context.Context, bookingID string, amountCents int64) (string, bool, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String("zar"),
		CaptureMethod: stripe.String("manual"),
	}
	params.AddMetadata("booking_id", bookingID)
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", false, err
	}
	return pi.ID, false, nil
}

func (a *StripeAuthorizer) Capture(ctx context.Context, ref string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	_, err := paymentintent.Capture(ref, params)
	return err
}

func (a *StripeAuthorizer) Void(ctx context.Context, ref string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	_, err := paymentintent.Cancel(ref, params)
	return err
}

// MockAuthorizer fabricates pi_mock_<rand> references without calling out to
// any network, used when no STRIPE_SECRET_KEY is configured.
type MockAuthorizer struct{}

func NewMockAuthorizer() *MockAuthorizer { return &MockAuthorizer{} }

func (MockAuthorizer) Authorize(ctx context.Context, bookingID string, amountCents int64) (string, bool, error) {
	return ids.MockPaymentRef(), true, nil
}

func (MockAuthorizer) Capture(ctx context.Context, ref string) error { return nil }

func (MockAuthorizer) Void(ctx context.Context, ref string) error { return nil }

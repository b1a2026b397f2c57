// Package payment implements the payment-intent ledger (C4): createIntent,
// onAuthorizationSuccess, capture, release, and fee, composed inside a
// caller's transaction. The external SDK is stripe-go/v76; a MockAuthorizer
// stands in when no Stripe secret key is configured.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/crosslogic/bookingcore/internal/ids"
	"github.com/jackc/pgx/v5"
)

// Status is a payment intent's lifecycle state.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusAuthorized Status = "AUTHORIZED"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusCancelled  Status = "CANCELLED"
	StatusFailed     Status = "FAILED"
)

// Kind distinguishes the booking's main authorization from a separate fee
// charge; multiple intent rows are allowed per booking.
type Kind string

const (
	KindMain Kind = "main"
	KindFee  Kind = "fee"
)

// Intent is one row in the per-booking payment history.
type Intent struct {
	ID            string
	BookingID     string
	Status        Status
	Provider      string
	ProviderRef   string
	AmountCents   int64
	Currency      string
	Kind          Kind
}

// DefaultAmountCents is the fallback charge when a booking has no price
// snapshot.
const DefaultAmountCents = 10000

// Currency is fixed : ZAR.
const Currency = "ZAR"

// Authorizer is the external payment-provider SDK seam. A real
// implementation wraps stripe-go/v76 with manual capture semantics; the mock
// implementation fabricates references for tests and environments without a
// configured secret key.
type Authorizer interface {
	// Authorize requests a hold for amountCents without taking funds, returning
	// a provider reference. isMock reports that the reference is not a real
	// provider id; Capture and Release do not read it and decide whether to
	// call the SDK from the reference's pi_mock_ prefix instead.
	Authorize(ctx context.Context, bookingID string, amountCents int64) (ref string, isMock bool, err error)
	Capture(ctx context.Context, ref string) error
	Void(ctx context.Context, ref string) error
}

// Ledger implements the five payment-intent operations.
type Ledger struct {
	auth Authorizer
}

func New(auth Authorizer) *Ledger { return &Ledger{auth: auth} }

func scanIntent(row pgx.Row) (*Intent, error) {
	var i Intent
	err := row.Scan(&i.ID, &i.BookingID, &i.Status, &i.Provider, &i.ProviderRef, &i.AmountCents, &i.Currency, &i.Kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan intent: %w", err)
	}
	return &i, nil
}

const intentColumns = `id, booking_id, status, provider, provider_ref, amount_cents, currency, kind`

// CreateIntent inserts a CREATED intent row for the booking's authorization.
// Amount is the booking's price snapshot if present, else DefaultAmountCents.
func (l *Ledger) CreateIntent(ctx context.Context, q booking.Querier, b *booking.Booking) (*Intent, error) {
	amount := int64(DefaultAmountCents)
	if b.PriceSnapshotCents != nil {
		amount = *b.PriceSnapshotCents
	}

	ref, isMock, err := l.auth.Authorize(ctx, b.ID, amount)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "PAYMENT_PROVIDER_UNAVAILABLE", err)
	}
	_ = isMock

	intent := &Intent{
		ID:          ids.New(),
		BookingID:   b.ID,
		Status:      StatusCreated,
		Provider:    "STRIPE",
		ProviderRef: ref,
		AmountCents: amount,
		Currency:    Currency,
		Kind:        KindMain,
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO payment_intents (id, booking_id, status, provider, provider_ref, amount_cents, currency, kind)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, intent.ID, intent.BookingID, intent.Status, intent.Provider, intent.ProviderRef, intent.AmountCents, intent.Currency, intent.Kind); err != nil {
		return nil, fmt.Errorf("insert intent: %w", err)
	}
	return intent, nil
}

// OnAuthorizationSuccess updates the matching CREATED intent to AUTHORIZED.
// Driving the booking's PENDING_PAYMENT -> PAID_SEARCHING transition is the
// caller's (webhook handler's) responsibility, since it also needs the state
// machine and booking repo.
func (l *Ledger) OnAuthorizationSuccess(ctx context.Context, q booking.Querier, providerRef string) (*Intent, error) {
	row := q.QueryRow(ctx, `SELECT `+intentColumns+` FROM payment_intents WHERE provider_ref=$1 AND status=$2`, providerRef, StatusCreated)
	intent, err := scanIntent(row)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, apperr.New(apperr.NotFound, apperr.CodeNotFound, "no CREATED intent for provider ref")
	}
	if _, err := q.Exec(ctx, `UPDATE payment_intents SET status=$1, updated_at=now() WHERE id=$2`, StatusAuthorized, intent.ID); err != nil {
		return nil, fmt.Errorf("mark authorized: %w", err)
	}
	intent.Status = StatusAuthorized
	return intent, nil
}

// authorizedIntent locates the booking's single AUTHORIZED intent.
func (l *Ledger) authorizedIntent(ctx context.Context, q booking.Querier, bookingID string) (*Intent, error) {
	row := q.QueryRow(ctx, `SELECT `+intentColumns+` FROM payment_intents WHERE booking_id=$1 AND status=$2`, bookingID, StatusAuthorized)
	return scanIntent(row)
}

// Capture finds the booking's AUTHORIZED intent, calls the SDK unless the ref
// is a mock, and marks it SUCCEEDED. Returns a State error if none exists.
func (l *Ledger) Capture(ctx context.Context, q booking.Querier, bookingID string) (*Intent, error) {
	intent, err := l.authorizedIntent(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, apperr.New(apperr.State, apperr.CodeNoAuthorizedIntent, "no authorized intent to capture")
	}
	if !isMockRef(intent.ProviderRef) {
		if err := l.auth.Capture(ctx, intent.ProviderRef); err != nil {
			return nil, apperr.Wrap(apperr.External, apperr.CodeCaptureFailed, err)
		}
	}
	if _, err := q.Exec(ctx, `UPDATE payment_intents SET status=$1, updated_at=now() WHERE id=$2`, StatusSucceeded, intent.ID); err != nil {
		return nil, fmt.Errorf("mark captured: %w", err)
	}
	intent.Status = StatusSucceeded
	return intent, nil
}

// Release voids the booking's AUTHORIZED intent, if any. It is a no-op
// (returns nil, nil) when there is nothing to release, since cancel paths
// call it unconditionally regardless of whether payment ever authorized.
func (l *Ledger) Release(ctx context.Context, q booking.Querier, bookingID string) (*Intent, error) {
	intent, err := l.authorizedIntent(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, nil
	}
	if !isMockRef(intent.ProviderRef) {
		if err := l.auth.Void(ctx, intent.ProviderRef); err != nil {
			return nil, apperr.Wrap(apperr.External, "VOID_FAILED", err)
		}
	}
	if _, err := q.Exec(ctx, `UPDATE payment_intents SET status=$1, updated_at=now() WHERE id=$2`, StatusCancelled, intent.ID); err != nil {
		return nil, fmt.Errorf("mark released: %w", err)
	}
	intent.Status = StatusCancelled
	return intent, nil
}

// Fee appends a new SUCCEEDED intent row for the fixed cancellation fee.
func (l *Ledger) Fee(ctx context.Context, q booking.Querier, bookingID string, amountCents int64) (*Intent, error) {
	intent := &Intent{
		ID:          ids.New(),
		BookingID:   bookingID,
		Status:      StatusSucceeded,
		Provider:    "STRIPE",
		ProviderRef: "pi_fee_" + ids.New()[:12],
		AmountCents: amountCents,
		Currency:    Currency,
		Kind:        KindFee,
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO payment_intents (id, booking_id, status, provider, provider_ref, amount_cents, currency, kind)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, intent.ID, intent.BookingID, intent.Status, intent.Provider, intent.ProviderRef, intent.AmountCents, intent.Currency, intent.Kind); err != nil {
		return nil, fmt.Errorf("insert fee intent: %w", err)
	}
	return intent, nil
}

func isMockRef(ref string) bool {
	return len(ref) >= 8 && ref[:8] == "pi_mock_"
}

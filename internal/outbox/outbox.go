// Package outbox implements the notification outbox (C8): an append-only
// queue written inside the same transaction as the state change that
// triggers it. Writing is all the booking core guarantees by design; actual
// delivery is an external concern. Dispatcher (dispatch.go) is a drain
// worker that marks rows sent without performing any concrete channel
// delivery, a retry-queue architecture generalized down to a no-op sink.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crosslogic/bookingcore/internal/ids"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier mirrors internal/booking.Querier structurally so outbox can be
// handed either a *pgxpool.Pool or a pgx.Tx without importing internal/booking.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Kind enumerates the notification kinds the booking engine appends.
type Kind string

const (
	KindPaymentPending    Kind = "PAYMENT_PENDING"
	KindBookingAccepted   Kind = "BOOKING_ACCEPTED"
	KindProviderCancelled Kind = "PROVIDER_CANCELLED"
	KindCaptureFailed     Kind = "CAPTURE_FAILED"
	KindIssueFlagged      Kind = "ISSUE_FLAGGED"
	KindBookingClosed     Kind = "BOOKING_CLOSED"
	KindBookingCancelled  Kind = "BOOKING_CANCELLED"
)

// Append inserts one outbox row in the caller's transaction.
func Append(ctx context.Context, q Querier, bookingID, recipient string, kind Kind, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO notification_outbox (id, booking_id, recipient, kind, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, ids.New(), bookingID, recipient, kind, raw)
	if err != nil {
		return fmt.Errorf("append outbox row: %w", err)
	}
	return nil
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting repository
// functions run either standalone or composed inside a caller's transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ErrNotFound is returned when a booking lookup finds no row.
var ErrNotFound = errors.New("booking: not found")

// Repo is the booking table gateway.
type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

// Insert writes a newly created booking row.
func (r *Repo) Insert(ctx context.Context, q Querier, b *Booking) error {
	_, err := q.Exec(ctx, `
		INSERT INTO bookings (
			id, status, customer_id, provider_id, service_id, slot_id,
			candidate_list, otp, expires_at, complete_pending_until,
			service_name_snapshot, price_snapshot_cents, stripe_payment_intent_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, b.ID, b.Status, b.CustomerID, b.ProviderID, b.ServiceID, b.SlotID,
		b.CandidateList, b.OTP, b.ExpiresAt, b.CompletePendingUntil,
		b.ServiceNameSnapshot, b.PriceSnapshotCents, b.StripePaymentIntentID,
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Status, &b.CustomerID, &b.ProviderID, &b.ServiceID, &b.SlotID,
		&b.CandidateList, &b.OTP, &b.ExpiresAt, &b.CompletePendingUntil,
		&b.ServiceNameSnapshot, &b.PriceSnapshotCents, &b.StripePaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

const bookingColumns = `
	id, status, customer_id, provider_id, service_id, slot_id,
	candidate_list, otp, expires_at, complete_pending_until,
	service_name_snapshot, price_snapshot_cents, stripe_payment_intent_id,
	created_at, updated_at`

// Get reads a booking without locking it, for read-only endpoints.
func (r *Repo) Get(ctx context.Context, q Querier, id string) (*Booking, error) {
	row := q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

// GetForUpdate locks the booking row for the duration of the caller's
// transaction. This is the mechanism that serializes concurrent mutators per
// booking and makes "first accept wins" correct.
func (r *Repo) GetForUpdate(ctx context.Context, q Querier, id string) (*Booking, error) {
	row := q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	return scanBooking(row)
}

// CompareAndSetStatus performs the conditional update that defends against a
// bypassed row lock: it only succeeds if the row is still in fromStatus.
func (r *Repo) CompareAndSetStatus(ctx context.Context, q Querier, id string, fromStatus, toStatus Status) (bool, error) {
	tag, err := q.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`, toStatus, id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("compare-and-set status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AcceptWinner performs accept's conditional update: set status=ACCEPTED and
// provider_id=uid, guarded on the row still being PAID_SEARCHING.
func (r *Repo) AcceptWinner(ctx context.Context, q Querier, id, providerID string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET status=$1, provider_id=$2, updated_at=now()
		WHERE id=$3 AND status=$4
	`, StatusAccepted, providerID, id, StatusPaidSearching)
	if err != nil {
		return false, fmt.Errorf("accept winner: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReDispatch clears provider_id and returns the booking to PAID_SEARCHING,
// guarded on the row still belonging to providerID and being in fromStatus.
func (r *Repo) ReDispatch(ctx context.Context, q Querier, id, providerID string, fromStatus Status) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET status=$1, provider_id=NULL, updated_at=now()
		WHERE id=$2 AND status=$3 AND provider_id=$4
	`, StatusPaidSearching, id, fromStatus, providerID)
	if err != nil {
		return false, fmt.Errorf("re-dispatch: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetCompletePending transitions to COMPLETE_PENDING and sets the grace
// deadline in one statement.
func (r *Repo) SetCompletePending(ctx context.Context, q Querier, id string, fromStatus Status, graceUntil interface{}) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET status=$1, complete_pending_until=$2, updated_at=now()
		WHERE id=$3 AND status=$4
	`, StatusCompletePending, graceUntil, id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("set complete pending: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertEvent appends an audit row in the caller's transaction.
func (r *Repo) InsertEvent(ctx context.Context, q Querier, e *Event) error {
	_, err := q.Exec(ctx, `
		INSERT INTO booking_events (id, booking_id, event_type, from_status, to_status, actor_role, actor_uid, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.BookingID, e.EventType, e.FromStatus, e.ToStatus, e.ActorRole, e.ActorUID, e.Reason, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

// GetService reads the static catalogue entry for serviceID. Returns
// ErrNotFound-tolerant nil when absent, per the "null-tolerant" lookup
// at creation time.
func (r *Repo) GetService(ctx context.Context, q Querier, serviceID string) (*Service, error) {
	row := q.QueryRow(ctx, `SELECT id, category, name, price_cents, is_active FROM services WHERE id=$1`, serviceID)
	var s Service
	err := row.Scan(&s.ID, &s.Category, &s.Name, &s.PriceCents, &s.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// CandidateProviders returns up to MaxCandidates online provider user uids
// offering serviceID, ordered by provider creation time, deterministic and
// stable within the transaction.
func (r *Repo) CandidateProviders(ctx context.Context, q Querier, serviceID string) ([]string, error) {
	rows, err := q.Query(ctx, `
		SELECT p.user_uid FROM providers p
		JOIN provider_services ps ON ps.provider_id = p.id
		WHERE ps.service_id = $1 AND p.is_online = true
		ORDER BY p.created_at ASC
		LIMIT $2
	`, serviceID, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("candidate providers: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// ListFilter narrows ListForCustomer/ListForProvider queries.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

// ListForCustomer returns bookings owned by customerID, newest first.
func (r *Repo) ListForCustomer(ctx context.Context, q Querier, customerID string, f ListFilter) ([]*Booking, error) {
	return r.list(ctx, q, `customer_id=$1`, customerID, f)
}

// ListForProvider returns bookings currently assigned to providerUID.
func (r *Repo) ListForProvider(ctx context.Context, q Querier, providerUID string, f ListFilter) ([]*Booking, error) {
	return r.list(ctx, q, `provider_id=$1`, providerUID, f)
}

func (r *Repo) list(ctx context.Context, q Querier, predicate string, arg string, f ListFilter) ([]*Booking, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + predicate
	args := []interface{}{arg}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status=$%d`, len(args)+1)
		args = append(args, f.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

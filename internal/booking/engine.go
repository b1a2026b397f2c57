package booking

import (
	"context"
	"crypto/subtle"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/crosslogic/bookingcore/internal/clock"
	"github.com/crosslogic/bookingcore/internal/ids"
	"github.com/crosslogic/bookingcore/internal/outbox"
	"github.com/crosslogic/bookingcore/internal/payment"
	"github.com/crosslogic/bookingcore/internal/store"
	"github.com/jackc/pgx/v5"
)

// Engine implements every C6 operation: create, atomic accept, guarded
// transitions, completion with capture, cancellation, provider re-dispatch,
// and issue flagging.
type Engine struct {
	store    *store.Store
	repo     *Repo
	payments *payment.Ledger
	clock    clock.Clock
}

func NewEngine(st *store.Store, repo *Repo, payments *payment.Ledger, clk clock.Clock) *Engine {
	return &Engine{store: st, repo: repo, payments: payments, clock: clk}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (e *Engine) appendEvent(ctx context.Context, tx pgx.Tx, bookingID, eventType string, from, to Status, role Role, uid, reason string) error {
	return e.repo.InsertEvent(ctx, tx, &Event{
		ID:         ids.New(),
		BookingID:  bookingID,
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   to,
		ActorRole:  role,
		ActorUID:   uid,
		Reason:     reason,
		CreatedAt:  e.clock.Now(),
	})
}

// Pay implements the /bookings/:id/pay endpoint's transactional body:
// createIntent for a booking still awaiting payment.
func (e *Engine) Pay(ctx context.Context, bookingID, customerUID string) (*payment.Intent, error) {
	var result *payment.Intent
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if b.CustomerID != customerUID {
			return apperr.New(apperr.Authorization, apperr.CodeOwnershipMismatch, "booking does not belong to caller")
		}
		if b.Status != StatusPendingPayment {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "booking is not awaiting payment")
		}

		intent, err := e.payments.CreateIntent(ctx, tx, b)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE bookings SET stripe_payment_intent_id=$1, updated_at=now() WHERE id=$2`, intent.ProviderRef, bookingID); err != nil {
			return err
		}
		result = intent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyAuthorizationSuccess marks the matching intent AUTHORIZED and drives
// PENDING_PAYMENT -> PAID_SEARCHING. It takes the caller's tx directly rather
// than opening its own, since it composes inside the webhook ledger's
// transaction.
func (e *Engine) ApplyAuthorizationSuccess(ctx context.Context, tx pgx.Tx, providerRef string) error {
	intent, err := e.payments.OnAuthorizationSuccess(ctx, tx, providerRef)
	if err != nil {
		return err
	}

	b, err := e.repo.GetForUpdate(ctx, tx, intent.BookingID)
	if err != nil {
		return lookupErr(err)
	}
	if b.Status != StatusPendingPayment {
		// Already advanced (duplicate webhook raced past the ledger's own
		// dedupe, or a replay after manual intervention); nothing to do.
		return nil
	}
	if !CanTransition(b.Status, StatusPaidSearching, RoleSystem) {
		return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
	}

	ok, err := e.repo.CompareAndSetStatus(ctx, tx, b.ID, StatusPendingPayment, StatusPaidSearching)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return e.appendEvent(ctx, tx, b.ID, "payment_authorized", StatusPendingPayment, StatusPaidSearching, RoleSystem, "", "")
}

// Create implements booking creation.
func (e *Engine) Create(ctx context.Context, customerUID, serviceID, slotID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		svc, err := e.repo.GetService(ctx, tx, serviceID)
		if err != nil {
			return err
		}

		candidates, err := e.repo.CandidateProviders(ctx, tx, serviceID)
		if err != nil {
			return err
		}

		otp, err := ids.NewOTP()
		if err != nil {
			return apperr.Wrap(apperr.External, "OTP_GENERATION_FAILED", err)
		}

		now := e.clock.Now()
		b := &Booking{
			ID:            ids.New(),
			Status:        StatusPendingPayment,
			CustomerID:    customerUID,
			ServiceID:     serviceID,
			SlotID:        slotID,
			CandidateList: candidates,
			OTP:           otp,
			ExpiresAt:     now.Add(DefaultPendingPaymentTTL),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if svc != nil {
			name := svc.Name
			price := svc.PriceCents
			b.ServiceNameSnapshot = &name
			b.PriceSnapshotCents = &price
		}

		if err := e.repo.Insert(ctx, tx, b); err != nil {
			return err
		}
		if err := e.appendEvent(ctx, tx, b.ID, "create_booking", "", StatusPendingPayment, RoleUser, customerUID, ""); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Accept is the central concurrency-critical operation: exactly one winner.
// Exactly one concurrent caller succeeds for any given booking.
func (e *Engine) Accept(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}

		if b.Status != StatusPaidSearching {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "booking is not searching for a provider")
		}
		if b.ProviderID != nil && *b.ProviderID != providerUID {
			return apperr.New(apperr.State, apperr.CodeOwnedByOtherProvider, "booking already claimed")
		}
		if !contains(b.CandidateList, providerUID) {
			return apperr.New(apperr.State, apperr.CodeNotCandidate, "provider is not a candidate for this booking")
		}
		if !CanTransition(b.Status, StatusAccepted, RoleProvider) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		ok, err := e.repo.AcceptWinner(ctx, tx, bookingID, providerUID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed before accept committed")
		}

		if err := e.appendEvent(ctx, tx, bookingID, "accept", StatusPaidSearching, StatusAccepted, RoleProvider, providerUID, ""); err != nil {
			return err
		}
		if err := outbox.Append(ctx, tx, bookingID, b.CustomerID, outbox.KindBookingAccepted, map[string]any{"provider_uid": providerUID}); err != nil {
			return err
		}

		b.Status = StatusAccepted
		b.ProviderID = &providerUID
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// transitionAsProvider implements the shared lock/verify/update/log pattern
// used by travel and arrived, where the assigned provider is the only legal
// actor and no extra semantic gate applies.
func (e *Engine) transitionAsProvider(ctx context.Context, bookingID, providerUID string, to Status, eventType string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if err := requireAssignedProvider(b, providerUID); err != nil {
			return err
		}
		if !CanTransition(b.Status, to, RoleProvider) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		ok, err := e.repo.CompareAndSetStatus(ctx, tx, bookingID, b.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, eventType, b.Status, to, RoleProvider, providerUID, ""); err != nil {
			return err
		}

		b.Status = to
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Travel moves ACCEPTED -> EN_ROUTE.
func (e *Engine) Travel(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	return e.transitionAsProvider(ctx, bookingID, providerUID, StatusEnRoute, "travel")
}

// Arrived moves EN_ROUTE -> ARRIVED.
func (e *Engine) Arrived(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	return e.transitionAsProvider(ctx, bookingID, providerUID, StatusArrived, "arrived")
}

// Start moves ARRIVED -> IN_PROGRESS, gated on the customer-supplied OTP
// matching the stored one via a constant-time comparison.
func (e *Engine) Start(ctx context.Context, bookingID, providerUID, otp string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if err := requireAssignedProvider(b, providerUID); err != nil {
			return err
		}
		if !CanTransition(b.Status, StatusInProgress, RoleProvider) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}
		if subtle.ConstantTimeCompare([]byte(otp), []byte(b.OTP)) != 1 {
			return apperr.New(apperr.State, apperr.CodeInvalidOTP, "otp does not match")
		}

		ok, err := e.repo.CompareAndSetStatus(ctx, tx, bookingID, b.Status, StatusInProgress)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "start", b.Status, StatusInProgress, RoleProvider, providerUID, ""); err != nil {
			return err
		}

		b.Status = StatusInProgress
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProviderCancel re-dispatches a booking back to the candidate pool. Permitted
// from ACCEPTED or EN_ROUTE by the assigned provider; provider_id is cleared,
// candidate list preserved, a PROVIDER_CANCELLED outbox notification is
// appended.
func (e *Engine) ProviderCancel(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if err := requireAssignedProvider(b, providerUID); err != nil {
			return err
		}
		if !CanTransition(b.Status, StatusPaidSearching, RoleProvider) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		ok, err := e.repo.ReDispatch(ctx, tx, bookingID, providerUID, b.Status)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "provider_cancel", b.Status, StatusPaidSearching, RoleProvider, providerUID, ""); err != nil {
			return err
		}
		if err := outbox.Append(ctx, tx, bookingID, b.CustomerID, outbox.KindProviderCancelled, nil); err != nil {
			return err
		}

		b.Status = StatusPaidSearching
		b.ProviderID = nil
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteWithCapture is the single-step completion flow: capture first, then
// transition to COMPLETE_PENDING. A capture failure is recorded
// and the transaction still commits so the audit trail persists; the booking
// stays IN_PROGRESS and the caller may safely retry by calling complete again.
func (e *Engine) CompleteWithCapture(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	var result *Booking
	var captureFailed bool
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if err := requireAssignedProvider(b, providerUID); err != nil {
			return err
		}
		if b.Status != StatusInProgress {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "booking is not in progress")
		}

		if _, err := e.payments.Capture(ctx, tx, bookingID); err != nil {
			captureFailed = true
			if err := e.appendEvent(ctx, tx, bookingID, "capture_failed", b.Status, b.Status, RoleProvider, providerUID, err.Error()); err != nil {
				return err
			}
			if err := outbox.Append(ctx, tx, bookingID, b.CustomerID, outbox.KindCaptureFailed, nil); err != nil {
				return err
			}
			result = b
			return nil
		}

		graceUntil := e.clock.Now().Add(GraceWindow)
		ok, err := e.repo.SetCompletePending(ctx, tx, bookingID, b.Status, graceUntil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "complete", b.Status, StatusCompletePending, RoleProvider, providerUID, ""); err != nil {
			return err
		}

		b.Status = StatusCompletePending
		b.CompletePendingUntil = &graceUntil
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if captureFailed {
		return result, apperr.New(apperr.Conflict, apperr.CodeCaptureFailed, "capture failed, booking remains in progress")
	}
	return result, nil
}

// ProviderComplete implements the two-step flow's first half: transition to
// COMPLETE_PENDING without capturing payment.
func (e *Engine) ProviderComplete(ctx context.Context, bookingID, providerUID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if err := requireAssignedProvider(b, providerUID); err != nil {
			return err
		}
		if !CanTransition(b.Status, StatusCompletePending, RoleProvider) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		graceUntil := e.clock.Now().Add(GraceWindow)
		ok, err := e.repo.SetCompletePending(ctx, tx, bookingID, b.Status, graceUntil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "provider_complete", b.Status, StatusCompletePending, RoleProvider, providerUID, ""); err != nil {
			return err
		}

		b.Status = StatusCompletePending
		b.CompletePendingUntil = &graceUntil
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmComplete implements the two-step flow's second half: the customer
// triggers capture and closes the booking. Idempotent once already CLOSED.
func (e *Engine) ConfirmComplete(ctx context.Context, bookingID, customerUID string) (*Booking, error) {
	var result *Booking
	var captureFailed bool
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if b.Status == StatusClosed {
			result = b
			return nil
		}
		if b.CustomerID != customerUID {
			return apperr.New(apperr.Authorization, apperr.CodeOwnershipMismatch, "booking does not belong to caller")
		}
		if b.Status != StatusCompletePending {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "booking is not awaiting confirmation")
		}

		if err := e.captureAndClose(ctx, tx, b); err != nil {
			if apperr.IsKind(err, apperr.Conflict) {
				captureFailed = true
				result = b
				return nil
			}
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if captureFailed {
		return result, apperr.New(apperr.Conflict, apperr.CodeCaptureFailed, "capture failed, booking remains pending confirmation")
	}
	return result, nil
}

// captureAndClose captures the booking's AUTHORIZED intent if one still
// exists (the two-step flow never captured yet) and transitions to CLOSED. If
// no AUTHORIZED intent exists, the single-step flow already captured before
// entering COMPLETE_PENDING, so this only performs the status transition.
// Mutates b on success.
func (e *Engine) captureAndClose(ctx context.Context, tx pgx.Tx, b *Booking) error {
	_, err := e.payments.Capture(ctx, tx, b.ID)
	if err != nil && !apperr.IsKind(err, apperr.State) {
		return apperr.New(apperr.Conflict, apperr.CodeCaptureFailed, "capture failed")
	}
	// apperr.State here means CodeNoAuthorizedIntent: already captured earlier.

	ok, caErr := e.repo.CompareAndSetStatus(ctx, tx, b.ID, b.Status, StatusClosed)
	if caErr != nil {
		return caErr
	}
	if !ok {
		return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
	}
	if err := e.appendEvent(ctx, tx, b.ID, "confirm_complete", b.Status, StatusClosed, RoleUser, b.CustomerID, ""); err != nil {
		return err
	}
	if err := outbox.Append(ctx, tx, b.ID, b.CustomerID, outbox.KindBookingClosed, nil); err != nil {
		return err
	}
	b.Status = StatusClosed
	return nil
}

// Cancel implements cancellation.
func (e *Engine) Cancel(ctx context.Context, bookingID string, role Role, actorUID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if role == RoleUser && b.CustomerID != actorUID {
			return apperr.New(apperr.Authorization, apperr.CodeOwnershipMismatch, "booking does not belong to caller")
		}
		if role == RoleProvider {
			if err := requireAssignedProvider(b, actorUID); err != nil {
				return err
			}
		}
		if !CanTransition(b.Status, StatusCancelled, role) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		feeRequired := role == RoleUser && (b.Status == StatusEnRoute || b.Status == StatusArrived)

		if _, err := e.payments.Release(ctx, tx, bookingID); err != nil {
			return err
		}
		if feeRequired {
			if _, err := e.payments.Fee(ctx, tx, bookingID, CancellationFeeCents); err != nil {
				return err
			}
		}

		ok, err := e.repo.CompareAndSetStatus(ctx, tx, bookingID, b.Status, StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "cancel", b.Status, StatusCancelled, role, actorUID, ""); err != nil {
			return err
		}
		if err := outbox.Append(ctx, tx, bookingID, b.CustomerID, outbox.KindBookingCancelled, nil); err != nil {
			return err
		}

		b.Status = StatusCancelled
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IssueFlag implements issue flagging.
func (e *Engine) IssueFlag(ctx context.Context, bookingID, customerUID, reason string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if b.CustomerID != customerUID {
			return apperr.New(apperr.Authorization, apperr.CodeOwnershipMismatch, "booking does not belong to caller")
		}
		if b.Status != StatusCompletePending {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "booking is not awaiting confirmation")
		}
		if b.CompletePendingUntil == nil || e.clock.Now().After(*b.CompletePendingUntil) {
			return apperr.New(apperr.State, apperr.CodeGraceExpired, "grace window closed")
		}
		if !CanTransition(b.Status, StatusNeedsReview, RoleUser) {
			return apperr.New(apperr.State, apperr.CodeInvalidTransition, "transition not permitted")
		}

		ok, err := e.repo.CompareAndSetStatus(ctx, tx, bookingID, b.Status, StatusNeedsReview)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.State, apperr.CodeStatusDrift, "booking status changed concurrently")
		}
		if err := e.appendEvent(ctx, tx, bookingID, "issue_flag", b.Status, StatusNeedsReview, RoleUser, customerUID, reason); err != nil {
			return err
		}
		if err := outbox.Append(ctx, tx, bookingID, "admin", outbox.KindIssueFlagged, map[string]any{"reason": reason}); err != nil {
			return err
		}

		b.Status = StatusNeedsReview
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get reads a booking, lazily closing an expired grace window before
// returning it, per the lazy-check half of the grace-window design decision.
func (e *Engine) Get(ctx context.Context, bookingID string) (*Booking, error) {
	b, err := e.repo.Get(ctx, e.store.Pool(), bookingID)
	if err != nil {
		return nil, lookupErr(err)
	}
	if b.Status == StatusCompletePending && b.CompletePendingUntil != nil && e.clock.Now().After(*b.CompletePendingUntil) {
		closed, closeErr := e.closeExpiredGraceOne(ctx, bookingID)
		if closeErr == nil && closed != nil {
			return closed, nil
		}
	}
	return b, nil
}

// closeExpiredGraceOne re-locks and closes a single grace-expired booking,
// shared by Get's lazy check and the sweeper's scheduled pass.
func (e *Engine) closeExpiredGraceOne(ctx context.Context, bookingID string) (*Booking, error) {
	var result *Booking
	err := e.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		b, err := e.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return lookupErr(err)
		}
		if b.Status != StatusCompletePending || b.CompletePendingUntil == nil || !e.clock.Now().After(*b.CompletePendingUntil) {
			result = b
			return nil
		}
		if err := e.captureAndClose(ctx, tx, b); err != nil {
			// Leave the booking as-is; a later sweep or confirm-complete retries.
			result = b
			return nil
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListForCustomer and ListForProvider expose the read endpoints backing
// GET /bookings and GET /bookings/claimed.
func (e *Engine) ListForCustomer(ctx context.Context, customerUID string, f ListFilter) ([]*Booking, error) {
	return e.repo.ListForCustomer(ctx, e.store.Pool(), customerUID, f)
}

func (e *Engine) ListForProvider(ctx context.Context, providerUID string, f ListFilter) ([]*Booking, error) {
	return e.repo.ListForProvider(ctx, e.store.Pool(), providerUID, f)
}

func requireAssignedProvider(b *Booking, providerUID string) error {
	if b.ProviderID == nil || *b.ProviderID != providerUID {
		return apperr.New(apperr.State, apperr.CodeOwnedByOtherProvider, "booking is not assigned to this provider")
	}
	return nil
}

func lookupErr(err error) error {
	if err == ErrNotFound {
		return apperr.New(apperr.NotFound, apperr.CodeNotFound, "booking not found")
	}
	return err
}

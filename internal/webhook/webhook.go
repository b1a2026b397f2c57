// Package webhook implements the idempotency ledger (C5): processEvent
// guarantees a handler runs at most once successfully per (provider, event_id),
// with duplicates returned as DUPLICATE and failures recorded as FAILED and
// retriable. Uses a two-layer reservation (Redis SetNX ahead of the DB row
// lock) that guards the handler-invocation window against two webhook-handler
// replicas racing before either reaches the database transaction.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crosslogic/bookingcore/pkg/cache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Outcome is the result of processing one webhook delivery.
type Outcome string

const (
	OutcomeProcessed Outcome = "PROCESSED"
	OutcomeDuplicate Outcome = "DUPLICATE"
	OutcomeFailed    Outcome = "FAILED"
)

// Status is the ledger row's persisted state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

const (
	processingLockTTL = 5 * time.Minute
	processedCacheTTL = 24 * time.Hour
)

// Handler executes the side effects for one webhook payload. Returning an
// error marks the ledger row FAILED and is retriable on a future delivery.
type Handler func(ctx context.Context, tx pgx.Tx, payload []byte) error

// Ledger is the webhook idempotency store.
type Ledger struct {
	pool   *pgxpool.Pool
	cache  *cache.Cache
	logger *zap.Logger
}

func New(pool *pgxpool.Pool, c *cache.Cache, logger *zap.Logger) *Ledger {
	return &Ledger{pool: pool, cache: c, logger: logger}
}

// ErrHandlerFailed wraps a handler's error so callers can distinguish a
// recorded-but-retriable failure from a ledger/infrastructure error.
type ErrHandlerFailed struct{ Err error }

func (e *ErrHandlerFailed) Error() string { return "webhook handler failed: " + e.Err.Error() }
func (e *ErrHandlerFailed) Unwrap() error { return e.Err }

// ProcessEvent runs handler at most once for (provider, eventID): reserve in
// Redis, lock-and-check the ledger row inside a transaction, upsert PENDING,
// run the handler, finalize to PROCESSED or FAILED.
func (l *Ledger) ProcessEvent(ctx context.Context, provider, eventID string, payload []byte, handler Handler) (Outcome, error) {
	reserved, err := l.reserve(ctx, provider, eventID)
	if err != nil {
		l.logger.Warn("webhook reservation unavailable, falling back to DB lock only", zap.Error(err))
	} else if !reserved {
		return OutcomeDuplicate, nil
	}
	defer l.release(ctx, provider, eventID)

	var outcome Outcome
	var handlerErr *ErrHandlerFailed
	txErr := pgxTx(ctx, l.pool, func(ctx context.Context, tx pgx.Tx) error {
		var status Status
		row := tx.QueryRow(ctx, `SELECT status FROM webhook_events WHERE provider=$1 AND event_id=$2 FOR UPDATE`, provider, eventID)
		err := row.Scan(&status)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// first delivery, fall through to upsert PENDING below.
		case err != nil:
			return fmt.Errorf("lock webhook event: %w", err)
		case status == StatusProcessed:
			outcome = OutcomeDuplicate
			return nil
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO webhook_events (provider, event_id, status, payload, last_seen_at)
			VALUES ($1,$2,$3,$4,now())
			ON CONFLICT (provider, event_id) DO UPDATE SET status=$3, payload=$4, last_seen_at=now()
		`, provider, eventID, StatusPending, payload); err != nil {
			return fmt.Errorf("upsert pending webhook event: %w", err)
		}

		// The handler runs under a savepoint so its writes are undone on
		// failure while the FAILED mark still commits.
		sp, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin handler savepoint: %w", err)
		}
		if err := handler(ctx, sp, payload); err != nil {
			_ = sp.Rollback(ctx)
			if _, dbErr := tx.Exec(ctx, `UPDATE webhook_events SET status=$1 WHERE provider=$2 AND event_id=$3`, StatusFailed, provider, eventID); dbErr != nil {
				return fmt.Errorf("mark failed: %w (handler error: %v)", dbErr, err)
			}
			handlerErr = &ErrHandlerFailed{Err: err}
			return nil
		}
		if err := sp.Commit(ctx); err != nil {
			return fmt.Errorf("release handler savepoint: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE webhook_events SET status=$1 WHERE provider=$2 AND event_id=$3`, StatusProcessed, provider, eventID); err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		outcome = OutcomeProcessed
		return nil
	})

	if txErr != nil {
		var hf *ErrHandlerFailed
		if errors.As(txErr, &hf) {
			return OutcomeFailed, hf.Err
		}
		return "", txErr
	}
	if handlerErr != nil {
		return OutcomeFailed, handlerErr.Err
	}
	return outcome, nil
}

func (l *Ledger) reserve(ctx context.Context, provider, eventID string) (bool, error) {
	if l.cache == nil {
		return true, nil
	}
	key := "webhook:processing:" + provider + ":" + eventID
	return l.cache.SetNX(ctx, key, "1", processingLockTTL)
}

func (l *Ledger) release(ctx context.Context, provider, eventID string) {
	if l.cache == nil {
		return
	}
	key := "webhook:processing:" + provider + ":" + eventID
	_ = l.cache.Delete(ctx, key)
}

// pgxTx is a small local helper mirroring internal/store.WithTx, kept local
// to avoid an import cycle (internal/store is domain-agnostic and does not
// need to know about webhooks).
func pgxTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()
	defer tx.Rollback(ctx) //nolint:errcheck

	if err = fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

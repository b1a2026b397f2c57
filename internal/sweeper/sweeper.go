// Package sweeper implements the TTL sweeper (C7): expiring stale
// PENDING_PAYMENT bookings after 24 hours, and closing COMPLETE_PENDING
// bookings whose grace window has lapsed. Both passes are safe to run
// concurrently with mutators because the terminal transition is a
// conditional UPDATE on current status.
package sweeper

import (
	"context"
	"time"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Sweeper runs the two periodic passes against the shared store.
type Sweeper struct {
	pool   *pgxpool.Pool
	engine *booking.Engine
	repo   *booking.Repo
	logger *zap.Logger
}

func New(pool *pgxpool.Pool, engine *booking.Engine, repo *booking.Repo, logger *zap.Logger) *Sweeper {
	return &Sweeper{pool: pool, engine: engine, repo: repo, logger: logger}
}

// SweepExpired moves every booking with status='PENDING_PAYMENT' AND
// created_at < now - 24h to EXPIRED.
// Returns the count of affected rows.
func (s *Sweeper) SweepExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bookings
		SET status=$1, updated_at=now()
		WHERE status=$2 AND created_at < now() - interval '24 hours'
	`, booking.StatusExpired, booking.StatusPendingPayment)
	if err != nil {
		return 0, err
	}
	n := int(tag.RowsAffected())
	if n > 0 {
		s.logger.Info("swept expired bookings", zap.Int("count", n))
	}
	return n, nil
}

// CloseExpiredGrace is the scheduled half of the grace-window design
// decision: bookings sitting in COMPLETE_PENDING past complete_pending_until
// are closed (capturing any still-AUTHORIZED intent) without waiting for a
// subsequent read or confirm-complete call.
func (s *Sweeper) CloseExpiredGrace(ctx context.Context) (int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM bookings
		WHERE status=$1 AND complete_pending_until IS NOT NULL AND complete_pending_until < now()
	`, booking.StatusCompletePending)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		b, err := s.engine.Get(ctx, id)
		if err != nil {
			s.logger.Warn("grace-close failed for booking", zap.String("booking_id", id), zap.Error(err))
			continue
		}
		if b.Status == booking.StatusClosed {
			closed++
		}
	}
	if closed > 0 {
		s.logger.Info("closed grace-expired bookings", zap.Int("count", closed))
	}
	return closed, nil
}

// RunTickerLoop runs both passes on a fixed interval until ctx is cancelled.
// This is the Redis-independent fallback to the asynq-scheduled cron jobs.
func (s *Sweeper) RunTickerLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.Error("sweep expired failed", zap.Error(err))
			}
			if _, err := s.CloseExpiredGrace(ctx); err != nil {
				s.logger.Error("close expired grace failed", zap.Error(err))
			}
		}
	}
}

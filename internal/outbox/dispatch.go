package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Dispatcher periodically drains undispatched outbox rows. It performs no
// concrete channel delivery (discord/slack/email adapters are out of scope):
// it only stamps dispatched_at on pending rows and deletes nothing, so every
// row stays in the table as an audit trail. It gives the asynq consumer a
// real task to run without reimplementing delivery channels.
type Dispatcher struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	batch  int
}

func NewDispatcher(pool *pgxpool.Pool, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{pool: pool, logger: logger, batch: 100}
}

// DrainOnce marks up to Dispatcher.batch undispatched rows as dispatched and
// returns how many were marked.
func (d *Dispatcher) DrainOnce(ctx context.Context) (int, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE notification_outbox
		SET dispatched_at = now()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE dispatched_at IS NULL
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
	`, d.batch)
	if err != nil {
		return 0, fmt.Errorf("drain outbox: %w", err)
	}
	n := int(tag.RowsAffected())
	if n > 0 {
		d.logger.Info("dispatched outbox rows", zap.Int("count", n))
	}
	return n, nil
}

// RunTickerLoop runs DrainOnce on a fixed interval until ctx is cancelled.
// Used as the Redis-independent fallback to the asynq-scheduled dispatch task.
func (d *Dispatcher) RunTickerLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DrainOnce(ctx); err != nil {
				d.logger.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

package sweeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task type names registered with asynq, grounded on
// duclm31099-bookstore-backend's shared.Type* task-name constants.
const (
	TaskSweepExpired      = "sweeper:sweep_expired"
	TaskCloseExpiredGrace = "sweeper:close_expired_grace"
	TaskDispatchOutbox    = "sweeper:dispatch_outbox"
)

// Schedule registers the sweeper's two cron jobs plus the outbox dispatch job
// with an asynq.Scheduler, grounded on
// duclm31099-bookstore-backend/internal/infrastructure/queue/schedulers.go's
// RegisterCleanupJobs pattern.
type Schedule struct {
	scheduler *asynq.Scheduler
}

func NewSchedule(redisAddr string) *Schedule {
	return &Schedule{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr},
			&asynq.SchedulerOpts{Location: time.UTC, LogLevel: asynq.InfoLevel},
		),
	}
}

// Register wires both sweeper passes and the outbox drain onto 5-minute cron
// schedules.
func (s *Schedule) Register() error {
	jobs := []struct {
		cron string
		task string
	}{
		{"*/5 * * * *", TaskSweepExpired},
		{"*/5 * * * *", TaskCloseExpiredGrace},
		{"*/5 * * * *", TaskDispatchOutbox},
	}
	for _, j := range jobs {
		payload, err := json.Marshal(map[string]any{})
		if err != nil {
			return fmt.Errorf("marshal payload for %s: %w", j.task, err)
		}
		if _, err := s.scheduler.Register(j.cron, asynq.NewTask(j.task, payload), asynq.MaxRetry(2), asynq.Timeout(2*time.Minute)); err != nil {
			return fmt.Errorf("register %s: %w", j.task, err)
		}
	}
	return nil
}

func (s *Schedule) Start() error { return s.scheduler.Run() }
func (s *Schedule) Shutdown()    { s.scheduler.Shutdown() }

// NewServeMux wires the task handlers an asynq.Server dispatches to: the two
// sweeper passes and the outbox dispatcher.
func NewServeMux(sweep *Sweeper, dispatchOnce func(ctx context.Context) (int, error), logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSweepExpired, func(ctx context.Context, t *asynq.Task) error {
		n, err := sweep.SweepExpired(ctx)
		if err != nil {
			return err
		}
		logger.Info("asynq sweep_expired", zap.Int("count", n))
		return nil
	})
	mux.HandleFunc(TaskCloseExpiredGrace, func(ctx context.Context, t *asynq.Task) error {
		n, err := sweep.CloseExpiredGrace(ctx)
		if err != nil {
			return err
		}
		logger.Info("asynq close_expired_grace", zap.Int("count", n))
		return nil
	})
	mux.HandleFunc(TaskDispatchOutbox, func(ctx context.Context, t *asynq.Task) error {
		n, err := dispatchOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info("asynq dispatch_outbox", zap.Int("count", n))
		return nil
	})
	return mux
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/crosslogic/bookingcore/internal/clock"
	"github.com/crosslogic/bookingcore/internal/config"
	"github.com/crosslogic/bookingcore/internal/httpapi"
	"github.com/crosslogic/bookingcore/internal/logging"
	"github.com/crosslogic/bookingcore/internal/outbox"
	"github.com/crosslogic/bookingcore/internal/payment"
	"github.com/crosslogic/bookingcore/internal/store"
	"github.com/crosslogic/bookingcore/internal/sweeper"
	"github.com/crosslogic/bookingcore/internal/webhook"
	"github.com/crosslogic/bookingcore/pkg/cache"
	"github.com/crosslogic/bookingcore/pkg/database"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting booking core", zap.String("env", cfg.Env))

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to database")

	redisCache := cache.New(cfg.Redis)
	defer redisCache.Close()
	logger.Info("connected to redis")

	st := store.New(db)
	if err := st.Migrate(context.Background(), "migrations"); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	logger.Info("applied migrations")

	var authorizer payment.Authorizer
	if cfg.Payment.StripeSecretKey != "" {
		authorizer = payment.NewStripeAuthorizer(cfg.Payment.StripeSecretKey)
		logger.Info("payment authorizer: stripe")
	} else {
		authorizer = payment.NewMockAuthorizer()
		logger.Warn("STRIPE_SECRET_KEY not set; using mock payment authorizer")
	}
	payments := payment.New(authorizer)

	webhookLedger := webhook.New(db.Pool, redisCache, logger)

	repo := booking.NewRepo()
	engine := booking.NewEngine(st, repo, payments, clock.Real{})

	sweep := sweeper.New(db.Pool, engine, repo, logger)
	dispatcher := outbox.NewDispatcher(db.Pool, logger)

	schedule := sweeper.NewSchedule(cfg.Redis.Addr)
	if err := schedule.Register(); err != nil {
		logger.Fatal("failed to register scheduled jobs", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := schedule.Start(); err != nil {
			logger.Error("asynq scheduler stopped", zap.Error(err))
		}
	}()
	defer schedule.Shutdown()

	mux := sweeper.NewServeMux(sweep, dispatcher.DrainOnce, logger)
	asynqSrv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr},
		asynq.Config{Concurrency: 5, Logger: nil},
	)
	go func() {
		if err := asynqSrv.Run(mux); err != nil {
			logger.Error("asynq server stopped", zap.Error(err))
		}
	}()
	defer asynqSrv.Shutdown()

	logger.Info("started sweeper and outbox scheduled jobs")

	auth := httpapi.NewAuthenticator(cfg.Security.JWTSecret, cfg.Security.DevFallbackOK, cfg.Security.AdminAPIToken)

	router := httpapi.NewRouter(httpapi.Deps{
		Pool:               db.Pool,
		Engine:             engine,
		Ledger:             webhookLedger,
		Auth:               auth,
		Logger:             logger,
		Sweep:              sweep.SweepExpired,
		WebhookSecret:      cfg.Payment.StripeWebhookSecret,
		WebhookDevFallback: cfg.Payment.DevWebhookFallbackSecret,
		IsProduction:       cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

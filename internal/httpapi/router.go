package httpapi

import (
	"context"
	"time"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/crosslogic/bookingcore/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps collects everything the router needs to mount the booking core's
// external contract.
type Deps struct {
	Pool               *pgxpool.Pool
	Engine             *booking.Engine
	Ledger             *webhook.Ledger
	Auth               *Authenticator
	Logger             *zap.Logger
	Sweep              func(ctx context.Context) (int, error)
	WebhookSecret      string
	WebhookDevFallback string
	IsProduction       bool
	AllowedOrigins     []string
}

// NewRouter builds the chi.Mux for the booking core: standard middleware
// first, then public, authenticated, and admin route groups.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(d.Logger))
	r.Use(middleware.Timeout(60 * time.Second))

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token", "X-Debug-Uid", "X-Debug-Role"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	svc := &serviceHandlers{pool: d.Pool}
	bh := &bookingHandlers{engine: d.Engine}
	wh := &webhookHandlers{
		ledger:            d.Ledger,
		engine:            d.Engine,
		secret:            d.WebhookSecret,
		devFallbackSecret: d.WebhookDevFallback,
		isProduction:      d.IsProduction,
	}
	ah := &adminHandlers{sweep: d.Sweep}

	// === PUBLIC ENDPOINTS (no auth) ===
	r.Get("/healthz", healthzHandler(d.Pool))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/services", svc.list)
	r.Post("/v1/webhooks/{provider}", wh.handle)

	// === USER/PROVIDER/ADMIN APIs (Bearer token auth) ===
	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(d.Auth))

		pr.Post("/v1/bookings", bh.create)
		pr.Get("/v1/bookings", bh.listMine)
		pr.Get("/v1/bookings/claimed", bh.listClaimed)
		pr.Get("/v1/bookings/{id}", bh.get)
		pr.Post("/v1/bookings/{id}/pay", bh.pay)
		pr.Post("/v1/bookings/{id}/accept", bh.accept)
		pr.Post("/v1/bookings/{id}/travel", bh.travel)
		pr.Post("/v1/bookings/{id}/arrived", bh.arrived)
		pr.Post("/v1/bookings/{id}/start", bh.start)
		pr.Post("/v1/bookings/{id}/complete", bh.complete)
		pr.Post("/v1/bookings/{id}/provider-complete", bh.providerComplete)
		pr.Post("/v1/bookings/{id}/confirm-complete", bh.confirmComplete)
		pr.Post("/v1/bookings/{id}/cancel", bh.cancel)
		pr.Post("/v1/bookings/{id}/provider-cancel", bh.providerCancel)
		pr.Post("/v1/bookings/{id}/issue", bh.issue)
	})

	// === PLATFORM ADMIN APIs (X-Admin-Token auth) ===
	r.Group(func(ar chi.Router) {
		ar.Use(AdminTokenMiddleware(d.Auth))
		ar.Post("/v1/admin/sweep", ah.sweepHandler)
	})

	return r
}

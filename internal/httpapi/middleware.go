package httpapi

import (
	"net/http"
	"time"

	"github.com/crosslogic/bookingcore/pkg/metrics"
	"go.uber.org/zap"
)

// AuthMiddleware resolves a Principal from the request and stores it on the
// context, rejecting with 401 when absent.
func AuthMiddleware(auth *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.FromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

// AdminTokenMiddleware requires a valid X-Admin-Token header.
func AdminTokenMiddleware(auth *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAdminToken(r.Header.Get("X-Admin-Token")) {
				writeError(w, http.StatusForbidden, "forbidden", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs each request's method, path, status, and duration.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			duration := time.Since(start)
			logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", duration),
			)
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path, http.StatusText(sw.status)).Observe(duration.Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

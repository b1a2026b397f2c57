package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuthenticator("test-secret", true, "")
	mw := AuthMiddleware(auth)(okHandler())

	t.Run("allows a recognized dev-fallback principal through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
		req.Header.Set("X-Debug-Uid", "user-1")
		req.Header.Set("X-Debug-Role", "user")
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a request with no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminTokenMiddleware(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "admin-token-123")
	mw := AdminTokenMiddleware(auth)(okHandler())

	t.Run("allows the correct admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
		req.Header.Set("X-Admin-Token", "admin-token-123")
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a wrong admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
		req.Header.Set("X-Admin-Token", "wrong")
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects a missing admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

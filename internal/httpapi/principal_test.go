package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims principalClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthenticator_FromRequest_ValidBearerToken(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "")
	tok := signToken(t, "test-secret", principalClaims{
		UID:  "user-1",
		Role: booking.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	p, err := auth.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UID)
	assert.Equal(t, booking.RoleUser, p.Role)
}

func TestAuthenticator_FromRequest_RejectsWrongSigningSecret(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "")
	tok := signToken(t, "wrong-secret", principalClaims{UID: "user-1", Role: booking.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	_, err := auth.FromRequest(req)
	assert.Error(t, err)
}

func TestAuthenticator_FromRequest_RejectsExpiredToken(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "")
	tok := signToken(t, "test-secret", principalClaims{
		UID:  "user-1",
		Role: booking.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	_, err := auth.FromRequest(req)
	assert.Error(t, err)
}

func TestAuthenticator_FromRequest_DevFallback(t *testing.T) {
	t.Run("used when enabled and headers present", func(t *testing.T) {
		auth := NewAuthenticator("test-secret", true, "")
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
		req.Header.Set("X-Debug-Uid", "dev-user")
		req.Header.Set("X-Debug-Role", "admin")

		p, err := auth.FromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "dev-user", p.UID)
		assert.Equal(t, booking.RoleAdmin, p.Role)
	})

	t.Run("rejected when disabled", func(t *testing.T) {
		auth := NewAuthenticator("test-secret", false, "")
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
		req.Header.Set("X-Debug-Uid", "dev-user")
		req.Header.Set("X-Debug-Role", "admin")

		_, err := auth.FromRequest(req)
		assert.Error(t, err)
	})

	t.Run("rejected with no authorization at all", func(t *testing.T) {
		auth := NewAuthenticator("test-secret", true, "")
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)

		_, err := auth.FromRequest(req)
		assert.Error(t, err)
	})
}

func TestAuthenticator_IsAdminToken(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "super-secret-admin-token")

	assert.True(t, auth.IsAdminToken("super-secret-admin-token"))
	assert.False(t, auth.IsAdminToken("wrong-token"))
	assert.False(t, auth.IsAdminToken(""))
}

func TestAuthenticator_IsAdminToken_UnconfiguredAlwaysRejects(t *testing.T) {
	auth := NewAuthenticator("test-secret", false, "")
	assert.False(t, auth.IsAdminToken(""))
	assert.False(t, auth.IsAdminToken("anything"))
}

func TestPrincipalFromContext_RoundTrip(t *testing.T) {
	p := &Principal{UID: "user-1", Role: booking.RoleUser}
	ctx := withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil).Context(), p)

	got, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestPrincipalFromContext_MissingReturnsFalse(t *testing.T) {
	_, ok := PrincipalFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

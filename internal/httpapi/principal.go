// Package httpapi is the external contract layer (C9): validated inputs from
// the HTTP boundary, principal extraction, routing, and the error-to-status
// mapping.
package httpapi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated (uid, role) tuple the core treats as given.
type Principal struct {
	UID  string
	Role booking.Role
}

type principalClaims struct {
	UID  string      `json:"uid"`
	Role booking.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator decodes bearer JWTs into a Principal, with a dev-only header
// fallback disabled in production.
type Authenticator struct {
	secret        string
	devFallbackOK bool
	adminToken    string
}

func NewAuthenticator(secret string, devFallbackOK bool, adminToken string) *Authenticator {
	return &Authenticator{secret: secret, devFallbackOK: devFallbackOK, adminToken: adminToken}
}

// FromRequest extracts a Principal from the Authorization header, falling
// back to X-Debug-Uid/X-Debug-Role headers outside production.
func (a *Authenticator) FromRequest(r *http.Request) (*Principal, error) {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		token := strings.TrimPrefix(authz, "Bearer ")
		return a.validate(token)
	}
	if a.devFallbackOK {
		uid := r.Header.Get("X-Debug-Uid")
		role := r.Header.Get("X-Debug-Role")
		if uid != "" && role != "" {
			return &Principal{UID: uid, Role: booking.Role(role)}, nil
		}
	}
	return nil, fmt.Errorf("missing or invalid authorization")
}

func (a *Authenticator) validate(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &principalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*principalClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &Principal{UID: claims.UID, Role: claims.Role}, nil
}

// IsAdminToken compares the supplied token to the configured admin token in
// constant time via crypto/subtle.ConstantTimeCompare.
func (a *Authenticator) IsAdminToken(supplied string) bool {
	if a.adminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(a.adminToken)) == 1
}

type ctxKey string

const principalCtxKey ctxKey = "principal"

func withPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext returns the authenticated principal stashed by the
// auth middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(*Principal)
	return p, ok
}

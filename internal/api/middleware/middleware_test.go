package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/internal/config"
	"veritas-lab/pkg/logger"
)

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int64, _ time.Duration) (bool, int64, time.Time, error) {
	f.keys = append(f.keys, key)
	return f.allowed, 0, time.Now().Add(time.Minute), f.err
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context())))
})

func signed(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestOptionalAuth(t *testing.T) {
	cfg := config.JWTConfig{Secret: "s3cret", Issuer: "veritas", Audience: "authenticated"}
	h := OptionalAuth(cfg)(ok)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid", "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "u1", Issuer: "veritas", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp,
		}, "s3cret"), http.StatusOK, "u1"},
		{"wrong issuer", "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "u1", Issuer: "other", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp,
		}, "s3cret"), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "u1", Issuer: "veritas", Audience: jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}, "s3cret"), http.StatusUnauthorized, ""},
		{"no expiry", "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "u1", Issuer: "veritas", Audience: jwt.ClaimStrings{"authenticated"},
		}, "s3cret"), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + signed(t, jwt.RegisteredClaims{
			Issuer: "veritas", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp,
		}, "s3cret"), http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUserID, "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RequestsPerMinute: 10}

	limiter := &fakeLimiter{allowed: true}
	h := RateLimiter(limiter, cfg, logger.NewNop())(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, []string{"ip:10.0.0.1"}, limiter.keys)

	limiter = &fakeLimiter{allowed: false}
	h = RateLimiter(limiter, cfg, logger.NewNop())(ok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// store failures let the request through
	limiter = &fakeLimiter{err: errors.New("redis down")}
	h = RateLimiter(limiter, cfg, logger.NewNop())(ok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIDPrefersUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUserID, "abc"))
	assert.Equal(t, "user:abc", ClientID(req))
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
)

var (
	// ErrNotConfigured is returned before any network call when the provider has no credentials
	ErrNotConfigured = errors.New("AI provider not configured")
	// ErrMalformedResponse means the upstream answered 2xx with an unexpected payload
	ErrMalformedResponse = errors.New("unexpected API response format")
)

// APIError is a non-2xx answer from an upstream provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether another attempt could succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// QuotaExceeded reports rate limiting or an exhausted billing quota
func (e *APIError) QuotaExceeded() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	body := strings.ToLower(e.Body)
	return strings.Contains(body, "quota") || strings.Contains(body, "billing")
}

// FailureReason buckets an upstream error for logs and metrics
func FailureReason(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &apiErr):
		if apiErr.QuotaExceeded() {
			return "quota"
		}
		return "upstream_error"
	default:
		return "network"
	}
}

package ai

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

// RetryPolicy controls how a failed upstream attempt is repeated
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
}

// DefaultRetryPolicy retries twice after 1s and 2s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, InitialInterval: time.Second, Multiplier: 2}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.Multiplier = p.Multiplier
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// BreakerSettings configures the per-provider circuit breaker
type BreakerSettings struct {
	Enabled             bool
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
}

// caller runs one logical upstream request: a breaker around a retry loop
// around attempts that each get their own deadline
type caller struct {
	provider       string
	policy         RetryPolicy
	attemptTimeout time.Duration
	breaker        *gobreaker.CircuitBreaker
	logger         *logger.Logger
}

func newCaller(provider string, policy RetryPolicy, attemptTimeout time.Duration, bs BreakerSettings, log *logger.Logger) *caller {
	c := &caller{
		provider:       provider,
		policy:         policy,
		attemptTimeout: attemptTimeout,
		logger:         log,
	}

	if bs.Enabled {
		threshold := bs.ConsecutiveFailures
		if threshold == 0 {
			threshold = 5
		}
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        provider,
			MaxRequests: bs.HalfOpenRequests,
			Timeout:     bs.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				// a caller that went away says nothing about upstream health
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state change")
				metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			},
		})
	}

	return c
}

// do executes attempt under the retry policy. HTTP 429 and transport errors
// (including a per-attempt timeout) are retried; everything else is final.
func (c *caller) do(ctx context.Context, attempt func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())
	}()

	run := func() ([]byte, error) {
		var body []byte
		op := func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
			defer cancel()

			b, err := attempt(attemptCtx)
			if err == nil {
				metrics.RecordUpstreamAttempt(c.provider, "success")
				body = b
				return nil
			}

			metrics.RecordUpstreamAttempt(c.provider, FailureReason(err))
			if !c.retryable(ctx, err) {
				return backoff.Permanent(err)
			}
			return err
		}

		notify := func(err error, wait time.Duration) {
			c.logger.Warn().Err(err).Dur("retry_in", wait).Msg("upstream attempt failed, retrying")
		}

		if err := backoff.RetryNotify(op, c.policy.backOff(ctx), notify); err != nil {
			return nil, err
		}
		return body, nil
	}

	if c.breaker == nil {
		return run()
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return run()
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (c *caller) retryable(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrNotConfigured) {
		return false
	}
	return true
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/infrastructure/cache"
	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

// InFlightGuard allows one running analysis per client. Acquire returns
// models.ErrAnalysisInProgress when the client already holds the slot.
type InFlightGuard interface {
	Acquire(ctx context.Context, clientID string) (release func(), err error)
}

// MemoryInFlightGuard guards a single process
type MemoryInFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewMemoryInFlightGuard creates an empty guard
func NewMemoryInFlightGuard() *MemoryInFlightGuard {
	return &MemoryInFlightGuard{active: make(map[string]struct{})}
}

// Acquire claims the client's slot
func (g *MemoryInFlightGuard) Acquire(_ context.Context, clientID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[clientID]; busy {
		metrics.InFlightRejections.Inc()
		return nil, models.ErrAnalysisInProgress
	}
	g.active[clientID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, clientID)
			g.mu.Unlock()
		})
	}, nil
}

// RedisInFlightGuard shares the slot across replicas. The key expires after
// ttl so a crashed holder cannot block its client forever. When Redis is
// unreachable it degrades to a per-process guard.
type RedisInFlightGuard struct {
	cache    *cache.RedisCache
	ttl      time.Duration
	fallback *MemoryInFlightGuard
	logger   *logger.Logger
}

// NewRedisInFlightGuard creates a Redis-backed guard
func NewRedisInFlightGuard(c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *RedisInFlightGuard {
	return &RedisInFlightGuard{
		cache:    c,
		ttl:      ttl,
		fallback: NewMemoryInFlightGuard(),
		logger:   log.WithComponent("inflight-guard"),
	}
}

// Acquire claims the client's slot with a random token
func (g *RedisInFlightGuard) Acquire(ctx context.Context, clientID string) (func(), error) {
	token := uuid.NewString()

	ok, err := g.cache.AcquireToken(ctx, clientID, token, g.ttl)
	if err != nil {
		g.logger.Warn().Err(err).Msg("redis unavailable, using local in-flight guard")
		return g.fallback.Acquire(ctx, clientID)
	}
	if !ok {
		metrics.InFlightRejections.Inc()
		return nil, models.ErrAnalysisInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if _, err := g.cache.ReleaseToken(releaseCtx, clientID, token); err != nil {
				g.logger.Warn().Err(err).Msg("failed to release in-flight token")
			}
		})
	}, nil
}

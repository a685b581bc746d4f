package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"veritas-lab/pkg/logger"
)

// ServiceName is the name the HTTP API reports under
const ServiceName = "veritas.v1.Veritas"

// Pinger is a dependency whose reachability decides the serving status
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker keeps the gRPC health status in step with the backing stores
type Checker struct {
	server *health.Server
	checks map[string]Pinger
	logger *logger.Logger
}

// Register creates a checker and registers the health service on grpcServer
func Register(grpcServer *grpc.Server, checks map[string]Pinger, log *logger.Logger) *Checker {
	c := &Checker{
		server: health.NewServer(),
		checks: checks,
		logger: log.WithComponent("grpc-health"),
	}
	c.set(grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, c.server)
	return c
}

// Run re-checks dependencies every interval until ctx is done
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.Update(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Update pings every dependency once and sets the status accordingly
func (c *Checker) Update(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	for name, p := range c.checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	c.set(status)
}

// Shutdown marks every service as not serving so clients drain
func (c *Checker) Shutdown() {
	c.server.Shutdown()
}

// Server exposes the underlying health server
func (c *Checker) Server() *health.Server {
	return c.server
}

func (c *Checker) set(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
}

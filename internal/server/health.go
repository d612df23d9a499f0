package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/branch-expenses/internal/repository"
)

const pingTimeout = 2 * time.Second

// healthz answers 200 when the database responds to a ping.
func healthz(drv *entsql.Driver, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if drv == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		if err := repository.HealthCheck(c.UserContext(), drv, pingTimeout, logger); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// HealthServer exposes grpc.health.v1 for orchestrator probes.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func NewHealthServer(logger *slog.Logger) *HealthServer {
	gs := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	return &HealthServer{grpc: gs, health: hs, logger: logger}
}

// Serve blocks serving on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info("grpc health listening", "addr", lis.Addr().String())
	return h.grpc.Serve(lis)
}

// SetServing flips the overall status (empty service name).
func (h *HealthServer) SetServing(ok bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

// Watch pings the database every interval and mirrors the result until ctx ends.
func (h *HealthServer) Watch(ctx context.Context, drv *entsql.Driver, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.SetServing(repository.HealthCheck(ctx, drv, pingTimeout, h.logger) == nil)
		}
	}
}

// Stop marks the server as not serving and drains in-flight probes.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}

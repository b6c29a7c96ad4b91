package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HubServiceName is the health service name orchestrators probe.
const HubServiceName = "collab_hub.Hub"

// AdminServer exposes the standard gRPC health protocol on a separate port
// so that load balancers can probe the hub without opening a WebSocket.
type AdminServer struct {
	log    *slog.Logger
	server *grpc.Server
	health *health.Server
}

func NewAdminServer(log *slog.Logger) *AdminServer {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)))
	h := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, h)
	reflection.Register(s)
	h.SetServingStatus(HubServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &AdminServer{log: log, server: s, health: h}
}

// SetServing flips both the hub service and the overall server status.
func (a *AdminServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	a.health.SetServingStatus("", status)
	a.health.SetServingStatus(HubServiceName, status)
}

// Run serves on listener until ctx is canceled.
func (a *AdminServer) Run(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		a.log.Info("Starting admin gRPC server", "address", listener.Addr().String())
		for serviceName := range a.server.GetServiceInfo() {
			a.log.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("admin gRPC server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}
	a.health.Shutdown()
	a.server.GracefulStop()
	a.log.Info("Admin gRPC server stopped")
	return nil
}

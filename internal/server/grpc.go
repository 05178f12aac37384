package server

import (
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/fekuna/cardmap-service/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPC returns a server exposing the standard health service and
// reflection. The health status starts as SERVING; callers flip it to
// NOT_SERVING through the returned health server on shutdown.
func NewGRPC(serviceName string, log logger.ZapLogger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.UnaryLogging(log)),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)
	return srv, hs
}

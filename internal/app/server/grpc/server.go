// Package grpc serves the standard gRPC health service, reporting whether the
// URL store is reachable.
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/atinyakov/tinyurl/internal/intercepters"
)

// ServiceName is the health entry tracked alongside the server-wide "" entry.
const ServiceName = "tinyurl.URLService"

const defaultProbeInterval = 5 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	addr       string
	pinger     Pinger
	logger     *zap.Logger
	interval   time.Duration
}

// New creates a new gRPC server instance. Health starts as NOT_SERVING until
// the first probe succeeds.
func New(addr string, logger *zap.Logger, pinger Pinger, interval time.Duration) *Server {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(intercepters.InterceptorLogger(logger)),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{
		grpcServer: s,
		health:     hs,
		addr:       addr,
		pinger:     pinger,
		logger:     logger,
		interval:   interval,
	}
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.String("addr", s.addr), zap.Error(err))
		return err
	}

	s.logger.Info("gRPC server listening", zap.String("addr", s.addr))
	return s.Serve(lis)
}

// Serve blocks on lis. Stopping the server before it starts serving is not an error.
func (s *Server) Serve(lis net.Listener) error {
	err := s.grpcServer.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Probe pings the store right away and then on every interval until ctx is done.
func (s *Server) Probe(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Server) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.PingContext(pingCtx); err != nil {
		s.logger.Warn("health probe failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// GracefulStop flips health to NOT_SERVING and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

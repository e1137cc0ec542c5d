package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the standard grpc.health.v1 service for the chat process.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	service    string
}

func New(service string) *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	s := &Server{
		grpcServer: grpcServer,
		health:     hs,
		service:    service,
	}
	s.SetServing(false)
	return s
}

// SetServing flips both the overall and the named service status.
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

// Start blocks serving on addr until Stop is called.
func (s *Server) Start(addr string) error {
	lisAddr := addr
	if len(addr) > 0 && !strings.Contains(addr, ":") {
		lisAddr = ":" + addr
	}

	lis, err := net.Listen("tcp", lisAddr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	observability.GetLogger(context.Background()).Info("gRPC listening", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	observability.GetLogger(context.Background()).Info("shutting down gRPC...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// WatchReadiness pings the store every interval and mirrors the result into
// the health status until ctx is done.
func (s *Server) WatchReadiness(ctx context.Context, p Pinger, interval time.Duration) {
	log := observability.GetLogger(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := false
	for {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := p.Ping(pingCtx)
		cancel()

		ok := err == nil
		if ok != last {
			if ok {
				log.Info("store reachable, serving")
			} else {
				log.Warn("store unreachable, not serving", zap.Error(err))
			}
			last = ok
		}
		s.SetServing(ok)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

package grpc

import (
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// PaymentService is the health service name reporting whether checkout can
// take payments.
const PaymentService = "payment"

type Server struct {
	srv    *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer registers the standard health service and reflection.
func NewServer(paymentsReady bool, logger *zap.Logger) *Server {
	s := &Server{
		srv:    grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler())),
		health: health.NewServer(),
		logger: logger,
	}
	grpc_health_v1.RegisterHealthServer(s.srv, s.health)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(s.srv)

	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.SetPaymentsReady(paymentsReady)
	return s
}

func (s *Server) SetPaymentsReady(ready bool) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !ready {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(PaymentService, status)
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains open calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

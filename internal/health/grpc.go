package health

import (
	"log/slog"
	"net"

	"github.com/ashureev/uiforge/internal/llm"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// LLMService is the health service name that tracks the LLM breaker.
const LLMService = "uiforge.llm"

// GRPCServer serves grpc.health.v1.Health.
type GRPCServer struct {
	srv    *grpc.Server
	health *grpchealth.Server
}

// NewGRPCServer creates a server reporting SERVING for the process and the
// LLM service.
func NewGRPCServer(opts ...grpc.ServerOption) *GRPCServer {
	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(LLMService, healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, hs)

	return &GRPCServer{srv: srv, health: hs}
}

// SetBreakerState maps a breaker state onto the LLM service status.
// Half-open still serves trial requests.
func (g *GRPCServer) SetBreakerState(state llm.State) {
	status := healthpb.HealthCheckResponse_SERVING
	if state == llm.StateOpen {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus(LLMService, status)
}

// Serve accepts connections on lis until Stop is called.
func (g *GRPCServer) Serve(lis net.Listener) error {
	slog.Info("gRPC health server listening", "addr", lis.Addr().String())
	return g.srv.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.srv.GracefulStop()
}

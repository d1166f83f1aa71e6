package orabridge

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/orabridge/flight"
)

// Server is the bridge's management surface: it owns the catalog
// registry and the Flight handlers registered on the gRPC server.
type Server struct {
	flight   *flight.Server
	registry *flight.Registry
	logger   *slog.Logger
}

// NewServer registers Flight service handlers on grpcServer and returns
// the management handle. The gRPC server lifecycle stays with the
// caller.
func NewServer(grpcServer *grpc.Server, config ServerConfig) (*Server, error) {
	if grpcServer == nil {
		return nil, fmt.Errorf("%w: grpc server is required", ErrInvalidConfig)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := flight.NewRegistry()
	flightServer, err := flight.NewServer(registry, allocator, logger, config.Address)
	if err != nil {
		return nil, err
	}
	flight.RegisterFlightServer(grpcServer, flightServer)

	logger.Info("oracle bridge registered",
		"has_auth", config.Auth != nil,
		"address", config.Address,
	)
	return &Server{
		flight:   flightServer,
		registry: registry,
		logger:   logger,
	}, nil
}

// ServerOptions returns gRPC server options carrying the authentication
// interceptors and message size limits for the config. Pass the result
// to grpc.NewServer before calling NewServer.
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption
	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(flight.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(flight.StreamServerInterceptor(config.Auth)),
		)
	}
	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}
	return opts
}

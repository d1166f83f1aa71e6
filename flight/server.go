// Package flight exposes attached Oracle catalogs over Arrow Flight RPC.
package flight

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/orabridge/internal/serialize"
)

// Server implements the Flight service handlers over a catalog registry.
// Embeds BaseFlightServer for forward compatibility with protocol changes.
type Server struct {
	flight.BaseFlightServer

	registry  *Registry
	allocator memory.Allocator
	logger    *slog.Logger
	address   string
	codec     *serialize.Codec
}

// NewServer creates a Flight server over the registry. The address is the
// server's public address, advertised in FlightEndpoint locations.
func NewServer(registry *Registry, allocator memory.Allocator, logger *slog.Logger, address string) (*Server, error) {
	codec, err := serialize.NewCodec()
	if err != nil {
		return nil, err
	}
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry:  registry,
		allocator: allocator,
		logger:    logger,
		address:   address,
		codec:     codec,
	}, nil
}

// Registry returns the catalog registry the server routes to.
func (s *Server) Registry() *Registry { return s.registry }

// RegisterFlightServer registers the Flight service on the gRPC server.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}

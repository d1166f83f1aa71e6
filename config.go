package orabridge

import (
	"errors"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/orabridge/auth"
)

// ServerConfig configures the Flight server surface.
type ServerConfig struct {
	// Auth provides authentication. Nil disables authentication.
	Auth auth.Authenticator

	// Allocator for Arrow memory management. Defaults to
	// memory.DefaultAllocator.
	Allocator memory.Allocator

	// Logger for internal logging. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxMessageSize sets the gRPC message size limit in bytes. 0 keeps
	// the gRPC default. Large scan batches usually want 16MB or more.
	MaxMessageSize int

	// Address is the server's public address advertised to clients.
	Address string
}

// AttachOptions configures one attached database.
type AttachOptions struct {
	// ReadOnly rejects writes locally, in addition to any read_only flag
	// in the connection string.
	ReadOnly bool

	// PoolCapacity bounds the idle connection cache. 0 selects the
	// default.
	PoolCapacity int

	// Schema overrides the default schema from the connection string.
	Schema string

	// FetchSize overrides the row prefetch count from the connection
	// string. 0 keeps the parsed value.
	FetchSize int
}

// ErrInvalidConfig indicates ServerConfig validation failed.
var ErrInvalidConfig = errors.New("invalid server config")

package orabridge

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"

	"github.com/hugr-lab/orabridge/auth"
	"github.com/hugr-lab/orabridge/flight"
)

func TestNewServerRequiresGRPCServer(t *testing.T) {
	_, err := NewServer(nil, ServerConfig{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewServerRegisters(t *testing.T) {
	srv, err := NewServer(grpc.NewServer(), ServerConfig{Address: "localhost:8815"})
	if err != nil {
		t.Fatal(err)
	}
	if srv.Registry() == nil {
		t.Fatal("registry not initialized")
	}
	if got := len(srv.CatalogNames()); got != 0 {
		t.Fatalf("fresh server has %d catalogs", got)
	}
}

func TestServerOptions(t *testing.T) {
	if got := ServerOptions(ServerConfig{}); len(got) != 0 {
		t.Errorf("bare config produced %d options", len(got))
	}

	withAuth := ServerOptions(ServerConfig{Auth: auth.NoAuth()})
	if len(withAuth) != 2 {
		t.Errorf("auth config produced %d options, want 2", len(withAuth))
	}

	withAll := ServerOptions(ServerConfig{Auth: auth.NoAuth(), MaxMessageSize: 16 << 20})
	if len(withAll) != 4 {
		t.Errorf("full config produced %d options, want 4", len(withAll))
	}
}

func TestAttachRejectsBadConnectionString(t *testing.T) {
	srv, err := NewServer(grpc.NewServer(), ServerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Attach(context.Background(), "ora", "", AttachOptions{}); err == nil {
		t.Fatal("empty connection string accepted")
	}
	if err := srv.Attach(context.Background(), "ora", "host=db1 port=1521 service=ORCL", AttachOptions{}); err == nil {
		t.Fatal("connection string without user accepted")
	}
}

func TestClearCacheUnknownCatalog(t *testing.T) {
	srv, err := NewServer(grpc.NewServer(), ServerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if got := srv.ClearCache("missing"); got != 0 {
		t.Errorf("ClearCache = %d, want 0", got)
	}
}

func TestInfoUnknownCatalogDegrades(t *testing.T) {
	srv, err := NewServer(grpc.NewServer(), ServerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	info := srv.Info(context.Background(), "missing")
	if info["error"] == "" {
		t.Fatalf("info = %v, want an error entry", info)
	}
	if _, ok := info["catalog_type"]; ok {
		t.Error("unknown catalog reported a catalog_type")
	}
}

func TestDetachUnknownCatalog(t *testing.T) {
	srv, err := NewServer(grpc.NewServer(), ServerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Detach("missing"); !errors.Is(err, flight.ErrCatalogNotFound) {
		t.Errorf("error = %v, want ErrCatalogNotFound", err)
	}
}

package orabridge

import (
	"context"
	"fmt"

	"github.com/hugr-lab/orabridge/catalog"
	"github.com/hugr-lab/orabridge/conn"
	"github.com/hugr-lab/orabridge/flight"
)

// Attach registers an Oracle database under name and verifies
// connectivity with a single ping before exposing it. The connection
// string accepts key/value, easy-connect and TNS alias forms.
func (s *Server) Attach(ctx context.Context, name, connString string, opts AttachOptions) error {
	params, err := conn.ParseConnectionString(connString)
	if err != nil {
		return fmt.Errorf("attach %q: %w", name, err)
	}
	if opts.Schema != "" {
		params.Schema = opts.Schema
	}
	if opts.FetchSize > 0 {
		params.FetchSize = opts.FetchSize
	}

	cat := catalog.New(params, catalog.Options{
		PoolCapacity: opts.PoolCapacity,
		ReadOnly:     opts.ReadOnly,
		Logger:       s.logger,
	})

	cn, err := cat.Pool().Acquire(ctx)
	if err != nil {
		cat.Close()
		return fmt.Errorf("attach %q: %w", name, err)
	}
	cat.Pool().Release(cn)

	if err := s.registry.Attach(name, cat); err != nil {
		cat.Close()
		return fmt.Errorf("attach %q: %w", name, err)
	}
	s.logger.Info("catalog attached",
		"catalog", name,
		"default_schema", cat.DefaultSchema(),
		"read_only", cat.ReadOnly(),
	)
	return nil
}

// Detach removes an attached catalog and closes its idle connections.
func (s *Server) Detach(name string) error {
	if err := s.registry.Detach(name); err != nil {
		return fmt.Errorf("detach %q: %w", name, err)
	}
	s.logger.Info("catalog detached", "catalog", name)
	return nil
}

// Catalog resolves an attached catalog by name. The empty name selects
// the default catalog.
func (s *Server) Catalog(name string) (*catalog.Catalog, error) {
	return s.registry.Get(name)
}

// CatalogNames lists the attached catalog names.
func (s *Server) CatalogNames() []string {
	return s.registry.Names()
}

// ClearCache resets the named catalog's metadata and connection caches.
// It reports 1 on success and 0 when the catalog is not attached; it
// never fails.
func (s *Server) ClearCache(name string) int {
	cat, err := s.registry.Get(name)
	if err != nil {
		s.logger.Warn("clear cache for unknown catalog", "catalog", name)
		return 0
	}
	cat.ClearCache()
	return 1
}

// Info reports server version and attachment facts for the named
// catalog. Failures degrade to an error entry so the report always
// renders: an unknown catalog name or a failed version probe never
// raises.
func (s *Server) Info(ctx context.Context, name string) map[string]string {
	cat, err := s.registry.Get(name)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}

	info := map[string]string{
		"catalog_type":   catalog.Kind,
		"default_schema": cat.DefaultSchema(),
	}
	version, err := cat.ServerVersion(ctx)
	if err != nil {
		info["error"] = err.Error()
		return info
	}
	info["server_version"] = version
	return info
}

// Registry exposes the underlying catalog registry for advanced wiring.
func (s *Server) Registry() *flight.Registry {
	return s.registry
}

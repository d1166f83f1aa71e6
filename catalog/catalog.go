// Package catalog projects a remote Oracle database into the engine's
// catalog model: Catalog owns a connection pool and a schema cache, Schema
// resolves and caches tables, Table exposes column metadata and produces
// streaming Arrow scans. Names are stored and compared uppercased to match
// Oracle's identifier folding; caches never refresh on their own, a stale
// cache is reset only by an explicit ClearCache.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hugr-lab/orabridge/conn"
)

// Kind tags an attached catalog so callers can verify they are talking to
// an Oracle bridge before invoking Oracle-specific operations.
const Kind = "oracle"

// Options configures an attached catalog.
type Options struct {
	// PoolCapacity bounds the idle connection cache. 0 selects the
	// default.
	PoolCapacity int

	// ReadOnly rejects CreateTable, DropTable and Insert locally.
	ReadOnly bool

	// Logger receives debug and error events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Catalog is one attached Oracle database. It owns the connection pool for
// the whole attach lifetime; Schemas and Tables borrow the pool and stay
// valid as long as the Catalog is attached.
type Catalog struct {
	pool          *conn.Pool
	defaultSchema string
	readOnly      bool
	logger        *slog.Logger

	mu      sync.RWMutex
	schemas map[string]*Schema

	versionMu    sync.Mutex
	majorVersion int
}

// New builds a catalog for the given attach target. No connection is
// opened; connectivity is the caller's attach-time concern. The default
// schema is primed into the cache immediately.
func New(params conn.Parameters, opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Catalog{
		pool:          conn.NewPool(params, opts.PoolCapacity),
		defaultSchema: params.EffectiveSchema(),
		readOnly:      opts.ReadOnly || params.ReadOnly,
		logger:        opts.Logger,
		schemas:       make(map[string]*Schema),
	}
	c.schemas[c.defaultSchema] = newSchema(c, c.defaultSchema)
	return c
}

// Pool returns the catalog's connection pool.
func (c *Catalog) Pool() *conn.Pool { return c.pool }

// DefaultSchema returns the uppercased default schema name.
func (c *Catalog) DefaultSchema() string { return c.defaultSchema }

// ReadOnly reports whether write operations are rejected locally.
func (c *Catalog) ReadOnly() bool { return c.readOnly }

// Schema resolves a schema by name. Resolution is lazy and metadata-free:
// the returned Schema performs its remote lookups on first table access.
// Names fold to upper case before cache lookup.
func (c *Catalog) Schema(name string) *Schema {
	key := strings.ToUpper(name)

	c.mu.RLock()
	s, ok := c.schemas[key]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.schemas[key]; ok {
		return s
	}
	s = newSchema(c, key)
	c.schemas[key] = s
	return s
}

// SchemaNames lists the schemas visible to the attach user.
func (c *Catalog) SchemaNames(ctx context.Context) ([]string, error) {
	const query = `SELECT USERNAME FROM ALL_USERS ORDER BY USERNAME`

	cn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.pool.Release(cn)

	rows, err := cn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ClearCache resets all cached metadata and idle connections in one
// coordinated operation, then re-primes the default schema. Safe to call
// repeatedly; in-flight connections are unaffected until released.
func (c *Catalog) ClearCache() {
	c.mu.Lock()
	var cached int
	for _, s := range c.schemas {
		cached += len(s.CachedTableNames())
	}
	c.schemas = make(map[string]*Schema)
	c.schemas[c.defaultSchema] = newSchema(c, c.defaultSchema)
	c.mu.Unlock()

	c.versionMu.Lock()
	c.majorVersion = 0
	c.versionMu.Unlock()

	c.pool.Clear()
	c.logger.Debug("catalog cache cleared",
		"default_schema", c.defaultSchema,
		"evicted_tables", cached,
	)
}

// CachedSchemaNames reports the schema names currently cached.
func (c *Catalog) CachedSchemaNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	return names
}

// Close tears down all idle connections. The catalog must not be used
// afterwards.
func (c *Catalog) Close() {
	c.pool.Clear()
}

// ServerVersion reports the Oracle version string via a pooled connection.
func (c *Catalog) ServerVersion(ctx context.Context) (string, error) {
	cn, err := c.pool.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer c.pool.Release(cn)
	return cn.ServerVersion(ctx)
}

// MajorVersion reports the server major version, cached after the first
// probe that reaches the server. ClearCache drops the cached value. A
// probe that cannot acquire a connection falls back to the most
// conservative paging dialect without caching it, so a transient outage
// does not pin the fallback for the attach lifetime.
func (c *Catalog) MajorVersion(ctx context.Context) int {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()
	if c.majorVersion != 0 {
		return c.majorVersion
	}
	cn, err := c.pool.Acquire(ctx)
	if err != nil {
		c.logger.Warn("server version probe failed", "error", err)
		return 11
	}
	defer c.pool.Release(cn)
	c.majorVersion = cn.ServerMajorVersion(ctx)
	return c.majorVersion
}

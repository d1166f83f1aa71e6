package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/orabridge/conn"
	"github.com/hugr-lab/orabridge/filter"
	"github.com/hugr-lab/orabridge/typemap"
)

// Schema is one Oracle namespace. It caches resolved tables under its own
// lock; a cached table keeps its column order until the catalog cache is
// cleared.
type Schema struct {
	catalog *Catalog
	name    string

	mu     sync.RWMutex
	tables map[string]*Table
}

func newSchema(c *Catalog, name string) *Schema {
	return &Schema{
		catalog: c,
		name:    name,
		tables:  make(map[string]*Table),
	}
}

// Name returns the uppercased schema name.
func (s *Schema) Name() string { return s.name }

// Table resolves a table by name. A metadata query runs on the first
// lookup; later lookups hit the cache. A table that does not exist yields
// (nil, nil), not an error, and is not cached.
func (s *Schema) Table(ctx context.Context, name string) (*Table, error) {
	key := strings.ToUpper(name)

	s.mu.RLock()
	t, ok := s.tables[key]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	cols, err := s.loadColumns(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent loader may have won; its column order is already
	// published, keep it.
	if t, ok := s.tables[key]; ok {
		return t, nil
	}
	t = newTable(s, key, cols)
	s.tables[key] = t
	return t, nil
}

func (s *Schema) loadColumns(ctx context.Context, table string) ([]conn.ColumnInfo, error) {
	cn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.catalog.pool.Release(cn)
	return cn.GetColumns(ctx, s.name, table)
}

// TableNames lists tables and views in the namespace without resolving
// their columns.
func (s *Schema) TableNames(ctx context.Context) ([]conn.TableInfo, error) {
	cn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.catalog.pool.Release(cn)
	return cn.GetTables(ctx, s.name)
}

// Tables resolves every table and view in the namespace, caching each, and
// invokes fn once per resolved table. Entries that fail to resolve are
// skipped.
func (s *Schema) Tables(ctx context.Context, fn func(*Table) error) error {
	infos, err := s.TableNames(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		t, err := s.Table(ctx, info.Name)
		if err != nil || t == nil {
			s.catalog.logger.Debug("skipping unresolvable table",
				"schema", s.name, "table", info.Name, "error", err)
			continue
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

// CreateTable renders and executes CREATE TABLE from an Arrow schema, then
// resolves the new table into the cache. The remote statement failing
// leaves the cache untouched.
func (s *Schema) CreateTable(ctx context.Context, name string, schema *arrow.Schema) (*Table, error) {
	if s.catalog.readOnly {
		return nil, ErrReadOnly
	}
	key := strings.ToUpper(name)

	s.mu.RLock()
	_, exists := s.tables[key]
	s.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrAlreadyExists, s.name, key)
	}

	ddl := createTableSQL(s.name, key, schema)

	cn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.catalog.pool.Release(cn)

	if _, err := cn.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create table %s.%s: %w", s.name, key, err)
	}
	s.catalog.logger.Debug("table created", "schema", s.name, "table", key)

	t, err := s.Table(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("create table %s.%s: created but not visible", s.name, key)
	}
	return t, nil
}

// DropTable executes DROP TABLE and evicts the cache entry. The entry
// survives a failed remote statement.
func (s *Schema) DropTable(ctx context.Context, name string, purge bool) error {
	if s.catalog.readOnly {
		return ErrReadOnly
	}
	key := strings.ToUpper(name)

	ddl := "DROP TABLE " + filter.QuoteIdentifier(s.name) + "." + filter.QuoteIdentifier(key)
	if purge {
		ddl += " PURGE"
	}

	cn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.catalog.pool.Release(cn)

	if _, err := cn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("drop table %s.%s: %w", s.name, key, err)
	}

	s.mu.Lock()
	delete(s.tables, key)
	s.mu.Unlock()
	s.catalog.logger.Debug("table dropped", "schema", s.name, "table", key)
	return nil
}

// CreateIndex always fails: the bridge never forwards index DDL.
func (s *Schema) CreateIndex(_ context.Context, table, index string) error {
	return fmt.Errorf("%w: create index %s on %s.%s", ErrUnsupported, index, s.name, table)
}

// CachedTableNames reports the tables currently cached.
func (s *Schema) CachedTableNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}

func createTableSQL(schema, table string, as *arrow.Schema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(filter.QuoteIdentifier(schema))
	b.WriteString(".")
	b.WriteString(filter.QuoteIdentifier(table))
	b.WriteString(" (")
	for i := 0; i < as.NumFields(); i++ {
		f := as.Field(i)
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(filter.QuoteIdentifier(strings.ToUpper(f.Name)))
		b.WriteString(" ")
		b.WriteString(typemap.OracleDDLType(f.Type))
		if !f.Nullable {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String()
}

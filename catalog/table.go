package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/orabridge/conn"
	"github.com/hugr-lab/orabridge/filter"
	"github.com/hugr-lab/orabridge/typemap"
)

// defaultCardinality is reported when ALL_TABLES carries no statistics,
// as for views and never-analyzed tables.
const defaultCardinality = 100000

// maxBatchRows caps rows per emitted record so a single batch stays small
// enough to stream regardless of the configured fetch size.
const maxBatchRows = 2048

// Table is one resolved Oracle table or view. Column order is the order
// reported by ALL_TAB_COLUMNS at resolution time and is immutable for the
// cache lifetime.
type Table struct {
	schema *Schema
	name   string
	cols   []conn.ColumnInfo
	arrow  *arrow.Schema
}

func newTable(s *Schema, name string, cols []conn.ColumnInfo) *Table {
	return &Table{
		schema: s,
		name:   name,
		cols:   cols,
		arrow:  typemap.Schema(cols),
	}
}

// Name returns the uppercased table name.
func (t *Table) Name() string { return t.name }

// Schema returns the owning namespace.
func (t *Table) Schema() *Schema { return t.schema }

// Columns returns the resolved column metadata in server order.
func (t *Table) Columns() []conn.ColumnInfo { return t.cols }

// ArrowSchema returns the Arrow projection of the full column list.
func (t *Table) ArrowSchema() *arrow.Schema { return t.arrow }

// Cardinality estimates the row count from ALL_TABLES statistics, falling
// back to a fixed constant when no statistic is available.
func (t *Table) Cardinality(ctx context.Context) int64 {
	cn, err := t.schema.catalog.pool.Acquire(ctx)
	if err != nil {
		return defaultCardinality
	}
	defer t.schema.catalog.pool.Release(cn)

	n, ok := cn.NumRows(ctx, t.schema.name, t.name)
	if !ok {
		return defaultCardinality
	}
	return n
}

// ScanOptions shapes one scan of a table.
type ScanOptions struct {
	// Projection holds column indexes into Columns(). Index -1 selects the
	// ROWID pseudo column. Nil selects all columns in server order.
	Projection []int

	// FilterClauses are predicate fragments combined with AND. Each
	// fragment must be valid Oracle SQL over the projected table.
	FilterClauses []string

	// Limit bounds the row count when non-negative. -1 means unbounded.
	Limit int64

	// Offset skips leading rows. Meaningful only with paging requested.
	Offset int64

	// BatchSize bounds rows per emitted record. 0 selects the connection
	// fetch size.
	BatchSize int
}

// Scan runs a streaming read and returns a lazy record reader. The query
// runs on the first Next call; the pooled connection is held until the
// reader is exhausted, fails or is released.
func (t *Table) Scan(ctx context.Context, opts ScanOptions) (array.RecordReader, error) {
	fields, cols, err := t.projectedFields(opts.Projection)
	if err != nil {
		return nil, err
	}

	major := t.schema.catalog.MajorVersion(ctx)
	bind := ScanBindData{
		Schema:        t.schema.name,
		Table:         t.name,
		Columns:       cols,
		FilterClauses: opts.FilterClauses,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
		MajorVersion:  major,
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = t.schema.catalog.pool.Params().FetchSize
	}
	if batch <= 0 {
		batch = conn.DefaultFetchSize
	}
	if batch > maxBatchRows {
		batch = maxBatchRows
	}

	schema := arrow.NewSchema(fields, nil)
	return newScanReader(ctx, t.schema.catalog, schema, BuildSelectQuery(bind), batch), nil
}

// ProjectedSchema returns the Arrow schema a scan with the given
// projection will produce.
func (t *Table) ProjectedSchema(projection []int) (*arrow.Schema, error) {
	fields, _, err := t.projectedFields(projection)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

// projectedFields resolves a projection into Arrow fields and the SELECT
// list items that produce them. Geometry columns are converted to WKB
// server side so every projected value arrives in its Arrow storage form.
func (t *Table) projectedFields(projection []int) ([]arrow.Field, []SelectColumn, error) {
	if projection == nil {
		projection = make([]int, len(t.cols))
		for i := range t.cols {
			projection[i] = i
		}
	}
	fields := make([]arrow.Field, 0, len(projection))
	sel := make([]SelectColumn, 0, len(projection))
	for _, idx := range projection {
		switch {
		case idx == RowIDIndex:
			fields = append(fields, arrow.Field{Name: "ROWID", Type: arrow.BinaryTypes.String})
			sel = append(sel, SelectColumn{Expr: "ROWID", Alias: "ROWID"})
		case idx >= 0 && idx < len(t.cols):
			col := t.cols[idx]
			fields = append(fields, typemap.Field(col))
			quoted := filter.QuoteIdentifier(col.Name)
			expr := quoted
			if typemap.IsGeometry(col) {
				expr = fmt.Sprintf("SDO_UTIL.TO_WKBGEOMETRY(%s)", quoted)
			}
			sel = append(sel, SelectColumn{Expr: expr, Alias: col.Name})
		default:
			return nil, nil, fmt.Errorf("projection index %d out of range for %s.%s",
				idx, t.schema.name, t.name)
		}
	}
	return fields, sel, nil
}

// Insert writes a record batch via single-row binds and reports the row
// count written. Geometry values must arrive as WKB and are converted
// server side.
func (t *Table) Insert(ctx context.Context, rec arrow.RecordBatch) (int64, error) {
	if t.schema.catalog.readOnly {
		return 0, ErrReadOnly
	}
	if rec.NumRows() == 0 {
		return 0, nil
	}

	cols := make([]string, rec.NumCols())
	binds := make([]string, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		name := strings.ToUpper(rec.ColumnName(i))
		cols[i] = filter.QuoteIdentifier(name)
		bind := fmt.Sprintf(":%d", i+1)
		if _, ok := rec.Column(i).DataType().(*typemap.GeometryType); ok {
			bind = fmt.Sprintf("SDO_UTIL.FROM_WKBGEOMETRY(%s)", bind)
		}
		binds[i] = bind
	}
	insert := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)",
		filter.QuoteIdentifier(t.schema.name), filter.QuoteIdentifier(t.name),
		strings.Join(cols, ", "), strings.Join(binds, ", "))

	rows := make([][]any, rec.NumRows())
	for r := range rows {
		row := make([]any, rec.NumCols())
		for c := 0; c < int(rec.NumCols()); c++ {
			v, err := columnValue(rec.Column(c), r)
			if err != nil {
				return 0, err
			}
			row[c] = v
		}
		rows[r] = row
	}

	cn, err := t.schema.catalog.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer t.schema.catalog.pool.Release(cn)

	n, err := cn.InsertBatch(ctx, insert, rows)
	if err != nil {
		return n, fmt.Errorf("insert into %s.%s: %w", t.schema.name, t.name, err)
	}
	return n, nil
}

// columnValue extracts one cell as a driver-bindable Go value.
func columnValue(col arrow.Array, row int) (any, error) {
	if col.IsNull(row) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.Boolean:
		if a.Value(row) {
			return int64(1), nil
		}
		return int64(0), nil
	case *array.Int8:
		return int64(a.Value(row)), nil
	case *array.Int16:
		return int64(a.Value(row)), nil
	case *array.Int32:
		return int64(a.Value(row)), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Float32:
		return float64(a.Value(row)), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.Decimal128:
		return a.ValueStr(row), nil
	case *array.String:
		return a.Value(row), nil
	case *array.Binary:
		return a.Value(row), nil
	case *array.Date32:
		return a.Value(row).ToTime(), nil
	case *array.Timestamp:
		ts, ok := col.DataType().(*arrow.TimestampType)
		if !ok {
			return nil, fmt.Errorf("insert: unexpected timestamp storage %s", col.DataType())
		}
		return a.Value(row).ToTime(ts.Unit).UTC(), nil
	case array.ExtensionArray:
		return columnValue(a.Storage(), row)
	default:
		return nil, fmt.Errorf("insert: unsupported column type %s", col.DataType())
	}
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/orabridge/conn"
	"github.com/hugr-lab/orabridge/typemap"
)

// scanReader streams a query result as Arrow record batches. The query
// does not run until the first Next call; the pooled connection is held
// from then until exhaustion, failure or Release, whichever comes first.
type scanReader struct {
	ctx     context.Context
	catalog *Catalog
	schema  *arrow.Schema
	query   string
	batch   int

	refs    atomic.Int64
	started bool
	done    bool
	err     error

	cn      *conn.Connection
	rows    *sql.Rows
	builder *array.RecordBuilder
	cur     arrow.RecordBatch
}

func newScanReader(ctx context.Context, c *Catalog, schema *arrow.Schema, query string, batch int) *scanReader {
	r := &scanReader{
		ctx:     ctx,
		catalog: c,
		schema:  schema,
		query:   query,
		batch:   batch,
	}
	r.refs.Store(1)
	return r
}

func (r *scanReader) Schema() *arrow.Schema { return r.schema }

func (r *scanReader) Retain() { r.refs.Add(1) }

func (r *scanReader) Release() {
	if r.refs.Add(-1) == 0 {
		r.close()
	}
}

func (r *scanReader) Err() error { return r.err }

func (r *scanReader) RecordBatch() arrow.RecordBatch { return r.cur }

func (r *scanReader) Record() arrow.Record { return r.cur }

func (r *scanReader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	if !r.started {
		if err := r.start(); err != nil {
			r.fail(err)
			return false
		}
	}

	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}

	dest := make([]any, len(r.schema.Fields()))
	for i := range dest {
		dest[i] = new(any)
	}

	n := 0
	for n < r.batch && r.rows.Next() {
		if err := r.ctx.Err(); err != nil {
			r.fail(err)
			return false
		}
		if err := r.rows.Scan(dest...); err != nil {
			r.fail(fmt.Errorf("scan row: %w", err))
			return false
		}
		for i, d := range dest {
			v := *(d.(*any))
			if err := appendCell(r.builder.Field(i), r.schema.Field(i).Name, v); err != nil {
				r.fail(err)
				return false
			}
		}
		n++
	}

	if n == 0 {
		if err := r.rows.Err(); err != nil {
			r.fail(err)
			return false
		}
		r.finish()
		return false
	}

	r.cur = r.builder.NewRecordBatch()
	return true
}

func (r *scanReader) start() error {
	r.started = true
	cn, err := r.catalog.pool.Acquire(r.ctx)
	if err != nil {
		return err
	}
	rows, err := cn.Query(r.ctx, r.query)
	if err != nil {
		cn.Close()
		return err
	}
	r.cn = cn
	r.rows = rows
	r.builder = array.NewRecordBuilder(memory.DefaultAllocator, r.schema)
	r.catalog.logger.Debug("scan started", "query", r.query)
	return nil
}

// finish releases the connection back to the pool on clean exhaustion.
func (r *scanReader) finish() {
	r.done = true
	if r.rows != nil {
		r.rows.Close()
		r.rows = nil
	}
	if r.cn != nil {
		r.catalog.pool.Release(r.cn)
		r.cn = nil
	}
}

// fail records the first error and tears the connection down instead of
// pooling it, its session state being suspect.
func (r *scanReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.done = true
	if r.rows != nil {
		r.rows.Close()
		r.rows = nil
	}
	if r.cn != nil {
		r.cn.Close()
		r.cn = nil
	}
}

func appendCell(b array.Builder, column string, v any) error {
	if err := typemap.AppendValue(b, v); err != nil {
		return fmt.Errorf("column %s: %w", column, err)
	}
	return nil
}

func (r *scanReader) close() {
	r.finish()
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.builder != nil {
		r.builder.Release()
		r.builder = nil
	}
}

// Package serialize renders catalog listings as compressed Arrow IPC
// streams for the ListFlights RPC.
package serialize

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// TableEntry is one row of a catalog listing.
type TableEntry struct {
	Catalog string
	Schema  string
	Table   string
	Type    string
}

// listingSchema follows the Flight SQL GetTables layout so generic clients
// can decode the listing without a custom schema.
var listingSchema = arrow.NewSchema([]arrow.Field{
	{Name: "catalog_name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "db_schema_name", Type: arrow.BinaryTypes.String},
	{Name: "table_name", Type: arrow.BinaryTypes.String},
	{Name: "table_type", Type: arrow.BinaryTypes.String},
}, nil)

// TableListing encodes entries as a single-batch Arrow IPC stream.
func TableListing(entries []TableEntry, alloc memory.Allocator) ([]byte, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	builder := array.NewRecordBuilder(alloc, listingSchema)
	defer builder.Release()

	catalogB := builder.Field(0).(*array.StringBuilder)
	schemaB := builder.Field(1).(*array.StringBuilder)
	tableB := builder.Field(2).(*array.StringBuilder)
	typeB := builder.Field(3).(*array.StringBuilder)

	for _, e := range entries {
		if e.Catalog == "" {
			catalogB.AppendNull()
		} else {
			catalogB.Append(e.Catalog)
		}
		schemaB.Append(e.Schema)
		tableB.Append(e.Table)
		typeB.Append(e.Type)
	}

	record := builder.NewRecordBatch()
	defer record.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(listingSchema), ipc.WithAllocator(alloc))
	if err := w.Write(record); err != nil {
		w.Close()
		return nil, fmt.Errorf("write listing batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close listing stream: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTableListing reads a listing stream back into entries. Intended
// for clients and tests.
func DecodeTableListing(data []byte, alloc memory.Allocator) ([]TableEntry, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(alloc))
	if err != nil {
		return nil, fmt.Errorf("open listing stream: %w", err)
	}
	defer r.Release()

	var entries []TableEntry
	for r.Next() {
		rec := r.RecordBatch()
		catalogs := rec.Column(0).(*array.String)
		schemas := rec.Column(1).(*array.String)
		tables := rec.Column(2).(*array.String)
		types := rec.Column(3).(*array.String)
		for i := 0; i < int(rec.NumRows()); i++ {
			e := TableEntry{
				Schema: schemas.Value(i),
				Table:  tables.Value(i),
				Type:   types.Value(i),
			}
			if !catalogs.IsNull(i) {
				e.Catalog = catalogs.Value(i)
			}
			entries = append(entries, e)
		}
	}
	return entries, r.Err()
}

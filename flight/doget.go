package flight

import (
	"context"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/orabridge/catalog"
	"github.com/hugr-lab/orabridge/filter"
	"github.com/hugr-lab/orabridge/internal/recovery"
)

// DoGet streams Arrow record batches for a table scan.
//
// The handler decodes the ticket, resolves the table through the catalog
// cache, translates the pushed filter to Oracle SQL where possible and
// streams the scan result in IPC format. Filters that do not translate
// are dropped here; the engine re-applies them locally, so the stream may
// carry a superset of the final rows but never a subset.
func (s *Server) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	td, err := s.DecodeTicket(ticket.GetTicket())
	if err != nil {
		s.logger.Error("failed to decode ticket", "error", err)
		return status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
	}

	return recovery.ToError(s.logger, "DoGet", func() error {
		return s.streamScan(ctx, td, stream)
	})
}

func (s *Server) streamScan(ctx context.Context, td *TicketData, stream flight.FlightService_DoGetServer) error {
	tbl, err := s.resolveTable(ctx, td.Catalog, td.Schema, td.Table)
	if err != nil {
		return err
	}

	opts := catalog.ScanOptions{Limit: -1, Offset: td.Offset}
	if td.Limit != nil {
		opts.Limit = *td.Limit
	}

	opts.Projection, err = resolveProjection(tbl, td.Columns)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if len(td.Filter) > 0 {
		pushdown, err := filter.Parse(td.Filter)
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "invalid filter payload: %v", err)
		}
		clauses, remaining := filter.NewOracleEncoder().EncodeFilters(pushdown)
		opts.FilterClauses = clauses
		if len(remaining) > 0 {
			s.logger.Debug("filters kept engine-side",
				"schema", tbl.Schema().Name(),
				"table", tbl.Name(),
				"pushed", len(clauses),
				"remaining", len(remaining),
			)
		}
	}

	reader, err := tbl.Scan(ctx, opts)
	if err != nil {
		s.logger.Error("scan failed",
			"schema", tbl.Schema().Name(), "table", tbl.Name(), "error", err)
		return status.Errorf(codes.Internal, "scan failed: %v", err)
	}
	defer reader.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(reader.Schema()))
	defer writer.Close()

	batches := 0
	rows := int64(0)
	for reader.Next() {
		select {
		case <-ctx.Done():
			s.logger.Debug("DoGet cancelled by client",
				"table", tbl.Name(), "batches_sent", batches, "rows_sent", rows)
			return status.Error(codes.Canceled, "request cancelled")
		default:
		}

		record := reader.RecordBatch()
		batches++
		rows += record.NumRows()
		if err := writer.Write(record); err != nil {
			return status.Errorf(codes.Internal, "failed to write batch %d: %v", batches, err)
		}
	}
	if err := reader.Err(); err != nil {
		s.logger.Error("scan error during streaming",
			"schema", tbl.Schema().Name(), "table", tbl.Name(), "error", err)
		return status.Errorf(codes.Internal, "scan error after batch %d: %v", batches, err)
	}

	s.logger.Debug("DoGet completed",
		"schema", tbl.Schema().Name(),
		"table", tbl.Name(),
		"batches_sent", batches,
		"total_rows", rows,
	)
	return nil
}

// resolveTable routes a request to a cached table. A missing table maps to
// NotFound without polluting the cache.
func (s *Server) resolveTable(ctx context.Context, catalogName, schemaName, tableName string) (*catalog.Table, error) {
	cat, err := s.registry.Get(catalogName)
	if err != nil {
		return nil, status.Errorf(codes.NotFound, "catalog %q: %v", catalogName, err)
	}
	if schemaName == "" {
		schemaName = cat.DefaultSchema()
	}
	tbl, err := cat.Schema(schemaName).Table(ctx, tableName)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to resolve table: %v", err)
	}
	if tbl == nil {
		return nil, status.Errorf(codes.NotFound, "table not found: %s.%s", schemaName, tableName)
	}
	return tbl, nil
}

// resolveProjection maps projected column names to projection indexes.
// Names fold to upper case; ROWID selects the pseudo column.
func resolveProjection(tbl *catalog.Table, columns []string) ([]int, error) {
	if columns == nil {
		return nil, nil
	}
	cols := tbl.Columns()
	byName := make(map[string]int, len(cols))
	for i, c := range cols {
		byName[c.Name] = i
	}

	projection := make([]int, 0, len(columns))
	for _, name := range columns {
		key := strings.ToUpper(name)
		if key == "ROWID" {
			projection = append(projection, catalog.RowIDIndex)
			continue
		}
		idx, ok := byName[key]
		if !ok {
			return nil, &unknownColumnError{Table: tbl.Name(), Column: name}
		}
		projection = append(projection, idx)
	}
	return projection, nil
}

type unknownColumnError struct {
	Table  string
	Column string
}

func (e *unknownColumnError) Error() string {
	return "unknown column " + e.Column + " in table " + e.Table
}

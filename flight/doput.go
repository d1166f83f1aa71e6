package flight

import (
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/orabridge/catalog"
	"github.com/hugr-lab/orabridge/internal/msgpack"
	"github.com/hugr-lab/orabridge/internal/recovery"
)

// DoPut inserts streamed record batches into a table.
//
// The descriptor path addresses the target as [table] or [schema, table].
// Each batch is written with single-row binds and committed per batch;
// the PutResult metadata carries the running inserted row count.
func (s *Server) DoPut(stream flight.FlightService_DoPutServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		s.logger.Error("failed to open DoPut stream", "error", err)
		return status.Errorf(codes.InvalidArgument, "failed to read stream: %v", err)
	}
	defer reader.Release()

	desc := reader.LatestFlightDescriptor()
	if desc == nil || desc.GetType() != flight.DescriptorPATH {
		return status.Error(codes.InvalidArgument, "descriptor must be PATH type")
	}

	var schemaName, tableName string
	switch path := desc.GetPath(); len(path) {
	case 1:
		tableName = path[0]
	case 2:
		schemaName, tableName = path[0], path[1]
	default:
		return status.Error(codes.InvalidArgument,
			"path must be [table_name] or [schema_name, table_name]")
	}

	tbl, err := s.resolveTable(ctx, CatalogNameFromContext(ctx), schemaName, tableName)
	if err != nil {
		return err
	}

	return recovery.ToError(s.logger, "DoPut", func() error {
		var total int64
		for reader.Next() {
			record := reader.RecordBatch()
			n, err := tbl.Insert(ctx, record)
			if err != nil {
				if errors.Is(err, catalog.ErrReadOnly) {
					return status.Error(codes.PermissionDenied, err.Error())
				}
				s.logger.Error("insert failed",
					"schema", tbl.Schema().Name(), "table", tbl.Name(), "error", err)
				return status.Errorf(codes.Internal, "insert failed: %v", err)
			}
			total += n

			meta, err := msgpack.Encode(map[string]any{"inserted": total})
			if err != nil {
				return status.Errorf(codes.Internal, "failed to encode result: %v", err)
			}
			if err := stream.Send(&flight.PutResult{AppMetadata: meta}); err != nil {
				return status.Errorf(codes.Internal, "failed to send result: %v", err)
			}
		}
		if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return status.Errorf(codes.Internal, "error reading input: %v", err)
		}

		s.logger.Debug("DoPut completed",
			"schema", tbl.Schema().Name(),
			"table", tbl.Name(),
			"total_rows", total,
		)
		return nil
	})
}

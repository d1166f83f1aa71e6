package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/orabridge/internal/recovery"
)

// GetFlightInfo returns the table schema and a scan ticket.
//
// The descriptor path addresses the table as [table] or [schema, table];
// a one-element path resolves against the catalog's default schema. The
// catalog is selected by the routing header.
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx = EnrichContextMetadata(ctx)

	if desc.GetType() != flight.DescriptorPATH {
		return nil, status.Error(codes.InvalidArgument, "descriptor must be PATH type")
	}

	var schemaName, tableName string
	switch path := desc.GetPath(); len(path) {
	case 1:
		tableName = path[0]
	case 2:
		schemaName, tableName = path[0], path[1]
	default:
		return nil, status.Error(codes.InvalidArgument,
			"path must be [table_name] or [schema_name, table_name]")
	}

	catalogName := CatalogNameFromContext(ctx)
	return recovery.ToValue(s.logger, "GetFlightInfo", func() (*flight.FlightInfo, error) {
		return s.flightInfo(ctx, catalogName, schemaName, tableName)
	})
}

func (s *Server) flightInfo(ctx context.Context, catalogName, schemaName, tableName string) (*flight.FlightInfo, error) {
	tbl, err := s.resolveTable(ctx, catalogName, schemaName, tableName)
	if err != nil {
		return nil, err
	}

	ticket, err := s.EncodeTicket(TicketData{
		Catalog: catalogName,
		Schema:  tbl.Schema().Name(),
		Table:   tbl.Name(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
	}

	info := &flight.FlightInfo{
		Schema: flight.SerializeSchema(tbl.ArrowSchema(), s.allocator),
		FlightDescriptor: &flight.FlightDescriptor{
			Type: flight.DescriptorPATH,
			Path: []string{tbl.Schema().Name(), tbl.Name()},
		},
		Endpoint: []*flight.FlightEndpoint{
			{Ticket: &flight.Ticket{Ticket: ticket}},
		},
		TotalRecords: -1,
		TotalBytes:   -1,
	}

	s.logger.Debug("GetFlightInfo resolved",
		"schema", tbl.Schema().Name(),
		"table", tbl.Name(),
		"num_fields", tbl.ArrowSchema().NumFields(),
	)
	return info, nil
}

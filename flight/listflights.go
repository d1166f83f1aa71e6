package flight

import (
	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/orabridge/catalog"
)

// ListFlights streams one FlightInfo per table visible through every
// attached catalog's default schema, each carrying the table's Arrow
// schema and a ready scan ticket. Catalogs that fail to answer are
// skipped so one unreachable database does not hide the rest.
//
// The criteria parameter is ignored.
func (s *Server) ListFlights(_ *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	var sent int
	for _, name := range s.registry.Names() {
		cat, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		schema := cat.Schema(cat.DefaultSchema())
		var sendErr error
		err = schema.Tables(ctx, func(tbl *catalog.Table) error {
			info, err := s.tableFlightInfo(name, tbl)
			if err != nil {
				return err
			}
			if err := stream.Send(info); err != nil {
				sendErr = status.Errorf(codes.Internal, "failed to send flight info: %v", err)
				return sendErr
			}
			sent++
			return nil
		})
		if sendErr != nil {
			return sendErr
		}
		if err != nil {
			s.logger.Warn("catalog listing failed", "catalog", name, "error", err)
			continue
		}
	}

	s.logger.Debug("ListFlights completed", "tables", sent)
	return nil
}

func (s *Server) tableFlightInfo(catalogName string, tbl *catalog.Table) (*flight.FlightInfo, error) {
	ticket, err := s.EncodeTicket(TicketData{
		Catalog: catalogName,
		Schema:  tbl.Schema().Name(),
		Table:   tbl.Name(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
	}
	return &flight.FlightInfo{
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
	}, nil
}

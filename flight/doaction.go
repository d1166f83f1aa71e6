package flight

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/orabridge/catalog"
	"github.com/hugr-lab/orabridge/internal/msgpack"
	"github.com/hugr-lab/orabridge/internal/recovery"
	"github.com/hugr-lab/orabridge/internal/serialize"
)

// Action type names accepted by DoAction.
const (
	ActionListSchemas = "list_schemas"
	ActionListTables  = "list_tables"
	ActionCreateTable = "create_table"
	ActionDropTable   = "drop_table"
	ActionClearCache  = "clear_cache"
	ActionCatalogInfo = "catalog_info"
)

// DoAction executes catalog management commands. Request bodies and
// result payloads are MessagePack maps.
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	s.logger.Debug("DoAction called",
		"type", action.GetType(),
		"body_size", len(action.GetBody()),
	)

	return recovery.ToError(s.logger, "DoAction "+action.GetType(), func() error {
		switch action.GetType() {
		case ActionListSchemas:
			return s.handleListSchemas(ctx, action, stream)
		case ActionListTables:
			return s.handleListTables(ctx, action, stream)
		case ActionCreateTable:
			return s.handleCreateTable(ctx, action, stream)
		case ActionDropTable:
			return s.handleDropTable(ctx, action, stream)
		case ActionClearCache:
			return s.handleClearCache(action, stream)
		case ActionCatalogInfo:
			return s.handleCatalogInfo(ctx, action, stream)
		default:
			return status.Errorf(codes.Unimplemented, "unknown action type: %s", action.GetType())
		}
	})
}

// actionTarget is the common request body for catalog-addressed actions.
type actionTarget struct {
	Catalog string `msgpack:"catalog,omitempty"`
	Schema  string `msgpack:"schema,omitempty"`
	Table   string `msgpack:"table,omitempty"`
	Purge   bool   `msgpack:"purge,omitempty"`
}

func decodeTarget(body []byte) (actionTarget, error) {
	var target actionTarget
	if len(body) == 0 {
		return target, nil
	}
	err := msgpack.Decode(body, &target)
	return target, err
}

func sendResult(stream flight.FlightService_DoActionServer, payload any) error {
	body, err := msgpack.Encode(payload)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to encode result: %v", err)
	}
	if err := stream.Send(&flight.Result{Body: body}); err != nil {
		return status.Errorf(codes.Internal, "failed to send result: %v", err)
	}
	return nil
}

func (s *Server) handleListSchemas(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	target, err := decodeTarget(action.GetBody())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	cat, err := s.registry.Get(target.Catalog)
	if err != nil {
		return status.Errorf(codes.NotFound, "catalog %q: %v", target.Catalog, err)
	}

	names, err := cat.SchemaNames(ctx)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to list schemas: %v", err)
	}
	return sendResult(stream, map[string]any{"schemas": names})
}

func (s *Server) handleListTables(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	target, err := decodeTarget(action.GetBody())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	cat, err := s.registry.Get(target.Catalog)
	if err != nil {
		return status.Errorf(codes.NotFound, "catalog %q: %v", target.Catalog, err)
	}
	if target.Schema == "" {
		target.Schema = cat.DefaultSchema()
	}

	infos, err := cat.Schema(target.Schema).TableNames(ctx)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to list tables: %v", err)
	}
	tables := make([]map[string]string, len(infos))
	entries := make([]serialize.TableEntry, len(infos))
	for i, info := range infos {
		tables[i] = map[string]string{"name": info.Name, "type": info.Type}
		entries[i] = serialize.TableEntry{
			Catalog: target.Catalog,
			Schema:  target.Schema,
			Table:   info.Name,
			Type:    info.Type,
		}
	}
	// The listing duplicates the name list as an Arrow IPC table in the
	// Flight SQL GetTables layout for clients that consume it directly.
	listing, err := serialize.TableListing(entries, s.allocator)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to serialize listing: %v", err)
	}
	return sendResult(stream, map[string]any{
		"schema":  target.Schema,
		"tables":  tables,
		"listing": s.codec.Compress(listing),
	})
}

// createTableRequest extends the common target with a serialized Arrow
// schema describing the columns.
type createTableRequest struct {
	actionTarget
	ArrowSchema []byte `msgpack:"arrow_schema"`
}

func (s *Server) handleCreateTable(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	var req createTableRequest
	if err := msgpack.Decode(action.GetBody(), &req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	if req.Table == "" {
		return status.Error(codes.InvalidArgument, "table name is required")
	}

	arrowSchema, err := flight.DeserializeSchema(req.ArrowSchema, s.allocator)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid arrow schema: %v", err)
	}

	cat, err := s.registry.Get(req.Catalog)
	if err != nil {
		return status.Errorf(codes.NotFound, "catalog %q: %v", req.Catalog, err)
	}
	if req.Schema == "" {
		req.Schema = cat.DefaultSchema()
	}

	tbl, err := cat.Schema(req.Schema).CreateTable(ctx, req.Table, arrowSchema)
	if err != nil {
		return statusFromCatalogError(err, "create table")
	}
	s.logger.Info("table created", "schema", tbl.Schema().Name(), "table", tbl.Name())
	return sendResult(stream, map[string]any{
		"schema": tbl.Schema().Name(),
		"table":  tbl.Name(),
	})
}

func (s *Server) handleDropTable(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	target, err := decodeTarget(action.GetBody())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	if target.Table == "" {
		return status.Error(codes.InvalidArgument, "table name is required")
	}

	cat, err := s.registry.Get(target.Catalog)
	if err != nil {
		return status.Errorf(codes.NotFound, "catalog %q: %v", target.Catalog, err)
	}
	if target.Schema == "" {
		target.Schema = cat.DefaultSchema()
	}

	if err := cat.Schema(target.Schema).DropTable(ctx, target.Table, target.Purge); err != nil {
		return statusFromCatalogError(err, "drop table")
	}
	s.logger.Info("table dropped", "schema", target.Schema, "table", target.Table)
	return sendResult(stream, map[string]any{"dropped": true})
}

// handleClearCache resets the target catalog's metadata and connection
// caches. The result is "1" on success and "0" when the catalog is not
// registered; the action itself never fails.
func (s *Server) handleClearCache(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	target, err := decodeTarget(action.GetBody())
	if err != nil {
		return sendResult(stream, map[string]any{"cleared": "0"})
	}
	cat, err := s.registry.Get(target.Catalog)
	if err != nil {
		s.logger.Warn("clear_cache for unknown catalog", "catalog", target.Catalog)
		return sendResult(stream, map[string]any{"cleared": "0"})
	}
	cat.ClearCache()
	return sendResult(stream, map[string]any{"cleared": "1"})
}

// handleCatalogInfo reports server version and catalog kind. A probe
// failure degrades to an error row instead of failing the action, so
// clients can inspect half-broken attachments.
func (s *Server) handleCatalogInfo(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	target, err := decodeTarget(action.GetBody())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	cat, err := s.registry.Get(target.Catalog)
	if err != nil {
		return status.Errorf(codes.NotFound, "catalog %q: %v", target.Catalog, err)
	}

	version, err := cat.ServerVersion(ctx)
	if err != nil {
		s.logger.Warn("catalog info probe failed", "catalog", target.Catalog, "error", err)
		return sendResult(stream, map[string]any{"error": err.Error()})
	}
	return sendResult(stream, map[string]any{
		"server_version": version,
		"catalog_type":   catalog.Kind,
		"default_schema": cat.DefaultSchema(),
		"read_only":      cat.ReadOnly(),
	})
}

func statusFromCatalogError(err error, op string) error {
	if err == nil {
		return nil
	}
	code := codes.Internal
	switch {
	case errors.Is(err, catalog.ErrReadOnly):
		code = codes.PermissionDenied
	case errors.Is(err, catalog.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, catalog.ErrUnsupported):
		code = codes.Unimplemented
	}
	return status.Errorf(code, "%s: %v", op, err)
}

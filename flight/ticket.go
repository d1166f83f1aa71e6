package flight

import (
	"fmt"

	"github.com/hugr-lab/orabridge/internal/msgpack"
)

// TicketData is the decoded content of a Flight ticket. Tickets are
// MessagePack payloads in ZStandard framing: schema and table route the
// request, the remaining fields shape the scan.
type TicketData struct {
	// Catalog routes to an attached catalog. Empty selects the default.
	Catalog string `msgpack:"catalog,omitempty"`

	// Schema is the Oracle namespace. Empty selects the catalog's
	// default schema.
	Schema string `msgpack:"schema,omitempty"`

	// Table is the table or view name.
	Table string `msgpack:"table"`

	// Columns projects by name, in result order. The name "ROWID"
	// selects the pseudo column. Nil selects all columns.
	Columns []string `msgpack:"columns,omitempty"`

	// Filter is a JSON-encoded pushed filter payload. Fragments that do
	// not translate stay engine-side, so a partially translated filter
	// never narrows the result.
	Filter []byte `msgpack:"filter,omitempty"`

	// Limit bounds the row count. Nil means unbounded.
	Limit *int64 `msgpack:"limit,omitempty"`

	// Offset skips leading rows.
	Offset int64 `msgpack:"offset,omitempty"`
}

// EncodeTicket renders ticket data into the opaque wire form.
func (s *Server) EncodeTicket(td TicketData) ([]byte, error) {
	if td.Table == "" {
		return nil, fmt.Errorf("ticket table name cannot be empty")
	}
	data, err := msgpack.Encode(td)
	if err != nil {
		return nil, fmt.Errorf("encode ticket: %w", err)
	}
	return s.codec.Compress(data), nil
}

// DecodeTicket parses an opaque ticket.
func (s *Server) DecodeTicket(raw []byte) (*TicketData, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("ticket cannot be empty")
	}
	data, err := s.codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decode ticket: %w", err)
	}
	var td TicketData
	if err := msgpack.Decode(data, &td); err != nil {
		return nil, fmt.Errorf("decode ticket: %w", err)
	}
	if td.Table == "" {
		return nil, fmt.Errorf("decoded ticket has empty table name")
	}
	if td.Limit != nil && *td.Limit < 0 {
		return nil, fmt.Errorf("ticket limit must be non-negative, got %d", *td.Limit)
	}
	if td.Offset < 0 {
		return nil, fmt.Errorf("ticket offset must be non-negative, got %d", td.Offset)
	}
	return &td, nil
}

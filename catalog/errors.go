package catalog

import "errors"

var (
	// ErrAlreadyExists is returned when creating a table that is cached or
	// present on the server.
	ErrAlreadyExists = errors.New("catalog: object already exists")

	// ErrUnsupported is returned for operations the bridge never forwards
	// to Oracle, such as index creation.
	ErrUnsupported = errors.New("catalog: operation not supported")

	// ErrReadOnly is returned for DDL and DML against a read-only attach.
	ErrReadOnly = errors.New("catalog: attached read-only")
)

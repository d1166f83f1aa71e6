package conn

import (
	"errors"
	"fmt"
)

var errDriverMissing = errors.New(`database/sql driver "oracle" is not registered`)

// Error wraps an Oracle round-trip failure with the originating operation
// name. The Oracle diagnostic text is preserved verbatim in Err.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("oracle %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

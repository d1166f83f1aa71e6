package conn

import (
	"database/sql"
	"slices"
	"sync"

	_ "github.com/sijms/go-ora/v2" // registers the "oracle" database/sql driver
)

// The go-ora driver registers itself process-wide on import. Registration
// is global state with process lifetime and no teardown, so it is checked
// exactly once, lazily, on first open.
var (
	driverOnce sync.Once
	driverErr  error
)

func ensureDriver() error {
	driverOnce.Do(func() {
		if !slices.Contains(sql.Drivers(), "oracle") {
			driverErr = &Error{Op: "Init", Err: errDriverMissing}
		}
	})
	return driverErr
}

// Package conn manages authenticated Oracle sessions for the bridge: the
// connect-string grammars, a thread-confined Connection wrapping one live
// session, and a bounded Pool of idle Connections shared by all scans of
// one attached catalog.
package conn

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
)

// ScaleUnspecified is the DATA_SCALE sentinel for NUMBER columns declared
// without precision/scale. It is distinct from scale 0.
const ScaleUnspecified = -127

// conservativeMajorVersion is reported when the server version cannot be
// determined. Version 11 selects the ROWNUM paging dialect, which every
// supported server accepts.
const conservativeMajorVersion = 11

// TableInfo is one row of a namespace listing.
type TableInfo struct {
	Name string
	Type string // "TABLE" or "VIEW"
}

// ColumnInfo describes one Oracle column as reported by ALL_TAB_COLUMNS.
// Precision 0 and Scale == ScaleUnspecified mean the respective attribute
// was NULL in the dictionary.
type ColumnInfo struct {
	Name       string
	TypeName   string
	Precision  int
	Scale      int
	CharLength int
	Nullable   bool
}

// Connection is one live Oracle session. All methods serialize on an
// internal mutex, so concurrent callers on the same Connection block for
// the duration of one remote round trip. Connections are handed out
// exclusively by the Pool, which never shares one instance between two
// holders.
type Connection struct {
	params Parameters

	mu sync.Mutex
	db *sql.DB
}

// Open establishes and verifies one authenticated session.
func Open(ctx context.Context, params Parameters) (*Connection, error) {
	if err := ensureDriver(); err != nil {
		return nil, err
	}
	db, err := sql.Open("oracle", params.ConnectString())
	if err != nil {
		return nil, &Error{Op: "Open", Err: err}
	}
	// One Oracle session per Connection. Serialization is handled by the
	// Connection mutex, not by database/sql connection juggling.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &Error{Op: "Open", Err: err}
	}
	return &Connection{params: params, db: db}, nil
}

// Params returns the parameters the connection was opened with.
func (c *Connection) Params() Parameters { return c.params }

// Close tears down the session. Safe to call twice.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Query runs a SELECT and returns its row stream. The caller owns the
// returned rows and must close them; the connection must not be used for
// other statements until then.
func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &Error{Op: "Query", Err: err}
	}
	return rows, nil
}

// Exec runs one DDL or DML statement and returns the affected row count
// (0 for DDL, which reports none).
func (c *Connection) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, &Error{Op: "Exec", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// InsertBatch prepares one INSERT with positional binds and executes it
// once per row inside a single transaction, committing on success. A
// mid-batch failure rolls the whole batch back. This is the slow path;
// array DML is a planned extension behind the same signature.
func (c *Connection) InsertBatch(ctx context.Context, insert string, rows [][]any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &Error{Op: "Insert", Err: err}
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return 0, &Error{Op: "Insert", Err: err}
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			tx.Rollback()
			return 0, &Error{Op: "Insert", Err: err}
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, &Error{Op: "Insert", Err: err}
	}
	return inserted, nil
}

// GetTables lists tables and views owned by the given schema.
func (c *Connection) GetTables(ctx context.Context, owner string) ([]TableInfo, error) {
	const query = `
		SELECT OBJECT_NAME, OBJECT_TYPE
		FROM ALL_OBJECTS
		WHERE OWNER = :1 AND OBJECT_TYPE IN ('TABLE', 'VIEW')
		ORDER BY OBJECT_NAME`

	rows, err := c.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Type); err != nil {
			return nil, &Error{Op: "GetTables", Err: err}
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "GetTables", Err: err}
	}
	return tables, nil
}

// GetColumns fetches column metadata for one table in dictionary order.
// An empty result means the table does not exist; that is not an error.
func (c *Connection) GetColumns(ctx context.Context, owner, table string) ([]ColumnInfo, error) {
	const query = `
		SELECT COLUMN_NAME, DATA_TYPE, DATA_PRECISION, DATA_SCALE, CHAR_LENGTH, NULLABLE
		FROM ALL_TAB_COLUMNS
		WHERE OWNER = :1 AND TABLE_NAME = :2
		ORDER BY COLUMN_ID`

	rows, err := c.Query(ctx, query, owner, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			col       ColumnInfo
			precision sql.NullInt64
			scale     sql.NullInt64
			charLen   sql.NullInt64
			nullable  string
		)
		if err := rows.Scan(&col.Name, &col.TypeName, &precision, &scale, &charLen, &nullable); err != nil {
			return nil, &Error{Op: "GetColumns", Err: err}
		}
		if precision.Valid {
			col.Precision = int(precision.Int64)
		}
		col.Scale = ScaleUnspecified
		if scale.Valid {
			col.Scale = int(scale.Int64)
		}
		if charLen.Valid {
			col.CharLength = int(charLen.Int64)
		}
		col.Nullable = nullable != "N"
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "GetColumns", Err: err}
	}
	return cols, nil
}

// NumRows reports the optimizer's row count for a table. The second result
// is false when statistics are missing or unreadable.
func (c *Connection) NumRows(ctx context.Context, owner, table string) (int64, bool) {
	const query = `SELECT NUM_ROWS FROM ALL_TABLES WHERE OWNER = :1 AND TABLE_NAME = :2`

	rows, err := c.Query(ctx, query, owner, table)
	if err != nil {
		return 0, false
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, false
	}
	var n sql.NullInt64
	if err := rows.Scan(&n); err != nil || !n.Valid {
		return 0, false
	}
	return n.Int64, true
}

// ServerVersion returns the Oracle server version string, e.g. "19.0.0.0.0".
func (c *Connection) ServerVersion(ctx context.Context) (string, error) {
	const query = `SELECT VERSION FROM PRODUCT_COMPONENT_VERSION WHERE PRODUCT LIKE 'Oracle%'`

	rows, err := c.Query(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", &Error{Op: "ServerVersion", Err: err}
		}
		return "", &Error{Op: "ServerVersion", Err: sql.ErrNoRows}
	}
	var version string
	if err := rows.Scan(&version); err != nil {
		return "", &Error{Op: "ServerVersion", Err: err}
	}
	return version, nil
}

// ServerMajorVersion returns the numeric major version. It fails soft: any
// lookup or parse failure yields the most conservative dialect version
// rather than an error.
func (c *Connection) ServerMajorVersion(ctx context.Context) int {
	version, err := c.ServerVersion(ctx)
	if err != nil {
		return conservativeMajorVersion
	}
	major, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(major)
	if err != nil || n <= 0 {
		return conservativeMajorVersion
	}
	return n
}

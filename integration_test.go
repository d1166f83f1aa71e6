// Integration tests run DuckDB with the Airport extension as a Flight
// client against a live Oracle database. They are gated on the
// ORABRIDGE_TEST_DSN environment variable; without it, the tests skip.
//
// The target database is expected to carry the HR sample schema.
package orabridge_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"testing"
	"time"

	"google.golang.org/grpc"

	"github.com/hugr-lab/orabridge"

	_ "github.com/duckdb/duckdb-go/v2"
)

type testServer struct {
	grpcServer *grpc.Server
	listener   net.Listener
	address    string
	bridge     *orabridge.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := os.Getenv("ORABRIDGE_TEST_DSN")
	if dsn == "" {
		t.Skip("ORABRIDGE_TEST_DSN not set")
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	config := orabridge.ServerConfig{Address: lis.Addr().String()}
	grpcServer := grpc.NewServer(orabridge.ServerOptions(config)...)
	bridge, err := orabridge.NewServer(grpcServer, config)
	if err != nil {
		t.Fatalf("failed to register server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := bridge.Attach(ctx, "ora", dsn, orabridge.AttachOptions{}); err != nil {
		t.Fatalf("failed to attach oracle database: %v", err)
	}

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("server error: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	return &testServer{
		grpcServer: grpcServer,
		listener:   lis,
		address:    lis.Addr().String(),
		bridge:     bridge,
	}
}

func (s *testServer) stop() {
	s.grpcServer.GracefulStop()
	s.listener.Close()
}

func openDuckDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("DuckDB not available: %v", err)
	}
	if _, err := db.Exec("INSTALL airport FROM community"); err != nil {
		db.Close()
		t.Skipf("Airport extension not available: %v", err)
	}
	if _, err := db.Exec("LOAD airport"); err != nil {
		db.Close()
		t.Skipf("failed to load Airport extension: %v", err)
	}
	return db
}

func attachBridge(t *testing.T, db *sql.DB, address string) string {
	t.Helper()

	const attachName = "ora"
	query := fmt.Sprintf("ATTACH '' AS %s (TYPE airport, LOCATION 'grpc://%s')", attachName, address)
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("failed to attach bridge: %v", err)
	}
	return attachName
}

func TestDiscovery(t *testing.T) {
	server := newTestServer(t)
	defer server.stop()

	db := openDuckDB(t)
	defer db.Close()

	name := attachBridge(t, db, server.address)

	rows, err := db.Query("SELECT table_name FROM duckdb_tables() WHERE database_name = ?", name)
	if err != nil {
		t.Fatalf("discovery query failed: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			t.Fatal(err)
		}
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		t.Error("no tables discovered through the bridge")
	}
	t.Logf("discovered %d tables", len(tables))
}

func TestFilteredScan(t *testing.T) {
	server := newTestServer(t)
	defer server.stop()

	db := openDuckDB(t)
	defer db.Close()

	name := attachBridge(t, db, server.address)

	query := fmt.Sprintf(
		"SELECT EMPLOYEE_ID, LAST_NAME FROM %s.HR.EMPLOYEES WHERE DEPARTMENT_ID = 90 ORDER BY EMPLOYEE_ID",
		name)
	rows, err := db.Query(query)
	if err != nil {
		t.Fatalf("filtered scan failed: %v", err)
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var id int64
		var lastName string
		if err := rows.Scan(&id, &lastName); err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count == 0 {
		t.Error("filtered scan returned no rows")
	}
}

func TestLimitOffset(t *testing.T) {
	server := newTestServer(t)
	defer server.stop()

	db := openDuckDB(t)
	defer db.Close()

	name := attachBridge(t, db, server.address)

	query := fmt.Sprintf(
		"SELECT EMPLOYEE_ID FROM %s.HR.EMPLOYEES ORDER BY EMPLOYEE_ID LIMIT 10 OFFSET 5", name)
	rows, err := db.Query(query)
	if err != nil {
		t.Fatalf("paged scan failed: %v", err)
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != 10 {
		t.Errorf("paged scan returned %d rows, want 10", count)
	}
}

func TestClearCacheViaAPI(t *testing.T) {
	server := newTestServer(t)
	defer server.stop()

	if got := server.bridge.ClearCache("ora"); got != 1 {
		t.Errorf("ClearCache = %d, want 1", got)
	}
	if got := server.bridge.ClearCache("missing"); got != 0 {
		t.Errorf("ClearCache for unknown catalog = %d, want 0", got)
	}

	info := server.bridge.Info(context.Background(), "ora")
	if info["catalog_type"] != "oracle" {
		t.Errorf("catalog_type = %q, want oracle", info["catalog_type"])
	}
	if info["server_version"] == "" && info["error"] == "" {
		t.Error("info carries neither a version nor an error")
	}
}

// Package orabridge exposes Oracle databases to DuckDB over Arrow
// Flight.
//
// The bridge attaches one or more Oracle databases, caches their
// metadata, and serves table scans as Arrow record batch streams. Query
// shaping the engine pushes down (column projection, filters, limit and
// offset) is translated to Oracle SQL where a faithful translation
// exists and kept engine-side otherwise.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "net"
//
//	    "google.golang.org/grpc"
//
//	    "github.com/hugr-lab/orabridge"
//	)
//
//	func main() {
//	    grpcServer := grpc.NewServer()
//	    srv, err := orabridge.NewServer(grpcServer, orabridge.ServerConfig{
//	        Address: "localhost:8815",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    err = srv.Attach(context.Background(), "ora",
//	        "host=db1 port=1521 service=ORCL user=scott password=tiger",
//	        orabridge.AttachOptions{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    lis, _ := net.Listen("tcp", ":8815")
//	    grpcServer.Serve(lis)
//	}
//
// # Connection strings
//
// Three forms are accepted: key/value pairs
// ("host=db1 service=ORCL user=scott password=tiger"), easy connect
// ("//db1:1521/ORCL user=scott password=tiger") and a TNS alias as the
// first token ("PRODDB user=scott password=tiger"). See conn.
//
// # Server Lifecycle
//
// The package registers Flight handlers on a user-provided grpc.Server
// and does not manage its lifecycle. TLS, interceptors and graceful
// shutdown stay under the caller's control. For bearer token
// authentication build the gRPC server from ServerOptions.
//
// # Caching
//
// Schema and table metadata is cached per attached catalog and never
// refreshed automatically. After remote DDL from another session, call
// Server.ClearCache or send the clear_cache action.
package orabridge

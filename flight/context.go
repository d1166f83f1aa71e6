package flight

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const requestMetaKey contextKey = iota

// Metadata header keys for catalog routing and observability.
const (
	// HeaderAuthorization is the gRPC metadata header for the bearer token.
	HeaderAuthorization = "authorization"
	// HeaderCatalog selects the target catalog for a request.
	HeaderCatalog = "orabridge-catalog"
	// HeaderTraceID carries the client's distributed trace identifier.
	HeaderTraceID = "orabridge-trace-id"
)

// RequestMeta is the per-request metadata extracted from gRPC headers.
type RequestMeta struct {
	Authorization string
	TraceID       string
	CatalogName   string
}

// WithRequestMeta stores request metadata in the context.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, &meta)
}

// MetaFromContext retrieves request metadata, or nil when absent.
func MetaFromContext(ctx context.Context) *RequestMeta {
	meta, _ := ctx.Value(requestMetaKey).(*RequestMeta)
	return meta
}

// CatalogNameFromContext returns the catalog routing header value, or
// empty string for the default catalog.
func CatalogNameFromContext(ctx context.Context) string {
	meta := MetaFromContext(ctx)
	if meta == nil {
		return ""
	}
	return meta.CatalogName
}

// EnrichContextMetadata extracts known headers from incoming gRPC
// metadata and stores them in the context. An already enriched context is
// returned unchanged.
func EnrichContextMetadata(ctx context.Context) context.Context {
	if MetaFromContext(ctx) != nil {
		return ctx
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	var meta RequestMeta
	if values := md.Get(HeaderAuthorization); len(values) > 0 {
		meta.Authorization = values[0]
	}
	if values := md.Get(HeaderCatalog); len(values) > 0 {
		meta.CatalogName = values[0]
	}
	if values := md.Get(HeaderTraceID); len(values) > 0 {
		meta.TraceID = values[0]
	}
	return WithRequestMeta(ctx, meta)
}

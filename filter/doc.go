// Package filter parses the query engine's bound filter expressions and
// compiles them to Oracle SQL for pushdown.
//
// The engine serializes its expression tree as JSON. Parse turns that JSON
// into a typed expression model; OracleEncoder compiles each top-level
// filter to a WHERE fragment. Compilation is conservative: an expression
// compiles only if every node it contains compiles, so an unsupported
// operator anywhere inside a filter keeps the whole filter on the engine
// side. Filters that do compile are ANDed into the remote query; the rest
// are reported back for local re-application. Pushdown therefore only ever
// reduces transferred rows, never changes results.
package filter

// Package oteladapters provides OpenTelemetry implementations of the librarystore observability interfaces.
//
// The store only depends on the small interfaces declared in package librarystore, so any backend can be
// plugged in. These adapters are what the librarian service wires by default:
//
//	store, err := sqlengine.NewStoreFromPGXPool(pool,
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("librarystore"))),
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("librarystore"))),
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("librarystore")),
//	)
package oteladapters

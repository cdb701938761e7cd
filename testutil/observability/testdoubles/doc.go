// Package testdoubles provides test doubles (spies) for the observability interfaces of the library store
// and the command/query handlers.
//
// ContextualLoggerSpy captures structured logging calls together with their context,
// which enables testing trace correlation without a telemetry backend.
package testdoubles

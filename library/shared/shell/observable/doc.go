// Package observable provides wrappers that instrument command and query handlers with metrics,
// tracing and logging while the handlers themselves stay free of observability code.
//
// Wrappers are applied at wiring time:
//
//	coreHandler := lendbook.NewCommandHandler(store)
//
//	handler, err := observable.NewCommandWrapper[lendbook.Command, librarystore.Loan](
//		coreHandler,
//		observable.WithCommandMetrics[lendbook.Command, librarystore.Loan](metricsCollector),
//		observable.WithCommandTracing[lendbook.Command, librarystore.Loan](tracingCollector),
//		observable.WithCommandContextualLogging[lendbook.Command, librarystore.Loan](contextualLogger),
//	)
//
// Handlers used without a wrapper behave the same, just without instrumentation, which is what
// the feature tests do.
package observable

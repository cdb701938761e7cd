package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-lending/library/api"
	"github.com/AntonStoeckl/library-lending/library/shared/shell/config"
	"github.com/AntonStoeckl/library-lending/librarystore/oteladapters"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

const instrumentationName = "github.com/AntonStoeckl/library-lending"

// runtime is what every command needs: configuration, a logger and an open store.
type runtime struct {
	cfg    config.AppConfig
	logger *slog.Logger
	store  sqlengine.Store
	obs    api.Observability
	closer []func() error
}

func openRuntime(ctx context.Context, version string, stderr io.Writer) (*runtime, error) {
	cfg, err := config.AppConfigFromEnv()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	rt := &runtime{cfg: cfg, logger: logger, obs: api.Observability{Logger: logger}}

	storeOptions := []sqlengine.Option{sqlengine.WithLogger(logger)}

	if cfg.OTelEndpoint != "" {
		providers, err := config.NewObservabilityProviders(ctx, instrumentationName, version, cfg.OTelEndpoint)
		if err != nil {
			return nil, err
		}

		rt.closer = append(rt.closer, providers.Shutdown)

		metrics := oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
		tracing := oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))
		contextual := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())

		rt.obs = api.Observability{Metrics: metrics, Tracing: tracing, ContextualLogger: contextual, Logger: logger}
		storeOptions = append(storeOptions,
			sqlengine.WithMetrics(metrics),
			sqlengine.WithTracing(tracing),
			sqlengine.WithContextualLogger(contextual),
		)

		logger.InfoContext(ctx, "telemetry export enabled", "endpoint", cfg.OTelEndpoint)
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, storeOptions...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.store = store
	rt.closer = append(rt.closer, closeStore)

	return rt, nil
}

// Close releases the store and flushes telemetry, newest first.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closer) - 1; i >= 0; i-- {
		errs = append(errs, rt.closer[i]())
	}

	return errors.Join(errs...)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-lending/library/shared/shell/config"
	"github.com/AntonStoeckl/library-lending/librarystore/oteladapters"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

const (
	defaultRate         = 30
	defaultStudents     = 20
	defaultInitialStock = 50
	defaultReturnWeight = 40
	defaultDuration     = 30 * time.Second
	instrumentationName = "github.com/AntonStoeckl/library-lending/load-generator"
)

// Config controls a load generator run.
type Config struct {
	Rate                 int
	Students             int
	InitialStock         int
	ReturnWeight         int
	Duration             time.Duration
	ObservabilityEnabled bool
}

func main() {
	_ = godotenv.Load()
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	appConfig, err := config.AppConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var storeOptions []sqlengine.Option
	var obs ObservabilityConfig

	if cfg.ObservabilityEnabled && appConfig.OTelEndpoint != "" {
		providers, err := config.NewObservabilityProviders(ctx, instrumentationName, "dev", appConfig.OTelEndpoint)
		if err != nil {
			log.Fatalf("Failed to set up observability: %v", err)
		}
		defer func() { _ = providers.Shutdown() }()

		obs = ObservabilityConfig{
			MetricsCollector: oteladapters.NewMetricsCollector(otel.Meter(instrumentationName)),
			TracingCollector: oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
			ContextualLogger: oteladapters.NewSlogBridgeLogger(instrumentationName),
		}
		storeOptions = append(storeOptions,
			sqlengine.WithMetrics(obs.MetricsCollector),
			sqlengine.WithTracing(obs.TracingCollector),
			sqlengine.WithContextualLogger(obs.ContextualLogger),
		)

		log.Printf("Observability enabled, exporting to %s", appConfig.OTelEndpoint)
	}

	store, closeStore, err := config.OpenStore(ctx, appConfig, storeOptions...)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = closeStore() }()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	loadGen, err := NewLoadGenerator(ctx, store, cfg, obs)
	if err != nil {
		log.Fatalf("Failed to set up load generator: %v", err)
	}

	runCtx, stopRun := context.WithTimeout(ctx, cfg.Duration)
	defer stopRun()

	errChan := make(chan error, 1)
	go func() {
		errChan <- loadGen.Start(runCtx)
	}()

	log.Printf("Load generator %s started against %s", loadGen.RunID(), appConfig.DBDriver)
	log.Printf("Configuration: rate=%d req/s, students=%d, stock=%d, return_weight=%d%%, duration=%v",
		cfg.Rate, cfg.Students, cfg.InitialStock, cfg.ReturnWeight, cfg.Duration)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, stopping...", sig)
		stopRun()
		<-errChan
	case err := <-errChan:
		if err != nil && runCtx.Err() == nil {
			log.Printf("Load generator failed: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := loadGen.Stop(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	if err := loadGen.VerifyStock(shutdownCtx); err != nil {
		log.Printf("Stock check FAILED: %v", err)
		os.Exit(1)
	}

	log.Printf("Stock check passed")
}

func parseFlags() Config {
	var (
		rate          = flag.Int("rate", defaultRate, "Requests per second")
		students      = flag.Int("students", defaultStudents, "Number of students competing for the book")
		initialStock  = flag.Int("initial-stock", defaultInitialStock, "Copies of the contested book")
		returnWeight  = flag.Int("return-weight", defaultReturnWeight, "Percentage of requests that return a loan")
		duration      = flag.Duration("duration", defaultDuration, "How long to generate load")
		observability = flag.Bool("observability-enabled", false, "Export telemetry to LIBRARY_OTEL_ENDPOINT")
	)

	flag.Parse()

	cfg := Config{
		Rate:                 *rate,
		Students:             *students,
		InitialStock:         *initialStock,
		ReturnWeight:         *returnWeight,
		Duration:             *duration,
		ObservabilityEnabled: *observability,
	}

	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	return cfg
}

func (c Config) validate() error {
	switch {
	case c.Rate <= 0:
		return fmt.Errorf("rate must be positive, got %d", c.Rate)
	case c.Students <= 0:
		return fmt.Errorf("students must be positive, got %d", c.Students)
	case c.InitialStock <= 0:
		return fmt.Errorf("initial-stock must be positive, got %d", c.InitialStock)
	case c.ReturnWeight < 0 || c.ReturnWeight > 100:
		return fmt.Errorf("return-weight must be between 0 and 100, got %d", c.ReturnWeight)
	}

	return nil
}

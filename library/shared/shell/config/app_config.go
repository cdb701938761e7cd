package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadAppConfig.
const (
	EnvDBDriver       = "LIBRARY_DB_DRIVER"
	EnvDBDSN          = "LIBRARY_DB_DSN"
	EnvDBReplicaDSN   = "LIBRARY_DB_REPLICA_DSN"
	EnvHTTPAddr       = "LIBRARY_HTTP_ADDR"
	EnvJWTSecret      = "LIBRARY_JWT_SECRET"
	EnvJWTTTL         = "LIBRARY_JWT_TTL"
	EnvAssetsRoot     = "LIBRARY_ASSETS_ROOT"
	EnvUploadMaxBytes = "LIBRARY_UPLOAD_MAX_BYTES"
	EnvLogLevel       = "LIBRARY_LOG_LEVEL"
	EnvOTelEndpoint   = "LIBRARY_OTEL_ENDPOINT"
)

const (
	defaultDBDriver       = DriverSQLite
	defaultDBDSN          = "library.db"
	defaultHTTPAddr       = ":8080"
	defaultJWTTTL         = 24 * time.Hour
	defaultAssetsRoot     = "public"
	defaultUploadMaxBytes = int64(10 << 20)
)

// ErrInvalidConfig is returned for settings that cannot be parsed or are unsupported.
var ErrInvalidConfig = errors.New("invalid configuration")

// AppConfig holds the settings of the service.
type AppConfig struct {
	DBDriver       string
	DBDSN          string
	DBReplicaDSN   string
	HTTPAddr       string
	JWTSecret      string
	JWTTTL         time.Duration
	AssetsRoot     string
	UploadMaxBytes int64
	LogLevel       slog.Level

	// OTelEndpoint enables OpenTelemetry export over OTLP gRPC when set.
	OTelEndpoint string
}

// LookupFunc resolves an environment variable, os.LookupEnv being the default.
type LookupFunc func(key string) (string, bool)

// AppConfigFromEnv loads the configuration from the process environment.
func AppConfigFromEnv() (AppConfig, error) {
	return LoadAppConfig(os.LookupEnv)
}

// LoadAppConfig builds an AppConfig from lookup, falling back to defaults for unset variables.
func LoadAppConfig(lookup LookupFunc) (AppConfig, error) {
	cfg := AppConfig{
		DBDriver:       valueOr(lookup, EnvDBDriver, defaultDBDriver),
		DBDSN:          valueOr(lookup, EnvDBDSN, defaultDBDSN),
		DBReplicaDSN:   valueOr(lookup, EnvDBReplicaDSN, ""),
		HTTPAddr:       valueOr(lookup, EnvHTTPAddr, defaultHTTPAddr),
		JWTSecret:      valueOr(lookup, EnvJWTSecret, ""),
		JWTTTL:         defaultJWTTTL,
		AssetsRoot:     valueOr(lookup, EnvAssetsRoot, defaultAssetsRoot),
		UploadMaxBytes: defaultUploadMaxBytes,
		LogLevel:       slog.LevelInfo,
		OTelEndpoint:   valueOr(lookup, EnvOTelEndpoint, ""),
	}

	var errs []error

	if raw, ok := lookup(EnvJWTTTL); ok && raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%q is no positive duration", ErrInvalidConfig, EnvJWTTTL, raw))
		}
		cfg.JWTTTL = ttl
	}

	if raw, ok := lookup(EnvUploadMaxBytes); ok && raw != "" {
		maxBytes, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxBytes <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%q is no positive integer", ErrInvalidConfig, EnvUploadMaxBytes, raw))
		}
		cfg.UploadMaxBytes = maxBytes
	}

	if raw, ok := lookup(EnvLogLevel); ok && raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvLogLevel, raw))
		}
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return AppConfig{}, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate checks the database settings.
func (c AppConfig) Validate() error {
	if !isSupportedDriver(c.DBDriver) {
		return fmt.Errorf("%w: %s=%q, supported are %s", ErrInvalidConfig, EnvDBDriver, c.DBDriver, strings.Join(SupportedDrivers(), ", "))
	}

	if c.DBDSN == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, EnvDBDSN)
	}

	return nil
}

func valueOr(lookup LookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}

	return fallback
}

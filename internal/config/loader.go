package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "turnolink.yaml"

// DefaultEnvFile is the dotenv file loaded for local development.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// Both files are optional; a missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "TURNOLINK_PORT")
	setString(&cfg.Server.CORSOrigin, "TURNOLINK_CORS_ORIGIN")
	setDuration(&cfg.Server.RequestTimeout, "TURNOLINK_REQUEST_TIMEOUT")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "TURNOLINK_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "TURNOLINK_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "TURNOLINK_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "TURNOLINK_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "TURNOLINK_PG_HEALTH_CHECK")
	setString(&cfg.Postgres.RLS, "TURNOLINK_PG_RLS")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.CacheBucket, "TURNOLINK_NATS_CACHE_BUCKET")

	setBool(&cfg.Auth.Enabled, "TURNOLINK_AUTH_ENABLED")
	setString(&cfg.Auth.JWTSecret, "TURNOLINK_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "TURNOLINK_ACCESS_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "TURNOLINK_BCRYPT_COST")

	setString(&cfg.Logging.Level, "TURNOLINK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "TURNOLINK_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "TURNOLINK_LOG_ASYNC")

	setInt64(&cfg.Cache.L1MaxSizeMB, "TURNOLINK_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.TenantTTL, "TURNOLINK_CACHE_TENANT_TTL")

	setInt(&cfg.Breaker.MaxFailures, "TURNOLINK_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "TURNOLINK_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.RequestsPerSecond, "TURNOLINK_RATE_RPS")
	setInt(&cfg.Rate.Burst, "TURNOLINK_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "TURNOLINK_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "TURNOLINK_RATE_MAX_IDLE_TIME")

	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.OTEL.Insecure, "TURNOLINK_OTEL_INSECURE")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Postgres.RLS != "off" && cfg.Postgres.RLS != "enforce" {
		return errors.New("postgres.rls must be off or enforce")
	}
	if cfg.Auth.Enabled && len(cfg.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwt_secret must be at least 32 bytes when auth is enabled")
	}
	if cfg.Auth.AccessTokenExpiry <= 0 {
		return errors.New("auth.access_token_expiry must be positive")
	}
	if cfg.Cache.TenantTTL <= 0 {
		return errors.New("cache.tenant_ttl must be positive")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

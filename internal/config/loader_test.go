package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Postgres.RLSEnforced() {
		t.Error("expected rls off by default")
	}
	if cfg.Cache.TenantTTL != 30*time.Second {
		t.Errorf("expected tenant ttl 30s, got %v", cfg.Cache.TenantTTL)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected NATS disabled by default, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
postgres:
  max_conns: 20
  rls: enforce
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Postgres.MaxConns != 20 {
		t.Errorf("expected max_conns 20, got %d", cfg.Postgres.MaxConns)
	}
	if !cfg.Postgres.RLSEnforced() {
		t.Error("expected rls enforce from yaml")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("expected default breaker failures, got %d", cfg.Breaker.MaxFailures)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/path.yaml"); err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: [port"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("TURNOLINK_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("TURNOLINK_PG_MAX_CONNS", "25")
	t.Setenv("TURNOLINK_LOG_LEVEL", "warn")
	t.Setenv("TURNOLINK_CACHE_TENANT_TTL", "1m")
	t.Setenv("TURNOLINK_AUTH_ENABLED", "false")
	t.Setenv("NATS_URL", "nats://nats:4222")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.TenantTTL != time.Minute {
		t.Errorf("expected tenant ttl 1m, got %v", cfg.Cache.TenantTTL)
	}
	if cfg.Auth.Enabled {
		t.Error("expected auth disabled")
	}
	if cfg.NATS.URL != "nats://nats:4222" {
		t.Errorf("expected NATS URL override, got %s", cfg.NATS.URL)
	}
}

func TestEnvIgnoresMalformedValues(t *testing.T) {
	cfg := Defaults()
	t.Setenv("TURNOLINK_PG_MAX_CONNS", "lots")
	t.Setenv("TURNOLINK_CACHE_TENANT_TTL", "soon")
	loadEnv(&cfg)
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("malformed int should keep default, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Cache.TenantTTL != 30*time.Second {
		t.Errorf("malformed duration should keep default, got %v", cfg.Cache.TenantTTL)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty DSN",
			modify: func(c *Config) { c.Postgres.DSN = "" },
			errMsg: "postgres.dsn is required",
		},
		{
			name:   "zero max_conns",
			modify: func(c *Config) { c.Postgres.MaxConns = 0 },
			errMsg: "postgres.max_conns must be >= 1",
		},
		{
			name:   "unknown rls mode",
			modify: func(c *Config) { c.Postgres.RLS = "strict" },
			errMsg: "postgres.rls must be off or enforce",
		},
		{
			name:   "short jwt secret",
			modify: func(c *Config) { c.Auth.JWTSecret = "short" },
			errMsg: "auth.jwt_secret must be at least 32 bytes when auth is enabled",
		},
		{
			name:   "zero tenant ttl",
			modify: func(c *Config) { c.Cache.TenantTTL = 0 },
			errMsg: "cache.tenant_ttl must be positive",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
		{
			name:   "zero rate burst",
			modify: func(c *Config) { c.Rate.Burst = 0 },
			errMsg: "rate.burst must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.JWTSecret = testSecret
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaultsWithSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.JWTSecret = testSecret
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestValidateAuthDisabledNeedsNoSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.Enabled = false
	if err := validate(&cfg); err != nil {
		t.Errorf("auth disabled should not require a secret, got %v", err)
	}
}

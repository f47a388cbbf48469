package config

import (
	"os"
	"testing"
	"time"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "APP_ENV", "PORT", "DATABASE_URL", "JWT_ACCESS_TTL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.JWTAccessTTL != 24*time.Hour {
		t.Fatalf("expected 24h access ttl, got %s", cfg.JWTAccessTTL)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty db url, got %q", cfg.DBURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	unsetenv(t, "APP_ENV")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("EVENTS_CACHE_TTL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Addr())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("expected 1m cache ttl, got %s", cfg.CacheTTL)
	}
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET in prod")
	}
}

func TestLoad_RejectsBadSampleRatio(t *testing.T) {
	unsetenv(t, "APP_ENV")
	t.Setenv("OTEL_SAMPLE_RATIO", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a sample ratio above 1")
	}
}

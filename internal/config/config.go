package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"8080"`

	// DBURL selects the Postgres adapter; empty runs on the in-memory store.
	DBURL      string `env:"DATABASE_URL"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTAccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin"`

	// AdminSignupCode must accompany an admin sign-up; empty disables it.
	AdminSignupCode string `env:"ADMIN_SIGNUP_CODE"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"sportsbuddy.activity"`
	ActivityBuffer    int    `env:"ACTIVITY_BUFFER" envDefault:"256"`
	ActivityRetain    int    `env:"ACTIVITY_RETAIN" envDefault:"500"`

	OTLPEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`

	// Activity archiver (cmd/worker).
	WorkerPort           int           `env:"WORKER_PORT" envDefault:"8081"`
	ArchiveBatchSize     int           `env:"ARCHIVE_BATCH_SIZE" envDefault:"100"`
	ArchiveFlushInterval time.Duration `env:"ARCHIVE_FLUSH_INTERVAL" envDefault:"2s"`

	CategoriesFile string        `env:"CATEGORIES_FILE"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	CacheTTL       time.Duration `env:"EVENTS_CACHE_TTL" envDefault:"15s"`
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProd() {
			return errors.New("JWT_SECRET is required")
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.WorkerPort <= 0 || c.WorkerPort > 65535 {
		return fmt.Errorf("WORKER_PORT out of range: %d", c.WorkerPort)
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1]: %v", c.OTelSampleRatio)
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Secret returns the signing secret, falling back to a fixed dev value outside prod.
func (c Config) Secret() string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	return "dev-secret-change-me"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) WorkerAddr() string {
	return fmt.Sprintf(":%d", c.WorkerPort)
}

// WithTimeout bounds a store call made on behalf of parent. The derived
// context keeps the request id, actor and trace carried by parent.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, duration)
}

package config

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	minSecretBytes = 32
)

var ErrMissingSecret = errors.New("JWT_SECRET must be set to at least 32 bytes in production")

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	MetricsToken string `env:"METRICS_TOKEN"`

	AuditWorkers     int           `env:"AUDIT_WORKERS,      default=4"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs in a production-like
// environment. Secure cookies and a mandatory signing key depend on it.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SigningKey returns the HMAC key for session tokens. Outside production a
// missing or short JWT_SECRET is replaced by a random per-process key, so
// sessions do not survive a restart.
func (c *Config) SigningKey(log zerolog.Logger) ([]byte, error) {
	if len(c.JWTSecret) >= minSecretBytes {
		return []byte(c.JWTSecret), nil
	}
	if c.IsProduction() {
		return nil, ErrMissingSecret
	}

	key := make([]byte, minSecretBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	log.Warn().
		Str("env", c.Env).
		Msg("JWT_SECRET missing or shorter than 32 bytes, using an ephemeral random key; sessions will not survive restarts")
	return key, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

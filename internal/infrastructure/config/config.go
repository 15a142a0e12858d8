package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Identity backends.
const (
	IdentityLocal   = "local"
	IdentityToolkit = "identitytoolkit"
)

const envProduction = "production"

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	// ExposeUpstreamErrors forwards storage and identity-provider messages in
	// 500 responses. Unset means: on unless Env is production.
	ExposeUpstreamErrors *bool `env:"EXPOSE_UPSTREAM_ERRORS, noinit"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Tokens   TokenConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=providers_api"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional; an empty Addr disables the token cache.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB,   default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type IdentityConfig struct {
	Backend         string `env:"IDENTITY_BACKEND, default=local"`
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	APIKey          string `env:"FIREBASE_API_KEY"`
}

type TokenConfig struct {
	CacheTTL      time.Duration `env:"TOKEN_CACHE_TTL,       default=5m"`
	TouchLastUsed bool          `env:"TOKEN_TOUCH_LAST_USED, default=false"`
	TouchWorkers  int           `env:"TOKEN_TOUCH_WORKERS,   default=4"`
}

// Load reads configuration with go-envconfig. A nil lookuper reads the
// process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.ExposeUpstreamErrors == nil {
		expose := !cfg.IsProduction()
		cfg.ExposeUpstreamErrors = &expose
	}
	cfg.Identity.Backend = strings.ToLower(strings.TrimSpace(cfg.Identity.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Identity.Backend {
	case IdentityLocal:
	case IdentityToolkit:
		if c.Identity.CredentialsPath == "" && c.Identity.APIKey == "" {
			errs = append(errs, errors.New("IDENTITY_BACKEND=identitytoolkit requires FIREBASE_CREDENTIALS_PATH or FIREBASE_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_BACKEND %q", c.Identity.Backend))
	}

	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.Tokens.TouchWorkers < 0 {
		errs = append(errs, errors.New("TOKEN_TOUCH_WORKERS must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// ExposeUpstream reports whether upstream failure messages reach clients.
func (c *Config) ExposeUpstream() bool {
	return c.ExposeUpstreamErrors != nil && *c.ExposeUpstreamErrors
}

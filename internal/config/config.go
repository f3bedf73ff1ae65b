package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"

	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	AppPort  string `env:"PORT,default=3000"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	DatabaseDSN string `env:"DATABASE_URL"`

	SessionStore      string        `env:"SESSION_STORE,default=redis"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME,default=sid"`
	SessionTTL        time.Duration `env:"SESSION_TTL,default=24h"`
	SessionRolling    bool          `env:"SESSION_ROLLING,default=false"`

	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	BcryptCost         int    `env:"BCRYPT_COST,default=10"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	InitialUserEmail    string `env:"INITIAL_USER_EMAIL"`
	InitialUserPassword string `env:"INITIAL_USER_PASSWORD"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	OIDCIssuer        string `env:"OIDC_ISSUER"`
	OIDCClientID      string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret  string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL   string `env:"OIDC_REDIRECT_URL"`
	OIDCPublicBaseURL string `env:"OIDC_PUBLIC_BASE_URL"`
}

// Load reads an optional .env file and decodes the environment into Config.
func Load() (Config, error) {
	// .env is a local convenience; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreRedis, SessionStorePostgres, SessionStoreMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.IsProduction() && c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is required in production")
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas, dropping blanks.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

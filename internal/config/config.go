package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/millesime/barrels/internal/storage"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MSF_"

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel           int           `env:"LOG_LEVEL" envDefault:"0"`
	LogFile            string        `env:"LOG_FILE"`
	APIBaseURL         string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	SiteURL            string        `env:"SITE_URL" envDefault:"http://localhost:3000"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	TokenCheckInterval time.Duration `env:"TOKEN_CHECK_INTERVAL" envDefault:"60s"`
	DataDir            string        `env:"DATA_DIR"`
	ExportDir          string        `env:"EXPORT_DIR" envDefault:"."`
	Store              string        `env:"STORE" envDefault:"file"`
	Redis              Redis         `envPrefix:"REDIS_"`
}

// Redis contains parameters of the Redis-backed store.
type Redis struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	Prefix   string        `env:"PREFIX" envDefault:"millesime:"`
	TTL      time.Duration `env:"TTL" envDefault:"0s"`
}

// NewConfig loads configuration from environment variables. If envFile is
// not empty and exists, it is loaded first; variables already set in the
// environment win over the file.
func NewConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := storage.DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("invalid %sSTORE %q: want file, redis or memory", EnvPrefix, c.Store)
	}
	if c.TokenCheckInterval <= 0 {
		return fmt.Errorf("invalid %sTOKEN_CHECK_INTERVAL %s: must be positive", EnvPrefix, c.TokenCheckInterval)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("%sAPI_BASE_URL must not be empty", EnvPrefix)
	}
	return nil
}

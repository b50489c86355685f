package shared

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9100"`
	MySQLDSN    string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/rater?parseTime=true&charset=utf8mb4&loc=UTC"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`

	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"900"`
	CacheNamespace  string `env:"CACHE_NAMESPACE" envDefault:"rater"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// per-client token bucket on write routes
	WriteRPS   float64 `env:"WRITE_RPS" envDefault:"5"`
	WriteBurst int     `env:"WRITE_BURST" envDefault:"10"`

	SeedFile    string `env:"SEED_FILE"`
	SeedWorkers int    `env:"SEED_WORKERS" envDefault:"8"`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch {
	case c.MySQLDSN == "":
		return errors.New("MYSQL_DSN is required")
	case c.CacheTTLSeconds < 0:
		return errors.New("CACHE_TTL_SECONDS must be >= 0")
	case c.RequestTimeout <= 0:
		return errors.New("REQUEST_TIMEOUT must be > 0")
	case c.WriteRPS <= 0:
		return errors.New("WRITE_RPS must be > 0")
	case c.WriteBurst < 1:
		return errors.New("WRITE_BURST must be >= 1")
	case c.SeedWorkers < 1:
		return errors.New("SEED_WORKERS must be >= 1")
	}
	return nil
}

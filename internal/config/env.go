package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Env holds deployment settings read from the environment. Game tuning lives
// in ClickerConfig; this is where secrets and addresses go.
type Env struct {
	AdminSigningKey string `env:"CLICKER_ADMIN_SIGNING_KEY"`

	DBPath        string `env:"CLICKER_DB_PATH"`
	RedisAddr     string `env:"CLICKER_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"CLICKER_REDIS_PASSWORD"`
	RedisDB       int    `env:"CLICKER_REDIS_DB" envDefault:"0"`

	SSHAddr     string `env:"CLICKER_SSH_ADDR" envDefault:":23234"`
	HostKeyPath string `env:"CLICKER_HOST_KEY"`
	MetricsAddr string `env:"CLICKER_METRICS_ADDR"`

	LogLevel string `env:"CLICKER_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"CLICKER_LOG_FILE"`
}

// LoadEnv reads a .env file from the working directory when present, then
// parses the environment. It reports whether a .env file was loaded.
func LoadEnv() (*Env, bool, error) {
	loaded := godotenv.Load() == nil

	e := &Env{}
	if err := env.Parse(e); err != nil {
		return nil, loaded, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, loaded, err
	}
	return e, loaded, nil
}

// Validate checks values env tags cannot express.
func (e *Env) Validate() error {
	if e.RedisDB < 0 || e.RedisDB > 15 {
		return fmt.Errorf("invalid CLICKER_REDIS_DB: %d (must be 0-15)", e.RedisDB)
	}
	switch e.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid CLICKER_LOG_LEVEL: %q (must be debug, info, warn or error)", e.LogLevel)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/storage"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the server configuration, read from DICEGAME_* environment variables
type Config struct {
	Host     string `env:"DICEGAME_HOST"`
	Port     int    `env:"DICEGAME_PORT"      envDefault:"8080"`
	LogLevel string `env:"DICEGAME_LOG_LEVEL" envDefault:"info"`

	StorageType string        `env:"DICEGAME_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"DICEGAME_REDIS_URL"`
	InstanceTTL time.Duration `env:"DICEGAME_INSTANCE_TTL"`

	// DiceSource is "timestamp" (predictable, the default) or "crypto"
	DiceSource      string `env:"DICEGAME_DICE_SOURCE"      envDefault:"timestamp"`
	StrictLifecycle bool   `env:"DICEGAME_STRICT_LIFECYCLE"`

	SessionDuration time.Duration `env:"DICEGAME_SESSION_DURATION" envDefault:"24h"`
}

// Load reads the configuration from the process environment
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.InstanceTTL == 0 {
		cfg.InstanceTTL = storage.DefaultInstanceTTL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("DICEGAME_REDIS_URL required when DICEGAME_STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid DICEGAME_STORAGE_TYPE %q: must be %q or %q", c.StorageType, StorageMemory, StorageRedis)
	}

	switch c.DiceSource {
	case dice.SourceTimestamp, dice.SourceCrypto:
	default:
		return fmt.Errorf("invalid DICEGAME_DICE_SOURCE %q: must be %q or %q", c.DiceSource, dice.SourceTimestamp, dice.SourceCrypto)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid DICEGAME_PORT %d", c.Port)
	}
	if c.InstanceTTL < 0 {
		return errors.New("DICEGAME_INSTANCE_TTL must not be negative")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

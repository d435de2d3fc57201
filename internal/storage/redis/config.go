package redis

import (
	"time"

	"github.com/mcoot/dicestake/internal/storage"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// InstanceTTL is the lifetime the registry instance is extended to on every write
	InstanceTTL time.Duration

	// GuestAccountTTL bounds how long guest accounts are kept; registered accounts never expire
	GuestAccountTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		InstanceTTL:     storage.DefaultInstanceTTL,
		GuestAccountTTL: 24 * time.Hour,
	}
}

package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/dicestake/internal/dependencies/clock"
	"github.com/mcoot/dicestake/internal/dependencies/random"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/storage"
	"github.com/mcoot/dicestake/internal/storage/memory"
	redisstorage "github.com/mcoot/dicestake/internal/storage/redis"
	"github.com/mcoot/dicestake/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Dice   dice.Source

	// Services
	AuthService *auth.Service
	Registry    *registry.Controller
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RegistryConfig toggles strict lifecycle checks (optional)
	RegistryConfig registry.Config
	// DiceSource names the dice source ("timestamp" or "crypto")
	// If empty, defaults to "timestamp"
	DiceSource string
	// InstanceTTL is the registry lifetime renewed by every write (optional)
	// If zero, defaults to storage.DefaultInstanceTTL
	InstanceTTL time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.NewWithClock(clk, cfg.InstanceTTL)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		if cfg.InstanceTTL > 0 {
			redisCfg.InstanceTTL = cfg.InstanceTTL
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	source, err := dice.New(cfg.DiceSource, rnd)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, source, authCfg, cfg.RegistryConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	source dice.Source,
	authCfg auth.Config,
	registryCfg registry.Config,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, clk, rnd, authCfg)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	registryController := registry.NewController(store, source, clk, authService, broadcaster, registryCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Dice:        source,
		AuthService: authService,
		Registry:    registryController,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
	}
}

// Close releases the storage backend's connections, if it holds any
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

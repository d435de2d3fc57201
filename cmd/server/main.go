package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/dicestake/internal/api"
	"github.com/mcoot/dicestake/internal/config"
	"github.com/mcoot/dicestake/internal/factory"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/services/registry"
	redisstorage "github.com/mcoot/dicestake/internal/storage/redis"
	"github.com/mcoot/dicestake/internal/web"
)

// sessionSweepInterval is how often expired sessions are dropped
const sessionSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		AuthConfig:     auth.Config{SessionDuration: cfg.SessionDuration},
		RegistryConfig: registry.Config{StrictLifecycle: cfg.StrictLifecycle},
		DiceSource:     cfg.DiceSource,
		InstanceTTL:    cfg.InstanceTTL,
		Logger:         logger,
		StorageType:    cfg.StorageType,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("registry configured",
		slog.String("storage", cfg.StorageType),
		slog.String("dice_source", app.Dice.Name()),
		slog.Bool("strict_lifecycle", cfg.StrictLifecycle),
		slog.Duration("instance_ttl", cfg.InstanceTTL),
	)

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Registry:    app.Registry,
		Storage:     app.Storage,
		Dice:        app.Dice,
		HubManager:  app.HubManager,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, app.AuthService)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := app.Close(); err != nil {
		logger.Warn("storage close failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

func sweepSessions(ctx context.Context, authService *auth.Service) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.CleanExpiredSessions()
		}
	}
}

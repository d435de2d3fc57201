package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicestake/internal/api/handler"
	"github.com/mcoot/dicestake/internal/api/middleware"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/storage"
	"github.com/mcoot/dicestake/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Registry    registry.ControllerInterface
	Storage     storage.Storage
	Dice        dice.Source
	HubManager  *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.Registry)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager)
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Dice)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Account routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/accounts/guest", accountHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accountProtected.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)

	// Game routes. Sessions are optional here: the registry itself rejects
	// create and join calls whose caller does not control the named address.
	games := api.PathPrefix("/games").Subrouter()
	games.Use(optionalAuthMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.Count).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}/play", gameHandler.Play).Methods(http.MethodPost)
	games.HandleFunc("/{id}/events", eventsHandler.Game).Methods(http.MethodGet)

	// Firehose of every registry event
	events := api.PathPrefix("/events").Subrouter()
	events.Use(optionalAuthMiddleware)
	events.HandleFunc("", eventsHandler.All).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}

package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/web/handler"
	"github.com/mcoot/dicestake/internal/web/middleware"
	"github.com/mcoot/dicestake/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry registry.ControllerInterface
}

// NewRouter creates the read-only HTML router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	homeHandler := handler.NewHomeHandler(cfg.Registry)
	gameHandler := handler.NewGameHandler(cfg.Registry)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", gameHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/status", gameHandler.Status).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = templates.ErrorPage("Not Found", "No page lives at "+req.URL.Path).Render(req.Context(), w)
	})

	return r
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/web/templates"
)

// GameHandler renders game pages
type GameHandler struct {
	registry registry.ControllerInterface
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(registry registry.ControllerInterface) *GameHandler {
	return &GameHandler{
		registry: registry,
	}
}

// View renders the page for one game
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseGameID(mux.Vars(r)["id"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	game, err := h.registry.ViewGame(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, templates.GamePage(game))
}

// Status renders only the status fragment, for pages refreshing after an event
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseGameID(mux.Vars(r)["id"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	game, err := h.registry.ViewGame(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, templates.GameStatus(game))
}

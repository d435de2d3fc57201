package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/web/templates"
)

// recentGames is how many games the home page lists
const recentGames = 20

// HomeHandler handles the home page
type HomeHandler struct {
	registry registry.ControllerInterface
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(registry registry.ControllerInterface) *HomeHandler {
	return &HomeHandler{
		registry: registry,
	}
}

// Home renders the game counter and the most recent games, newest first
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.GameCount(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	games := make([]*model.Game, 0, min(uint64(count), recentGames))
	for id := count; id > 0 && len(games) < recentGames; id-- {
		game, err := h.registry.ViewGame(r.Context(), id)
		if errors.Is(err, model.ErrGameNotFound) {
			continue
		}
		if err != nil {
			renderError(w, r, err)
			return
		}
		games = append(games, game)
	}

	render(w, r, http.StatusOK, templates.GameList(count, games))
}

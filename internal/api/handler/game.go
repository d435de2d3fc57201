package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicestake/internal/api/request"
	"github.com/mcoot/dicestake/internal/api/response"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/services/registry"
)

// GameHandler exposes the registry operations
type GameHandler struct {
	registry registry.ControllerInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(registry registry.ControllerInterface) *GameHandler {
	return &GameHandler{
		registry: registry,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, model.ErrInvalidStake) || errors.Is(err, model.ErrStakeOutOfRange) {
			WriteError(w, err)
			return
		}
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.StakeAmount == nil {
		WriteError(w, NewInvalidRequestError("stake_amount is required"))
		return
	}

	player1, ok := addressOrCaller(r, req.Player1)
	if !ok {
		WriteError(w, NewInvalidRequestError("player1 is required without a session"))
		return
	}

	id, err := h.registry.CreateGame(r.Context(), player1, *req.StakeAmount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGameResponse{GameID: uint64(id)})
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player2, ok := addressOrCaller(r, req.Player2)
	if !ok {
		WriteError(w, NewInvalidRequestError("player2 is required without a session"))
		return
	}

	if err := h.registry.JoinGame(r.Context(), id, player2); err != nil {
		WriteError(w, err)
		return
	}

	h.writeGame(w, r, id)
}

// Play handles POST /api/v1/games/{id}/play
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	winner, err := h.registry.PlayGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	game, err := h.registry.ViewGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayGameResponse{
		Winner: response.WinnerFromModel(winner),
		Game:   response.GameFromModel(game),
	})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeGame(w, r, id)
}

// Count handles GET /api/v1/games
func (h *GameHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.GameCount(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameCountResponse{GameCount: uint64(count)})
}

func (h *GameHandler) writeGame(w http.ResponseWriter, r *http.Request, id model.GameID) {
	game, err := h.registry.ViewGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// gameIDFromPath parses the {id} route variable
func gameIDFromPath(r *http.Request) (model.GameID, error) {
	return model.ParseGameID(mux.Vars(r)["id"])
}

// addressOrCaller returns the explicit address, else the authenticated caller
func addressOrCaller(r *http.Request, explicit *model.Address) (model.Address, bool) {
	if explicit != nil && *explicit != "" {
		return *explicit, true
	}
	return auth.CallerFrom(r.Context())
}

package handler

import (
	"net/http"

	"github.com/mcoot/dicestake/internal/api/response"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/storage"
)

// HealthHandler reports liveness and the configured dice source
type HealthHandler struct {
	storage storage.Storage
	dice    dice.Source
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage storage.Storage, source dice.Source) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		dice:    source,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ttl, err := h.storage.InstanceTTL(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:         "ok",
		DiceSource:     h.dice.Name(),
		InsecureDice:   h.dice.Insecure(),
		InstanceTTLSec: int64(ttl.Seconds()),
	})
}

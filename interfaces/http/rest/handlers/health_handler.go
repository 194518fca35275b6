package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/persistence"
	"glossary-backend/pkg/utils"
)

// HealthHandler reports API liveness and which storage backend the
// process selected at startup.
type HealthHandler struct {
	cfg    *config.Config
	mode   persistence.Mode
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg *config.Config, mode persistence.Mode, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, mode: mode, logger: logger}
}

// HealthResponse is the API health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Cosmos    bool   `json:"cosmos"`
	Mode      string `json:"mode"`
	DB        string `json:"db"`
	Container string `json:"container"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Cosmos:    h.mode == persistence.ModeCosmos,
		Mode:      string(h.mode),
		DB:        h.cfg.CosmosDatabase,
		Container: h.cfg.CosmosContainer,
		Timestamp: utils.NowRFC3339(),
	})
}

package handlers

import (
	"net/http"
	"time"

	"scambait-lab/internal/config"
	"scambait-lab/pkg/logger"
)

// HealthHandler handles liveness checks
type HealthHandler struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:    cfg,
		logger: log.WithComponent("health-handler"),
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   h.cfg.App.Name,
		"version":   h.cfg.App.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

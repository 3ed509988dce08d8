package handlers

import (
	"encoding/json"
	"net/http"

	"scambait-lab/internal/config"
	"scambait-lab/internal/honeypot"
	"scambait-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Honeypot *HoneypotHandler
	Sessions *SessionsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engine *honeypot.Engine
	Config *config.Config
	Logger *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Config, deps.Logger),
		Honeypot: NewHoneypotHandler(deps.Engine, deps.Config.Detection.MaxTextRunes, deps.Logger),
		Sessions: NewSessionsHandler(deps.Engine, deps.Logger),
	}
}

// statusResponse is the envelope the external platform expects.
type statusResponse struct {
	Status  string `json:"status"`
	Reply   string `json:"reply,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, statusResponse{Status: "error", Message: msg})
}

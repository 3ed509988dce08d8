package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scambait-lab/internal/honeypot"
	"scambait-lab/pkg/logger"
)

// SessionsHandler handles session monitoring endpoints
type SessionsHandler struct {
	engine *honeypot.Engine
	logger *logger.Logger
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(engine *honeypot.Engine, log *logger.Logger) *SessionsHandler {
	return &SessionsHandler{
		engine: engine,
		logger: log.WithComponent("sessions-handler"),
	}
}

// List handles GET /api/v1/honeypot/sessions - session snapshots plus
// aggregate statistics.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	store := h.engine.Store()
	snapshots := store.List()

	writeJSON(w, http.StatusOK, map[string]any{
		"total_sessions": len(snapshots),
		"sessions":       snapshots,
		"statistics":     store.Stats(),
	})
}

// Get handles GET /api/v1/honeypot/sessions/{id} - full session detail.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, ok := h.engine.Store().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Finalize handles POST /api/v1/honeypot/sessions/{id}/finalize -
// manual finalization. Idempotent for already finalized sessions.
func (h *SessionsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.engine.Finalize(r.Context(), id)
	switch {
	case errors.Is(err, honeypot.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
		return
	case errors.Is(err, honeypot.ErrScamNotDetected):
		writeError(w, http.StatusConflict, "Session has no detected scam to report")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("session_id", id).Msg("finalize failed")
		writeError(w, http.StatusInternalServerError, "Finalization failed")
		return
	}

	if !result.Finalized {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Session already finalized",
			"session": result.Session,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Session finalized",
		"callback_success": result.ReportErr == nil,
		"session":          result.Session,
	})
}

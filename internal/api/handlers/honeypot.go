package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"scambait-lab/internal/domain/models"
	"scambait-lab/internal/honeypot"
	"scambait-lab/pkg/logger"
)

// HoneypotHandler handles the inbound message webhook
type HoneypotHandler struct {
	engine       *honeypot.Engine
	maxTextRunes int
	logger       *logger.Logger
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(engine *honeypot.Engine, maxTextRunes int, log *logger.Logger) *HoneypotHandler {
	if maxTextRunes <= 0 {
		maxTextRunes = 5000
	}
	return &HoneypotHandler{
		engine:       engine,
		maxTextRunes: maxTextRunes,
		logger:       log.WithComponent("honeypot-handler"),
	}
}

// analyzeRequest is the webhook body posted by the external platform.
type analyzeRequest struct {
	SessionID           string           `json:"sessionId"`
	Message             *models.Message  `json:"message"`
	ConversationHistory []models.Message `json:"conversationHistory"`
	Metadata            map[string]any   `json:"metadata,omitempty"`
}

// Analyze handles POST /api/v1/honeypot/analyze - processes one
// inbound message and returns the decoy's reply.
func (h *HoneypotHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" || req.Message == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: sessionId and message")
		return
	}

	msg := *req.Message
	if msg.Sender == "" {
		msg.Sender = "unknown"
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	// Bound hostile payloads before they reach the core.
	msg.Text = truncateRunes(msg.Text, h.maxTextRunes)

	result := h.engine.HandleMessage(r.Context(), req.SessionID, msg, req.ConversationHistory)

	h.logger.Info().
		Str("session_id", req.SessionID).
		Int("message_count", result.Session.MessageCount).
		Bool("scam_detected", result.Session.ScamDetected).
		Bool("finalized_now", result.Finalized).
		Msg("message processed")

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Reply: result.Reply})
}

// truncateRunes caps s at max code points.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

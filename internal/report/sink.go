// Package report delivers finalized case payloads to the external
// evaluation system. The engine makes at most one delivery attempt per
// finalization; retry policy, if any, belongs to the receiving side.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// Sink accepts a finalized report. Implementations must be safe for
// concurrent use.
type Sink interface {
	Deliver(ctx context.Context, report models.FinalReport) error
}

// HTTPSink posts reports as JSON to a callback URL.
type HTTPSink struct {
	url    string
	apiKey string
	client *http.Client
	logger *logger.Logger
}

// NewHTTPSink creates a sink for the given callback endpoint. A zero
// timeout falls back to 10 seconds.
func NewHTTPSink(url, apiKey string, timeout time.Duration, log *logger.Logger) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		logger: log.WithComponent("report-sink"),
	}
}

// Deliver posts the report. Any non-200 status is an error; the caller
// logs it and moves on without reverting finalization.
func (s *HTTPSink) Deliver(ctx context.Context, rep models.FinalReport) error {
	deliveryID := uuid.New().String()

	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	s.logger.Info().
		Str("delivery_id", deliveryID).
		Str("session_id", rep.SessionID).
		Int("messages", rep.TotalMessagesExchanged).
		Msg("delivering final report")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("report delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("report delivery returned status %d: %s", resp.StatusCode, snippet)
	}

	s.logger.Info().
		Str("delivery_id", deliveryID).
		Str("session_id", rep.SessionID).
		Msg("final report accepted")

	return nil
}

// LogSink logs reports instead of delivering them. Used when the
// callback is disabled (local development, tests).
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log.WithComponent("report-sink")}
}

// Deliver logs the payload and always succeeds.
func (s *LogSink) Deliver(_ context.Context, rep models.FinalReport) error {
	s.logger.Info().
		Str("session_id", rep.SessionID).
		Bool("scam_detected", rep.ScamDetected).
		Int("messages", rep.TotalMessagesExchanged).
		Str("agent_notes", rep.AgentNotes).
		Msg("final report (callback disabled)")
	return nil
}

// Package honeypot runs the per-message pipeline: score the inbound
// message, mine intelligence, fold both into the session under its
// lock, pick a decoy reply, and drive the one-way transition to the
// finalized state.
package honeypot

import (
	"context"
	"errors"
	"time"

	"scambait-lab/internal/domain/models"
	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/report"
	"scambait-lab/internal/session"
	"scambait-lab/pkg/logger"
)

var (
	// ErrSessionNotFound is returned for operations on unknown sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrScamNotDetected is returned when a manual finalize is requested
	// before any scam detection; finalized sessions always imply a
	// detected scam.
	ErrScamNotDetected = errors.New("scam not detected for session")
)

// AckReply is returned for turns authored by the decoy side.
const AckReply = "Message acknowledged"

// Engine wires the scorer, extractor, responder and report sink around
// the session store.
type Engine struct {
	store     *session.Store
	scorer    *services.ScamScorer
	extractor *services.IntelligenceExtractor
	responder *services.Responder
	policy    FinalizationPolicy
	sink      report.Sink
	logger    *logger.Logger
	clock     func() time.Time
}

// NewEngine creates the engine. The policy is normalized so zero
// config fields fall back to defaults.
func NewEngine(
	store *session.Store,
	scorer *services.ScamScorer,
	extractor *services.IntelligenceExtractor,
	responder *services.Responder,
	policy FinalizationPolicy,
	sink report.Sink,
	log *logger.Logger,
) *Engine {
	return &Engine{
		store:     store,
		scorer:    scorer,
		extractor: extractor,
		responder: responder,
		policy:    policy.normalized(),
		sink:      sink,
		logger:    log.WithComponent("honeypot-engine"),
		clock:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// TurnResult is the outcome of processing one inbound message.
type TurnResult struct {
	Reply     string
	Session   models.Snapshot
	Finalized bool // true iff this turn performed the transition
	ReportErr error
}

// HandleMessage processes one inbound message for a session, creating
// the session on first contact. Scoring and extraction run outside the
// session lock; the merge, reply choice and finalization decision run
// inside it; report delivery happens strictly after the lock is
// released and only on the turn that flipped the finalized flag.
func (e *Engine) HandleMessage(ctx context.Context, sessionID string, msg models.Message, history []models.Message) TurnResult {
	now := e.clock()

	// Non-scammer senders are never scored or counted. Decoy-authored
	// turns are appended to the conversation log; senders from neither
	// side are acknowledged without logging, so the message count stays
	// an upper bound on inbound log entries.
	if !msg.IsScammer() {
		var snap models.Snapshot
		e.store.Update(sessionID, func(s *models.Session) {
			if msg.Sender == models.SenderDecoy {
				s.AppendLog(msg)
			}
			s.Touch(now)
			snap = s.Snapshot()
		})
		return TurnResult{Reply: AckReply, Session: snap}
	}

	score := e.scorer.Score(msg, history)
	intel := e.extractor.Extract(msg.Text)

	var (
		result  TurnResult
		payload models.FinalReport
	)

	e.store.Update(sessionID, func(s *models.Session) {
		s.MessageCount++
		s.Touch(now)
		s.ApplyScore(score)
		s.Intelligence.Merge(intel)
		s.Notes = services.BuildNotes(s.ScamIndicators, s.Intelligence)

		reply := e.responder.Reply(msg.Text, s.ScamDetected, s.MessageCount)
		s.AppendLog(
			msg,
			models.Message{
				Sender:    models.SenderDecoy,
				Text:      reply,
				Timestamp: now.UTC().Format(time.RFC3339),
			},
		)

		if !s.Finalized && e.policy.ShouldFinalize(s) {
			s.Finalized = true
			result.Finalized = true
			payload = models.BuildFinalReport(s)
		}

		result.Reply = reply
		result.Session = s.Snapshot()
	})

	if result.Finalized {
		result.ReportErr = e.deliver(ctx, payload)
	}

	return result
}

// Finalize forces the finalization transition for an existing session,
// e.g. from the manual endpoint. It is idempotent: an already
// finalized session reports success without a second delivery.
func (e *Engine) Finalize(ctx context.Context, sessionID string) (TurnResult, error) {
	var (
		result  TurnResult
		payload models.FinalReport
		refused error
	)

	found := e.store.UpdateIfPresent(sessionID, func(s *models.Session) {
		defer func() { result.Session = s.Snapshot() }()

		if s.Finalized {
			return
		}
		if !s.ScamDetected {
			refused = ErrScamNotDetected
			return
		}
		s.Finalized = true
		result.Finalized = true
		payload = models.BuildFinalReport(s)
	})

	if !found {
		return TurnResult{}, ErrSessionNotFound
	}
	if refused != nil {
		return result, refused
	}

	if result.Finalized {
		result.ReportErr = e.deliver(ctx, payload)
	}
	return result, nil
}

// deliver makes the single report attempt. Delivery failure is an
// observability concern: it is logged and surfaced, but the finalized
// state stands either way.
func (e *Engine) deliver(ctx context.Context, payload models.FinalReport) error {
	err := e.sink.Deliver(ctx, payload)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("session_id", payload.SessionID).
			Msg("final report delivery failed")
		return err
	}
	e.logger.Info().
		Str("session_id", payload.SessionID).
		Int("messages", payload.TotalMessagesExchanged).
		Msg("session finalized and reported")
	return nil
}

// Store exposes the session store for the monitoring handlers.
func (e *Engine) Store() *session.Store {
	return e.store
}

package models

import "time"

// SessionState is the lifecycle state of a conversation session.
type SessionState string

const (
	SessionActive    SessionState = "active"
	SessionFinalized SessionState = "finalized"
)

// Session is the aggregate root for one decoy conversation. All fields
// except ID are mutated only under the store's per-id exclusion.
//
// Invariants held by ApplyScore / the engine:
//   - MessageCount and LastActivityAt are monotonic.
//   - ScamDetected flips false->true at most once and never reverts.
//   - ScamConfidence never decreases once ScamDetected is true.
//   - Finalized flips false->true at most once; Finalized implies ScamDetected.
type Session struct {
	ID              string       `json:"session_id"`
	StartedAt       time.Time    `json:"start_time"`
	LastActivityAt  time.Time    `json:"last_activity"`
	MessageCount    int          `json:"message_count"`
	ScamDetected    bool         `json:"scam_detected"`
	ScamConfidence  float64      `json:"scam_confidence"`
	ScamIndicators  []string     `json:"scam_indicators"`
	Intelligence    Intelligence `json:"intelligence"`
	ConversationLog []Message    `json:"conversation"`
	Notes           string       `json:"agent_notes"`
	Finalized       bool         `json:"finalized"`
}

// NewSession creates a fresh active session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:             id,
		StartedAt:      now,
		LastActivityAt: now,
		ScamIndicators: []string{},
		Intelligence:   NewIntelligence(),
	}
}

// State derives the lifecycle state.
func (s *Session) State() SessionState {
	if s.Finalized {
		return SessionFinalized
	}
	return SessionActive
}

// Touch advances LastActivityAt without ever moving it backwards.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivityAt) {
		s.LastActivityAt = now
	}
}

// ApplyScore folds one scoring result into the session. On first
// detection it captures confidence and indicators; afterwards
// confidence only ratchets upward and indicators union in.
func (s *Session) ApplyScore(result ScoreResult) {
	if !result.IsScam {
		return
	}
	if !s.ScamDetected {
		s.ScamDetected = true
		s.ScamConfidence = result.Confidence
		s.ScamIndicators = unionOrdered(s.ScamIndicators, result.Indicators)
		return
	}
	if result.Confidence > s.ScamConfidence {
		s.ScamConfidence = result.Confidence
	}
	s.ScamIndicators = unionOrdered(s.ScamIndicators, result.Indicators)
}

// AppendLog appends entries to the conversation log.
func (s *Session) AppendLog(entries ...Message) {
	s.ConversationLog = append(s.ConversationLog, entries...)
}

// Snapshot is a read-only view of a session for listing/monitoring.
type Snapshot struct {
	ID             string       `json:"session_id"`
	StartedAt      time.Time    `json:"start_time"`
	LastActivityAt time.Time    `json:"last_activity"`
	MessageCount   int          `json:"message_count"`
	ScamDetected   bool         `json:"scam_detected"`
	ScamConfidence float64      `json:"scam_confidence"`
	State          SessionState `json:"state"`
	Finalized      bool         `json:"finalized"`
	Intelligence   Intelligence `json:"intelligence"`
	Notes          string       `json:"agent_notes"`
}

// Snapshot copies the monitoring view out of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:             s.ID,
		StartedAt:      s.StartedAt,
		LastActivityAt: s.LastActivityAt,
		MessageCount:   s.MessageCount,
		ScamDetected:   s.ScamDetected,
		ScamConfidence: s.ScamConfidence,
		State:          s.State(),
		Finalized:      s.Finalized,
		Intelligence:   s.Intelligence.Clone(),
		Notes:          s.Notes,
	}
}

// Detail is the full session view returned by the detail endpoint.
type Detail struct {
	Snapshot
	ScamIndicators  []string  `json:"scam_indicators"`
	ConversationLog []Message `json:"conversation"`
}

// Detail copies the full session view.
func (s *Session) Detail() Detail {
	return Detail{
		Snapshot:        s.Snapshot(),
		ScamIndicators:  append([]string{}, s.ScamIndicators...),
		ConversationLog: append([]Message{}, s.ConversationLog...),
	}
}

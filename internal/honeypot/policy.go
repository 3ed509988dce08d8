package honeypot

import "scambait-lab/internal/domain/models"

// Finalization defaults, tunable through config.
const (
	DefaultMaxMessages    = 15
	DefaultMinMessages    = 5
	DefaultIntelMargin    = 3
	DefaultHighConfidence = 0.8
)

// FinalizationPolicy decides when a session has gathered enough
// evidence to report. It is a pure predicate over a session; the
// engine is responsible for the exactly-once transition.
type FinalizationPolicy struct {
	// MaxMessages finalizes unconditionally once reached.
	MaxMessages int
	// MinMessages is the floor below which nothing finalizes.
	MinMessages int
	// IntelMargin is added to MinMessages before substantial
	// intelligence alone is enough.
	IntelMargin int
	// HighConfidence finalizes early when paired with substantial
	// intelligence.
	HighConfidence float64
}

// DefaultFinalizationPolicy returns the standard thresholds.
func DefaultFinalizationPolicy() FinalizationPolicy {
	return FinalizationPolicy{
		MaxMessages:    DefaultMaxMessages,
		MinMessages:    DefaultMinMessages,
		IntelMargin:    DefaultIntelMargin,
		HighConfidence: DefaultHighConfidence,
	}
}

// normalized fills zero fields with defaults.
func (p FinalizationPolicy) normalized() FinalizationPolicy {
	d := DefaultFinalizationPolicy()
	if p.MaxMessages <= 0 {
		p.MaxMessages = d.MaxMessages
	}
	if p.MinMessages <= 0 {
		p.MinMessages = d.MinMessages
	}
	if p.IntelMargin <= 0 {
		p.IntelMargin = d.IntelMargin
	}
	if p.HighConfidence <= 0 {
		p.HighConfidence = d.HighConfidence
	}
	return p
}

// ShouldFinalize reports whether the session qualifies for its one
// finalization report. A session never qualifies before scam
// detection or before the minimum message floor.
func (p FinalizationPolicy) ShouldFinalize(s *models.Session) bool {
	if !s.ScamDetected {
		return false
	}
	if s.MessageCount < p.MinMessages {
		return false
	}

	if s.MessageCount >= p.MaxMessages {
		return true
	}

	hasIntel := s.Intelligence.HasSubstantial()
	if hasIntel && s.MessageCount >= p.MinMessages+p.IntelMargin {
		return true
	}
	if hasIntel && s.ScamConfidence >= p.HighConfidence {
		return true
	}

	return false
}

package services

import (
	"fmt"
	"math"
	"strings"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// DefaultScamThreshold is the confidence at or above which a message
// is classified as a scam.
const DefaultScamThreshold = 0.5

// ScamScorer classifies a single message for scam intent using
// additive weighted rules over the pattern library. It is a pure
// function of its inputs: no hidden state, never errors — malformed
// or empty text simply scores near zero.
type ScamScorer struct {
	lib       *PatternLibrary
	threshold float64
	logger    *logger.Logger
}

// NewScamScorer creates a scorer. A zero threshold falls back to the default.
func NewScamScorer(lib *PatternLibrary, threshold float64, log *logger.Logger) *ScamScorer {
	if threshold <= 0 {
		threshold = DefaultScamThreshold
	}
	return &ScamScorer{
		lib:       lib,
		threshold: threshold,
		logger:    log.WithComponent("scam-scorer"),
	}
}

// Score evaluates one message. History is accepted for parity with the
// wire contract; the heuristic rules are per-message, so it is unused
// today but kept so the signature survives a context-aware scorer.
func (s *ScamScorer) Score(msg models.Message, history []models.Message) models.ScoreResult {
	text := msg.Text
	lower := strings.ToLower(text)

	score := 0
	indicators := []string{}

	// High-priority keywords: urgency, threats, credential phishing.
	for _, kw := range s.lib.CriticalKeywords {
		if strings.Contains(lower, kw) {
			score += WeightCriticalKeyword
			indicators = append(indicators, fmt.Sprintf("Critical keyword: '%s'", kw))
		}
	}

	// Medium-priority keywords common in scams.
	for _, kw := range s.lib.WarningKeywords {
		if strings.Contains(lower, kw) {
			score += WeightWarningKeyword
			indicators = append(indicators, fmt.Sprintf("Warning keyword: '%s'", kw))
		}
	}

	// Regex patterns run against the raw text so currency symbols and
	// case-sensitive tokens survive. Each pattern counts once.
	for _, p := range s.lib.ScorePatterns {
		if p.Regex.MatchString(text) {
			score += WeightPattern
			indicators = append(indicators, fmt.Sprintf("Suspicious pattern: %s", p.Name))
		}
	}

	if containsAny(lower, s.lib.UrgencyPhrases) {
		score += WeightUrgency
		indicators = append(indicators, "Urgency detected")
	}

	if containsAny(lower, s.lib.ThreatPhrases) {
		score += WeightThreat
		indicators = append(indicators, "Threat language detected")
	}

	if containsAny(lower, s.lib.PaymentPhrases) {
		score += WeightPaymentRequest
		indicators = append(indicators, "Payment request detected")
	}

	// Length heuristics: very short or very long messages are both
	// mildly suspicious.
	wordCount := len(strings.Fields(text))
	if wordCount < 5 {
		score += WeightShortMessage
		indicators = append(indicators, "Very short message")
	} else if wordCount > 100 {
		score += WeightLongMessage
		indicators = append(indicators, "Very long message")
	}

	if strings.Count(text, "!") >= 3 {
		score += WeightExclamations
		indicators = append(indicators, "Multiple exclamation marks")
	}

	confidence := math.Min(float64(score)/100, 1.0)
	confidence = math.Round(confidence*100) / 100

	result := models.ScoreResult{
		IsScam:     confidence >= s.threshold,
		Confidence: confidence,
		Indicators: indicators,
	}

	s.logger.Debug().
		Bool("is_scam", result.IsScam).
		Float64("confidence", result.Confidence).
		Int("indicators", len(result.Indicators)).
		Msg("message scored")

	return result
}

// Threshold returns the configured scam threshold.
func (s *ScamScorer) Threshold() float64 {
	return s.threshold
}

func containsAny(haystack string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(haystack, p) {
			return true
		}
	}
	return false
}

package services

import (
	"regexp"
	"strings"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// Link validation bounds.
const (
	minLinkLength = 5
	maxLinkLength = 500
)

// IntelligenceExtractor mines structured artifacts from message text
// in two phases: broad regex extraction, then per-field validation.
// The patterns over-generate on purpose (any "@" word looks like a
// payment handle, any long digit run looks like an account); the
// validation phase is what gives the result usable precision.
//
// Extraction is total over string input: unmatched text yields empty
// sets, never an error.
type IntelligenceExtractor struct {
	lib    *PatternLibrary
	logger *logger.Logger
}

// NewIntelligenceExtractor creates an extractor over the given library.
func NewIntelligenceExtractor(lib *PatternLibrary, log *logger.Logger) *IntelligenceExtractor {
	return &IntelligenceExtractor{
		lib:    lib,
		logger: log.WithComponent("intel-extractor"),
	}
}

// Extract mines all intelligence fields from one message text. Each
// returned set is deduplicated with first-seen order preserved.
func (e *IntelligenceExtractor) Extract(text string) models.Intelligence {
	result := models.NewIntelligence()

	result.BankAccounts = e.extractField(text, models.FieldBankAccount, e.validBankAccount)
	result.PaymentHandles = e.extractField(text, models.FieldPaymentHandle, e.validPaymentHandle)
	result.PhishingLinks = e.extractField(text, models.FieldPhishingLink, e.validLink)
	result.PhoneNumbers = e.extractField(text, models.FieldPhoneNumber, e.validPhoneNumber)

	lower := strings.ToLower(text)
	for _, kw := range e.lib.SuspiciousKeywords {
		if strings.Contains(lower, kw) {
			result.SuspiciousKeywords = append(result.SuspiciousKeywords, kw)
		}
	}

	if result.HasSubstantial() {
		e.logger.Debug().
			Int("bank_accounts", len(result.BankAccounts)).
			Int("payment_handles", len(result.PaymentHandles)).
			Int("links", len(result.PhishingLinks)).
			Int("phones", len(result.PhoneNumbers)).
			Msg("intelligence extracted")
	}

	return result
}

// ExtractConversation mines an entire conversation; the result is the
// deduplicated union of per-message extraction.
func (e *IntelligenceExtractor) ExtractConversation(messages []models.Message) models.Intelligence {
	combined := models.NewIntelligence()
	for _, msg := range messages {
		if msg.Text == "" {
			continue
		}
		part := e.Extract(msg.Text)
		combined.Merge(part)
	}
	return combined
}

// extractField runs every pattern for the field, validates candidates
// and deduplicates while preserving first-seen order.
func (e *IntelligenceExtractor) extractField(text string, kind models.FieldKind, valid func(string) bool) []string {
	out := []string{}
	seen := make(map[string]bool)

	for _, re := range e.lib.FieldPatterns[kind] {
		for _, candidate := range extractWithPattern(re, text) {
			if seen[candidate] || !valid(candidate) {
				continue
			}
			seen[candidate] = true
			out = append(out, candidate)
		}
	}

	return out
}

// extractWithPattern returns all candidates a pattern yields: each
// non-empty trimmed capturing group when the pattern has groups,
// otherwise the whole trimmed match.
func extractWithPattern(re *regexp.Regexp, text string) []string {
	var candidates []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		if len(match) > 1 {
			for _, group := range match[1:] {
				if g := strings.TrimSpace(group); g != "" {
					candidates = append(candidates, g)
				}
			}
		} else if m := strings.TrimSpace(match[0]); m != "" {
			candidates = append(candidates, m)
		}
	}
	return candidates
}

// validBankAccount accepts candidates whose digit-only length is 9-18.
func (e *IntelligenceExtractor) validBankAccount(candidate string) bool {
	n := e.lib.DigitCount(candidate)
	return n >= 9 && n <= 18
}

// validPaymentHandle accepts "local@provider" where the local part is
// at least two handle-safe characters and the provider is either on
// the known-provider list or a plausible alphanumeric token.
func (e *IntelligenceExtractor) validPaymentHandle(candidate string) bool {
	parts := strings.Split(candidate, "@")
	if len(parts) != 2 {
		return false
	}
	return e.lib.ValidHandleLocal(parts[0]) && e.lib.ValidHandleProvider(parts[1])
}

// validLink accepts http/https/www-prefixed candidates of sane length.
func (e *IntelligenceExtractor) validLink(candidate string) bool {
	if len(candidate) < minLinkLength || len(candidate) > maxLinkLength {
		return false
	}
	return strings.HasPrefix(candidate, "http://") ||
		strings.HasPrefix(candidate, "https://") ||
		strings.HasPrefix(candidate, "www.")
}

// validPhoneNumber accepts candidates whose digit-only length is 10-15.
func (e *IntelligenceExtractor) validPhoneNumber(candidate string) bool {
	n := e.lib.DigitCount(candidate)
	return n >= 10 && n <= 15
}

package services

import (
	"strings"

	"scambait-lab/internal/domain/models"
)

// BuildNotes produces the deterministic human-readable case summary
// from the accumulated indicators and intelligence. The output joins a
// fixed sequence of observations with "; "; identical inputs always
// produce identical notes.
func BuildNotes(indicators []string, intel models.Intelligence) string {
	var notes []string

	if indicatorsMention(indicators, "urgent") {
		notes = append(notes, "Used urgency tactics")
	}
	if indicatorsMention(indicators, "threat") {
		notes = append(notes, "Made threats about account suspension/blocking")
	}
	if indicatorsMention(indicators, "url") || indicatorsMention(indicators, "link") {
		notes = append(notes, "Included suspicious links")
	}

	if len(intel.BankAccounts) > 0 {
		notes = append(notes, "Requested bank account information")
	}
	if len(intel.PaymentHandles) > 0 {
		notes = append(notes, "Attempted payment redirection")
	}
	if len(intel.PhishingLinks) > 0 {
		notes = append(notes, "Shared phishing URLs")
	}
	if len(intel.PhoneNumbers) > 0 {
		notes = append(notes, "Shared contact numbers")
	}

	if len(notes) == 0 {
		notes = append(notes, "Standard scam pattern detected")
	}

	return strings.Join(notes, "; ")
}

func indicatorsMention(indicators []string, substr string) bool {
	for _, ind := range indicators {
		if strings.Contains(strings.ToLower(ind), substr) {
			return true
		}
	}
	return false
}

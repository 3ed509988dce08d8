package services

import (
	"regexp"
	"strings"

	"scambait-lab/internal/domain/models"
)

// Scoring weights for the additive rule engine. Every point a message
// accrues is traceable to a named indicator.
const (
	WeightCriticalKeyword = 25
	WeightWarningKeyword  = 10
	WeightPattern         = 15
	WeightUrgency         = 20
	WeightThreat          = 25
	WeightPaymentRequest  = 20
	WeightShortMessage    = 5
	WeightLongMessage     = 10
	WeightExclamations    = 10
)

// ScorePattern pairs a named regular expression with its indicator name.
// A pattern contributes at most once per message regardless of match count.
type ScorePattern struct {
	Name  string
	Regex *regexp.Regexp
}

// PatternLibrary is the static table of keywords, phrases and compiled
// regular expressions shared by the scorer and the extractor. It holds
// no mutable state and is safe for concurrent use.
type PatternLibrary struct {
	CriticalKeywords []string
	WarningKeywords  []string
	ScorePatterns    []ScorePattern
	UrgencyPhrases   []string
	ThreatPhrases    []string
	PaymentPhrases   []string

	// Extraction patterns per intelligence field, evaluated in order.
	FieldPatterns map[models.FieldKind][]*regexp.Regexp

	SuspiciousKeywords []string

	// Instant-payment providers accepted without further shape checks.
	KnownProviders map[string]bool

	handleLocalRe    *regexp.Regexp
	handleProviderRe *regexp.Regexp
	nonDigitRe       *regexp.Regexp
}

// NewPatternLibrary builds the default library. Patterns are compiled
// once at construction; compilation failure is a programming error.
func NewPatternLibrary() *PatternLibrary {
	lib := &PatternLibrary{
		CriticalKeywords: []string{
			"urgent", "immediately", "suspended", "blocked", "expire",
			"verify now", "act now", "limited time", "last chance",
			"account locked", "unauthorized", "security alert",
			"confirm identity", "update payment", "verify account",
		},
		WarningKeywords: []string{
			"verify", "confirm", "click here", "link", "prize", "won",
			"congratulations", "selected", "winner", "free", "claim",
			"refund", "reward", "bonus", "offer", "discount",
			"bank", "account", "password", "otp", "pin", "cvv",
			"upi", "payment", "transfer", "credit card", "debit card",
			"send money", "send amount", "pay now", "unlock",
		},
		ScorePatterns: []ScorePattern{
			{Name: "URL", Regex: regexp.MustCompile(`(?i)\bhttp[s]?://\S+`)},
			{Name: "Account/Card number", Regex: regexp.MustCompile(`\b\d{10,16}\b`)},
			{Name: "Card format", Regex: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
			{Name: "Email", Regex: regexp.MustCompile(`(?i)\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)},
			{Name: "Payment handle", Regex: regexp.MustCompile(`(?i)\b[a-zA-Z0-9._-]+@[a-zA-Z0-9]+\b`)},
			{Name: "Phone number", Regex: regexp.MustCompile(`\+?\d{10,15}`)},
			{Name: "OTP pattern", Regex: regexp.MustCompile(`\b\d{6}\b`)},
			{Name: "Rupee amount", Regex: regexp.MustCompile(`₹\s?\d+`)},
			{Name: "Rs amount", Regex: regexp.MustCompile(`(?i)Rs\.?\s?\d+`)},
		},
		UrgencyPhrases: []string{
			"within 24 hours", "within 48 hours", "today", "right now",
			"expires soon", "limited time", "hurry", "quick", "fast",
			"immediately", "urgent", "asap", "right away",
		},
		ThreatPhrases: []string{
			"will be blocked", "will be suspended", "will be closed",
			"will be locked", "will expire", "lose access", "lose account",
			"legal action", "penalized", "charged", "fine",
		},
		PaymentPhrases: []string{
			"send money", "send amount", "send ₹", "send rs",
			"pay now", "payment to", "transfer to", "deposit to",
			"send to upi", "send to account",
		},
		SuspiciousKeywords: []string{
			"urgent", "immediately", "verify", "confirm", "suspended",
			"blocked", "expires", "act now", "click here", "limited time",
			"winner", "prize", "congratulations", "won", "claim",
			"refund", "reward", "bonus", "free", "offer", "update",
			"security alert", "authorize", "approve", "confirm identity",
		},
		KnownProviders: map[string]bool{
			"paytm": true, "ybl": true, "oksbi": true, "okaxis": true,
			"upi": true, "gpay": true, "phonepe": true, "hdfc": true,
			"icici": true, "sbi": true, "axis": true, "airtel": true,
			"aubank": true,
		},
		handleLocalRe:    regexp.MustCompile(`^[a-zA-Z0-9._-]+$`),
		handleProviderRe: regexp.MustCompile(`^[a-zA-Z0-9]+$`),
		nonDigitRe:       regexp.MustCompile(`\D`),
	}

	lib.FieldPatterns = map[models.FieldKind][]*regexp.Regexp{
		models.FieldBankAccount: {
			regexp.MustCompile(`\b\d{9,18}\b`),
			regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			regexp.MustCompile(`(?i)account[:\s]+(\d+)`),
			regexp.MustCompile(`(?i)A/C[:\s]+(\d+)`),
			regexp.MustCompile(`(?i)acc[:\s]+(\d+)`),
		},
		models.FieldPaymentHandle: {
			regexp.MustCompile(`(?i)\b[a-zA-Z0-9._-]+@[a-zA-Z0-9]+\b`),
			regexp.MustCompile(`(?i)\b\w+@paytm\b`),
			regexp.MustCompile(`(?i)\b\w+@ybl\b`),
			regexp.MustCompile(`(?i)\b\w+@oksbi\b`),
			regexp.MustCompile(`(?i)\b\w+@okaxis\b`),
			regexp.MustCompile(`(?i)\b\w+@upi\b`),
			regexp.MustCompile(`(?i)\b\w+@gpay\b`),
			regexp.MustCompile(`(?i)\b\w+@phonepe\b`),
			regexp.MustCompile(`(?i)\b\w+@sbi\b`),
			regexp.MustCompile(`(?i)\b\w+@hdfc\b`),
			regexp.MustCompile(`(?i)\b\w+@icici\b`),
		},
		models.FieldPhishingLink: {
			regexp.MustCompile(`(?i)http[s]?://[^\s]+`),
			regexp.MustCompile(`(?i)www\.[^\s]+`),
			regexp.MustCompile(`(?i)\b\w+\.(tk|ml|ga|cf|gq|club|xyz)\b`),
		},
		models.FieldPhoneNumber: {
			regexp.MustCompile(`\+?\d{10,15}`),
			regexp.MustCompile(`\b\d{10}\b`),
			regexp.MustCompile(`\b91\d{10}\b`),
		},
	}

	return lib
}

// DigitCount returns the number of decimal digits in s.
func (lib *PatternLibrary) DigitCount(s string) int {
	return len(lib.nonDigitRe.ReplaceAllString(s, ""))
}

// ValidHandleLocal reports whether s is an acceptable handle local part.
func (lib *PatternLibrary) ValidHandleLocal(s string) bool {
	return len(s) >= 2 && lib.handleLocalRe.MatchString(s)
}

// ValidHandleProvider reports whether s is a known provider or an
// acceptable alphanumeric provider token.
func (lib *PatternLibrary) ValidHandleProvider(s string) bool {
	if lib.KnownProviders[strings.ToLower(s)] {
		return true
	}
	return len(s) >= 3 && lib.handleProviderRe.MatchString(s)
}

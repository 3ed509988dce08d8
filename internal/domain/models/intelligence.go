package models

// FieldKind identifies a category of extracted intelligence.
type FieldKind string

const (
	FieldBankAccount       FieldKind = "bankAccount"
	FieldPaymentHandle     FieldKind = "paymentHandle"
	FieldPhishingLink      FieldKind = "phishingLink"
	FieldPhoneNumber       FieldKind = "phoneNumber"
	FieldSuspiciousKeyword FieldKind = "suspiciousKeyword"
)

// Intelligence holds structured artifacts mined from scammer messages.
// Each slice is a set: no duplicates, first-seen order preserved. The
// JSON field names are part of the external evaluation contract.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	PaymentHandles     []string `json:"paymentHandles"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// NewIntelligence returns an Intelligence with empty (non-nil) sets so
// that JSON output always carries all five keys.
func NewIntelligence() Intelligence {
	return Intelligence{
		BankAccounts:       []string{},
		PaymentHandles:     []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

// Field returns the set for the given kind.
func (in *Intelligence) Field(kind FieldKind) []string {
	switch kind {
	case FieldBankAccount:
		return in.BankAccounts
	case FieldPaymentHandle:
		return in.PaymentHandles
	case FieldPhishingLink:
		return in.PhishingLinks
	case FieldPhoneNumber:
		return in.PhoneNumbers
	case FieldSuspiciousKeyword:
		return in.SuspiciousKeywords
	default:
		return nil
	}
}

// Merge unions other into in, preserving first-seen order per field.
func (in *Intelligence) Merge(other Intelligence) {
	in.BankAccounts = unionOrdered(in.BankAccounts, other.BankAccounts)
	in.PaymentHandles = unionOrdered(in.PaymentHandles, other.PaymentHandles)
	in.PhishingLinks = unionOrdered(in.PhishingLinks, other.PhishingLinks)
	in.PhoneNumbers = unionOrdered(in.PhoneNumbers, other.PhoneNumbers)
	in.SuspiciousKeywords = unionOrdered(in.SuspiciousKeywords, other.SuspiciousKeywords)
}

// HasSubstantial reports whether any actionable field (everything but
// suspicious keywords) is non-empty.
func (in *Intelligence) HasSubstantial() bool {
	return len(in.BankAccounts) > 0 ||
		len(in.PaymentHandles) > 0 ||
		len(in.PhishingLinks) > 0 ||
		len(in.PhoneNumbers) > 0
}

// IsEmpty reports whether every field, including keywords, is empty.
func (in *Intelligence) IsEmpty() bool {
	return !in.HasSubstantial() && len(in.SuspiciousKeywords) == 0
}

// Clone returns a deep copy.
func (in Intelligence) Clone() Intelligence {
	return Intelligence{
		BankAccounts:       append([]string{}, in.BankAccounts...),
		PaymentHandles:     append([]string{}, in.PaymentHandles...),
		PhishingLinks:      append([]string{}, in.PhishingLinks...),
		PhoneNumbers:       append([]string{}, in.PhoneNumbers...),
		SuspiciousKeywords: append([]string{}, in.SuspiciousKeywords...),
	}
}

func unionOrdered(dst, src []string) []string {
	seen := make(map[string]bool, len(dst)+len(src))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

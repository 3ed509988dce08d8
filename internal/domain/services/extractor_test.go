package services

import (
	"reflect"
	"testing"

	"scambait-lab/internal/domain/models"
)

func newTestExtractor(t *testing.T) *IntelligenceExtractor {
	t.Helper()
	return NewIntelligenceExtractor(NewPatternLibrary(), testLogger())
}

func TestExtractPaymentHandles(t *testing.T) {
	ex := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"known provider", "send the money to pay@paytm today", []string{"pay@paytm"}},
		{"local part too short", "send to p@paytm now", nil},
		{"unknown short provider", "send to pay@xy now", nil},
		{"plausible provider", "send to pay@xyz now", []string{"pay@xyz"}},
		{"no handle", "just send the money", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Extract(tt.text).PaymentHandles
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PaymentHandles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBankAccountBounds(t *testing.T) {
	ex := newTestExtractor(t)

	tests := []struct {
		name  string
		text  string
		found bool
	}{
		{"8 digits too short", "account: 12345678", false},
		{"9 digits", "account: 123456789", true},
		{"18 digits", "account: 123456789012345678", true},
		{"19 digits too long", "account: 1234567890123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Extract(tt.text).BankAccounts
			if (len(got) > 0) != tt.found {
				t.Errorf("BankAccounts = %v, want found=%v", got, tt.found)
			}
		})
	}
}

func TestExtractPhoneNumberBounds(t *testing.T) {
	ex := newTestExtractor(t)

	got := ex.Extract("call me at 9876543210 right now").PhoneNumbers
	if len(got) != 1 || got[0] != "9876543210" {
		t.Errorf("PhoneNumbers = %v, want [9876543210]", got)
	}

	if got := ex.Extract("my pin is 123456").PhoneNumbers; len(got) != 0 {
		t.Errorf("6 digits should not be a phone number, got %v", got)
	}
}

func TestExtractLinks(t *testing.T) {
	ex := newTestExtractor(t)

	got := ex.Extract("open http://fake-bank.tk/verify and also www.evil.xyz/login").PhishingLinks
	want := []string{"http://fake-bank.tk/verify", "www.evil.xyz/login"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PhishingLinks = %v, want %v", got, want)
	}
}

func TestExtractDeduplicatesPreservingOrder(t *testing.T) {
	ex := newTestExtractor(t)

	got := ex.Extract("visit http://scam.tk/a then http://scam.tk/b then http://scam.tk/a again").PhishingLinks
	want := []string{"http://scam.tk/a", "http://scam.tk/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PhishingLinks = %v, want %v", got, want)
	}
}

func TestExtractSuspiciousKeywords(t *testing.T) {
	ex := newTestExtractor(t)

	got := ex.Extract("URGENT: verify your account immediately")
	for _, want := range []string{"urgent", "verify", "immediately"} {
		if !containsString(got.SuspiciousKeywords, want) {
			t.Errorf("SuspiciousKeywords = %v, missing %q", got.SuspiciousKeywords, want)
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	ex := newTestExtractor(t)

	got := ex.Extract("")
	if !got.IsEmpty() {
		t.Errorf("expected empty intelligence, got %+v", got)
	}
	// Sets stay non-nil so the JSON contract always carries every key.
	if got.BankAccounts == nil || got.PaymentHandles == nil || got.PhishingLinks == nil ||
		got.PhoneNumbers == nil || got.SuspiciousKeywords == nil {
		t.Error("intelligence sets must be non-nil")
	}
}

func TestExtractMergeIsIdempotent(t *testing.T) {
	ex := newTestExtractor(t)
	text := "send Rs.5000 to fraud@ybl or call +911234567890, link: http://evil.tk/pay"

	first := ex.Extract(text)
	merged := first.Clone()
	merged.Merge(ex.Extract(text))

	if !reflect.DeepEqual(first, merged) {
		t.Errorf("re-merging identical intelligence changed the result:\n%+v\n%+v", first, merged)
	}
}

func TestExtractConversation(t *testing.T) {
	ex := newTestExtractor(t)

	msgs := []models.Message{
		{Sender: models.SenderScammer, Text: "pay to fraud@paytm"},
		{Sender: models.SenderDecoy, Text: "Which payment ID exactly?"},
		{Sender: models.SenderScammer, Text: "fraud@paytm, or call 9876543210"},
	}

	got := ex.ExtractConversation(msgs)
	if !reflect.DeepEqual(got.PaymentHandles, []string{"fraud@paytm"}) {
		t.Errorf("PaymentHandles = %v, want [fraud@paytm]", got.PaymentHandles)
	}
	if !reflect.DeepEqual(got.PhoneNumbers, []string{"9876543210"}) {
		t.Errorf("PhoneNumbers = %v, want [9876543210]", got.PhoneNumbers)
	}
}

func containsString(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}

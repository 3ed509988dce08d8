package models

// FinalReport is the payload delivered to the external evaluation
// system when a session finalizes. Field names and shape are part of
// the external contract and must not change.
type FinalReport struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
}

// BuildFinalReport assembles the report from a session.
func BuildFinalReport(s *Session) FinalReport {
	return FinalReport{
		SessionID:              s.ID,
		ScamDetected:           s.ScamDetected,
		TotalMessagesExchanged: s.MessageCount,
		ExtractedIntelligence:  s.Intelligence.Clone(),
		AgentNotes:             s.Notes,
	}
}

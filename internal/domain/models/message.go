package models

// Sender role constants for conversation log entries.
const (
	SenderScammer = "scammer"
	SenderDecoy   = "user"
)

// Message is a single conversation turn as received on the wire.
// Timestamps are carried as opaque RFC3339 strings because the
// external evaluation system echoes them back verbatim.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// IsScammer reports whether this message was authored by the scammer side.
func (m Message) IsScammer() bool {
	return m.Sender == SenderScammer
}

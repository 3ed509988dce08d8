package models

// ScoreResult is the outcome of scoring a single message for scam intent.
type ScoreResult struct {
	IsScam     bool     `json:"is_scam"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators"`
}

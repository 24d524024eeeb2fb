package types

// Evaluation is the result of screening a single uploaded document
type Evaluation struct {
	RequestID      string               `json:"request_id"`
	Metadata       DocumentMetadata     `json:"metadata"`
	Classification ClassificationResult `json:"classification"`
	Scores         *ScoreBundle         `json:"scores,omitempty"`
}

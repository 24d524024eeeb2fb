package types

// ResumeClassName is the fixed class token for documents classified as a resume
const ResumeClassName = "resume"

// ClassificationResult is the verdict of the document classifier.
// When IsResume is true ClassName is ResumeClassName; otherwise ClassName is a
// stable, non-blank snake_case category token.
type ClassificationResult struct {
	IsResume    bool    `json:"is_resume"`
	Description string  `json:"description"`
	ClassName   string  `json:"class_name"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Reason      string  `json:"reason,omitempty"`
}

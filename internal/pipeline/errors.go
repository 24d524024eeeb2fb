package pipeline

import (
	"github.com/jonathan/resume-screener/internal/classification"
	"github.com/jonathan/resume-screener/internal/types"
)

// RejectionError reports a document the rejection policy turned away. It is
// a policy outcome rather than a failure of any component.
type RejectionError struct {
	RequestID      string
	Metadata       types.DocumentMetadata
	Classification types.ClassificationResult
}

// Error returns the message shown to the uploader
func (e *RejectionError) Error() string {
	return classification.RejectionMessage(e.Classification)
}

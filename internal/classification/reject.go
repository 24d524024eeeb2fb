package classification

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	rejectConfidence = 0.4

	// wordExcerptMaxWords is the largest Word upload still presumed truncated
	wordExcerptMaxWords = 150
)

// strongNonResumeKeywords reject a result outright when found in its
// description or reason
var strongNonResumeKeywords = []string{
	"job description",
	"cover letter",
	"invoice",
	"meeting notes",
	"academic paper",
	"policy",
	"compliance",
	"marketing brochure",
	"slide deck",
	"certificate",
	"does not contain any text",
	"empty document",
}

// RejectContext describes the upload a classification result came from
type RejectContext struct {
	Filename  string
	MIMEType  string
	WordCount int
}

// ShouldReject applies the upload policy to a classification result.
// Resumes are never rejected. Short .doc/.docx excerpts that merely lack
// resume sections are let through with low confidence; PDFs are not.
func ShouldReject(result types.ClassificationResult, ctx RejectContext) bool {
	if result.IsResume {
		return false
	}

	combined := strings.ToLower(result.Description + " " + result.Reason)
	for _, kw := range strongNonResumeKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}

	if result.Confidence >= rejectConfidence {
		return true
	}

	lacksSections := strings.Contains(strings.ToLower(result.Reason), "lacks resume-defining sections")
	if lacksSections &&
		extraction.IsWordFormat(ctx.Filename, ctx.MIMEType) &&
		ctx.WordCount <= wordExcerptMaxWords {
		return false
	}
	return true
}

// RejectionMessage is the user-facing text for a rejected upload
func RejectionMessage(result types.ClassificationResult) string {
	description := strings.TrimSpace(result.Description)
	if description == "" {
		description = "document"
	}
	return fmt.Sprintf("You have uploaded a %s and not a CV – please upload the correct CV", description)
}

package classification

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	vocabularyConfidence     = 0.85
	weakVocabularyConfidence = 0.7
	jobPostingConfidence     = 0.8
	dualKeywordConfidence    = 0.6

	// reasons quote at most this many matched keywords
	maxQuotedKeywords = 3
)

// documentType is a known non-resume category recognised by its vocabulary
type documentType struct {
	description string
	className   string
	keywords    []string
	threshold   int
}

// documentTypes is evaluated in order; the first entry reaching its threshold wins
var documentTypes = []documentType{
	{
		description: "job description",
		className:   "job_description",
		keywords:    []string{"job description", "responsibilities", "qualifications", "about the role", "what you will do", "what you'll do", "job summary", "reporting to"},
		threshold:   2,
	},
	{
		description: "cover letter",
		className:   "cover_letter",
		keywords:    []string{"cover letter", "dear hiring manager", "to whom it may concern", "i am writing to", "sincerely", "thank you for considering", "i am excited to apply", "yours faithfully"},
		threshold:   2,
	},
	{
		description: "invoice",
		className:   "invoice",
		keywords:    []string{"invoice", "bill to", "amount due", "payment terms", "subtotal", "due date", "remit to", "vat number"},
		threshold:   2,
	},
	{
		description: "meeting notes",
		className:   "meeting_notes",
		keywords:    []string{"meeting notes", "minutes of the meeting", "meeting minutes", "action items", "attendees", "agenda", "next meeting", "apologies received"},
		threshold:   2,
	},
	{
		description: "academic paper",
		className:   "academic_paper",
		keywords:    []string{"abstract", "literature review", "methodology", "et al.", "doi:", "keywords:", "hypothesis", "conclusion and future work"},
		threshold:   2,
	},
	{
		description: "policy document",
		className:   "policy_document",
		keywords:    []string{"this policy", "policy statement", "compliance requirements", "effective date", "policy owner", "shall be", "scope of this", "non-compliance"},
		threshold:   2,
	},
	{
		description: "marketing brochure",
		className:   "marketing_brochure",
		keywords:    []string{"brochure", "limited time offer", "special offer", "call us today", "our services", "visit our website", "book now", "free consultation"},
		threshold:   2,
	},
	{
		description: "slide deck",
		className:   "slide_deck",
		keywords:    []string{"slide", "presented by", "q&a", "key takeaways", "questions?", "thank you!", "next steps"},
		threshold:   2,
	},
	{
		description: "certificate",
		className:   "certificate",
		keywords:    []string{"certificate of completion", "certificate of achievement", "certificate of participation", "this is to certify", "hereby certifies", "is hereby awarded"},
		threshold:   1,
	},
}

// jobPostingPhrases are the calls to action and employer voice of a job ad
var jobPostingPhrases = []string{
	"we are looking for",
	"we're looking for",
	"apply now",
	"how to apply",
	"benefits",
	"join our team",
	"what we offer",
	"the ideal candidate",
	"equal opportunity",
	"competitive salary",
	"about the company",
}

// jobRequirementKeywords are the section names of a job ad
var jobRequirementKeywords = []string{
	"responsibilities",
	"qualifications",
	"requirements",
	"must have",
	"nice to have",
	"preferred skills",
	"years of experience",
}

func emptyTextStage(s *cascadeState) *types.ClassificationResult {
	if strings.TrimSpace(s.text) != "" {
		return nil
	}
	return &types.ClassificationResult{
		IsResume:    false,
		Description: "empty document",
		ClassName:   "empty_document",
		Confidence:  0,
		Reason:      "The document does not contain any text.",
	}
}

func vocabularyStage(s *cascadeState) *types.ClassificationResult {
	for _, dt := range documentTypes {
		matched := matchKeywords(s.lower, dt.keywords)
		if len(matched) < dt.threshold {
			continue
		}

		confidence := vocabularyConfidence
		if dt.threshold < 2 {
			confidence = weakVocabularyConfidence
		}
		return &types.ClassificationResult{
			IsResume:    false,
			Description: dt.description,
			ClassName:   dt.className,
			Confidence:  confidence,
			Reason:      fmt.Sprintf("The document contains %s language such as %s.", dt.description, quoteKeywords(matched)),
		}
	}
	return nil
}

func jobPostingStage(s *cascadeState) *types.ClassificationResult {
	phrases := matchKeywords(s.lower, jobPostingPhrases)
	requirements := matchKeywords(s.lower, jobRequirementKeywords)

	if len(phrases) < 3 && (len(phrases) < 2 || len(requirements) < 2) {
		return nil
	}
	return &types.ClassificationResult{
		IsResume:    false,
		Description: "job posting",
		ClassName:   "job_posting",
		Confidence:  jobPostingConfidence,
		Reason:      fmt.Sprintf("The document reads like a job posting (%s).", quoteKeywords(append(phrases, requirements...))),
	}
}

func dualKeywordStage(s *cascadeState) *types.ClassificationResult {
	if s.nonResume != nil {
		return nil
	}
	if !strings.Contains(s.lower, "professional summary") || !strings.Contains(s.lower, "experience") {
		return nil
	}
	return &types.ClassificationResult{
		IsResume:    true,
		Description: "resume",
		ClassName:   types.ResumeClassName,
		Confidence:  dualKeywordConfidence,
		Reason:      "The document has a professional summary and an experience section.",
	}
}

// matchKeywords returns the keywords found in lower, in list order
func matchKeywords(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// quoteKeywords renders up to three keywords as `"a", "b" and "c"`
func quoteKeywords(keywords []string) string {
	if len(keywords) > maxQuotedKeywords {
		keywords = keywords[:maxQuotedKeywords]
	}

	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = fmt.Sprintf("%q", kw)
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
	}
}

package classification

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	statisticalThreshold  = 3.0
	statisticalConfidence = 0.6
	finalResumeConfidence = 0.55
	finalOtherConfidence  = 0.3

	// LacksSectionsReason is the reason given when nothing marks the text as a resume
	LacksSectionsReason = "Document lacks resume-defining sections."

	maxDescriptionChars = 60
	maxHeadingChars     = 40
	maxHeadingWords     = 5
)

// termPairs each add one point when both terms are present
var termPairs = [][2]string{
	{"experience", "education"},
	{"skills", "experience"},
	{"education", "university"},
	{"email", "phone"},
}

// sectionHeadings are the canonical resume sections looked for on their own line
var sectionHeadings = []string{
	"summary",
	"experience",
	"education",
	"skills",
	"projects",
	"certifications",
	"contact",
}

var resumeWords = []string{"resume", "résumé", "curriculum", "vitae"}

func statisticalStage(s *cascadeState) *types.ClassificationResult {
	if statisticalScore(s.text, s.lower) < statisticalThreshold {
		return nil
	}
	return &types.ClassificationResult{
		IsResume:    true,
		Description: "resume",
		ClassName:   types.ResumeClassName,
		Confidence:  statisticalConfidence,
		Reason:      "The document has the section structure of a resume.",
	}
}

// statisticalScore sums the resume signals found in the text
func statisticalScore(text, lower string) float64 {
	score := 0.0

	for _, pair := range termPairs {
		if strings.Contains(lower, pair[0]) && strings.Contains(lower, pair[1]) {
			score++
		}
	}

	switch headings := countSectionHeadings(lower); {
	case headings >= 4:
		score += 2
	case headings >= 3:
		score += 1.5
	case headings >= 2:
		score++
	}

	for _, w := range resumeWords {
		if strings.Contains(lower, w) {
			score++
			break
		}
	}

	if countUpperCaseHeadings(text) >= 2 {
		score++
	}
	return score
}

// countSectionHeadings counts the canonical headings that appear on a short line
func countSectionHeadings(lower string) int {
	found := make(map[string]bool, len(sectionHeadings))
	for _, line := range strings.Split(lower, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) > maxHeadingChars {
			continue
		}
		for _, h := range sectionHeadings {
			if strings.Contains(line, h) {
				found[h] = true
			}
		}
	}
	return len(found)
}

// countUpperCaseHeadings counts short all-caps lines such as "WORK HISTORY"
func countUpperCaseHeadings(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
		if len(line) < 3 || utf8.RuneCountInString(line) > maxHeadingChars {
			continue
		}
		if len(strings.Fields(line)) > maxHeadingWords {
			continue
		}
		if strings.IndexFunc(line, unicode.IsLetter) < 0 || line != strings.ToUpper(line) {
			continue
		}
		count++
	}
	return count
}

func finalStage(s *cascadeState) *types.ClassificationResult {
	if strings.Contains(s.lower, "experience") &&
		strings.Contains(s.lower, "education") &&
		strings.Contains(s.lower, "skills") {
		return &types.ClassificationResult{
			IsResume:    true,
			Description: "resume",
			ClassName:   types.ResumeClassName,
			Confidence:  finalResumeConfidence,
			Reason:      "The document mentions experience, education and skills.",
		}
	}
	return unknownDocument(s.text)
}

// unknownDocument describes text by its first line
func unknownDocument(text string) *types.ClassificationResult {
	description, className := unknownDescription, unknownClassName
	if line := firstLine(text, maxDescriptionChars); line != "" {
		description = line
		className = nonResumeClassName(line)
	}
	return &types.ClassificationResult{
		IsResume:    false,
		Description: description,
		ClassName:   className,
		Confidence:  finalOtherConfidence,
		Reason:      LacksSectionsReason,
	}
}

// firstLine returns the first non-blank line, cut to limit characters
func firstLine(text string, limit int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > limit {
			line = strings.TrimSpace(string([]rune(line)[:limit]))
		}
		return line
	}
	return ""
}

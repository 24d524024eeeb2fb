// Package ats scores plain resume text the way an applicant tracking system
// might see it. Every metric is a pure function returning an integer in
// [0,100]; empty text scores 0 everywhere except where noted.
package ats

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	impactScale         = 500
	keywordDensityScale = 500

	crispSentenceWords  = 12
	crispPenaltyPerWord = 3

	// phone numbers carry 9 to 15 digits; fewer is usually a year range
	minPhoneDigits = 9
	maxPhoneDigits = 15
)

// strongVerbs are the accomplishment verbs counted by Impact
var strongVerbs = map[string]bool{
	"achieved":  true,
	"improved":  true,
	"led":       true,
	"managed":   true,
	"created":   true,
	"developed": true,
	"increased": true,
	"reduced":   true,
	"built":     true,
	"designed":  true,
}

// canonicalHeadings are the sections SectionHeadingClarity looks for
var canonicalHeadings = []string{"experience", "education", "skills", "projects", "summary", "contact"}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d \t().-]{5,}\d`)
)

// LayoutSearchability is the share of non-blank lines that are bullets
func LayoutSearchability(text string) int {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return 0
	}

	bullets := 0
	for _, line := range lines {
		if IsBullet(line) {
			bullets++
		}
	}
	return clamp(float64(bullets) / float64(len(lines)) * 100)
}

// Readability approximates the Flesch reading ease score
func Readability(text string) int {
	ws := words(text)
	if len(ws) == 0 {
		return 0
	}
	sentenceCount := max(len(sentences(text)), 1)

	syllableCount := 0
	for _, w := range ws {
		syllableCount += syllables(w)
	}

	wordsPerSentence := float64(len(ws)) / float64(sentenceCount)
	syllablesPerWord := float64(syllableCount) / float64(len(ws))
	return clamp(206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord)
}

// Impact measures how often strong accomplishment verbs are used
func Impact(text string) int {
	ws := words(text)
	if len(ws) == 0 {
		return 0
	}

	hits := 0
	for _, w := range ws {
		if strongVerbs[strings.ToLower(w)] {
			hits++
		}
	}
	return clamp(float64(hits) / float64(len(ws)) * impactScale)
}

// Crispness penalizes sentences averaging more than twelve words
func Crispness(text string) int {
	ws := words(text)
	if len(ws) == 0 {
		return 0
	}

	avg := float64(len(ws)) / float64(max(len(sentences(text)), 1))
	excess := max(avg-crispSentenceWords, 0)
	return clamp(100 - excess*crispPenaltyPerWord)
}

// KeywordDensity is the share of words that are repeated somewhere in the text
func KeywordDensity(text string) int {
	ws := words(text)
	if len(ws) == 0 {
		return 0
	}

	freq := make(map[string]int, len(ws))
	for _, w := range ws {
		freq[strings.ToLower(w)]++
	}

	repeated := 0
	for _, n := range freq {
		if n > 1 {
			repeated++
		}
	}
	return clamp(float64(repeated) / float64(len(ws)) * keywordDensityScale)
}

// SectionHeadingClarity is the share of canonical headings present on some line
func SectionHeadingClarity(text string) int {
	lines := strings.Split(strings.ToLower(text), "\n")

	found := 0
	for _, heading := range canonicalHeadings {
		for _, line := range lines {
			if strings.Contains(line, heading) {
				found++
				break
			}
		}
	}
	return clamp(float64(found) / float64(len(canonicalHeadings)) * 100)
}

// ContactInfoCompleteness scores 50 for an email address and 50 for a phone number
func ContactInfoCompleteness(text string) int {
	score := 0
	if emailPattern.MatchString(text) {
		score += 50
	}
	if hasPhoneNumber(text) {
		score += 50
	}
	return score
}

func hasPhoneNumber(text string) bool {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits && digits <= maxPhoneDigits {
			return true
		}
	}
	return false
}

// Grammar is a capitalization proxy: the share of sentences starting with an
// upper-case letter
func Grammar(text string) int {
	ss := sentences(text)
	if len(ss) == 0 {
		return 0
	}

	errs := 0
	for _, s := range ss {
		if !startsUpper(s) {
			errs++
		}
	}
	return clamp(100 - float64(errs)/float64(len(ss))*100)
}

// Compute runs all eight metrics
func Compute(text string) types.ATSMetrics {
	return types.ATSMetrics{
		Readability:             Readability(text),
		KeywordDensity:          KeywordDensity(text),
		Impact:                  Impact(text),
		Crispness:               Crispness(text),
		LayoutSearchability:     LayoutSearchability(text),
		SectionHeadingClarity:   SectionHeadingClarity(text),
		ContactInfoCompleteness: ContactInfoCompleteness(text),
		Grammar:                 Grammar(text),
	}
}

// Overall is the mean of the eight metrics
func Overall(m types.ATSMetrics) int {
	named := Named(m)
	sum := 0
	for _, metric := range named {
		sum += metric.Value
	}
	return clamp(float64(sum) / float64(len(named)))
}

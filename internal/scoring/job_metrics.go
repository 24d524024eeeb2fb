// Package scoring combines ATS metrics and job-aware metrics into card
// scores, an overall score and a selection probability.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/ats"
	"github.com/jonathan/resume-screener/internal/parsing"
)

// redFlagPenalty is subtracted from 100 for every distinct red flag found
const redFlagPenalty = 20

// redFlagTerms are disqualifying terms a recruiter would notice
var redFlagTerms = []string{
	"fired",
	"terminated",
	"arrest",
	"criminal",
	"misconduct",
	"lawsuit",
	"inappropriate",
	"sued",
	"probation",
	"guilty",
	"convicted",
	"layoff",
}

var (
	redFlagPatterns = compileRedFlags(redFlagTerms)
	yearPattern     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	layoutArtifacts = regexp.MustCompile(`[|_]{2,}|\t+`)
	digitPattern    = regexp.MustCompile(`\d`)
)

func compileRedFlags(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		// whole word, allowing plural and past-tense forms
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `(?:s|ed)?\b`)
	}
	return patterns
}

// RoleTitleMatch is the share of job title words found in the resume text
func RoleTitleMatch(text, title string) int {
	titleWords := splitTitle(title)
	if len(titleWords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	found := 0
	for _, w := range titleWords {
		if strings.Contains(lower, w) {
			found++
		}
	}
	return percent(found, len(titleWords))
}

// splitTitle lower-cases a title and splits it on non-word characters
func splitTitle(title string) []string {
	return strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// ExperienceRelevance is the share of required skills present in the
// candidate's skill set, compared case-insensitively after normalization
func ExperienceRelevance(candidateSkills, requiredSkills []string) int {
	have := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		have[parsing.SkillKey(s)] = true
	}

	required, matched := 0, 0
	for _, s := range requiredSkills {
		key := parsing.SkillKey(s)
		if key == "" {
			continue
		}
		required++
		if have[key] {
			matched++
		}
	}
	if required == 0 {
		return 0
	}
	return percent(matched, required)
}

// AccomplishmentDensity is the share of bullet lines that contain a number
func AccomplishmentDensity(text string) int {
	bullets, quantified := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if !ats.IsBullet(line) {
			continue
		}
		bullets++
		if digitPattern.MatchString(line) {
			quantified++
		}
	}
	if bullets == 0 {
		return 0
	}
	return percent(quantified, bullets)
}

// FormatParsability penalizes characters that break ATS parsing: runs of
// pipes or underscores and tab characters
func FormatParsability(text string) int {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 100
	}

	artifacts := 0
	for _, run := range layoutArtifacts.FindAllString(text, -1) {
		artifacts += utf8.RuneCountInString(run)
	}
	return clamp(100 - float64(artifacts)/float64(total)*100)
}

// DateConsistency penalizes years that go backwards in reading order.
// Fewer than two years scores 100.
func DateConsistency(text string) int {
	matches := yearPattern.FindAllString(text, -1)
	if len(matches) < 2 {
		return 100
	}

	years := make([]int, len(matches))
	for i, m := range matches {
		years[i], _ = strconv.Atoi(m)
	}

	backward := 0
	for i := 1; i < len(years); i++ {
		if years[i] < years[i-1] {
			backward++
		}
	}
	pairs := len(years) - 1
	return clamp(100 - float64(backward)/float64(pairs)*100)
}

// RedFlagScan subtracts 20 points per distinct red-flag term found
func RedFlagScan(text string) int {
	return max(100-redFlagPenalty*len(RedFlags(text)), 0)
}

// RedFlags lists the distinct red-flag terms present in text
func RedFlags(text string) []string {
	var found []string
	for i, re := range redFlagPatterns {
		if re.MatchString(text) {
			found = append(found, redFlagTerms[i])
		}
	}
	return found
}

// KeywordMatch is the share of keywords that appear in text as whole terms
func KeywordMatch(text string, keywords []string) int {
	total, found := 0, 0
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		total++
		if parsing.ContainsSkill(text, kw) {
			found++
		}
	}
	if total == 0 {
		return 0
	}
	return percent(found, total)
}

func percent(part, whole int) int {
	return clamp(float64(part) / float64(whole) * 100)
}

// clamp rounds v half away from zero and bounds it to [0,100]
func clamp(v float64) int {
	switch {
	case v != v:
		return 0
	case v <= 0:
		return 0
	case v >= 100:
		return 100
	}
	return int(v + 0.5)
}

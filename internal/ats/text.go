package ats

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)?`)
	sentenceBreak   = regexp.MustCompile(`[.!?]+(?:\s+|$)|\n+`)
	bulletLine      = regexp.MustCompile(`^\s*(?:[-*•·▪◦►‣–]|\d+[.)])\s+`)
	vowelGroup      = regexp.MustCompile(`[aeiouy]+`)
	silentE         = regexp.MustCompile(`[^aeiouy]e$`)
	consonantLE     = regexp.MustCompile(`[^aeiouy]le$`)
	nonLetterPrefix = regexp.MustCompile(`^[^\p{L}]+`)
)

// words returns the word tokens of text in their original case
func words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// sentences splits text on terminal punctuation and line breaks, keeping
// only segments that contain a letter
func sentences(text string) []string {
	var out []string
	for _, seg := range sentenceBreak.Split(text, -1) {
		seg = strings.TrimSpace(seg)
		if strings.IndexFunc(seg, unicode.IsLetter) >= 0 {
			out = append(out, seg)
		}
	}
	return out
}

// nonBlankLines returns the lines of text that contain something other than whitespace
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// IsBullet reports whether a line starts with a bullet or list marker
func IsBullet(line string) bool {
	return bulletLine.MatchString(line)
}

// syllables estimates the syllable count of a word from its vowel groups,
// ignoring a silent trailing e
func syllables(word string) int {
	w := strings.ToLower(word)
	count := len(vowelGroup.FindAllString(w, -1))
	if count > 1 && silentE.MatchString(w) && !consonantLE.MatchString(w) {
		count--
	}
	return max(count, 1)
}

// startsUpper reports whether the first letter of s is upper case
func startsUpper(s string) bool {
	s = nonLetterPrefix.ReplaceAllString(s, "")
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !unicode.IsLower(r)
}

// clamp rounds v and bounds it to [0,100]
func clamp(v float64) int {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}

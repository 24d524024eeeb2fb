package classification

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-screener/internal/types"
)

var (
	leadingArticles = map[string]bool{"a": true, "an": true, "the": true}
	trailingNouns   = map[string]bool{"document": true, "file": true, "text": true}
)

// DeriveClassName turns a free-text description into a snake_case token:
// "A scanned invoice document" becomes "scanned_invoice". It returns
// fallback when nothing usable remains.
func DeriveClassName(description, fallback string) string {
	tokens := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	if len(tokens) > 0 && leadingArticles[tokens[0]] {
		tokens = tokens[1:]
	}
	if len(tokens) > 0 && trailingNouns[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) == 0 {
		return fallback
	}
	return strings.Join(tokens, "_")
}

// nonResumeClassName derives a class for a non-resume verdict, which must
// never carry the resume token
func nonResumeClassName(description string) string {
	name := DeriveClassName(description, unknownClassName)
	if name == types.ResumeClassName {
		return unknownClassName
	}
	return name
}

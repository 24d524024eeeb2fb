package extraction

import (
	"regexp"
	"strings"
)

var (
	lineSeparatorReplacer = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u2028", "\n", // line separator
		"\u2029", "\n", // paragraph separator
		"\u0085", "\n", // next line
		"\v", "\n",
		"\f", "\n",
	)
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// Normalize converts every line-ending variant to \n and allows at most one
// blank line between paragraphs.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = lineSeparatorReplacer.Replace(text)
	text = trailingSpacePattern.ReplaceAllString(text, "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

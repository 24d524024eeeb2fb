package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var metricFuncs = map[string]func(string) int{
	"layout_searchability":      LayoutSearchability,
	"readability":               Readability,
	"impact":                    Impact,
	"crispness":                 Crispness,
	"keyword_density":           KeywordDensity,
	"section_heading_clarity":   SectionHeadingClarity,
	"contact_info_completeness": ContactInfoCompleteness,
	"grammar":                   Grammar,
}

func TestMetrics_AlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t",
		"a",
		"!!! ??? ...",
		"Led led led led led led.",
		"supercalifragilisticexpialidocious antidisestablishmentarianism",
		"the the the the the the the the the the the the the the the the the the the the the the the the the the the the the the",
		"- one\n- two\n* three\n• four\n1. five",
		"||||____\t\t\t",
		"Jane Doe\njane@example.com\n+1 (555) 123-4567\nExperience\n- Led a team of 5 and increased revenue 20%.",
		"日本語のテキストです。",
	}

	for name, fn := range metricFuncs {
		for _, input := range inputs {
			score := fn(input)
			assert.GreaterOrEqual(t, score, 0, "%s(%q)", name, input)
			assert.LessOrEqual(t, score, 100, "%s(%q)", name, input)
		}
	}
}

func TestLayoutSearchability(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		{"Heading\n- one\n- two\n\n- three", 75},
		{"- a\n* b\n• c\n1. d", 100},
		{"plain\nlines", 0},
		{"-not a bullet", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, LayoutSearchability(tt.text))
		})
	}
}

func TestReadability(t *testing.T) {
	// 6 words, 1 sentence, 6 syllables: 206.835 - 1.015*6 - 84.6*1 = 116.1, clamped
	assert.Equal(t, 100, Readability("The cat sat on the mat."))

	// long words push the score down
	assert.Less(t, Readability("Internationalization operationalizes organizational responsibilities."), 20)
	assert.Equal(t, 0, Readability(""))
}

func TestSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"cat", 1},
		{"make", 1},
		{"table", 2},
		{"coding", 2},
		{"the", 1},
		{"rhythm", 1},
		{"xyz", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, syllables(tt.word))
		})
	}
}

func TestImpact(t *testing.T) {
	// 2 verbs in 10 words: 0.2 * 500 = 100
	assert.Equal(t, 100, Impact("Led the team and built a platform for our customers"))
	// 1 verb in 20 words: 0.05 * 500 = 25
	assert.Equal(t, 25, Impact("Managed one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen"))
	// whole words only
	assert.Equal(t, 0, Impact("Leader builder designer"))
}

func TestCrispness(t *testing.T) {
	assert.Equal(t, 100, Crispness("Short sentence here. Another one."))
	// 20 words in one sentence: 100 - (20-12)*3 = 76
	assert.Equal(t, 76, Crispness("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty"))
	assert.Equal(t, 0, Crispness(""))
}

func TestKeywordDensity(t *testing.T) {
	// "go" repeated: 1 repeated word out of 4 tokens -> 125, capped
	assert.Equal(t, 100, KeywordDensity("Go go Python Rust"))
	// no repetition
	assert.Equal(t, 0, KeywordDensity("alpha beta gamma"))
	// 1 repeated out of 10 tokens -> 50
	assert.Equal(t, 50, KeywordDensity("sql a b c d e f g h SQL"))
}

func TestSectionHeadingClarity(t *testing.T) {
	assert.Equal(t, 50, SectionHeadingClarity("Experience\n...\nEducation\n...\nSkills"))
	assert.Equal(t, 100, SectionHeadingClarity("SUMMARY\nEXPERIENCE\nEDUCATION\nSKILLS\nPROJECTS\nCONTACT"))
	assert.Equal(t, 0, SectionHeadingClarity(""))
}

func TestContactInfoCompleteness(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"jane@example.com\n+44 20 7946 0958", 100},
		{"jane.doe@mail.co.uk", 50},
		{"(555) 123-4567", 50},
		{"no contact here, call 911", 0},
		{"Acme 2019 - 2023", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContactInfoCompleteness(tt.text))
		})
	}
}

func TestGrammar(t *testing.T) {
	assert.Equal(t, 100, Grammar("This is fine. So is this."))
	assert.Equal(t, 50, Grammar("This is fine. this is not."))
	assert.Equal(t, 100, Grammar("- Led the team\n- Built things"))
	assert.Equal(t, 0, Grammar("lower case only"))
	assert.Equal(t, 0, Grammar(""))
}

func TestCompute_ExampleResume(t *testing.T) {
	text := "Experience\n- Engineer at Acme\nEducation\n- State University\nSkills\n- SQL, Python"

	m := Compute(text)

	assert.Equal(t, 50, m.LayoutSearchability)
	assert.Equal(t, 50, m.SectionHeadingClarity)
	assert.Equal(t, 0, m.ContactInfoCompleteness)
	assert.Equal(t, 100, m.Grammar)
	assert.Equal(t, 100, m.Crispness)
}

func TestOverall(t *testing.T) {
	m := Compute("")
	assert.Equal(t, 0, Overall(m))

	m.Readability = 80
	m.Grammar = 80
	assert.Equal(t, 20, Overall(m))
}

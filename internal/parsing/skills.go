package parsing

import (
	"regexp"
	"strings"
)

// maxSkillLength drops sentence fragments that happen to sit in a skills block
const maxSkillLength = 40

// skillHeadings are the lines that open a skills block
var skillHeadings = map[string]bool{
	"skills":               true,
	"technical skills":     true,
	"core skills":          true,
	"key skills":           true,
	"skills & tools":       true,
	"skills and tools":     true,
	"tools":                true,
	"technologies":         true,
	"tech stack":           true,
	"competencies":         true,
	"core competencies":    true,
	"skills & competences": true,
}

// otherHeadings close a skills block
var otherHeadings = map[string]bool{
	"experience": true, "work experience": true, "professional experience": true, "employment": true,
	"education": true, "projects": true, "summary": true, "professional summary": true, "profile": true,
	"contact": true, "certifications": true, "certificates": true, "languages": true, "interests": true,
	"awards": true, "publications": true, "references": true, "volunteering": true, "objective": true,
}

var (
	bulletPrefix   = regexp.MustCompile(`^\s*(?:[-*•·–—▪►]|\d+[.)])\s*`)
	skillSeparator = regexp.MustCompile(`\s*[,;|•·/]\s*`)
)

// ExtractSkills returns the candidate's skills: the items listed under a
// skills heading plus any of known that appear verbatim in the text.
// Results are normalized and deduplicated.
func ExtractSkills(text string, known []string) []string {
	var found []string

	inSkills := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		heading := headingKey(trimmed)

		switch {
		case skillHeadings[heading]:
			inSkills = true
			continue
		case otherHeadings[heading]:
			inSkills = false
			continue
		}

		// "Skills: Go, SQL" on a single line
		if label, rest, ok := strings.Cut(trimmed, ":"); ok && skillHeadings[headingKey(label)] {
			found = append(found, splitSkills(rest)...)
			continue
		}

		if inSkills && trimmed != "" {
			found = append(found, splitSkills(trimmed)...)
		}
	}

	for _, skill := range known {
		if ContainsSkill(text, skill) {
			found = append(found, skill)
		}
	}

	return NormalizeSkills(found)
}

// ContainsSkill reports whether skill appears in text as a whole term,
// case-insensitively
func ContainsSkill(text, skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	pattern := `(?i)(?:^|[^\w+#])` + regexp.QuoteMeta(skill) + `(?:$|[^\w+#])`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func headingKey(line string) string {
	line = strings.TrimSpace(strings.TrimRight(line, ":"))
	return strings.ToLower(line)
}

func splitSkills(line string) []string {
	line = bulletPrefix.ReplaceAllString(line, "")
	// "Languages: Go, Python" keeps the items only
	if _, rest, ok := strings.Cut(line, ":"); ok {
		line = rest
	}

	var out []string
	for _, item := range skillSeparator.Split(line, -1) {
		item = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), "."))
		if item == "" || len(item) > maxSkillLength {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Package parsing extracts and normalizes skills from resume text.
package parsing

import (
	"strings"
	"unicode"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"mysql":      "MySQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"gcp":        "Google Cloud",
	"aws":        "AWS",
	"ms excel":   "Excel",
	"c sharp":    "C#",
	"cpp":        "C++",
}

// NormalizeSkillName returns the canonical display form of a skill name.
// Known aliases map to a fixed spelling; single lower-case or all-caps words
// get a leading capital; anything with mixed case is kept as written.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	upper := strings.ToUpper(normalized)
	singleWord := !strings.Contains(normalized, " ")
	switch {
	case normalized == upper && normalized == lower:
		// no letters, e.g. "C++" or "3D"
		return normalized
	case normalized == upper && singleWord && len(normalized) > 1:
		return capitalize(lower)
	case normalized == lower && singleWord:
		return capitalize(normalized)
	default:
		return normalized
	}
}

// SkillKey is the comparison key for a skill: its normalized name, lower-cased
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// NormalizeSkills normalizes and deduplicates skill names, keeping first-seen order
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := NormalizeSkillName(skill)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

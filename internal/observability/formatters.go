// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/ats"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells in a score bar
	barWidth = 20
	// shortHash is how much of a SHA-256 digest is shown
	shortHash = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		runes := []rune(line)
		return string(runes[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

// scoreBar renders a 0-100 value as a fixed-width bar
func scoreBar(value int) string {
	value = max(0, min(100, value))
	filled := (value*barWidth + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func writeScore(sb *strings.Builder, label string, value int) {
	sb.WriteString(fmt.Sprintf("%-24s %s %3d\n", label, scoreBar(value), value))
}

// PrintMetadata outputs what was extracted from the uploaded file.
func (p *Printer) PrintMetadata(meta *types.DocumentMetadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:    %s\n", meta.Filename))
	sb.WriteString(fmt.Sprintf("Format:  %s\n", meta.Format))
	sb.WriteString(fmt.Sprintf("Size:    %d bytes\n", meta.SizeBytes))
	sb.WriteString(fmt.Sprintf("Words:   %d\n", meta.WordCount))
	hash := meta.SHA256
	if len(hash) > shortHash {
		hash = hash[:shortHash]
	}
	sb.WriteString(fmt.Sprintf("SHA-256: %s", hash))

	p.printBox("EXTRACTED DOCUMENT", sb.String())
}

// PrintClassification outputs the classifier verdict.
func (p *Printer) PrintClassification(result *types.ClassificationResult) {
	if result == nil {
		return
	}

	verdict := "NOT A RESUME"
	if result.IsResume {
		verdict = "RESUME"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Verdict:     %s\n", verdict))
	sb.WriteString(fmt.Sprintf("Class:       %s\n", result.ClassName))
	sb.WriteString(fmt.Sprintf("Description: %s\n", result.Description))
	sb.WriteString(fmt.Sprintf("Confidence:  %.2f", result.Confidence))
	if result.Reason != "" {
		sb.WriteString("\n\n")
		sb.WriteString(wrap(result.Reason, boxWidth-4))
	}

	p.printBox("CLASSIFICATION", sb.String())
}

// PrintRejection outputs the message shown to an uploader whose document
// was turned away.
func (p *Printer) PrintRejection(message string) {
	if message == "" {
		return
	}
	p.printBox("UPLOAD REJECTED", wrap(message, boxWidth-4))
}

// PrintScores outputs the card scores, the headline numbers and every
// underlying metric.
func (p *Printer) PrintScores(scores *types.ScoreBundle) {
	if scores == nil {
		return
	}

	var sb strings.Builder
	writeScore(&sb, "Overall", scores.Overall)
	writeScore(&sb, "Selection probability", scores.SelectionProbability)
	writeScore(&sb, "Keyword match", scores.KeywordMatch)

	sb.WriteString("\nCards:\n")
	writeScore(&sb, "  Alignment", scores.Cards.Alignment)
	writeScore(&sb, "  Accomplishments", scores.Cards.Accomplishments)
	writeScore(&sb, "  Format", scores.Cards.Format)
	writeScore(&sb, "  Hygiene", scores.Cards.Hygiene)
	writeScore(&sb, "  Risk", scores.Cards.Risk)
	writeScore(&sb, "  ATS", scores.Cards.ATS)

	sb.WriteString("\nATS metrics:\n")
	for _, m := range ats.Named(scores.ATS) {
		writeScore(&sb, "  "+m.Name, m.Value)
	}

	sb.WriteString("\nJob metrics:\n")
	writeScore(&sb, "  role_title_match", scores.Job.RoleTitleMatch)
	writeScore(&sb, "  experience_relevance", scores.Job.ExperienceRelevance)
	writeScore(&sb, "  accomplishment_density", scores.Job.AccomplishmentDensity)
	writeScore(&sb, "  format_parsability", scores.Job.FormatParsability)
	writeScore(&sb, "  date_consistency", scores.Job.DateConsistency)
	writeScore(&sb, "  red_flag_scan", scores.Job.RedFlagScan)

	p.printBox("SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs every part of an evaluation in pipeline order.
func (p *Printer) PrintEvaluation(eval *types.Evaluation) {
	if eval == nil {
		return
	}
	p.PrintMetadata(&eval.Metadata)
	p.PrintClassification(&eval.Classification)
	p.PrintScores(eval.Scores)
}

// PrintComparison outputs before/after ATS metrics and the relative change.
func (p *Printer) PrintComparison(cmp *ats.Comparison) {
	if cmp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-26s %6s %6s %8s\n", "Metric", "Before", "After", "Change"))
	before := ats.Named(cmp.Before)
	after := ats.Named(cmp.After)
	for i, m := range before {
		change, ok := cmp.Improvement[m.Name]
		changeText := "n/a"
		if ok {
			changeText = fmt.Sprintf("%+.1f%%", change)
		}
		sb.WriteString(fmt.Sprintf("%-26s %6d %6d %8s\n", m.Name, m.Value, after[i].Value, changeText))
	}

	p.printBox("ATS COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs a sorted skill list.
func (p *Printer) PrintSkills(title string, skills []string) {
	if len(skills) == 0 {
		return
	}
	sorted := append([]string(nil), skills...)
	sort.Strings(sorted)
	p.printBox(title, wrap(strings.Join(sorted, ", "), boxWidth-4))
}

// wrap breaks text into lines of at most width runes at spaces
func wrap(text string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

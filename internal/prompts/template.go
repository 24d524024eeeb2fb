package prompts

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

const headerTerminator = "---"

var (
	headerLine   = regexp.MustCompile(`^\[\[([A-Za-z]+):(.*)\]\]$`)
	sectionTitle = regexp.MustCompile(`^[A-Z][A-Z0-9 &/_-]*$`)
)

// Template is a parsed prompt: a small header followed by titled sections
type Template struct {
	ID          string
	Version     string
	Description string
	Sections    []Section
}

// Section is one titled block of a prompt
type Section struct {
	Title string
	Body  string
}

// Parse reads the template format:
//
//	[[Template:<id>]]
//	[[Version:<version>]]
//	[[Description:<text>]]   (optional)
//	---
//	TITLE
//	body...
//
// Section titles are upper-case lines that start the file body or follow a
// blank line.
func Parse(src string) (*Template, error) {
	tmpl := &Template{}
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0

	inHeader := true
	for inHeader && scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == headerTerminator:
			inHeader = false
			continue
		}

		m := headerLine.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("expected header line, got %q", line)}
		}
		value := strings.TrimSpace(m[2])
		switch m[1] {
		case "Template":
			tmpl.ID = value
		case "Version":
			tmpl.Version = value
		case "Description":
			tmpl.Description = value
		default:
			return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("unknown header %q", m[1])}
		}
	}
	if inHeader {
		return nil, &ParseError{Line: lineNo, Message: "missing header terminator " + headerTerminator}
	}
	if tmpl.ID == "" || tmpl.Version == "" {
		return nil, &ParseError{Line: lineNo, Message: "Template and Version headers are required"}
	}

	var current *Section
	var body []string
	flush := func() {
		if current != nil {
			current.Body = strings.TrimSpace(strings.Join(body, "\n"))
			tmpl.Sections = append(tmpl.Sections, *current)
		}
		body = body[:0]
	}

	prevBlank := true
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(raw)

		if prevBlank && sectionTitle.MatchString(trimmed) {
			flush()
			current = &Section{Title: trimmed}
			prevBlank = false
			continue
		}
		if current == nil && trimmed != "" {
			return nil, &ParseError{Line: lineNo, Message: "text before the first section title"}
		}

		body = append(body, raw)
		prevBlank = trimmed == ""
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo, Message: "failed to read template", Cause: err}
	}
	flush()

	if len(tmpl.Sections) == 0 {
		return nil, &ParseError{Line: lineNo, Message: "template has no sections"}
	}
	return tmpl, nil
}

// Render serializes the template in its source format, header first, with
// placeholders in the section bodies filled from data
func (t *Template) Render(data map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[[Template:%s]]\n[[Version:%s]]\n", t.ID, t.Version)
	if t.Description != "" {
		fmt.Fprintf(&sb, "[[Description:%s]]\n", t.Description)
	}
	sb.WriteString(headerTerminator + "\n")

	for i, s := range t.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Title + "\n")
		if s.Body != "" {
			sb.WriteString(Format(s.Body, data) + "\n")
		}
	}
	return sb.String()
}

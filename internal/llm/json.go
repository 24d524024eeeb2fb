package llm

import (
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	jsonFence    = "```json"
	genericFence = "```"
)

// ExtractJSON finds the JSON object in a model answer. A ```json fenced
// block is unwrapped first; the object is then located by scanning from the
// first '{' to its matching '}', ignoring braces inside string literals.
func ExtractJSON(text string) (string, bool) {
	body := unfence(text)

	start := strings.IndexByte(body, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return body[start : i+1], true
			}
		}
	}
	return "", false
}

// unfence returns the content of the first fenced code block, or text
// unchanged when there is none. An unterminated fence keeps everything after it.
func unfence(text string) string {
	idx := strings.Index(text, jsonFence)
	skip := len(jsonFence)
	if idx < 0 {
		idx = strings.Index(text, genericFence)
		skip = len(genericFence)
	}
	if idx < 0 {
		return text
	}

	rest := text[idx+skip:]
	if end := strings.Index(rest, genericFence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// DecodeLenient unmarshals JSON5 into v, accepting single-quoted strings,
// unquoted keys, comments and trailing commas.
func DecodeLenient(raw string, v any) error {
	if err := json5.Unmarshal([]byte(doubleQuote(raw)), v); err != nil {
		return &ParseError{Message: "failed to decode model JSON", Cause: err}
	}
	return nil
}

// doubleQuote rewrites single-quoted strings as double-quoted ones. Inside a
// rewritten string \' becomes ' and a bare " is escaped. Double-quoted
// strings and comments are copied unchanged.
func doubleQuote(raw string) string {
	if !strings.ContainsRune(raw, '\'') {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(raw) + 8)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '"':
			end := closingQuote(raw, i)
			sb.WriteString(raw[i:end])
			i = end - 1
		case c == '/' && strings.HasPrefix(raw[i:], "//"):
			end := strings.IndexByte(raw[i:], '\n')
			if end < 0 {
				end = len(raw) - i
			}
			sb.WriteString(raw[i : i+end])
			i += end - 1
		case c == '/' && strings.HasPrefix(raw[i:], "/*"):
			end := strings.Index(raw[i+2:], "*/")
			if end < 0 {
				sb.WriteString(raw[i:])
				return sb.String()
			}
			sb.WriteString(raw[i : i+end+4])
			i += end + 3
		case c == '\'':
			i = writeSingleQuoted(&sb, raw, i)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// closingQuote returns the index just past the double-quoted string opening at start
func closingQuote(raw string, start int) int {
	for i := start + 1; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(raw)
}

// writeSingleQuoted writes the string opening at start with double quotes
// and returns the index of its closing quote
func writeSingleQuoted(sb *strings.Builder, raw string, start int) int {
	sb.WriteByte('"')
	for i := start + 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw) && raw[i+1] == '\'':
			sb.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(raw):
			sb.WriteByte(c)
			sb.WriteByte(raw[i+1])
			i++
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\'':
			sb.WriteByte('"')
			return i
		default:
			sb.WriteByte(c)
		}
	}
	return len(raw)
}

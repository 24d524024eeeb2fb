package extraction

import (
	"path/filepath"
	"strings"
)

// Format is a recognized upload format
type Format string

// Supported formats
const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatDOC     Format = "doc"
	FormatUnknown Format = ""
)

// DetectFormat resolves the format of an upload. The file extension wins;
// the MIME type is only consulted when the extension is not recognized.
func DetectFormat(filename, mimeType string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".doc":
		return FormatDOC
	}

	mime := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mime, "pdf"):
		return FormatPDF
	case strings.Contains(mime, "wordprocessingml"):
		return FormatDOCX
	case strings.Contains(mime, "msword"):
		return FormatDOC
	}

	return FormatUnknown
}

// IsWordFormat reports whether the upload is a .doc or .docx file
func IsWordFormat(filename, mimeType string) bool {
	format := DetectFormat(filename, mimeType)
	return format == FormatDOC || format == FormatDOCX
}

// Package types provides type definitions for structured data used throughout the resume-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RawDocument is an uploaded file as handed over by the upload collaborator.
// It is consumed once by the text extractor.
type RawDocument struct {
	Data     []byte `json:"-"`
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type,omitempty"`
}

// DocumentMetadata describes a document after successful text extraction
type DocumentMetadata struct {
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	SizeBytes   int       `json:"size_bytes"`
	SHA256      string    `json:"sha256"`
	WordCount   int       `json:"word_count"`
	ExtractedAt time.Time `json:"extracted_at"`
}

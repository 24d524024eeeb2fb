// Package extraction converts uploaded resume files (PDF, DOCX, legacy DOC) into normalized plain text.
package extraction

import (
	"errors"
	"fmt"
)

// Kind identifies the document format an extraction failure belongs to
type Kind string

// Extraction error kinds
const (
	KindPDF     Kind = "pdf"
	KindDOCX    Kind = "docx"
	KindDOC     Kind = "doc"
	KindDefault Kind = "default"
)

// Reason is the internal diagnostic code of an extraction failure
type Reason string

// Extraction failure reasons
const (
	ReasonEmptyText         Reason = "empty_text"
	ReasonParseFailed       Reason = "parse_failed"
	ReasonDependencyMissing Reason = "dependency_missing"
	ReasonMissingDocument   Reason = "missing_document"
)

// ErrUnsupportedFormat is returned for files that are neither PDF, DOCX nor DOC
var ErrUnsupportedFormat = errors.New("unsupported file format: please upload a PDF or DOCX file")

type userMessage struct {
	intro       string
	remediation string
}

var userMessages = map[Kind]userMessage{
	KindPDF: {
		intro:       "We couldn't read your PDF resume.",
		remediation: "Please re-export it as a text-based PDF (not a scanned image) and upload it again.",
	},
	KindDOCX: {
		intro:       "We couldn't read your DOCX resume.",
		remediation: "Please re-save it from Word or Google Docs as a .docx file and upload it again.",
	},
	KindDOC: {
		intro:       "We couldn't read your DOC resume.",
		remediation: "Please open it in Word and save it as a .docx or PDF file, then upload it again.",
	},
	KindDefault: {
		intro:       "We couldn't read your resume.",
		remediation: "Please upload a valid PDF or DOCX file.",
	},
}

// Error is a structured extraction failure. Its UserMessage is safe to show
// to the uploader verbatim; Error and Cause are for logs.
type Error struct {
	Kind   Kind
	Reason Reason
	Cause  error
}

func newError(kind Kind, reason Reason, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s/%s): %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s/%s)", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the two-sentence message for the error's format kind
func (e *Error) UserMessage() string {
	return MessageFor(e.Kind)
}

// MessageFor returns the two-sentence user message for a kind. Unknown kinds
// get the default message.
func MessageFor(kind Kind) string {
	msg, ok := userMessages[kind]
	if !ok {
		msg = userMessages[KindDefault]
	}
	return msg.intro + " " + msg.remediation
}

package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when a client is built without credentials
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrEmptyResponse is returned when the model answer has no text parts
	ErrEmptyResponse = errors.New("no text content in model response")
	// ErrNoJSON is returned when a model answer contains no JSON object
	ErrNoJSON = errors.New("no JSON object found in model response")
)

// NoModelError is returned when no model is configured for a tier
type NoModelError struct {
	Tier ModelTier
}

func (e *NoModelError) Error() string {
	return fmt.Sprintf("no model configured for tier %s", e.Tier)
}

// ParseError represents a model answer that could not be decoded
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

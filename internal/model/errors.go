package model

import (
	"fmt"
)

// ProviderStatusError is returned when the completion provider answers with a
// non-200 status. Body holds the raw response text.
type ProviderStatusError struct {
	StatusCode int
	Body       string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError is returned when a 200 response decodes as JSON but
// carries no usable choices[0].message.content.
type MalformedResponseError struct {
	Body string
}

func (e *MalformedResponseError) Error() string {
	return "provider response has no choices: " + e.Body
}

// ClientErrorKind classifies request-side failures.
type ClientErrorKind string

const (
	// InvalidInput means the request decoded but its text was empty.
	InvalidInput ClientErrorKind = "invalid_input"
	// MalformedRequest means the request body could not be decoded.
	MalformedRequest ClientErrorKind = "malformed_request"
)

// ClientError is a caller fault. It is never retried.
type ClientError struct {
	Kind    ClientErrorKind
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ErrEmptyInput is the rejection for blank analysis text.
var ErrEmptyInput = &ClientError{Kind: InvalidInput, Message: "YAML cannot be empty"}

package model

import (
	"context"
	"time"
)

// OutcomeKind tags how an analysis call ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeProviderError
	OutcomeTransportError // also covers prompt rendering and decode failures
	OutcomeMalformedResponse
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeProviderError:
		return "provider_error"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Analysis is the tagged result of one analyzer call. Only String() is part of
// the external contract; the other fields exist for logging and tests.
type Analysis struct {
	Kind       OutcomeKind
	Content    string // success: the model's answer
	StatusCode int    // provider error: HTTP status
	Body       string // provider error / malformed response: raw body
	Err        error  // transport error
	Duration   time.Duration
}

// String flattens the analysis into the single string returned to callers.
func (a Analysis) String() string {
	switch a.Kind {
	case OutcomeSuccess:
		return a.Content
	case OutcomeProviderError:
		return "LLM Error: " + a.Body
	case OutcomeMalformedResponse:
		return "Unexpected Response: " + a.Body
	default:
		msg := "unknown failure"
		if a.Err != nil {
			msg = a.Err.Error()
		}
		return "Internal Error: " + msg
	}
}

// Analyzer turns configuration text into an analysis. It never fails; every
// failure is encoded in the returned Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Analysis
}

package ai

import "context"

// LLMProvider sends a prompt to an LLM and returns the raw text response.
// Non-200 answers surface as *model.ProviderStatusError and 200 answers
// without usable choices as *model.MalformedResponseError; any other error
// is a transport or decoding failure.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

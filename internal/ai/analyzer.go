package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/amishk599/yamlassist/internal/model"
)

// Ensure YAMLAnalyzer implements model.Analyzer.
var _ model.Analyzer = (*YAMLAnalyzer)(nil)

// YAMLAnalyzer asks an LLM to explain configuration text and normalises
// whatever comes back into a model.Analysis.
type YAMLAnalyzer struct {
	provider LLMProvider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewYAMLAnalyzer creates an analyzer that renders tmpl and sends it to provider.
func NewYAMLAnalyzer(provider LLMProvider, tmpl *template.Template, logger *slog.Logger) *YAMLAnalyzer {
	return &YAMLAnalyzer{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// BuildPrompt interpolates text into the prompt template.
func (a *YAMLAnalyzer) BuildPrompt(text string) (string, error) {
	var promptBuf bytes.Buffer
	if err := a.tmpl.Execute(&promptBuf, struct{ YAML string }{YAML: text}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return promptBuf.String(), nil
}

// Analyze performs exactly one provider call. It never returns an error:
// failures are carried in the Analysis kind.
func (a *YAMLAnalyzer) Analyze(ctx context.Context, text string) model.Analysis {
	start := time.Now()

	var result model.Analysis
	prompt, err := a.BuildPrompt(text)
	if err != nil {
		result = model.Analysis{Kind: model.OutcomeTransportError, Err: err}
	} else {
		raw, err := a.provider.Complete(ctx, prompt)
		result = classify(raw, err)
	}
	result.Duration = time.Since(start)

	args := []any{
		"request_id", model.RequestIDFrom(ctx),
		"outcome", result.Kind.String(),
		"input_bytes", len(text),
		"duration", result.Duration,
	}
	switch result.Kind {
	case model.OutcomeSuccess:
		a.logger.Info("analysis completed", args...)
	case model.OutcomeProviderError:
		a.logger.Warn("llm returned error status", append(args, "status", result.StatusCode)...)
	case model.OutcomeMalformedResponse:
		a.logger.Warn("llm returned unexpected response", args...)
	default:
		a.logger.Error("llm call failed", append(args, "error", result.Err)...)
	}

	return result
}

// classify maps a provider result onto the tagged outcome.
func classify(raw string, err error) model.Analysis {
	if err == nil {
		return model.Analysis{Kind: model.OutcomeSuccess, Content: raw}
	}

	var statusErr *model.ProviderStatusError
	if errors.As(err, &statusErr) {
		return model.Analysis{
			Kind:       model.OutcomeProviderError,
			StatusCode: statusErr.StatusCode,
			Body:       statusErr.Body,
		}
	}

	var malformedErr *model.MalformedResponseError
	if errors.As(err, &malformedErr) {
		return model.Analysis{Kind: model.OutcomeMalformedResponse, Body: malformedErr.Body}
	}

	return model.Analysis{Kind: model.OutcomeTransportError, Err: err}
}

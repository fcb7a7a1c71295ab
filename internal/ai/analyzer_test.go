package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"text/template"

	"github.com/amishk599/yamlassist/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProvider is a stub LLMProvider for testing.
type mockProvider struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockProvider) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.response, m.err
}

func newTestAnalyzer(provider LLMProvider) *YAMLAnalyzer {
	return NewYAMLAnalyzer(provider, YAMLAnalysisTemplate, discardLogger())
}

const deploymentYAML = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
`

func TestBuildPrompt_ContainsHeadingsInOrder(t *testing.T) {
	analyzer := newTestAnalyzer(&mockProvider{})

	prompt, err := analyzer.BuildPrompt(deploymentYAML)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}

	last := -1
	for _, heading := range SectionHeadings {
		idx := strings.Index(prompt, heading)
		if idx < 0 {
			t.Fatalf("prompt missing heading %q", heading)
		}
		if idx <= last {
			t.Errorf("heading %q out of order", heading)
		}
		last = idx
	}
	if !strings.Contains(prompt, "Kubernetes") {
		t.Error("prompt should frame the text as Kubernetes configuration")
	}
	if !strings.HasSuffix(strings.TrimSpace(prompt), strings.TrimSpace(deploymentYAML)) {
		t.Error("prompt should end with the submitted text")
	}
}

func TestBuildPrompt_TextIsNotEscaped(t *testing.T) {
	analyzer := newTestAnalyzer(&mockProvider{})

	prompt, err := analyzer.BuildPrompt(`command: ["sh", "-c", "echo <ok> && exit 0"]`)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(prompt, `"echo <ok> && exit 0"`) {
		t.Errorf("prompt altered the submitted text:\n%s", prompt)
	}
}

func TestAnalyze_Success(t *testing.T) {
	provider := &mockProvider{response: "X"}
	analyzer := newTestAnalyzer(provider)

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeSuccess {
		t.Fatalf("Kind = %v, want success", got.Kind)
	}
	if got.String() != "X" {
		t.Errorf("String() = %q, want X", got.String())
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want exactly 1", provider.calls)
	}
	if !strings.Contains(provider.lastPrompt, "kind: Deployment") {
		t.Error("provider did not receive the rendered prompt")
	}
}

func TestAnalyze_ProviderError(t *testing.T) {
	provider := &mockProvider{err: &model.ProviderStatusError{StatusCode: 429, Body: "rate limited"}}
	analyzer := newTestAnalyzer(provider)

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeProviderError {
		t.Fatalf("Kind = %v, want provider_error", got.Kind)
	}
	if got.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", got.StatusCode)
	}
	if got.String() != "LLM Error: rate limited" {
		t.Errorf("String() = %q, want %q", got.String(), "LLM Error: rate limited")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no retries)", provider.calls)
	}
}

func TestAnalyze_MalformedResponse(t *testing.T) {
	body := `{"object":"chat.completion"}`
	analyzer := newTestAnalyzer(&mockProvider{err: &model.MalformedResponseError{Body: body}})

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeMalformedResponse {
		t.Fatalf("Kind = %v, want malformed_response", got.Kind)
	}
	if !strings.HasPrefix(got.String(), "Unexpected Response:") {
		t.Errorf("String() = %q, want Unexpected Response prefix", got.String())
	}
	if !strings.Contains(got.String(), body) {
		t.Errorf("String() = %q, want raw body included", got.String())
	}
}

func TestAnalyze_TransportError(t *testing.T) {
	analyzer := newTestAnalyzer(&mockProvider{err: errors.New("llm request: dial tcp 127.0.0.1:1: connect: connection refused")})

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeTransportError {
		t.Fatalf("Kind = %v, want transport_error", got.Kind)
	}
	if got.String() != "Internal Error: llm request: dial tcp 127.0.0.1:1: connect: connection refused" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestAnalyze_TemplateFailureIsInternalError(t *testing.T) {
	broken := template.Must(template.New("broken").Parse("{{.Missing}}"))
	provider := &mockProvider{response: "never"}
	analyzer := NewYAMLAnalyzer(provider, broken, discardLogger())

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeTransportError {
		t.Fatalf("Kind = %v, want transport_error", got.Kind)
	}
	if !strings.HasPrefix(got.String(), "Internal Error: render prompt") {
		t.Errorf("String() = %q", got.String())
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}
}

// The cases below run the analyzer against a real HTTP provider.

func TestAnalyze_EndToEnd_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Explanation:\n- runs nginx"}}]}`)
	analyzer := newTestAnalyzer(NewOpenRouterProvider(srv.URL, "key", "m", client))

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.String() != "Explanation:\n- runs nginx" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestAnalyze_EndToEnd_RateLimited(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusTooManyRequests, "rate limited")
	analyzer := newTestAnalyzer(NewOpenRouterProvider(srv.URL, "key", "m", client))

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.String() != "LLM Error: rate limited" {
		t.Errorf("String() = %q, want %q", got.String(), "LLM Error: rate limited")
	}
}

func TestAnalyze_EndToEnd_NoChoices(t *testing.T) {
	body := `{"id":"gen-9","usage":{"total_tokens":0}}`
	srv, client := makeTestServer(t, http.StatusOK, body)
	analyzer := newTestAnalyzer(NewOpenRouterProvider(srv.URL, "key", "m", client))

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.String() != "Unexpected Response: "+body {
		t.Errorf("String() = %q", got.String())
	}
}

func TestAnalyze_EndToEnd_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	analyzer := newTestAnalyzer(NewOpenRouterProvider(url, "key", "m", http.DefaultClient))

	got := analyzer.Analyze(context.Background(), deploymentYAML)
	if got.Kind != model.OutcomeTransportError {
		t.Fatalf("Kind = %v, want transport_error", got.Kind)
	}
	if !strings.HasPrefix(got.String(), "Internal Error: ") {
		t.Errorf("String() = %q, want Internal Error prefix", got.String())
	}
	if !strings.Contains(got.String(), strings.TrimPrefix(url, "http://")) {
		t.Errorf("String() = %q, want failure description naming the address", got.String())
	}
}

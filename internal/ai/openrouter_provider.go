package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/yamlassist/internal/model"
)

const (
	defaultReferer = "http://localhost:8000"
	defaultTitle   = "AI YAML Assistant"
)

// OpenRouterProvider calls an OpenRouter-compatible /chat/completions endpoint.
type OpenRouterProvider struct {
	baseURL    string
	apiKey     string
	model      string
	referer    string
	title      string
	httpClient *http.Client
}

// NewOpenRouterProvider creates a provider targeting baseURL (e.g.
// https://openrouter.ai/api/v1). The client's own timeout is the only bound on
// how long Complete may block.
func NewOpenRouterProvider(baseURL, apiKey, model string, httpClient *http.Client) *OpenRouterProvider {
	return &OpenRouterProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		referer:    defaultReferer,
		title:      defaultTitle,
		httpClient: httpClient,
	}
}

// SetAppInfo overrides the HTTP-Referer and X-Title headers that identify the
// calling application to the provider. Empty values keep the defaults.
func (p *OpenRouterProvider) SetAppInfo(referer, title string) {
	if referer != "" {
		p.referer = referer
	}
	if title != "" {
		p.title = title
	}
}

// chatRequest mirrors the /chat/completions request body.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends prompt as a single user message and returns
// choices[0].message.content.
func (p *OpenRouterProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("HTTP-Referer", p.referer)
	req.Header.Set("X-Title", p.title)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &model.ProviderStatusError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	var decoded any
	if err := json.Unmarshal(respBytes, &decoded); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}

	content, ok := firstChoiceContent(decoded)
	if !ok {
		return "", &model.MalformedResponseError{Body: strings.TrimSpace(string(respBytes))}
	}
	return content, nil
}

// firstChoiceContent walks choices[0].message.content. Any missing level or a
// non-string content counts as unrecognised.
func firstChoiceContent(decoded any) (string, bool) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/yamlassist/internal/model"
)

// makeTestServer answers every request with statusCode and the raw body.
func makeTestServer(t *testing.T, statusCode int, body string) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

const successBody = `{"id":"gen-1","choices":[{"index":0,"message":{"role":"assistant","content":"X"}}]}`

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, successBody)

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "X" {
		t.Errorf("got %q, want X", got)
	}
}

func TestComplete_NonOKStatus(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusTooManyRequests, "rate limited")

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "analyze this")

	var statusErr *model.ProviderStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *model.ProviderStatusError", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", statusErr.StatusCode)
	}
	if statusErr.Body != "rate limited" {
		t.Errorf("Body = %q, want raw body", statusErr.Body)
	}
}

func TestComplete_MissingChoices(t *testing.T) {
	body := `{"error":{"message":"no endpoints found","code":404}}`
	srv, client := makeTestServer(t, http.StatusOK, body)

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "analyze this")

	var malformedErr *model.MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("err = %v, want *model.MalformedResponseError", err)
	}
	if malformedErr.Body != body {
		t.Errorf("Body = %q, want %q", malformedErr.Body, body)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, `{"choices":[]}`)

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "analyze this")

	var malformedErr *model.MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("err = %v, want *model.MalformedResponseError", err)
	}
}

func TestComplete_NonStringContent(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":null}}]}`)

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "analyze this")

	var malformedErr *model.MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("err = %v, want *model.MalformedResponseError", err)
	}
}

func TestComplete_InvalidJSONBody(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, "<html>gateway</html>")

	provider := NewOpenRouterProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "analyze this")
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}

	var statusErr *model.ProviderStatusError
	var malformedErr *model.MalformedResponseError
	if errors.As(err, &statusErr) || errors.As(err, &malformedErr) {
		t.Errorf("err = %v, want a plain decode error", err)
	}
}

func TestComplete_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	provider := NewOpenRouterProvider(url, "test-key", "test-model", http.DefaultClient)
	_, err := provider.Complete(context.Background(), "analyze this")
	if err == nil {
		t.Fatal("expected error when the provider is unreachable")
	}
	if !strings.Contains(err.Error(), "llm request") {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
}

func TestComplete_SetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		io.WriteString(w, successBody)
	}))
	defer srv.Close()

	provider := NewOpenRouterProvider(srv.URL, "my-secret-key", "test-model", srv.Client())
	_, _ = provider.Complete(context.Background(), "hello")

	if got.Get("Authorization") != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", got.Get("Authorization"), "Bearer my-secret-key")
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", got.Get("Content-Type"))
	}
	if got.Get("HTTP-Referer") != "http://localhost:8000" {
		t.Errorf("HTTP-Referer = %q, want default", got.Get("HTTP-Referer"))
	}
	if got.Get("X-Title") != "AI YAML Assistant" {
		t.Errorf("X-Title = %q, want default", got.Get("X-Title"))
	}
}

func TestComplete_SetAppInfoOverridesHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		io.WriteString(w, successBody)
	}))
	defer srv.Close()

	provider := NewOpenRouterProvider(srv.URL, "key", "test-model", srv.Client())
	provider.SetAppInfo("https://ops.example.com", "")
	_, _ = provider.Complete(context.Background(), "hello")

	if got.Get("HTTP-Referer") != "https://ops.example.com" {
		t.Errorf("HTTP-Referer = %q", got.Get("HTTP-Referer"))
	}
	if got.Get("X-Title") != "AI YAML Assistant" {
		t.Errorf("X-Title = %q, want default kept", got.Get("X-Title"))
	}
}

func TestComplete_SendsSingleUserMessage(t *testing.T) {
	var gotReq chatRequest
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, successBody)
	}))
	defer srv.Close()

	provider := NewOpenRouterProvider(srv.URL+"/api/v1/", "key", "mistralai/mistral-7b-instruct", srv.Client())
	_, _ = provider.Complete(context.Background(), "the prompt")

	if gotPath != "/api/v1/chat/completions" {
		t.Errorf("path = %q, want /api/v1/chat/completions", gotPath)
	}
	if gotReq.Model != "mistralai/mistral-7b-instruct" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "the prompt" {
		t.Errorf("message = %+v", gotReq.Messages[0])
	}
}

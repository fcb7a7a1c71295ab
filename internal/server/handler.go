package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/yamlassist/internal/model"
)

const livenessMessage = "AI YAML Assistant is running 🚀"

// Handler serves the analysis API.
type Handler struct {
	analyzer model.Analyzer
	logger   *slog.Logger
}

// NewHandler creates a handler backed by analyzer.
func NewHandler(analyzer model.Analyzer, logger *slog.Logger) *Handler {
	return &Handler{analyzer: analyzer, logger: logger}
}

// analyzeRequest is the POST /analyze body. The pointer tells a missing field
// apart from an empty one.
type analyzeRequest struct {
	YAMLText *string `json:"yaml_text"`
}

type analyzeResponse struct {
	Analysis string `json:"analysis"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Analyze handles POST /analyze.
// Body: {"yaml_text": "..."}
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	text, err := decodeAnalyzeRequest(r)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	// The provider call runs to completion even if the caller goes away.
	ctx := context.WithoutCancel(r.Context())
	result := h.analyzer.Analyze(ctx, text)

	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: result.String()})
}

// Root handles GET / as a liveness probe.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: livenessMessage})
}

func decodeAnalyzeRequest(r *http.Request) (string, error) {
	var req analyzeRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return "", &model.ClientError{Kind: model.MalformedRequest, Message: "invalid request body: " + err.Error()}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "", &model.ClientError{Kind: model.MalformedRequest, Message: "invalid request body: unexpected data after JSON object"}
	}
	if req.YAMLText == nil {
		return "", &model.ClientError{Kind: model.MalformedRequest, Message: "yaml_text is required"}
	}
	if strings.TrimSpace(*req.YAMLText) == "" {
		return "", model.ErrEmptyInput
	}
	return *req.YAMLText, nil
}

func (h *Handler) writeClientError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	var clientErr *model.ClientError
	if errors.As(err, &clientErr) && clientErr.Kind == model.MalformedRequest {
		status = http.StatusUnprocessableEntity
	}
	h.logger.Debug("rejected request",
		"request_id", model.RequestIDFrom(r.Context()),
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

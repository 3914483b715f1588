package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// OllamaClient speaks Ollama's native HTTP API.
type OllamaClient struct {
	url         string // e.g. "http://localhost:11434"
	temperature float64
	client      *http.Client // reused across calls
}

// Compile-time check: *OllamaClient satisfies the Client interface.
var _ Client = (*OllamaClient)(nil)

// NewOllamaClient creates a client for the Ollama service at opts.BaseURL.
func NewOllamaClient(opts Options) *OllamaClient {
	return &OllamaClient{
		url:         trimBaseURL(opts.BaseURL),
		temperature: opts.Temperature,
		client:      newHTTPClient(opts.Timeout),
	}
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// ListModels calls GET /api/tags.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ServiceUnavailableError{URL: c.url, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: %s returned status %d", c.url+"/api/tags", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		models = append(models, name)
	}
	return models, nil
}

// Ask calls POST /api/generate with streaming disabled.
func (c *OllamaClient) Ask(ctx context.Context, model, prompt string) (Completion, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": c.temperature},
	})
	if err != nil {
		return Completion{}, &InferenceError{Model: model, Reason: "marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Completion{}, &InferenceError{Model: model, Reason: "create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return Completion{Elapsed: time.Since(start)}, &InferenceError{Model: model, Reason: "request failed", Wrapped: transportError(c.url, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return Completion{Elapsed: elapsed}, &InferenceError{Model: model, Reason: "read response", Wrapped: err}
	}

	var out ollamaGenerateResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("status %d", resp.StatusCode)
		if decodeErr == nil && out.Error != "" {
			reason += ": " + out.Error
		}
		return Completion{Elapsed: elapsed}, &InferenceError{Model: model, Reason: reason}
	}
	if decodeErr != nil {
		return Completion{Elapsed: elapsed}, &InferenceError{Model: model, Reason: "decode response", Wrapped: decodeErr}
	}
	if out.Error != "" {
		return Completion{Elapsed: elapsed}, &InferenceError{Model: model, Reason: out.Error}
	}

	return Completion{Text: out.Response, Elapsed: elapsed}, nil
}

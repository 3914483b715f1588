package llm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// OpenAIClient calls an OpenAI-compatible endpoint (LM Studio, vLLM,
// llama.cpp server, Ollama's /v1 shim).
type OpenAIClient struct {
	url         string
	temperature float64
	client      *http.Client
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the endpoint at opts.BaseURL
// (without the /v1 suffix).
func NewOpenAIClient(opts Options) *OpenAIClient {
	return &OpenAIClient{
		url:         trimBaseURL(opts.BaseURL),
		temperature: opts.Temperature,
		client:      newHTTPClient(opts.Timeout),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels calls GET /v1/models.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ServiceUnavailableError{URL: c.url, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: %s returned status %d", c.url+"/v1/models", resp.StatusCode)
	}

	var out modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}

	models := make([]string, 0, len(out.Data))
	for _, m := range out.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// Ask sends the prompt as a single user message to /v1/chat/completions.
func (c *OpenAIClient) Ask(ctx context.Context, model, prompt string) (Completion, error) {
	jsonData, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return Completion{}, &InferenceError{Model: model, Reason: "marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
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

	if resp.StatusCode != http.StatusOK {
		return Completion{Elapsed: time.Since(start)}, &InferenceError{Model: model, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Completion{Elapsed: time.Since(start)}, &InferenceError{Model: model, Reason: "decode response", Wrapped: err}
	}
	elapsed := time.Since(start)

	if len(out.Choices) == 0 {
		return Completion{Elapsed: elapsed}, &InferenceError{Model: model, Reason: "no choices returned"}
	}

	return Completion{Text: out.Choices[0].Message.Content, Elapsed: elapsed}, nil
}

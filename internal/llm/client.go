package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client talks to a local inference service.
// Implementations must not retry or cache: every Ask is one fresh request.
type Client interface {
	// ListModels returns the installed model identifiers. A reachable
	// service with no models yields an empty slice and a nil error.
	ListModels(ctx context.Context) ([]string, error)

	// Ask sends one prompt and blocks until the full completion is available.
	Ask(ctx context.Context, model, prompt string) (Completion, error)
}

// Completion is the raw text generated for one prompt.
type Completion struct {
	Text    string
	Elapsed time.Duration
}

// API selects the wire protocol spoken by the inference service.
type API string

const (
	APIOllama API = "ollama" // native /api/tags, /api/generate
	APIOpenAI API = "openai" // OpenAI-compatible /v1/models, /v1/chat/completions
)

// Options configures a Client.
type Options struct {
	BaseURL     string        // e.g. "http://localhost:11434"
	Timeout     time.Duration // per HTTP request, 0 = no limit
	Temperature float64
}

// New returns a client for the given API flavour.
func New(api API, opts Options) (Client, error) {
	switch api {
	case APIOllama, "":
		return NewOllamaClient(opts), nil
	case APIOpenAI:
		return NewOpenAIClient(opts), nil
	}
	return nil, fmt.Errorf("llm: unknown api %q (want ollama or openai)", api)
}

// ============================================================================
// Errors
// ============================================================================

// ServiceUnavailableError is returned when the inference service cannot be
// reached at all.
type ServiceUnavailableError struct {
	URL     string
	Wrapped error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("inference service unavailable at %s: %v", e.URL, e.Wrapped)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Wrapped
}

// InferenceError is returned when a single Ask fails. When the failure was a
// connection failure the wrapped error is a *ServiceUnavailableError.
type InferenceError struct {
	Model   string
	Reason  string
	Wrapped error
}

func (e *InferenceError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("inference failed for %s: %s: %v", e.Model, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("inference failed for %s: %s", e.Model, e.Reason)
}

func (e *InferenceError) Unwrap() error {
	return e.Wrapped
}

// transportError classifies an error returned by http.Client.Do.
// Dial failures mean nothing is listening, everything else (timeouts, resets
// mid-response) is reported as is.
func transportError(baseURL string, err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &ServiceUnavailableError{URL: baseURL, Wrapped: err}
	}
	return err
}

// ============================================================================
// Shared HTTP plumbing
// ============================================================================

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func trimBaseURL(u string) string {
	return strings.TrimRight(u, "/")
}

// Package llm wraps the Ollama text-generation API.
package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks github.com/vavassoriluca/MongoDB-RAG/internal/llm Generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// Generator produces a completion for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is a client for the Ollama generate API.
type Client struct {
	Host   string
	Model  string
	client *http.Client
}

// NewClient creates a new generation client. timeout bounds each call;
// generation is the slowest stage, so it is configured separately from the
// embedding/rerank timeout.
func NewClient(host, model string, timeout time.Duration) *Client {
	return &Client{
		Host:   host,
		Model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate runs the prompt through the model and returns the full answer.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", &service.ValidationError{Field: "prompt", Message: "cannot be empty"}
	}

	payload := generateRequest{
		Model:  c.Model,
		Prompt: prompt,
		Stream: false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", c.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &service.ProviderError{Provider: "ollama", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &service.ProviderError{
			Provider: "ollama",
			Err:      fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &service.ProviderError{
			Provider: "ollama",
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return genResp.Response, nil
}

// Ping checks that the Ollama host is reachable. Used by the health check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &service.ProviderError{Provider: "ollama", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return &service.ProviderError{
			Provider: "ollama",
			Err:      fmt.Errorf("bad status %d", resp.StatusCode),
		}
	}
	return nil
}

// Package embedding turns text into vectors by delegating to the Voyage AI
// embeddings API.
package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks github.com/vavassoriluca/MongoDB-RAG/internal/embedding Embedder

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

// InputType selects the provider's instruction template. Documents and
// queries are embedded differently; mixing the two silently degrades
// retrieval quality, so the ingest and query paths must each pass their
// own mode.
type InputType string

const (
	InputTypeDocument InputType = "document"
	InputTypeQuery    InputType = "query"
)

// Result carries the vectors for one Embed call plus provider accounting.
type Result struct {
	Embeddings  [][]float64
	Model       string
	TotalTokens int
}

// Embedder converts texts into one vector per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string, input InputType) (*Result, error)
}

// Client is a Voyage AI embeddings client.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new embeddings client. timeout bounds each call.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type embeddingsRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingsResponse struct {
	Data  []embeddingData `json:"data"`
	Model string          `json:"model"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Embed generates one embedding per input text, in input order.
// Failures surface as ProviderError with the provider's detail attached.
func (c *Client) Embed(ctx context.Context, texts []string, input InputType) (*Result, error) {
	if len(texts) == 0 {
		return nil, &service.ValidationError{Field: "input", Message: "no texts to embed"}
	}

	payload := embeddingsRequest{
		Input:     texts,
		Model:     c.Model,
		InputType: string(input),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &service.ProviderError{Provider: "voyage", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &service.ProviderError{
			Provider: "voyage",
			Err:      fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var embResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, &service.ProviderError{
			Provider: "voyage",
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if len(embResp.Data) != len(texts) {
		return nil, &service.ProviderError{
			Provider: "voyage",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embResp.Data)),
		}
	}

	// The API reports each vector's position; honor it so the result is
	// always in input order.
	embeddings := make([][]float64, len(embResp.Data))
	for i, data := range embResp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(embeddings) {
			idx = i
		}
		embeddings[idx] = data.Embedding
	}

	return &Result{
		Embeddings:  embeddings,
		Model:       embResp.Model,
		TotalTokens: embResp.Usage.TotalTokens,
	}, nil
}

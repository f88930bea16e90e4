// Package rerank re-scores retrieval candidates with the Voyage AI
// cross-encoder reranking API.
package rerank

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_reranker.go -package=mocks github.com/vavassoriluca/MongoDB-RAG/internal/rerank Reranker

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

// maxDocuments is the provider's documented per-request candidate ceiling.
const maxDocuments = 1000

// Ranking is a single reranked candidate. Index points back into the
// input slice; the order of the returned slice is the new relevance order.
type Ranking struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Reranker re-orders candidate texts by joint query/document relevance.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topK int) ([]Ranking, error)
}

// Client is a Voyage AI reranking client.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new reranking client. timeout bounds each call.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopK      int      `json:"top_k,omitempty"`
}

type rerankResponse struct {
	Data []Ranking `json:"data"`
}

// Rerank sends the query and candidates to the provider and returns the
// top-k candidates in relevance order. There is no automatic fallback to
// the un-reranked order; that choice belongs to the caller.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topK int) ([]Ranking, error) {
	if query == "" {
		return nil, &service.ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if len(documents) == 0 {
		return nil, &service.ValidationError{Field: "documents", Message: "no documents to rerank"}
	}
	if len(documents) > maxDocuments {
		return nil, &service.ValidationError{
			Field:   "documents",
			Message: fmt.Sprintf("at most %d documents per request", maxDocuments),
		}
	}

	payload := rerankRequest{
		Query:     query,
		Documents: documents,
		Model:     c.Model,
		TopK:      topK,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/rerank", c.BaseURL)
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

	var rankResp rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rankResp); err != nil {
		return nil, &service.ProviderError{
			Provider: "voyage",
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	for _, r := range rankResp.Data {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, &service.ProviderError{
				Provider: "voyage",
				Err:      fmt.Errorf("rank index %d out of range for %d documents", r.Index, len(documents)),
			}
		}
	}

	return rankResp.Data, nil
}

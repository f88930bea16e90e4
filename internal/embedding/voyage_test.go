package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

func TestClient_Embed(t *testing.T) {
	var gotRequest embeddingsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.4, 0.5}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
			"model": "voyage-3-large",
			"usage": map[string]int{"total_tokens": 7},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "voyage-3-large", 5*time.Second)

	result, err := client.Embed(context.Background(), []string{"first", "second"}, InputTypeDocument)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if gotRequest.InputType != "document" {
		t.Errorf("request input_type = %q, want document", gotRequest.InputType)
	}
	if gotRequest.Model != "voyage-3-large" {
		t.Errorf("request model = %q", gotRequest.Model)
	}

	if len(result.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(result.Embeddings))
	}
	// Provider returned vectors out of order; the index field restores input order.
	if result.Embeddings[0][0] != 0.1 || result.Embeddings[1][0] != 0.4 {
		t.Errorf("embeddings not in input order: %v", result.Embeddings)
	}
	if result.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, want 7", result.TotalTokens)
	}
}

func TestClient_Embed_QueryMode(t *testing.T) {
	var gotInputType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotInputType = req.InputType
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": []float64{1}, "index": 0}},
			"model": "voyage-3-large",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "voyage-3-large", time.Second)
	if _, err := client.Embed(context.Background(), []string{"q"}, InputTypeQuery); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if gotInputType != "query" {
		t.Errorf("input_type = %q, want query", gotInputType)
	}
}

func TestClient_Embed_Errors(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		texts        []string
		wantProvider bool
		wantValidate bool
	}{
		{
			name:         "empty input",
			texts:        nil,
			wantValidate: true,
		},
		{
			name:  "provider quota failure",
			texts: []string{"x"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
			wantProvider: true,
		},
		{
			name:  "count mismatch",
			texts: []string{"x", "y"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": []map[string]any{{"embedding": []float64{1}, "index": 0}},
				})
			},
			wantProvider: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "http://127.0.0.1:0"
			if tt.handler != nil {
				server := httptest.NewServer(tt.handler)
				defer server.Close()
				url = server.URL
			}

			client := NewClient(url, "k", "m", time.Second)
			_, err := client.Embed(context.Background(), tt.texts, InputTypeDocument)
			if err == nil {
				t.Fatal("Embed() expected error, got nil")
			}

			if tt.wantValidate {
				var ve *service.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error = %v, want ValidationError", err)
				}
			}
			if tt.wantProvider {
				var pe *service.ProviderError
				if !errors.As(err, &pe) {
					t.Errorf("error = %v, want ProviderError", err)
				} else if pe.Provider != "voyage" {
					t.Errorf("Provider = %q, want voyage", pe.Provider)
				}
			}
		})
	}
}

package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

func TestClient_Rerank(t *testing.T) {
	var gotRequest rerankRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/rerank" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		// Relevance order differs from input order on purpose.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 2, "relevance_score": 0.91},
				{"index": 0, "relevance_score": 0.42},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "rerank-2.5-lite", 5*time.Second)

	got, err := client.Rerank(context.Background(), "who ran?", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}

	if gotRequest.Model != "rerank-2.5-lite" || gotRequest.TopK != 2 || gotRequest.Query != "who ran?" {
		t.Errorf("unexpected request payload: %+v", gotRequest)
	}

	if len(got) != 2 {
		t.Fatalf("got %d rankings, want 2", len(got))
	}
	if got[0].Index != 2 || got[0].RelevanceScore != 0.91 {
		t.Errorf("first ranking = %+v, want index 2 score 0.91", got[0])
	}
	if got[1].Index != 0 {
		t.Errorf("second ranking = %+v, want index 0", got[1])
	}
}

func TestClient_Rerank_Validation(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "key", "m", time.Second)

	tests := []struct {
		name  string
		query string
		docs  []string
	}{
		{"empty query", "", []string{"a"}},
		{"no documents", "q", nil},
		{"too many documents", "q", make([]string, maxDocuments+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Rerank(context.Background(), tt.query, tt.docs, 5)
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestClient_Rerank_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "m", time.Second)
	_, err := client.Rerank(context.Background(), "q", []string{"a"}, 1)

	var pe *service.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ProviderError", err)
	}
	if !strings.Contains(pe.Error(), "model overloaded") {
		t.Errorf("provider detail lost: %v", pe)
	}
}

func TestClient_Rerank_OutOfRangeIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 5, "relevance_score": 0.9}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "m", time.Second)
	_, err := client.Rerank(context.Background(), "q", []string{"only one"}, 1)

	var pe *service.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ProviderError for out-of-range index", err)
	}
}

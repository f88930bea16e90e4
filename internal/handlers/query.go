package handlers

import (
	"net/http"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/embedding"
	"github.com/vavassoriluca/MongoDB-RAG/internal/llm"
	"github.com/vavassoriluca/MongoDB-RAG/internal/prompt"
	"github.com/vavassoriluca/MongoDB-RAG/internal/rerank"
	"github.com/vavassoriluca/MongoDB-RAG/internal/retrieval"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// QueryHandler handles the query-side stages: embed, retrieve, rerank,
// build-prompt and generate. As with ingestion, the client composes the
// stages; nothing is carried over between calls.
type QueryHandler struct {
	embedder   embedding.Embedder
	retriever  *retrieval.Retriever
	reranker   rerank.Reranker
	generator  llm.Generator
	rerankTopK int
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(embedder embedding.Embedder, retriever *retrieval.Retriever, reranker rerank.Reranker, generator llm.Generator, rerankTopK int) *QueryHandler {
	return &QueryHandler{
		embedder:   embedder,
		retriever:  retriever,
		reranker:   reranker,
		generator:  generator,
		rerankTopK: rerankTopK,
	}
}

// QueryEmbedRequest carries the user's question for embedding.
type QueryEmbedRequest struct {
	Query string `json:"query"`
}

// Embed embeds the user's question. Queries always use query mode, the
// counterpart of the ingest path's document mode.
func (h *QueryHandler) Embed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req QueryEmbedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		handleError(w, ctx, &service.ValidationError{Field: "query", Message: "cannot be empty"})
		return
	}

	result, err := h.embedder.Embed(ctx, []string{req.Query}, embedding.InputTypeQuery)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, EmbedResponse{
		Embedding:   result.Embeddings[0],
		Model:       result.Model,
		TotalTokens: result.TotalTokens,
	})
}

// RetrieveRequest asks for documents matching an embedded query. Query
// carries the original question text; the lexical branch of hybrid search
// needs it, so it is required when UseHybridSearch is set.
type RetrieveRequest struct {
	Query           string    `json:"query"`
	QueryEmbedding  []float64 `json:"query_embedding"`
	UseHybridSearch bool      `json:"use_hybrid_search"`
}

// RetrieveResponse carries the merged, origin-tagged result list.
type RetrieveResponse struct {
	Results []retrieval.Candidate `json:"results"`
}

// Retrieve runs vector or hybrid retrieval over the knowledge base.
func (h *QueryHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req RetrieveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.retriever.Retrieve(ctx, req.Query, req.QueryEmbedding, req.UseHybridSearch)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	logger.InfoContext(ctx, "retrieval completed", "hybrid", req.UseHybridSearch, "results", len(results))
	writeJSON(w, http.StatusOK, RetrieveResponse{Results: results})
}

// RerankRequest carries the question and the retrieved candidates.
type RerankRequest struct {
	Query     string            `json:"query"`
	Documents []prompt.Document `json:"documents"`
}

// RankedDocument is one reranked candidate joined back to its text.
type RankedDocument struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
	Text           string  `json:"text"`
	Source         string  `json:"source"`
}

// RerankResponse carries candidates in the provider's relevance order.
type RerankResponse struct {
	Results []RankedDocument `json:"results"`
}

// Rerank re-scores the candidates with the cross-encoder. On provider
// failure the error is reported as-is; falling back to the un-reranked
// order is the client's decision, not this handler's.
func (h *QueryHandler) Rerank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RerankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	texts := make([]string, len(req.Documents))
	for i, doc := range req.Documents {
		texts[i] = doc.Text
	}

	rankings, err := h.reranker.Rerank(ctx, req.Query, texts, h.rerankTopK)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	results := make([]RankedDocument, 0, len(rankings))
	for _, ranking := range rankings {
		doc := req.Documents[ranking.Index]
		results = append(results, RankedDocument{
			Index:          ranking.Index,
			RelevanceScore: ranking.RelevanceScore,
			Text:           doc.Text,
			Source:         doc.Source,
		})
	}

	writeJSON(w, http.StatusOK, RerankResponse{Results: results})
}

// BuildPromptRequest carries the final documents and the question.
type BuildPromptRequest struct {
	Query     string            `json:"query"`
	Documents []prompt.Document `json:"documents"`
}

// BuildPromptResponse carries the assembled generation prompt.
type BuildPromptResponse struct {
	Prompt string `json:"prompt"`
}

// BuildPrompt assembles the generation prompt. Pure formatting, no
// network calls.
func (h *QueryHandler) BuildPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BuildPromptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		handleError(w, ctx, &service.ValidationError{Field: "query", Message: "cannot be empty"})
		return
	}

	writeJSON(w, http.StatusOK, BuildPromptResponse{Prompt: prompt.Build(req.Documents, req.Query)})
}

// GenerateRequest carries a fully assembled prompt.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse carries the model's answer.
type GenerateResponse struct {
	FinalAnswer string `json:"final_answer"`
}

// Generate forwards the prompt to the generation model.
func (h *QueryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt == "" {
		handleError(w, ctx, &service.ValidationError{Field: "prompt", Message: "cannot be empty"})
		return
	}

	answer, err := h.generator.Generate(ctx, req.Prompt)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{FinalAnswer: answer})
}

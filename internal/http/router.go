package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vavassoriluca/MongoDB-RAG/internal/embedding"
	"github.com/vavassoriluca/MongoDB-RAG/internal/handlers"
	"github.com/vavassoriluca/MongoDB-RAG/internal/llm"
	"github.com/vavassoriluca/MongoDB-RAG/internal/rerank"
	"github.com/vavassoriluca/MongoDB-RAG/internal/retrieval"
	"github.com/vavassoriluca/MongoDB-RAG/internal/storage"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Embedder      embedding.Embedder
	DocumentStore store.DocumentStore
	Retriever     *retrieval.Retriever
	Reranker      rerank.Reranker
	LLMClient     *llm.Client
	Sources       storage.SourceStore

	ChunkSize    int
	ChunkOverlap int
	RerankTopK   int
}

// NewRouter creates a new HTTP router with the provided dependencies.
// Each pipeline stage is its own endpoint; clients compose them.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	ingestHandler := handlers.NewIngestHandler(deps.Embedder, deps.DocumentStore, deps.Sources, deps.ChunkSize, deps.ChunkOverlap)
	queryHandler := handlers.NewQueryHandler(deps.Embedder, deps.Retriever, deps.Reranker, deps.LLMClient, deps.RerankTopK)
	sourcesHandler := handlers.NewSourcesHandler(deps.Sources)
	healthHandler := handlers.NewHealthHandler(deps.DocumentStore, deps.LLMClient)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ingest", func(r chi.Router) {
			r.Post("/chunk", ingestHandler.Chunk)
			r.Post("/embed", ingestHandler.Embed)
			r.Post("/insert", ingestHandler.Insert)
		})

		r.Route("/query", func(r chi.Router) {
			r.Post("/embed", queryHandler.Embed)
			r.Post("/retrieve", queryHandler.Retrieve)
			r.Post("/rerank", queryHandler.Rerank)
			r.Post("/build-prompt", queryHandler.BuildPrompt)
			r.Post("/generate", queryHandler.Generate)
		})

		r.Get("/sources", sourcesHandler.List)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}

package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/vavassoriluca/MongoDB-RAG/internal/config"
	"github.com/vavassoriluca/MongoDB-RAG/internal/embedding"
	"github.com/vavassoriluca/MongoDB-RAG/internal/http"
	"github.com/vavassoriluca/MongoDB-RAG/internal/llm"
	"github.com/vavassoriluca/MongoDB-RAG/internal/rerank"
	"github.com/vavassoriluca/MongoDB-RAG/internal/retrieval"
	"github.com/vavassoriluca/MongoDB-RAG/internal/storage"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the source ledger database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	sourceRepo := storage.NewSourceRepo(db)

	ctx := context.Background()

	// Initialize the document store backend
	var documentStore store.DocumentStore
	switch cfg.StoreBackend {
	case config.BackendMongo:
		mongoStore, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:         cfg.MongoURI,
			Database:    cfg.MongoDatabase,
			Collection:  cfg.MongoCollection,
			VectorIndex: cfg.VectorIndex,
			TextIndex:   cfg.TextIndex,
		})
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			_ = mongoStore.Close(context.Background())
		}()
		documentStore = mongoStore
		slog.Info("MongoDB store ready", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
	case config.BackendQdrant:
		qdrantStore, err := store.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantStore.EnsureCollection(ctx, cfg.VectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		documentStore = qdrantStore
		slog.Info("Qdrant store ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)
	default:
		log.Fatalf("Unknown store backend: %q", cfg.StoreBackend)
	}

	// Provider clients
	embedder := embedding.NewClient(cfg.VoyageBaseURL, cfg.VoyageAPIKey, cfg.EmbeddingModel, cfg.ProviderTimeout)
	reranker := rerank.NewClient(cfg.VoyageBaseURL, cfg.VoyageAPIKey, cfg.RerankModel, cfg.ProviderTimeout)
	llmClient := llm.NewClient(cfg.OllamaHost, cfg.GenerationModel, cfg.GenerationTimeout)

	retriever := retrieval.NewRetriever(documentStore, retrieval.Options{
		VectorK:       cfg.VectorK,
		LexicalK:      cfg.LexicalK,
		FinalK:        cfg.FinalK,
		NumCandidates: cfg.NumCandidates,
	})
	slog.Info("Retrieval pipeline initialized", "backend", cfg.StoreBackend)

	deps := &http.Deps{
		Embedder:      embedder,
		DocumentStore: documentStore,
		Retriever:     retriever,
		Reranker:      reranker,
		LLMClient:     llmClient,
		Sources:       sourceRepo,
		ChunkSize:     cfg.ChunkSize,
		ChunkOverlap:  cfg.ChunkOverlap,
		RerankTopK:    cfg.RerankTopK,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Provider configuration",
		"embedding_model", cfg.EmbeddingModel,
		"rerank_model", cfg.RerankModel,
		"generation_model", cfg.GenerationModel,
		"ollama_host", cfg.OllamaHost,
	)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

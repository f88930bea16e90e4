package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects the document store implementation.
const (
	BackendMongo  = "mongo"
	BackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	// Document store
	StoreBackend     string
	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	VectorIndex      string
	TextIndex        string
	QdrantURL        string
	QdrantCollection string
	VectorSize       int

	// Providers
	VoyageAPIKey      string
	VoyageBaseURL     string
	EmbeddingModel    string
	RerankModel       string
	RerankTopK        int
	OllamaHost        string
	GenerationModel   string
	ProviderTimeout   time.Duration
	GenerationTimeout time.Duration

	// Pipeline
	ChunkSize     int
	ChunkOverlap  int
	NumCandidates int
	VectorK       int
	LexicalK      int
	FinalK        int

	// Service
	DBPath    string
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:         getEnv("MONGO_URI", ""),
		MongoDatabase:    getEnv("MONGO_DB", "rag_demo_db"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "knowledge_base"),
		VectorIndex:      getEnv("VECTOR_INDEX", "vector_index"),
		TextIndex:        getEnv("TEXT_INDEX", "full_text_index"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "knowledge_base"),

		VoyageAPIKey:    getEnv("VOYAGE_API_KEY", ""),
		VoyageBaseURL:   getEnv("VOYAGE_BASE_URL", "https://api.voyageai.com"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "voyage-3-large"),
		RerankModel:     getEnv("RERANK_MODEL", "rerank-2.5-lite"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		GenerationModel: getEnv("GENERATION_MODEL", "llama3"),

		DBPath:    getEnv("DB_PATH", "./data/mongodb-rag.db"),
		APIPort:   getEnv("API_PORT", "8000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.StoreBackend != BackendMongo && cfg.StoreBackend != BackendQdrant {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q", BackendMongo, BackendQdrant)
	}
	if cfg.StoreBackend == BackendMongo && cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.VoyageAPIKey == "" {
		return nil, fmt.Errorf("VOYAGE_API_KEY is required")
	}

	var err error
	if cfg.VectorSize, err = getEnvInt("VECTOR_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 128); err != nil {
		return nil, err
	}
	if cfg.NumCandidates, err = getEnvInt("NUM_CANDIDATES", 100); err != nil {
		return nil, err
	}
	if cfg.VectorK, err = getEnvInt("VECTOR_K", 5); err != nil {
		return nil, err
	}
	if cfg.LexicalK, err = getEnvInt("LEXICAL_K", 5); err != nil {
		return nil, err
	}
	if cfg.FinalK, err = getEnvInt("FINAL_K", 10); err != nil {
		return nil, err
	}
	if cfg.RerankTopK, err = getEnvInt("RERANK_TOP_K", 5); err != nil {
		return nil, err
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if cfg.NumCandidates < cfg.VectorK || cfg.NumCandidates < cfg.FinalK {
		return nil, fmt.Errorf("NUM_CANDIDATES must be >= VECTOR_K and FINAL_K")
	}

	if cfg.ProviderTimeout, err = getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getEnvDuration("GENERATION_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// The ledger lives in a local file; make sure its directory exists.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return d, nil
}

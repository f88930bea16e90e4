package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// QdrantStore implements DocumentStore on Qdrant. It only supports the
// vector branch; LexicalSearch reports ErrLexicalUnsupported and hybrid
// retrieval degrades to vector-only when this backend is selected.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a Qdrant-backed store. urlStr is the HTTP URL
// ("http://host:port"); the gRPC port is derived as HTTP port + 1.
func NewQdrantStore(urlStr, collection string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client, collection: collection}, nil
}

// EnsureCollection creates the collection when missing and validates the
// vector size when it already exists.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return &service.StoreError{Op: "collection check", Err: err}
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return &service.StoreError{Op: "create collection", Err: err}
		}
		logger.InfoContext(ctx, "collection created", "collection", s.collection, "vector_size", vectorSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return &service.StoreError{Op: "collection info", Err: err}
	}
	config := info.Config
	if config == nil || config.Params == nil || config.Params.GetVectorsConfig() == nil {
		return &service.StoreError{Op: "collection info", Err: fmt.Errorf("collection config is invalid")}
	}
	params := config.Params.GetVectorsConfig().GetParams()
	if params == nil || params.Size == 0 {
		return &service.StoreError{Op: "collection info", Err: fmt.Errorf("could not determine collection vector size")}
	}
	if int(params.Size) != vectorSize {
		return &service.StoreError{
			Op:  "collection info",
			Err: fmt.Errorf("vector size mismatch: expected %d, got %d", vectorSize, params.Size),
		}
	}
	return nil
}

// Insert stores the chunk as a single point with its text and provenance
// in the payload.
func (s *QdrantStore) Insert(ctx context.Context, chunk EmbeddedChunk) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	uploadDate := chunk.UploadDate
	if uploadDate.IsZero() {
		uploadDate = time.Now().UTC()
	}

	id := uuid.NewString()
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(id),
		Vectors: qdrant.NewVectors(toFloat32(chunk.Embedding)...),
		Payload: qdrant.NewValueMap(map[string]any{
			"text":        chunk.Text,
			"source":      chunk.Source,
			"chunk_id":    int64(chunk.ChunkID),
			"upload_date": uploadDate.Format(time.RFC3339),
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to insert chunk", "source", chunk.Source, "chunk_id", chunk.ChunkID, "error", err)
		return "", &service.StoreError{Op: "insert", Err: err}
	}

	logger.InfoContext(ctx, "inserted chunk", "source", chunk.Source, "chunk_id", chunk.ChunkID, "id", id)
	return id, nil
}

// VectorSearch queries the collection by similarity. numCandidates maps to
// the HNSW search breadth.
func (s *QdrantStore) VectorSearch(ctx context.Context, queryVector []float64, k, numCandidates int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, &service.ValidationError{Field: "k", Message: "must be greater than 0"}
	}
	if numCandidates < k {
		return nil, &service.ValidationError{
			Field:   "numCandidates",
			Message: fmt.Sprintf("must be >= k (%d)", k),
		}
	}

	limit := uint64(k)
	ef := uint64(numCandidates)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(toFloat32(queryVector)...),
		Limit:          &limit,
		Params:         &qdrant.SearchParams{HnswEf: &ef},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed", "k", k, "error", err)
		return nil, &service.StoreError{Op: "vector search", Err: err}
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		result := SearchResult{Score: float64(point.Score)}
		if v, ok := point.Payload["text"]; ok {
			result.Text = v.GetStringValue()
		}
		if v, ok := point.Payload["source"]; ok {
			result.Source = v.GetStringValue()
		}
		results = append(results, result)
	}

	logger.InfoContext(ctx, "vector search completed", "k", k, "results", len(results))
	return results, nil
}

// LexicalSearch is not available on this backend.
func (s *QdrantStore) LexicalSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return nil, ErrLexicalUnsupported
}

// Ping verifies the Qdrant instance is reachable.
func (s *QdrantStore) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return &service.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

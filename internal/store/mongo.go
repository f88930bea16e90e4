package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

const embeddingPath = "embedding"
const textPath = "text"

// MongoStore implements DocumentStore on MongoDB Atlas, using the
// $vectorSearch and $search aggregation stages over a single collection.
type MongoStore struct {
	client      *mongo.Client
	collection  *mongo.Collection
	vectorIndex string
	textIndex   string
}

// MongoConfig holds the connection parameters for a MongoStore.
type MongoConfig struct {
	URI         string
	Database    string
	Collection  string
	VectorIndex string
	TextIndex   string
}

// NewMongoStore connects to MongoDB and pings the deployment so a bad URI
// fails at startup rather than on the first request.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client:      client,
		collection:  client.Database(cfg.Database).Collection(cfg.Collection),
		vectorIndex: cfg.VectorIndex,
		textIndex:   cfg.TextIndex,
	}, nil
}

// knowledgeDocument is the persisted shape of an embedded chunk. It matches
// the collection the Atlas vector and text indexes are defined over.
type knowledgeDocument struct {
	Text      string    `bson:"text"`
	Embedding []float64 `bson:"embedding"`
	Source    string    `bson:"source"`
	Metadata  struct {
		ChunkID    int       `bson:"chunk_id"`
		UploadDate time.Time `bson:"upload_date"`
	} `bson:"metadata"`
}

// Insert persists a single embedded chunk and returns its object id.
func (s *MongoStore) Insert(ctx context.Context, chunk EmbeddedChunk) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	doc := knowledgeDocument{
		Text:      chunk.Text,
		Embedding: chunk.Embedding,
		Source:    chunk.Source,
	}
	doc.Metadata.ChunkID = chunk.ChunkID
	doc.Metadata.UploadDate = chunk.UploadDate
	if doc.Metadata.UploadDate.IsZero() {
		doc.Metadata.UploadDate = time.Now().UTC()
	}

	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		logger.ErrorContext(ctx, "failed to insert chunk", "source", chunk.Source, "chunk_id", chunk.ChunkID, "error", err)
		return "", &service.StoreError{Op: "insert", Err: err}
	}

	id := ""
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	} else {
		id = fmt.Sprintf("%v", res.InsertedID)
	}

	logger.InfoContext(ctx, "inserted chunk", "source", chunk.Source, "chunk_id", chunk.ChunkID, "id", id)
	return id, nil
}

// VectorSearch runs the $vectorSearch pipeline and returns results by
// descending similarity score.
func (s *MongoStore) VectorSearch(ctx context.Context, queryVector []float64, k, numCandidates int) ([]SearchResult, error) {
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

	pipeline := vectorSearchPipeline(s.vectorIndex, embeddingPath, queryVector, numCandidates, k)
	results, err := s.aggregate(ctx, pipeline)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed", "k", k, "error", err)
		return nil, &service.StoreError{Op: "vector search", Err: err}
	}

	logger.InfoContext(ctx, "vector search completed", "k", k, "results", len(results))
	return results, nil
}

// LexicalSearch runs the $search text pipeline and returns results by
// descending full-text relevance score.
func (s *MongoStore) LexicalSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if query == "" {
		return nil, &service.ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if k <= 0 {
		return nil, &service.ValidationError{Field: "k", Message: "must be greater than 0"}
	}

	pipeline := textSearchPipeline(s.textIndex, textPath, query, k)
	results, err := s.aggregate(ctx, pipeline)
	if err != nil {
		logger.ErrorContext(ctx, "lexical search failed", "k", k, "error", err)
		return nil, &service.StoreError{Op: "lexical search", Err: err}
	}

	logger.InfoContext(ctx, "lexical search completed", "k", k, "results", len(results))
	return results, nil
}

func (s *MongoStore) aggregate(ctx context.Context, pipeline []bson.D) ([]SearchResult, error) {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var results []SearchResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Ping verifies the deployment is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return &service.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

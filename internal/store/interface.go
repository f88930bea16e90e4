// Package store persists embedded chunks in a document database and
// answers vector and full-text queries over them.
package store

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks github.com/vavassoriluca/MongoDB-RAG/internal/store DocumentStore

import (
	"context"
	"errors"
	"time"
)

// ErrLexicalUnsupported is returned by backends that cannot run full-text
// queries. The retriever degrades to the vector-only branch when it sees it.
var ErrLexicalUnsupported = errors.New("lexical search not supported by this backend")

// EmbeddedChunk is a chunk ready for insertion: the text, its embedding,
// the originating document and the position within it. Persisted
// indefinitely; never mutated, only superseded by re-ingestion.
type EmbeddedChunk struct {
	Text       string
	Embedding  []float64
	Source     string
	ChunkID    int
	UploadDate time.Time
}

// SearchResult is one retrieval hit. Score is on the issuing branch's own
// scale (vector similarity or full-text relevance) and is not comparable
// across branches.
type SearchResult struct {
	Text   string  `json:"text" bson:"text"`
	Source string  `json:"source" bson:"source"`
	Score  float64 `json:"score" bson:"score"`
}

// DocumentStore is the document database holding the knowledge base.
type DocumentStore interface {
	// Insert persists a single embedded chunk and returns its stored id.
	// Concurrent inserts are independent and unordered.
	Insert(ctx context.Context, chunk EmbeddedChunk) (string, error)

	// VectorSearch returns up to k results by descending similarity score.
	// numCandidates bounds the approximate-search breadth and must be >= k.
	VectorSearch(ctx context.Context, queryVector []float64, k, numCandidates int) ([]SearchResult, error)

	// LexicalSearch returns up to k results by descending full-text
	// relevance. Backends without a text index return ErrLexicalUnsupported.
	LexicalSearch(ctx context.Context, query string, k int) ([]SearchResult, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

// Options bound the two branches and the merged output.
type Options struct {
	// VectorK caps the vector branch in hybrid mode.
	VectorK int
	// LexicalK caps the lexical branch in hybrid mode.
	LexicalK int
	// FinalK caps the merged list and the plain vector-only search.
	FinalK int
	// NumCandidates bounds the store's approximate-search breadth.
	NumCandidates int
}

// Retriever issues the retrieval branches against the document store and
// merges the results.
type Retriever struct {
	store  store.DocumentStore
	opts   Options
	logger *slog.Logger
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(documentStore store.DocumentStore, opts Options) *Retriever {
	return &Retriever{
		store:  documentStore,
		opts:   opts,
		logger: slog.Default(),
	}
}

// Retrieve answers a query. In hybrid mode both branches run and their
// results are merged; otherwise only the vector branch runs. The query text
// is required in hybrid mode because the lexical branch searches by it.
func (r *Retriever) Retrieve(ctx context.Context, query string, queryVector []float64, hybrid bool) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(queryVector) == 0 {
		return nil, &service.ValidationError{Field: "query_embedding", Message: "cannot be empty"}
	}

	if !hybrid {
		vector, err := r.store.VectorSearch(ctx, queryVector, r.opts.FinalK, r.opts.NumCandidates)
		if err != nil {
			return nil, fmt.Errorf("vector search: %w", err)
		}
		logger.InfoContext(ctx, "vector retrieval completed", "results", len(vector))
		return Merge(vector, nil, r.opts.FinalK), nil
	}

	if query == "" {
		return nil, &service.ValidationError{Field: "query", Message: "required for hybrid search"}
	}

	vector, err := r.store.VectorSearch(ctx, queryVector, r.opts.VectorK, r.opts.NumCandidates)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	lexical, err := r.store.LexicalSearch(ctx, query, r.opts.LexicalK)
	if err != nil {
		if errors.Is(err, store.ErrLexicalUnsupported) {
			logger.WarnContext(ctx, "lexical branch unsupported by store backend, degrading to vector-only")
			lexical = nil
		} else {
			return nil, fmt.Errorf("lexical search: %w", err)
		}
	}

	merged := Merge(vector, lexical, r.opts.FinalK)
	logger.InfoContext(ctx, "hybrid retrieval completed",
		"vector_results", len(vector),
		"lexical_results", len(lexical),
		"merged", len(merged),
	)
	return merged, nil
}

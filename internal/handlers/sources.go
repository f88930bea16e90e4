package handlers

import (
	"net/http"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/storage"
)

// SourcesHandler lists the documents that have been chunked for ingestion.
type SourcesHandler struct {
	sources storage.SourceStore
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(sources storage.SourceStore) *SourcesHandler {
	return &SourcesHandler{sources: sources}
}

// SourcesResponse carries the ingestion ledger.
type SourcesResponse struct {
	Sources []storage.Source `json:"sources"`
}

// List returns every recorded source, most recent first.
func (h *SourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sources, err := h.sources.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list sources", "error", err)
		handleError(w, ctx, err)
		return
	}

	if sources == nil {
		sources = []storage.Source{}
	}
	writeJSON(w, http.StatusOK, SourcesResponse{Sources: sources})
}

package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/chunker"
	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/embedding"
	"github.com/vavassoriluca/MongoDB-RAG/internal/ingest"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
	"github.com/vavassoriluca/MongoDB-RAG/internal/storage"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

// maxUploadBytes caps uploaded file size (32 MiB).
const maxUploadBytes = 32 << 20

// IngestHandler handles the three ingestion stages: chunk, embed, insert.
// Each stage is a separate HTTP operation; the client drives the sequence.
type IngestHandler struct {
	embedder      embedding.Embedder
	documentStore store.DocumentStore
	sources       storage.SourceStore
	window        int
	overlap       int
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(embedder embedding.Embedder, documentStore store.DocumentStore, sources storage.SourceStore, window, overlap int) *IngestHandler {
	return &IngestHandler{
		embedder:      embedder,
		documentStore: documentStore,
		sources:       sources,
		window:        window,
		overlap:       overlap,
	}
}

// ChunkResponse is the result of splitting an uploaded document.
type ChunkResponse struct {
	Source string          `json:"source"`
	Chunks []chunker.Chunk `json:"chunks"`
}

// Chunk reads the uploaded file and splits its text into overlapping chunks.
func (h *IngestHandler) Chunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(w, http.StatusBadRequest, "A file upload named 'file' is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	text, err := ingest.ExtractText(header.Filename, data)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	chunks, err := chunker.Split(text, h.window, h.overlap)
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	// Ledger failures do not fail the upload; the chunks are still usable.
	if _, err := h.sources.Record(ctx, header.Filename, len(chunks)); err != nil {
		logger.WarnContext(ctx, "failed to record source in ledger", "source", header.Filename, "error", err)
	}

	logger.InfoContext(ctx, "document chunked", "source", header.Filename, "chunks", len(chunks))
	writeJSON(w, http.StatusOK, ChunkResponse{Source: header.Filename, Chunks: chunks})
}

// EmbedChunkRequest carries one chunk to embed in document mode.
type EmbedChunkRequest struct {
	ChunkText string `json:"chunk_text"`
}

// EmbedResponse carries one embedding plus provider accounting.
type EmbedResponse struct {
	Embedding   []float64 `json:"embedding"`
	Model       string    `json:"model"`
	TotalTokens int       `json:"total_tokens"`
}

// Embed embeds a single chunk. Ingestion always uses document mode;
// embedding chunks in query mode would silently hurt retrieval quality.
func (h *IngestHandler) Embed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EmbedChunkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ChunkText == "" {
		handleError(w, ctx, &service.ValidationError{Field: "chunk_text", Message: "cannot be empty"})
		return
	}

	result, err := h.embedder.Embed(ctx, []string{req.ChunkText}, embedding.InputTypeDocument)
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

// InsertRequest carries an embedded chunk for persistence.
type InsertRequest struct {
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
	Source    string    `json:"source"`
	ChunkID   int       `json:"chunk_id"`
}

// InsertResponse echoes the stored document with its assigned identifier.
type InsertResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Source     string    `json:"source"`
	ChunkID    int       `json:"chunk_id"`
	UploadDate time.Time `json:"upload_date"`
}

// Insert persists one embedded chunk in the document store.
func (h *IngestHandler) Insert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch {
	case req.Text == "":
		handleError(w, ctx, &service.ValidationError{Field: "text", Message: "cannot be empty"})
		return
	case len(req.Embedding) == 0:
		handleError(w, ctx, &service.ValidationError{Field: "embedding", Message: "cannot be empty"})
		return
	case req.ChunkID < 1:
		handleError(w, ctx, &service.ValidationError{Field: "chunk_id", Message: "must be >= 1"})
		return
	}

	uploadDate := time.Now().UTC()
	id, err := h.documentStore.Insert(ctx, store.EmbeddedChunk{
		Text:       req.Text,
		Embedding:  req.Embedding,
		Source:     req.Source,
		ChunkID:    req.ChunkID,
		UploadDate: uploadDate,
	})
	if err != nil {
		handleError(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, InsertResponse{
		ID:         id,
		Text:       req.Text,
		Source:     req.Source,
		ChunkID:    req.ChunkID,
		UploadDate: uploadDate,
	})
}

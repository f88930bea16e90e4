package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source_store.go -package=mocks github.com/vavassoriluca/MongoDB-RAG/internal/storage SourceStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source records one ingested document: the uploaded filename, how many
// chunks it produced and when it arrived.
type Source struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SourceStore defines the interface for the source ledger.
type SourceStore interface {
	// Record adds a ledger entry for an ingested document and returns it
	// with its generated id.
	Record(ctx context.Context, name string, chunkCount int) (*Source, error)
	// ListAll returns all recorded sources, newest first.
	ListAll(ctx context.Context) ([]Source, error)
}

// SourceRepo implements SourceStore on SQLite.
type SourceRepo struct {
	db *sql.DB
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// Record adds a ledger entry for an ingested document.
func (r *SourceRepo) Record(ctx context.Context, name string, chunkCount int) (*Source, error) {
	source := &Source{
		ID:         uuid.NewString(),
		Name:       name,
		ChunkCount: chunkCount,
		UploadedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sources (id, name, chunk_count, uploaded_at) VALUES (?, ?, ?, ?)",
		source.ID, source.Name, source.ChunkCount, source.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record source: %w", err)
	}

	return source, nil
}

// ListAll returns all recorded sources, newest first.
func (r *SourceRepo) ListAll(ctx context.Context) ([]Source, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, chunk_count, uploaded_at FROM sources ORDER BY uploaded_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.ChunkCount, &s.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sources, nil
}

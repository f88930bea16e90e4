package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *SourceRepo {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewSourceRepo(db)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	for i := 0; i < 3; i++ {
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i, err)
		}
	}
}

func TestSourceRepo_RecordAndList(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	first, err := repo.Record(ctx, "animals.txt", 3)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first.ID == "" {
		t.Error("Record() should assign an id")
	}
	if first.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", first.ChunkCount)
	}

	if _, err := repo.Record(ctx, "plants.md", 12); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	sources, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("ListAll() returned %d sources, want 2", len(sources))
	}

	names := map[string]int{}
	for _, s := range sources {
		names[s.Name] = s.ChunkCount
	}
	if names["animals.txt"] != 3 || names["plants.md"] != 12 {
		t.Errorf("unexpected ledger contents: %v", sources)
	}
}

func TestSourceRepo_ListAll_Empty(t *testing.T) {
	repo := newTestDB(t)

	sources, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("ListAll() on empty ledger = %v, want empty", sources)
	}
}

func TestSourceRepo_SameNameRecordedTwice(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	// Re-ingesting a document appends a new entry rather than replacing;
	// the newest entry reflects the current state in the document store.
	if _, err := repo.Record(ctx, "doc.txt", 5); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := repo.Record(ctx, "doc.txt", 7); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	sources, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(sources) != 2 {
		t.Errorf("ListAll() returned %d entries, want 2", len(sources))
	}
}

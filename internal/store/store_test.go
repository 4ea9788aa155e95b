package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func newChunk(id, source, text string, page, seq int, vec []float32) models.EmbeddedChunk {
	return models.EmbeddedChunk{
		Chunk: models.Chunk{
			ID:             id,
			SourceDocument: source,
			PageNumber:     page,
			SequenceIndex:  seq,
			Text:           text,
			ContentHash:    "hash-" + id,
		},
		Embedding: vec,
	}
}

func TestStore_UpsertSearchCount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	s, err := Open(dbPath, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	batch := []models.EmbeddedChunk{
		newChunk("c1", "gcp.pdf", "vpc networking", 1, 0, []float32{1, 0, 0}),
		newChunk("c2", "gcp.pdf", "cloud run", 2, 0, []float32{0, 1, 0}),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatal(err)
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count=%d, want 2", count)
	}

	results, err := s.Search(ctx, []float32{1, 0, 0}, 5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result above floor, got %d", len(results))
	}
	r := results[0]
	if r.ID != "c1" || r.SourceDocument != "gcp.pdf" || r.PageNumber != 1 || r.Text != "vpc networking" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestStore_UpsertSameIDReplaces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	s, err := Open(dbPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Upsert(ctx, []models.EmbeddedChunk{newChunk("c1", "a.pdf", "v1", 1, 0, []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, []models.EmbeddedChunk{newChunk("c1", "a.pdf", "v2", 1, 0, []float32{0, 1})}); err != nil {
		t.Fatal(err)
	}
	count, _ := s.Count(ctx)
	if count != 1 {
		t.Errorf("replacing upsert should not grow the store: Count=%d", count)
	}
	results, err := s.Search(ctx, []float32{0, 1}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "v2" {
		t.Errorf("search should see the replaced content: %+v", results)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	ctx := context.Background()

	s, err := Open(dbPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	batch := []models.EmbeddedChunk{
		newChunk("first", "kb.pdf", "alpha", 1, 0, []float32{1, 0}),
		newChunk("second", "kb.pdf", "beta", 1, 1, []float32{1, 0}),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dbPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	count, _ := reopened.Count(ctx)
	if count != 2 {
		t.Fatalf("reopened Count=%d, want 2", count)
	}
	if reopened.IndexSize() != 2 {
		t.Errorf("reopened IndexSize=%d, want 2", reopened.IndexSize())
	}
	// Insertion-order tie-break must survive the restart.
	results, err := reopened.Search(ctx, []float32{1, 0}, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "first" || results[1].ID != "second" {
		t.Errorf("tie-break after reopen: %+v", results)
	}
}

func TestStore_CorruptEmbeddingFailsOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	ctx := context.Background()

	s, err := Open(dbPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, []models.EmbeddedChunk{newChunk("c1", "kb.pdf", "x", 1, 0, []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}
	// Truncate the stored embedding blob behind the store's back.
	if _, err := s.db.Exec("UPDATE chunks SET embedding = X'00'"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	if _, err := Open(dbPath, 2); err == nil {
		t.Fatal("open should fail on corrupt embedding blob")
	} else if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestStore_SearchEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "chunks.db"), 2)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	results, err := s.Search(context.Background(), []float32{1, 0}, 3, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("empty store should return empty, non-nil results: %v", results)
	}
}

func TestStore_DimensionMismatchOnUpsert(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "chunks.db"), 3)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	err = s.Upsert(context.Background(), []models.EmbeddedChunk{newChunk("c1", "kb.pdf", "x", 1, 0, []float32{1, 0})})
	if err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestStore_OpenCreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "chunks.db")
	s, err := Open(dbPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file should exist: %v", err)
	}
}

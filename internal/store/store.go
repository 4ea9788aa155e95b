// Package store provides the persistent chunk collection: SQLite for durability,
// an in-memory vector index for similarity search.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/vector"
)

// ErrCorrupt indicates the persisted collection cannot be trusted. Raised at
// open time so the process fails fast instead of serving empty results.
var ErrCorrupt = errors.New("persisted chunk collection corrupt")

// Store is the durable chunk collection. Upserts are keyed by chunk ID; the
// SQLite rowid records insertion order and survives replacement, which keeps
// search tie-breaking stable. The in-memory index mirrors committed rows only.
type Store struct {
	db         *sql.DB
	index      *vector.Index
	dimensions int
}

// Open opens or creates the collection at dbPath and loads all persisted
// embeddings into the in-memory index. Parent directories are created if
// needed. A malformed persisted row fails the open with ErrCorrupt.
func Open(dbPath string, dimensions int) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable WAL: %v", ErrCorrupt, err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", ErrCorrupt, err)
	}

	index, err := vector.NewIndex(dimensions)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, index: index, dimensions: dimensions}
	if err := s.loadIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		page INTEGER NOT NULL,
		seq_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		embedding BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
	`
	_, err := db.Exec(schema)
	return err
}

// loadIndex rebuilds the in-memory index from persisted rows, validating every
// embedding blob against the configured dimension.
func (s *Store) loadIndex() error {
	rows, err := s.db.Query("SELECT rowid, id, embedding FROM chunks ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("%w: read chunks: %v", ErrCorrupt, err)
	}
	defer rows.Close()

	var (
		ids  []string
		vecs [][]float32
		seqs []int64
	)
	for rows.Next() {
		var (
			rowid int64
			id    string
			blob  []byte
		)
		if err := rows.Scan(&rowid, &id, &blob); err != nil {
			return fmt.Errorf("%w: scan chunk row: %v", ErrCorrupt, err)
		}
		vec, err := bytesToVector(blob, s.dimensions)
		if err != nil {
			return fmt.Errorf("%w: chunk %s: %v", ErrCorrupt, id, err)
		}
		ids = append(ids, id)
		vecs = append(vecs, vec)
		seqs = append(seqs, rowid)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate chunks: %v", ErrCorrupt, err)
	}
	if len(ids) == 0 {
		return nil
	}
	return s.index.LoadBatch(ids, vecs, seqs)
}

// Upsert writes a batch of embedded chunks. Existing IDs are replaced in place
// (keeping their insertion rowid); new IDs append. The in-memory index is
// updated only after the transaction commits, so a concurrent Search never
// observes a half-written batch.
func (s *Store) Upsert(ctx context.Context, batch []models.EmbeddedChunk) error {
	if len(batch) == 0 {
		return nil
	}
	for i := range batch {
		if len(batch[i].Embedding) != s.dimensions {
			return fmt.Errorf("chunk %s: vector dimension mismatch: got %d, expected %d",
				batch[i].ID, len(batch[i].Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source, page, seq_index, content, content_hash, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			page = excluded.page,
			seq_index = excluded.seq_index,
			content = excluded.content,
			content_hash = excluded.content_hash,
			embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range batch {
		ch := &batch[i]
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.SourceDocument, ch.PageNumber,
			ch.SequenceIndex, ch.Text, ch.ContentHash, vectorToBytes(ch.Embedding)); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", ch.ID, err)
		}
	}

	// Rowids are assigned inside the transaction; read them back so the index
	// mirrors the persisted insertion order exactly.
	ids := make([]string, len(batch))
	vecs := make([][]float32, len(batch))
	seqs := make([]int64, len(batch))
	rowidStmt, err := tx.PrepareContext(ctx, "SELECT rowid FROM chunks WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare rowid lookup: %w", err)
	}
	defer rowidStmt.Close()
	for i := range batch {
		ids[i] = batch[i].ID
		vecs[i] = batch[i].Embedding
		if err := rowidStmt.QueryRowContext(ctx, batch[i].ID).Scan(&seqs[i]); err != nil {
			return fmt.Errorf("lookup rowid for %s: %w", batch[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return s.index.LoadBatch(ids, vecs, seqs)
}

// Search returns up to k chunks ranked by cosine similarity to query, filtered
// to score >= minScore. The result is never nil; empty means nothing relevant.
func (s *Store) Search(ctx context.Context, query []float32, k int, minScore float64) ([]models.ScoredChunk, error) {
	hits, err := s.index.Search(query, k, minScore)
	if err != nil {
		return nil, err
	}
	results := make([]models.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		var ch models.Chunk
		err := s.db.QueryRowContext(ctx,
			"SELECT id, source, page, seq_index, content, content_hash FROM chunks WHERE id = ?", hit.ID).
			Scan(&ch.ID, &ch.SourceDocument, &ch.PageNumber, &ch.SequenceIndex, &ch.Text, &ch.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("load chunk %s: %w", hit.ID, err)
		}
		results = append(results, models.ScoredChunk{Chunk: ch, Score: hit.Score})
	}
	return results, nil
}

// Count returns the number of distinct chunk IDs in the collection.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

// CountDocuments returns the number of distinct source documents.
func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT source) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// IndexSize returns the number of vectors currently searchable.
func (s *Store) IndexSize() int {
	return s.index.Size()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func vectorToBytes(v []float32) []byte {
	const size = 4
	out := make([]byte, len(v)*size)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(x))
	}
	return out
}

func bytesToVector(b []byte, dimensions int) ([]float32, error) {
	const size = 4
	if len(b) != dimensions*size {
		return nil, fmt.Errorf("embedding blob is %d bytes, expected %d", len(b), dimensions*size)
	}
	out := make([]float32, dimensions)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out, nil
}

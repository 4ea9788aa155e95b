// Package ingest provides document chunking and the memory-bounded ingestion pipeline.
package ingest

import (
	"github.com/hyperjump/kotae/internal/chunkid"
	"github.com/hyperjump/kotae/internal/models"
)

// Chunker splits page text into overlapping character-based passages.
// Lengths are measured in runes so multi-byte text never splits mid-character.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into Chunks with overlapping windows. A non-empty page
// shorter than the chunk size yields exactly one chunk; blank text yields
// none. Pure function: identical input always yields identical chunks, with
// IDs derived from (source, content hash).
func (c *Chunker) Chunk(source string, pageNumber int, text string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	chunks := make([]models.Chunk, 0)
	seq := 0
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunkText := string(runes[start:end])
		hash := chunkid.ContentHash(chunkText)
		chunks = append(chunks, models.Chunk{
			ID:             chunkid.ChunkID(source, hash),
			SourceDocument: source,
			PageNumber:     pageNumber,
			SequenceIndex:  seq,
			Text:           chunkText,
			ContentHash:    hash,
		})
		seq++
		if end >= len(runes) {
			break
		}
	}
	return chunks
}

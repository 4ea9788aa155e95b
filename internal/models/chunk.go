// Package models defines core data structures for chunks, sessions, and chat exchanges.
package models

// Chunk is a bounded passage of source text with provenance metadata.
// Immutable once created; ID is deterministic from (SourceDocument, ContentHash)
// so re-ingesting identical content replaces rather than duplicates.
type Chunk struct {
	ID             string `json:"id"`
	SourceDocument string `json:"source_document"`
	PageNumber     int    `json:"page_number"`
	SequenceIndex  int    `json:"sequence_index"`
	Text           string `json:"text"`
	ContentHash    string `json:"content_hash"`
}

// EmbeddedChunk is a Chunk together with its embedding vector.
type EmbeddedChunk struct {
	Chunk
	Embedding []float32 `json:"-"`
}

// ScoredChunk is a retrieval hit: a chunk and its cosine similarity to the query.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Citation identifies where a retrieved chunk came from.
type Citation struct {
	SourceDocument string `json:"source_document"`
	PageNumber     int    `json:"page_number"`
}

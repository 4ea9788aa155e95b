// Package chunkid derives deterministic identifiers for documents and chunks.
package chunkid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const (
	docPrefix   = "doc:"
	chunkPrefix = "chunk:"
)

// DocID returns a stable document identifier for the given path.
// Equivalent spellings of the same path yield the same ID.
func DocID(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return docPrefix + hex.EncodeToString(hash[:])
}

// ContentHash returns the sha256 hex digest of the chunk text.
func ContentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// ChunkID returns a stable chunk identifier derived from the source
// document's DocID and the chunk's content hash. Re-ingesting identical
// content from the same source yields the same ID, so upserts replace
// instead of accumulating, and equivalent path spellings key the same way.
func ChunkID(sourceDocument, contentHash string) string {
	hash := sha256.Sum256([]byte(DocID(sourceDocument) + "\x00" + contentHash))
	return chunkPrefix + hex.EncodeToString(hash[:])
}

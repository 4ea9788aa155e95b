// Package embedding provides text embedding for chunks and queries.
package embedding

import (
	"context"
	"errors"
)

// ErrModelUnavailable indicates the embedding model cannot be reached. Callers
// must surface this rather than substitute zero vectors.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Embedder produces fixed-dimension vector embeddings for text.
// EmbedBatch is order-preserving: one vector per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

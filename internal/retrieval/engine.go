// Package retrieval embeds queries and finds relevant chunks in the store.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
)

// ErrInvalidQuery is returned for empty or whitespace-only queries, before any
// embedding call is made.
var ErrInvalidQuery = errors.New("query is empty")

// Searcher is the similarity search surface the engine delegates to.
type Searcher interface {
	Search(ctx context.Context, query []float32, k int, minScore float64) ([]models.ScoredChunk, error)
}

// Engine retrieves the chunks most similar to a natural-language query.
type Engine struct {
	embedder embedding.Embedder
	store    Searcher
}

// NewEngine creates a retrieval engine with the given dependencies.
func NewEngine(embedder embedding.Embedder, store Searcher) *Engine {
	return &Engine{embedder: embedder, store: store}
}

// Retrieve embeds query and returns up to k chunks scoring at least minScore,
// descending by score. An empty result means no relevant context exists; it is
// a first-class outcome, never nil and never an error.
func (e *Engine) Retrieve(ctx context.Context, query string, k int, minScore float64) ([]models.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := e.store.Search(ctx, vec, k, minScore)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}
	if results == nil {
		results = []models.ScoredChunk{}
	}
	return results, nil
}

package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
)

// fixedSearcher returns canned results filtered by k and minScore.
type fixedSearcher struct {
	results []models.ScoredChunk
	calls   int
}

func (f *fixedSearcher) Search(ctx context.Context, query []float32, k int, minScore float64) ([]models.ScoredChunk, error) {
	f.calls++
	out := []models.ScoredChunk{}
	for _, r := range f.results {
		if r.Score >= minScore && len(out) < k {
			out = append(out, r)
		}
	}
	return out, nil
}

func scored(id string, score float64) models.ScoredChunk {
	return models.ScoredChunk{Chunk: models.Chunk{ID: id, Text: id}, Score: score}
}

func TestEngine_RejectsBlankQueryBeforeEmbedding(t *testing.T) {
	embedder := embedding.NewMockEmbedder(8)
	engine := NewEngine(embedder, &fixedSearcher{})
	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := engine.Retrieve(context.Background(), q, 3, 0.2)
		if !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("query %q: expected ErrInvalidQuery, got %v", q, err)
		}
	}
	if embedder.Calls() != 0 {
		t.Errorf("blank queries must not reach the embedder, saw %d calls", embedder.Calls())
	}
}

func TestEngine_FiltersBySimilarityFloor(t *testing.T) {
	searcher := &fixedSearcher{results: []models.ScoredChunk{
		scored("relevant", 0.81),
		scored("noise1", 0.05),
		scored("noise2", 0.05),
	}}
	engine := NewEngine(embedding.NewMockEmbedder(8), searcher)
	results, err := engine.Retrieve(context.Background(), "What is a VPC?", 3, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "relevant" {
		t.Errorf("expected exactly the one relevant chunk, got %+v", results)
	}
}

func TestEngine_NoRelevantContextIsEmptyNotError(t *testing.T) {
	searcher := &fixedSearcher{results: []models.ScoredChunk{scored("noise", 0.01)}}
	engine := NewEngine(embedding.NewMockEmbedder(8), searcher)
	results, err := engine.Retrieve(context.Background(), "unrelated question", 5, 0.5)
	if err != nil {
		t.Fatalf("no relevant context must not be an error: %v", err)
	}
	if results == nil {
		t.Fatal("result must be empty, not nil")
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestEngine_EmbedderFailurePropagates(t *testing.T) {
	embedder := embedding.NewMockEmbedder(8)
	embedder.FailWith(embedding.ErrModelUnavailable)
	engine := NewEngine(embedder, &fixedSearcher{})
	_, err := engine.Retrieve(context.Background(), "valid question", 3, 0.2)
	if !errors.Is(err, embedding.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

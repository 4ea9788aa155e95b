package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/hyperjump/kotae/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests. The same text always
// gets the same unit-length vector, derived from its hash. It records batch
// sizes so tests can assert memory-bound batching.
type MockEmbedder struct {
	dimensions int

	mu         sync.Mutex
	batchSizes []int
	calls      int
	fail       error
}

// NewMockEmbedder returns a deterministic embedder of the given dimension.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 8
	}
	return &MockEmbedder{dimensions: dimensions}
}

// FailWith makes all subsequent calls return err.
func (e *MockEmbedder) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail = err
}

// Embed returns a deterministic unit-length embedding for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds each text deterministically and records the batch size.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.batchSizes = append(e.batchSizes, len(texts))
	fail := e.fail
	e.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text, e.dimensions)
	}
	return out, nil
}

// Calls returns how many EmbedBatch calls have been made.
func (e *MockEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// BatchSizes returns the size of every batch seen so far.
func (e *MockEmbedder) BatchSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int, len(e.batchSizes))
	copy(out, e.batchSizes)
	return out
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}

func hashVector(text string, dimensions int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	vec := make([]float32, dimensions)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(seed%10007)*float64(i+1))*0.1 + 0.01)
	}
	utils.NormalizeL2(vec)
	return vec
}

var _ Embedder = (*MockEmbedder)(nil)

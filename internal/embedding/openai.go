package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultQueryCacheSize = 1024

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API.
// Batches are capped at batchSize per request to bound peak memory; larger
// inputs are split into consecutive requests, preserving input order.
type OpenAIEmbedder struct {
	client     openai.Client
	model      string
	dimensions int
	batchSize  int
	queryCache *Cache
}

// NewOpenAIEmbedder creates an embedder for the given model and dimension.
// batchSize caps texts per API request; values below 1 default to 50.
func NewOpenAIEmbedder(apiKey, model string, dimensions, batchSize int) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key not set")
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		dimensions: dimensions,
		batchSize:  batchSize,
		queryCache: NewCache(defaultQueryCacheSize),
	}, nil
}

// Embed returns the embedding for a single text, consulting the query cache
// first. Identical text always yields an identical vector.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.queryCache.Get(text); ok {
		return vec, nil
	}
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	e.queryCache.Set(text, vecs[0])
	return vecs[0], nil
}

// EmbedBatch embeds texts in request-sized batches, one vector per input in
// input order. API transport failures surface as ErrModelUnavailable.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embedRequest(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) embedRequest(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Dimensions: openai.Int(int64(e.dimensions)),
	}
	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d texts", len(resp.Data), len(texts))
	}
	vecs := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		if len(vec) != e.dimensions {
			return nil, fmt.Errorf("embedding dimension %d, expected %d", len(vec), e.dimensions)
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the API client holds no local resources.
func (e *OpenAIEmbedder) Close() error {
	return nil
}

var _ Embedder = (*OpenAIEmbedder)(nil)

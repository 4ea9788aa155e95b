package llm

import (
	"context"
	"errors"
)

// DisabledClient stands in when no API credentials are configured. Every
// completion fails, so chat requests surface a synthesis error while
// ingestion and retrieval keep working.
type DisabledClient struct{}

// NewDisabledClient returns a client whose completions always fail.
func NewDisabledClient() *DisabledClient {
	return &DisabledClient{}
}

func (*DisabledClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	return "", errors.New("completions disabled: OPENAI_API_KEY is not set")
}

// Package llm provides the chat completion client used for answer synthesis.
package llm

import (
	"context"
	"errors"
)

// Classified completion failures. The synthesizer's retry policy keys off these.
var (
	ErrRateLimited = errors.New("completion rate limited")
	ErrTimeout     = errors.New("completion timed out")
	ErrService     = errors.New("completion service error")
)

// Client produces a text completion for a fully assembled prompt.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

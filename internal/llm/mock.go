package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted completion client for tests. Responses and errors
// are consumed in order; when the script runs out, the last entry repeats.
type MockClient struct {
	mu      sync.Mutex
	script  []Reply
	calls   int
	prompts []string
}

// Reply is one scripted completion outcome.
type Reply struct {
	Text string
	Err  error
}

// NewMockClient returns a client that replays the given script.
func NewMockClient(script ...Reply) *MockClient {
	return &MockClient{script: script}
}

// Complete returns the next scripted reply and records the prompt.
func (m *MockClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	i := m.calls
	m.calls++
	if len(m.script) == 0 {
		return "", nil
	}
	if i >= len(m.script) {
		i = len(m.script) - 1
	}
	return m.script[i].Text, m.script[i].Err
}

// Calls returns how many completions were requested.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns every prompt seen, in order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

var _ Client = (*MockClient)(nil)

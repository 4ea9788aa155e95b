package llm

import (
	"context"
	"testing"
)

func TestDisabledClient_CompleteAlwaysFails(t *testing.T) {
	client := NewDisabledClient()
	answer, err := client.Complete(context.Background(), "any prompt", 100, 0)
	if err == nil {
		t.Fatal("expected error from disabled client")
	}
	if answer != "" {
		t.Errorf("expected empty answer, got %q", answer)
	}
}

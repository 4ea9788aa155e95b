package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()
	a1, err := e.Embed(ctx, "what is a vpc")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := e.Embed(ctx, "what is a vpc")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("same text should embed identically, differs at %d", i)
		}
	}
	b, _ := e.Embed(ctx, "something else")
	same := true
	for i := range a1 {
		if a1[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should embed differently")
	}
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	e := NewMockEmbedder(32)
	vec, err := e.Embed(context.Background(), "cloud run")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("embedding should be unit length, norm=%f", math.Sqrt(sum))
	}
}

func TestMockEmbedder_BatchOrderPreserving(t *testing.T) {
	e := NewMockEmbedder(8)
	ctx := context.Background()
	texts := []string{"alpha", "beta", "gamma"}
	batch, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(batch))
	}
	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch vector %d should match single embed of %q", i, text)
			}
		}
	}
}

func TestMockEmbedder_FailWith(t *testing.T) {
	e := NewMockEmbedder(8)
	e.FailWith(ErrModelUnavailable)
	_, err := e.Embed(context.Background(), "x")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestCache_GetSet(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	if v, ok := c.Get("a"); !ok || v[0] != 1 {
		t.Errorf("Get(a)=%v,%v", v, ok)
	}
	// "a" was just touched, so adding "c" evicts "b".
	c.Set("c", []float32{3})
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len=%d, want 2", c.Len())
	}
}

package braid

import (
	"context"
	"testing"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	embedder := NewHashEmbedder(16)
	ctx := context.Background()

	a, err := embedder.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	b, err := embedder.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	if len(a) != 16 {
		t.Errorf("expected dimension 16, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text should produce the same vector")
		}
		if a[i] < -1 || a[i] > 1 {
			t.Errorf("bucket %d out of range: %f", i, a[i])
		}
	}
}

func TestHashEmbedderEmptyText(t *testing.T) {
	embedder := NewHashEmbedder(8)

	vec, err := embedder.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Errorf("empty text should yield a zero vector, bucket %d = %f", i, v)
		}
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	embedder := NewHashEmbedder(16)
	ctx := context.Background()

	a, _ := embedder.Embed(ctx, "alpha")
	b, _ := embedder.Embed(ctx, "omega")

	if sim := cosineSimilarity(a, a); sim != 1 {
		t.Errorf("self similarity should be 1, got %f", sim)
	}
	if sim := cosineSimilarity(a, b); sim < 0 || sim > 1 {
		t.Errorf("similarity out of bounds: %f", sim)
	}

	zero := make([]float32, 16)
	if sim := cosineSimilarity(zero, a); sim != 0 {
		t.Errorf("zero vector similarity should be 0, got %f", sim)
	}
	if sim := cosineSimilarity(a, a[:8]); sim != 0 {
		t.Errorf("mismatched lengths should score 0, got %f", sim)
	}
	if sim := cosineSimilarity(nil, nil); sim != 0 {
		t.Errorf("nil vectors should score 0, got %f", sim)
	}
}

func TestSimilarityCacheConsistency(t *testing.T) {
	cfg := DefaultConfig().withDefaults()
	scorer := newConnectionScorer(cfg)
	ctx := context.Background()

	va, _ := cfg.Embedder.Embed(ctx, "shared topic one")
	vb, _ := cfg.Embedder.Embed(ctx, "shared topic two")
	scorer.setEmbedding("a", va)
	scorer.setEmbedding("b", vb)

	first := scorer.similarity("a", "b")
	second := scorer.similarity("b", "a")
	if first != second {
		t.Errorf("pair cache should be order-insensitive: %f vs %f", first, second)
	}
	if scorer.similarity("a", "a") != 1 {
		t.Error("known message self-similarity should be 1")
	}
	if scorer.similarity("a", "missing") != 0 {
		t.Error("unknown message should score 0")
	}
}

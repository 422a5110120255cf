package braid

import (
	"context"
	"crypto/sha256"
	"math"
)

// Embedder turns free text into a fixed-length vector. The braider treats
// it as an opaque capability so a real embedding model can be substituted
// without touching the scorer or thread manager.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding dimension.
	Dimension() int
}

// DefaultEmbeddingDim is the bucket count for the hash embedder.
const DefaultEmbeddingDim = 16

// HashEmbedder derives a deterministic vector from a SHA-256 digest of the
// text, sliced into buckets in [-1, 1]. It captures exact and near-exact
// textual identity only, not meaning: the same text always maps to the
// same vector, unrelated texts land near-orthogonal.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a hash embedder with the given bucket count.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultEmbeddingDim
	}
	return &HashEmbedder{dimension: dimension}
}

// Embed returns the bucketed digest vector. Empty text yields a zero
// vector so it carries no similarity weight anywhere.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	if text == "" {
		return vec, nil
	}
	sum := sha256.Sum256([]byte(text))
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)])/127.5 - 1
	}
	return vec, nil
}

// Dimension returns the embedding dimension.
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// cosineSimilarity calculates the cosine similarity between two vectors,
// clamped to [0, 1]. Mismatched lengths and zero-norm vectors score 0
// rather than erroring so a bad embedding degrades toward "unrelated".
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
